package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIGenerate(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"cut costs"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAI("sk-test", srv.Client())
	p.endpoint = srv.URL

	result, err := p.Generate(context.Background(), "how to save money", map[string]any{"module": "finance"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Response != "cut costs" || result.Service != "openai" || result.Model != "gpt-4" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
}

func TestOpenAIUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewOpenAI("sk-test", srv.Client())
	p.endpoint = srv.URL

	_, err := p.Generate(context.Background(), "prompt", nil)
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Provider != "openai" || upstream.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("unexpected upstream error: %+v", upstream)
	}
}

func TestOpenAIEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	p := NewOpenAI("sk-test", srv.Client())
	p.endpoint = srv.URL

	var upstream *UpstreamError
	if _, err := p.Generate(context.Background(), "prompt", nil); !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError for empty choices, got %v", err)
	}
}

func TestProvidersRequireKey(t *testing.T) {
	providers := []Provider{
		NewOpenAI("", http.DefaultClient),
		NewAnthropic("  ", http.DefaultClient),
		NewGemini("", http.DefaultClient),
	}
	for _, p := range providers {
		if _, err := p.Generate(context.Background(), "prompt", nil); !errors.Is(err, ErrNotConfigured) {
			t.Fatalf("%s: expected ErrNotConfigured, got %v", p.Name(), err)
		}
	}
}

func TestAnthropicGenerate(t *testing.T) {
	var gotKey, gotVersion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		w.Write([]byte(`{"content":[{"text":"expand north"}]}`))
	}))
	defer srv.Close()

	p := NewAnthropic("ak-test", srv.Client())
	p.endpoint = srv.URL

	result, err := p.Generate(context.Background(), "where to expand", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Response != "expand north" || result.Service != "anthropic" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if gotKey != "ak-test" || gotVersion != "2023-06-01" {
		t.Fatalf("headers = %q / %q", gotKey, gotVersion)
	}
}

func TestGeminiGenerate(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"restock sooner"}]}}]}`))
	}))
	defer srv.Close()

	p := NewGemini("gk-test", srv.Client())
	p.endpoint = srv.URL

	result, err := p.Generate(context.Background(), "inventory advice", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Response != "restock sooner" || result.Model != "gemini-pro" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if gotKey != "gk-test" {
		t.Fatalf("query key = %q", gotKey)
	}
}

type stubProvider struct {
	name string
	last string
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Generate(_ context.Context, prompt string, _ map[string]any) (*Result, error) {
	p.last = prompt
	return &Result{Response: "ok", Service: p.name}, nil
}

func TestRegistryRouting(t *testing.T) {
	openai := &stubProvider{name: "openai"}
	anthropic := &stubProvider{name: "anthropic"}
	registry := NewRegistry("openai", openai, anthropic)
	ctx := context.Background()

	result, err := registry.Generate(ctx, "", "default prompt", nil)
	if err != nil {
		t.Fatalf("generate default: %v", err)
	}
	if result.Service != "openai" {
		t.Fatalf("default routed to %q", result.Service)
	}

	// "claude" aliases the anthropic adapter.
	result, err = registry.Generate(ctx, "Claude", "alias prompt", nil)
	if err != nil {
		t.Fatalf("generate alias: %v", err)
	}
	if result.Service != "anthropic" || anthropic.last != "alias prompt" {
		t.Fatalf("alias routed to %q", result.Service)
	}

	if _, err := registry.Generate(ctx, "bard", "prompt", nil); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestRegistryFallbackDefault(t *testing.T) {
	anthropic := &stubProvider{name: "anthropic"}
	// Configured default has no adapter; the first registered one wins.
	registry := NewRegistry("openai", anthropic)

	result, err := registry.Default(context.Background(), "prompt", nil)
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if result.Service != "anthropic" {
		t.Fatalf("fallback routed to %q", result.Service)
	}
}

func TestEncodeContext(t *testing.T) {
	if got := encodeContext(nil); got != "{}" {
		t.Fatalf("encodeContext(nil) = %q", got)
	}
	if got := encodeContext(map[string]any{"module": "finance"}); got != `{"module":"finance"}` {
		t.Fatalf("encodeContext = %q", got)
	}
}
