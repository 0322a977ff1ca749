package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const anthropicEndpoint = "https://api.anthropic.com/v1/messages"

const anthropicSystemPrompt = `You are an AI assistant for enterprise
resource planning. Analyze business data and provide strategic
recommendations for financial optimization, operational efficiency,
market trends, resource allocation and performance improvement.`

// Anthropic calls the messages API.
type Anthropic struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewAnthropic(apiKey string, client *http.Client) *Anthropic {
	return &Anthropic{apiKey: apiKey, endpoint: anthropicEndpoint, client: client}
}

func (p *Anthropic) Name() string { return "anthropic" }

func (p *Anthropic) Generate(ctx context.Context, prompt string, promptContext map[string]any) (*Result, error) {
	if strings.TrimSpace(p.apiKey) == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(map[string]any{
		"model":      "claude-3-sonnet-20240229",
		"max_tokens": 1000,
		"system":     anthropicSystemPrompt,
		"messages": []map[string]string{
			{"role": "user", "content": fmt.Sprintf("Business Context: %s\n\nRequest: %s", encodeContext(promptContext), prompt)},
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Provider: p.Name(), StatusCode: resp.StatusCode}
	}

	var out struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Content) == 0 {
		return nil, &UpstreamError{Provider: p.Name(), StatusCode: resp.StatusCode}
	}

	return &Result{
		Response: out.Content[0].Text,
		Service:  p.Name(),
		Model:    "claude-3-sonnet",
	}, nil
}
