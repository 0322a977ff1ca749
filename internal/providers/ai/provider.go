// Package ai adapts external language-model APIs behind one Provider
// interface. Adapters are thin HTTP clients; prompt construction and
// persistence live with the callers.
package ai

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned when the selected provider has no
	// API key.
	ErrNotConfigured = errors.New("ai: provider not configured")
	// ErrUnknownProvider is returned for a service name no adapter
	// handles.
	ErrUnknownProvider = errors.New("ai: unknown provider")
)

// UpstreamError reports a non-success response from the provider API.
type UpstreamError struct {
	Provider   string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("ai: %s upstream returned status %d", e.Provider, e.StatusCode)
}

// Result is a completed generation.
type Result struct {
	Response string `json:"response"`
	Service  string `json:"service"`
	Model    string `json:"model"`
}

// Provider generates a completion for a business prompt. Implementations
// must honor context cancellation and their configured timeout.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string, promptContext map[string]any) (*Result, error)
}
