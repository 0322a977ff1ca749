package ai

import (
	"context"
	"strings"
)

// Registry routes generation requests to a named provider, falling back
// to the configured default when no service is requested.
type Registry struct {
	providers   map[string]Provider
	defaultName string
}

func NewRegistry(defaultName string, providers ...Provider) *Registry {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	if _, ok := byName[defaultName]; !ok && len(providers) > 0 {
		defaultName = providers[0].Name()
	}
	return &Registry{providers: byName, defaultName: defaultName}
}

// Generate routes to the named provider. An empty service uses the
// default; "claude" is accepted as an alias for anthropic.
func (r *Registry) Generate(ctx context.Context, service, prompt string, promptContext map[string]any) (*Result, error) {
	name := strings.ToLower(strings.TrimSpace(service))
	switch name {
	case "":
		name = r.defaultName
	case "claude":
		name = "anthropic"
	}

	provider, ok := r.providers[name]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return provider.Generate(ctx, prompt, promptContext)
}

// Default generates with the configured default provider.
func (r *Registry) Default(ctx context.Context, prompt string, promptContext map[string]any) (*Result, error) {
	return r.Generate(ctx, "", prompt, promptContext)
}
