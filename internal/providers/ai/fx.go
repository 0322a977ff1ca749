package ai

import (
	"net/http"

	"github.com/geliahq/gelia/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewFromConfig wires one adapter per configured key. Providers without
// a key are still registered; they fail with ErrNotConfigured so the
// caller gets a clear error rather than a missing route.
func NewFromConfig(cfg config.Config, log *zap.Logger) *Registry {
	client := &http.Client{Timeout: cfg.AI.Timeout}

	if cfg.AI.OpenAIKey == "" && cfg.AI.AnthropicKey == "" && cfg.AI.GeminiKey == "" {
		log.Named("ai").Warn("no ai provider keys configured, generation endpoints will fail")
	}

	return NewRegistry(cfg.AI.DefaultProvider,
		NewOpenAI(cfg.AI.OpenAIKey, client),
		NewAnthropic(cfg.AI.AnthropicKey, client),
		NewGemini(cfg.AI.GeminiKey, client),
	)
}

var Module = fx.Module("providers.ai",
	fx.Provide(NewFromConfig),
)
