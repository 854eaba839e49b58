package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/moyu/internal/config"
	"github.com/hyperjump/moyu/internal/metrics"
)

// NewFromConfig builds a Chain from cfg.Providers in order. Providers without
// an API key are skipped.
func NewFromConfig(ctx context.Context, cfg *config.LLMConfig, logger *zap.Logger, m *metrics.Metrics) (*Chain, error) {
	var providers []Generator
	for _, name := range cfg.Providers {
		var (
			g   Generator
			err error
		)
		switch name {
		case config.ProviderAnthropic:
			if cfg.AnthropicAPIKey == "" {
				break
			}
			g, err = NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.MaxTokens)
		case config.ProviderOpenAI:
			if cfg.OpenAIAPIKey == "" {
				break
			}
			g, err = NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.MaxTokens)
		case config.ProviderGemini:
			if cfg.GeminiAPIKey == "" {
				break
			}
			g, err = NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, "", cfg.MaxTokens)
		default:
			return nil, fmt.Errorf("unknown llm provider: %s", name)
		}
		if err != nil {
			return nil, err
		}
		if g == nil {
			m.ObserveGeneration(name, metrics.OutcomeSkipped, 0)
			logger.Debug("generation provider not configured", zap.String("provider", name))
			continue
		}
		providers = append(providers, g)
	}
	return NewChain(providers, WithLogger(logger), WithMetrics(m)), nil
}
