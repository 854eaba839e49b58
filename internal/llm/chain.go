package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/moyu/internal/metrics"
	"github.com/hyperjump/moyu/internal/models"
)

// Chain tries its providers in order and returns the first answer. A failing
// provider falls through to the next one.
type Chain struct {
	providers []Generator
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithLogger sets the chain logger.
func WithLogger(l *zap.Logger) ChainOption {
	return func(c *Chain) { c.logger = l }
}

// WithMetrics records one observation per provider attempt.
func WithMetrics(m *metrics.Metrics) ChainOption {
	return func(c *Chain) { c.metrics = m }
}

// NewChain creates a chain over providers. Nil providers are ignored.
func NewChain(providers []Generator, opts ...ChainOption) *Chain {
	c := &Chain{logger: zap.NewNop()}
	for _, p := range providers {
		if p != nil {
			c.providers = append(c.providers, p)
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns "chain".
func (c *Chain) Name() string {
	return "chain"
}

// Providers returns the provider names in order.
func (c *Chain) Providers() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Generate returns the first successful generation. With no providers it
// fails with ErrUpstreamUnavailable; when all fail, the last error is returned.
func (c *Chain) Generate(ctx context.Context, p *Prompt) (*Generation, error) {
	if len(c.providers) == 0 {
		return nil, fmt.Errorf("%w: No AI API configured", models.ErrUpstreamUnavailable)
	}
	var lastErr error
	for _, provider := range c.providers {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
			}
			break
		}
		start := time.Now()
		gen, err := provider.Generate(ctx, p)
		elapsed := time.Since(start)
		if err != nil {
			c.metrics.ObserveGeneration(provider.Name(), metrics.OutcomeError, elapsed.Seconds())
			c.logger.Warn("generation provider failed",
				zap.String("provider", provider.Name()),
				zap.Duration("elapsed", elapsed),
				zap.Error(err))
			lastErr = err
			continue
		}
		c.metrics.ObserveGeneration(provider.Name(), metrics.OutcomeSuccess, elapsed.Seconds())
		c.logger.Debug("generation complete",
			zap.String("provider", provider.Name()),
			zap.String("model", gen.Model),
			zap.Duration("elapsed", elapsed))
		return gen, nil
	}
	return nil, lastErr
}
