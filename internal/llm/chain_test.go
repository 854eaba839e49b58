package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hyperjump/moyu/internal/config"
	"github.com/hyperjump/moyu/internal/metrics"
	"github.com/hyperjump/moyu/internal/models"
)

type stubGenerator struct {
	name  string
	text  string
	err   error
	calls int
}

func (s *stubGenerator) Name() string { return s.name }

func (s *stubGenerator) Generate(ctx context.Context, p *Prompt) (*Generation, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &Generation{Text: s.text, Model: s.name + "-model", Provider: s.name}, nil
}

func TestChain_FirstSuccessWins(t *testing.T) {
	first := &stubGenerator{name: "anthropic", text: "a"}
	second := &stubGenerator{name: "openai", text: "b"}
	chain := NewChain([]Generator{first, nil, second}, WithLogger(zap.NewNop()))

	gen, err := chain.Generate(context.Background(), &Prompt{})
	require.NoError(t, err)
	assert.Equal(t, "a", gen.Text)
	assert.Equal(t, 0, second.calls)
	assert.Equal(t, []string{"anthropic", "openai"}, chain.Providers())
}

func TestChain_FallsThrough(t *testing.T) {
	m := metrics.New()
	first := &stubGenerator{name: "anthropic", err: fmt.Errorf("%w: boom", models.ErrUpstreamRejected)}
	second := &stubGenerator{name: "openai", text: "대답"}
	chain := NewChain([]Generator{first, second}, WithMetrics(m))

	gen, err := chain.Generate(context.Background(), &Prompt{})
	require.NoError(t, err)
	assert.Equal(t, "대답", gen.Text)
	assert.Equal(t, "openai-model", gen.Model)
	assert.Equal(t, 1, first.calls)

	assert.Equal(t, 2, testutil.CollectAndCount(m.Collectors()[5]))
}

func TestChain_AllFailReturnsLast(t *testing.T) {
	errA := errors.New("a failed")
	errB := fmt.Errorf("%w: b failed", models.ErrUpstreamRejected)
	chain := NewChain([]Generator{&stubGenerator{name: "a", err: errA}, &stubGenerator{name: "b", err: errB}})

	_, err := chain.Generate(context.Background(), &Prompt{})
	assert.ErrorIs(t, err, models.ErrUpstreamRejected)
	assert.Contains(t, err.Error(), "b failed")
}

func TestChain_Empty(t *testing.T) {
	_, err := NewChain(nil).Generate(context.Background(), &Prompt{})
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
	assert.Contains(t, err.Error(), "No AI API configured")
}

func TestChain_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := &stubGenerator{name: "a", text: "x"}
	_, err := NewChain([]Generator{g}).Generate(ctx, &Prompt{})
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
	assert.Equal(t, 0, g.calls)
}

func TestNewFromConfig(t *testing.T) {
	cfg := &config.LLMConfig{
		Providers:      []string{config.ProviderAnthropic, config.ProviderOpenAI, config.ProviderGemini},
		OpenAIAPIKey:   "sk-test",
		OpenAIModel:    "gpt-4o-mini",
		AnthropicModel: "claude-3-haiku-20240307",
		MaxTokens:      1024,
	}
	chain, err := NewFromConfig(context.Background(), cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"openai"}, chain.Providers())

	cfg.Providers = []string{"cohere"}
	_, err = NewFromConfig(context.Background(), cfg, zap.NewNop(), nil)
	assert.Error(t, err)

	none, err := NewFromConfig(context.Background(), &config.LLMConfig{Providers: []string{config.ProviderGemini}}, zap.NewNop(), nil)
	require.NoError(t, err)
	assert.Empty(t, none.Providers())
}
