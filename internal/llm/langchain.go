package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/hyperjump/moyu/internal/models"
)

// Model labels returned to clients.
const (
	LabelAnthropic = "claude-3-haiku"
	LabelOpenAI    = "gpt-4o-mini"
	LabelGemini    = "gemini"
)

// LangChainProvider generates through any langchaingo chat model.
type LangChainProvider struct {
	name      string
	label     string
	model     llms.Model
	maxTokens int
}

// NewLangChainProvider wraps model. name identifies the provider in logs and
// metrics; label is reported to clients.
func NewLangChainProvider(name, label string, model llms.Model, maxTokens int) *LangChainProvider {
	return &LangChainProvider{name: name, label: label, model: model, maxTokens: maxTokens}
}

// NewAnthropic creates the Anthropic provider.
func NewAnthropic(apiKey, model string, maxTokens int) (*LangChainProvider, error) {
	client, err := anthropic.New(
		anthropic.WithToken(apiKey),
		anthropic.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create anthropic client: %w", err)
	}
	return NewLangChainProvider("anthropic", LabelAnthropic, client, maxTokens), nil
}

// NewOpenAI creates the OpenAI provider. baseURL may be empty.
func NewOpenAI(apiKey, model, baseURL string, maxTokens int) (*LangChainProvider, error) {
	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}
	return NewLangChainProvider("openai", LabelOpenAI, client, maxTokens), nil
}

// Name returns the provider name.
func (p *LangChainProvider) Name() string {
	return p.name
}

// Generate sends the system and user messages and returns the first choice.
func (p *LangChainProvider) Generate(ctx context.Context, prompt *Prompt) (*Generation, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(prompt.System)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt.User)},
		},
	}
	resp, err := p.model.GenerateContent(ctx, content, llms.WithMaxTokens(p.maxTokens))
	if err != nil {
		return nil, classify(ctx, p.name, err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return nil, fmt.Errorf("%w: %s returned no choices", models.ErrUpstreamRejected, p.name)
	}
	return &Generation{Text: resp.Choices[0].Content, Model: p.label, Provider: p.name}, nil
}

// classify maps a provider error onto the upstream taxonomy. Cancellation
// and deadlines count as unavailability; everything else as a rejection.
func classify(ctx context.Context, provider string, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s: %v", models.ErrUpstreamUnavailable, provider, err)
	}
	return fmt.Errorf("%w: %s API failed: %v", models.ErrUpstreamRejected, provider, err)
}
