package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/hyperjump/moyu/internal/models"
)

// fakeModel is an llms.Model that records its input and returns a canned reply.
type fakeModel struct {
	reply    *llms.ContentResponse
	err      error
	messages []llms.MessageContent
	opts     llms.CallOptions
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, o := range options {
		o(&f.opts)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func textOf(t *testing.T, m llms.MessageContent) string {
	t.Helper()
	require.Len(t, m.Parts, 1)
	part, ok := m.Parts[0].(llms.TextContent)
	require.True(t, ok)
	return part.Text
}

func TestLangChainProvider_Generate(t *testing.T) {
	model := &fakeModel{reply: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "자주 물려 주세요."}}}}
	p := NewLangChainProvider("anthropic", LabelAnthropic, model, 1024)

	gen, err := p.Generate(context.Background(), &Prompt{System: "sys", User: "usr"})
	require.NoError(t, err)
	assert.Equal(t, "자주 물려 주세요.", gen.Text)
	assert.Equal(t, "claude-3-haiku", gen.Model)
	assert.Equal(t, "anthropic", gen.Provider)

	require.Len(t, model.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, "sys", textOf(t, model.messages[0]))
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)
	assert.Equal(t, "usr", textOf(t, model.messages[1]))
	assert.Equal(t, 1024, model.opts.MaxTokens)
}

func TestLangChainProvider_Errors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		p := NewLangChainProvider("openai", LabelOpenAI, &fakeModel{err: errors.New("401 unauthorized")}, 10)
		_, err := p.Generate(context.Background(), &Prompt{})
		assert.ErrorIs(t, err, models.ErrUpstreamRejected)
		assert.Contains(t, err.Error(), "openai API failed")
	})

	t.Run("no choices", func(t *testing.T) {
		p := NewLangChainProvider("openai", LabelOpenAI, &fakeModel{reply: &llms.ContentResponse{}}, 10)
		_, err := p.Generate(context.Background(), &Prompt{})
		assert.ErrorIs(t, err, models.ErrUpstreamRejected)
	})

	t.Run("deadline", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()
		<-ctx.Done()
		p := NewLangChainProvider("anthropic", LabelAnthropic, &fakeModel{err: ctx.Err()}, 10)
		_, err := p.Generate(ctx, &Prompt{})
		assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
	})
}

func TestNewProviders(t *testing.T) {
	a, err := NewAnthropic("test-key", "claude-3-haiku-20240307", 1024)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", a.Name())

	o, err := NewOpenAI("test-key", "gpt-4o-mini", "http://localhost:1/v1", 1024)
	require.NoError(t, err)
	assert.Equal(t, "openai", o.Name())
}
