package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/hyperjump/moyu/internal/models"
)

// GeminiProvider generates through the Gemini API.
type GeminiProvider struct {
	client    *genai.Client
	model     string
	maxTokens int
}

// NewGemini creates the Gemini provider. baseURL overrides the API endpoint
// and may be empty.
func NewGemini(ctx context.Context, apiKey, model, baseURL string, maxTokens int) (*GeminiProvider, error) {
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: model, maxTokens: maxTokens}, nil
}

// Name returns "gemini".
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Generate sends the user message with the system prompt as the system
// instruction and concatenates the text parts of the first candidate.
func (p *GeminiProvider) Generate(ctx context.Context, prompt *Prompt) (*Generation, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		MaxOutputTokens:   int32(p.maxTokens),
	}
	content := genai.NewContentFromText(prompt.User, genai.RoleUser)
	resp, err := p.client.Models.GenerateContent(ctx, p.model, []*genai.Content{content}, cfg)
	if err != nil {
		return nil, classify(ctx, p.Name(), err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("%w: gemini returned no candidates", models.ErrUpstreamRejected)
	}

	var result strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			result.WriteString(part.Text)
		}
	}
	return &Generation{Text: result.String(), Model: LabelGemini, Provider: p.Name()}, nil
}
