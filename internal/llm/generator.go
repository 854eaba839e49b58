// Package llm generates companion answers through a chain of hosted model
// providers.
package llm

import "context"

// Generation is a provider's answer and the model label reported to clients.
type Generation struct {
	Text     string
	Model    string
	Provider string
}

// Generator produces an answer for a prompt. Errors wrap
// models.ErrUpstreamUnavailable or models.ErrUpstreamRejected.
type Generator interface {
	Generate(ctx context.Context, p *Prompt) (*Generation, error)
	Name() string
}
