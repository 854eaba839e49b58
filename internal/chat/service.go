// Package chat answers companion questions through the generation chain.
package chat

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/moyu/internal/llm"
	"github.com/hyperjump/moyu/internal/models"
)

// Service validates chat requests and generates answers.
type Service struct {
	generator llm.Generator
	timeout   time.Duration
	logger    *zap.Logger
}

// NewService creates a chat service. timeout bounds a whole generation
// including fallbacks; zero means no extra bound.
func NewService(generator llm.Generator, timeout time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{generator: generator, timeout: timeout, logger: logger}
}

// Answer generates a reply for req. Validation failures wrap
// models.ErrInvalidInput.
func (s *Service) Answer(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	prompt := llm.BuildPrompt(req)
	gen, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("chat answered", zap.String("model", gen.Model), zap.Int("answer_len", len(gen.Text)))
	return &models.ChatResponse{Success: true, Answer: gen.Text, Model: gen.Model}, nil
}
