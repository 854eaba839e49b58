// Package search fetches candidate knowledge units and ranks them.
package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/moyu/internal/config"
	"github.com/hyperjump/moyu/internal/metrics"
	"github.com/hyperjump/moyu/internal/models"
	"github.com/hyperjump/moyu/internal/ranking"
	"github.com/hyperjump/moyu/internal/storage"
)

// Engine runs knowledge searches: validate, fetch by category, rank.
type Engine struct {
	source       storage.Source
	ranker       *ranking.Ranker
	config       *config.SearchConfig
	fetchTimeout time.Duration
	logger       *zap.Logger
	metrics      *metrics.Metrics
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics records search outcomes and fetch durations.
func WithMetrics(m *metrics.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// WithFetchTimeout bounds each record source fetch.
func WithFetchTimeout(d time.Duration) EngineOption {
	return func(e *Engine) { e.fetchTimeout = d }
}

// NewEngine creates a search engine with the given dependencies.
func NewEngine(source storage.Source, ranker *ranking.Ranker, cfg *config.SearchConfig, opts ...EngineOption) *Engine {
	e := &Engine{
		source: source,
		ranker: ranker,
		config: cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ranker returns the engine's ranker.
func (e *Engine) Ranker() *ranking.Ranker {
	return e.ranker
}

// Source returns the engine's record source.
func (e *Engine) Source() storage.Source {
	return e.source
}

// Search validates query, fetches the candidates of its category and returns
// the ranked top results. Validation failures wrap models.ErrInvalidInput;
// fetch failures are returned as the source reported them.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	startTime := time.Now()
	if err := ProcessQuery(query, e.config.DefaultLimit, e.config.MaxLimit); err != nil {
		e.metrics.ObserveSearch(metrics.OutcomeInvalid, 0)
		return nil, err
	}

	candidates, err := e.fetch(ctx, query.CategoryID)
	if err != nil {
		e.metrics.ObserveSearch(metrics.OutcomeError, 0)
		e.logger.Warn("candidate fetch failed",
			zap.String("source", e.source.Kind()),
			zap.String("category", query.CategoryID.String()),
			zap.Error(err))
		return nil, err
	}

	var result *ranking.Result
	if query.Explain {
		result = e.ranker.RankWithBreakdown(query.Term(), candidates, query.Limit)
	} else {
		result = e.ranker.Rank(query.Term(), candidates, query.Limit)
	}

	response := &models.SearchResponse{
		Success:          true,
		Results:          result.Units,
		Count:            len(result.Units),
		ExpandedKeywords: result.ExpandedKeywords,
		PriorityKeywords: result.PriorityKeywords,
		Query:            query.Query,
		QueryTime:        time.Since(startTime).Milliseconds(),
	}
	e.metrics.ObserveSearch(metrics.OutcomeSuccess, response.Count)
	e.logger.Debug("search complete",
		zap.String("query", query.Query),
		zap.String("category", query.CategoryID.String()),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", response.Count),
		zap.Strings("expanded", result.ExpandedKeywords))
	return response, nil
}

func (e *Engine) fetch(ctx context.Context, categoryID models.ID) ([]*models.KnowledgeUnit, error) {
	if e.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.fetchTimeout)
		defer cancel()
	}
	start := time.Now()
	units, err := e.source.Fetch(ctx, categoryID)
	e.metrics.ObserveFetch(e.source.Kind(), time.Since(start).Seconds())
	return units, err
}
