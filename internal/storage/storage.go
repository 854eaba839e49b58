// Package storage defines the record sources that supply knowledge units.
package storage

import (
	"context"
	"net/http"
	"time"

	"github.com/hyperjump/moyu/internal/models"
)

// Source kinds reported by Source.Kind.
const (
	KindSupabase = "supabase"
	KindPostgres = "postgres"
	KindSQLite   = "sqlite"
)

const (
	defaultCandidateLimit = 100
	defaultHTTPTimeout    = 30 * time.Second
)

// Source fetches candidate knowledge units, optionally restricted to a
// category. Failures wrap models.ErrUpstreamUnavailable or
// models.ErrUpstreamRejected.
type Source interface {
	Fetch(ctx context.Context, categoryID models.ID) ([]*models.KnowledgeUnit, error)
	Kind() string
	Close() error
}

// Counter is implemented by sources that can report their size.
type Counter interface {
	CountUnits(ctx context.Context) (int64, error)
}

// DiskSizer is implemented by sources backed by local files.
type DiskSizer interface {
	DiskUsageBytes() (int64, error)
}

// Writer is implemented by sources that accept seeded units.
type Writer interface {
	// ReplaceSource atomically replaces every unit previously imported from
	// sourceFile with units.
	ReplaceSource(ctx context.Context, sourceFile string, units []*models.KnowledgeUnit) error
	// DeleteBySource removes every unit imported from sourceFile.
	DeleteBySource(ctx context.Context, sourceFile string) (int64, error)
}

// Option configures a Source.
type Option func(*options)

type options struct {
	candidateLimit int
	httpClient     *http.Client
}

// WithCandidateLimit caps the number of units a single Fetch returns.
func WithCandidateLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.candidateLimit = n
		}
	}
}

// WithHTTPClient sets the HTTP client used by HTTP-backed sources.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		candidateLimit: defaultCandidateLimit,
		httpClient:     &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
