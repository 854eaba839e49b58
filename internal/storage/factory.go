package storage

import (
	"fmt"
	"net/http"
	"time"

	"github.com/hyperjump/moyu/internal/config"
)

// NewSource builds the record source selected by cfg.Type.
func NewSource(cfg *config.StoreConfig) (Source, error) {
	opts := []Option{WithCandidateLimit(cfg.CandidateLimit)}
	if cfg.TimeoutSec > 0 {
		opts = append(opts, WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second}))
	}
	switch cfg.Type {
	case config.StoreSupabase, "":
		return NewSupabaseSource(cfg.SupabaseURL, cfg.SupabaseKey, opts...), nil
	case config.StorePostgres:
		return NewPostgresSource(cfg.DatabaseURL, opts...)
	case config.StoreSQLite:
		return NewSQLiteStorage(cfg.DatabasePath, opts...)
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
