package search

import "github.com/hyperjump/moyu/internal/models"

// ProcessQuery applies the configured limit defaults and validates the query.
func ProcessQuery(query *models.SearchQuery, defaultLimit, maxLimit int) error {
	if query.Limit <= 0 && defaultLimit > 0 {
		query.Limit = defaultLimit
	}
	if maxLimit > 0 && query.Limit > maxLimit {
		query.Limit = maxLimit
	}
	return query.Validate()
}
