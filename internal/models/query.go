package models

import (
	"fmt"
	"strings"
)

const (
	// DefaultSearchLimit is used when a request carries no positive limit.
	DefaultSearchLimit = 5
	// MaxSearchLimit caps the number of ranked results per request.
	MaxSearchLimit = 50
)

// SearchQuery represents a knowledge search request.
type SearchQuery struct {
	Query      string `json:"query"`
	CategoryID ID     `json:"categoryId,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Explain    bool   `json:"explain,omitempty"` // attach score breakdowns to results
}

// Validate ensures the search query has valid fields and sets defaults.
// Either a query or a category is required.
func (q *SearchQuery) Validate() error {
	if strings.TrimSpace(q.Query) == "" && q.CategoryID == "" {
		return fmt.Errorf("%w: query or categoryId required", ErrInvalidInput)
	}
	if q.Limit <= 0 {
		q.Limit = DefaultSearchLimit
	}
	if q.Limit > MaxSearchLimit {
		q.Limit = MaxSearchLimit
	}
	return nil
}

// Term returns the normalized search term: trimmed and lower-cased.
func (q *SearchQuery) Term() string {
	return NormalizeTerm(q.Query)
}

// NormalizeTerm trims and lower-cases a raw search string.
func NormalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
