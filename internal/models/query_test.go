package models

import (
	"errors"
	"testing"
)

func TestSearchQuery_Validate(t *testing.T) {
	tests := []struct {
		name      string
		query     *SearchQuery
		wantErr   bool
		wantLimit int
	}{
		{"empty query and category", &SearchQuery{}, true, 0},
		{"whitespace query", &SearchQuery{Query: "   "}, true, 0},
		{"valid query", &SearchQuery{Query: "열"}, false, DefaultSearchLimit},
		{"category only", &SearchQuery{CategoryID: "3"}, false, DefaultSearchLimit},
		{"keeps explicit limit", &SearchQuery{Query: "x", Limit: 7}, false, 7},
		{"caps limit", &SearchQuery{Query: "x", Limit: 500}, false, MaxSearchLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if tt.query.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", tt.query.Limit, tt.wantLimit)
			}
		})
	}
}

func TestSearchQuery_Term(t *testing.T) {
	q := &SearchQuery{Query: "  Nipple 상처 "}
	if got := q.Term(); got != "nipple 상처" {
		t.Errorf("Term() = %q", got)
	}
}
