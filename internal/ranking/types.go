// Package ranking provides keyword-expansion relevance ranking for knowledge units.
package ranking

import (
	"strings"

	"github.com/hyperjump/moyu/internal/models"
)

// KeywordEntry associates a trigger substring with an ordered list of terms.
type KeywordEntry struct {
	Trigger string   `yaml:"trigger"`
	Terms   []string `yaml:"terms"`
}

// KeywordTable is an ordered keyword association table. Order matters: the
// first entry whose trigger matches a search term supplies its priority terms.
type KeywordTable []KeywordEntry

// Expansion is the result of matching a search term against a KeywordTable.
type Expansion struct {
	// Term is the normalized search term.
	Term string
	// Expanded holds every associated term of every matching entry, deduplicated,
	// in first-seen order.
	Expanded []string
	// Priority holds the leading terms of the first matching entry.
	Priority []string

	priority map[string]struct{}
}

// IsPriority reports whether term is one of the priority terms.
func (e *Expansion) IsPriority(term string) bool {
	_, ok := e.priority[term]
	return ok
}

// ScoringContext holds the lower-cased fields of the unit being scored.
type ScoringContext struct {
	Expansion *Expansion
	Unit      *models.KnowledgeUnit
	Title     string
	Content   string
	Keywords  string
}

// NewScoringContext creates a ScoringContext for unit. Missing fields score as empty text.
func NewScoringContext(exp *Expansion, unit *models.KnowledgeUnit) *ScoringContext {
	ctx := &ScoringContext{Expansion: exp, Unit: unit}
	if unit != nil {
		ctx.Title = strings.ToLower(unit.Title)
		ctx.Content = strings.ToLower(unit.Content)
		ctx.Keywords = unit.KeywordText()
	}
	return ctx
}

// Term returns the normalized search term being scored against.
func (c *ScoringContext) Term() string {
	if c.Expansion == nil {
		return ""
	}
	return c.Expansion.Term
}

// AdjustmentRule is a named correction applied after the generic keyword pass.
type AdjustmentRule interface {
	// Adjust returns the score delta for the unit in ctx; 0 when the rule does not apply.
	Adjust(ctx *ScoringContext) int
	// Name returns the rule name used for toggling and breakdowns.
	Name() string
}

// Result is the ranked, truncated output of a ranking pass.
type Result struct {
	Units            []*models.ScoredUnit
	ExpandedKeywords []string
	PriorityKeywords []string
}
