package ranking

import (
	"sort"

	"github.com/hyperjump/moyu/internal/models"
)

// Ranker expands search terms through a keyword table, scores knowledge units
// and applies adjustment rules. A Ranker is immutable after construction and
// safe for concurrent use.
type Ranker struct {
	config *RankingConfig
	table  KeywordTable
	scorer *KeywordScorer
	rules  []AdjustmentRule
}

// NewRanker creates a new Ranker with the given configuration, the default
// keyword table and the enabled default rules.
func NewRanker(config *RankingConfig) *Ranker {
	if config == nil {
		config = DefaultRankingConfig()
	}
	config.ApplyDefaults()

	return &Ranker{
		config: config,
		table:  DefaultKeywordTable(),
		scorer: NewKeywordScorer(config),
		rules:  DefaultRules(config),
	}
}

// WithTable replaces the keyword association table.
func (r *Ranker) WithTable(table KeywordTable) *Ranker {
	r.table = append(KeywordTable(nil), table...)
	return r
}

// WithRules replaces the adjustment rules. Rules disabled in the config are dropped.
func (r *Ranker) WithRules(rules []AdjustmentRule) *Ranker {
	r.rules = make([]AdjustmentRule, 0, len(rules))
	for _, rule := range rules {
		if r.config.RuleEnabled(rule.Name()) {
			r.rules = append(r.rules, rule)
		}
	}
	return r
}

// TableSize returns the number of keyword table entries.
func (r *Ranker) TableSize() int {
	return len(r.table)
}

// RuleNames returns the names of the active adjustment rules in order.
func (r *Ranker) RuleNames() []string {
	names := make([]string, 0, len(r.rules))
	for _, rule := range r.rules {
		names = append(names, rule.Name())
	}
	return names
}

// Expand normalizes term and expands it through the keyword table.
func (r *Ranker) Expand(term string) *Expansion {
	return Expand(r.table, models.NormalizeTerm(term), r.config.PriorityTermCount)
}

// Score returns the breakdown of unit's score against exp. FinalScore is the
// sum of the generic components and every adjustment.
func (r *Ranker) Score(exp *Expansion, unit *models.KnowledgeUnit) (int, *models.ScoreBreakdown) {
	ctx := NewScoringContext(exp, unit)
	breakdown := &models.ScoreBreakdown{}
	score := r.scorer.Score(ctx, breakdown)
	for _, rule := range r.rules {
		if delta := rule.Adjust(ctx); delta != 0 {
			breakdown.Adjustments = append(breakdown.Adjustments, models.Adjustment{Rule: rule.Name(), Delta: delta})
			score += delta
		}
	}
	return score, breakdown
}

// Rank scores candidates against term and returns at most limit units with a
// positive score, highest first. Equal scores keep candidate order. An empty
// term returns the first limit candidates unscored. A non-positive limit means
// models.DefaultSearchLimit.
func (r *Ranker) Rank(term string, candidates []*models.KnowledgeUnit, limit int) *Result {
	return r.rank(term, candidates, limit, false)
}

// RankWithBreakdown is Rank with a score breakdown attached to every unit.
func (r *Ranker) RankWithBreakdown(term string, candidates []*models.KnowledgeUnit, limit int) *Result {
	return r.rank(term, candidates, limit, true)
}

func (r *Ranker) rank(term string, candidates []*models.KnowledgeUnit, limit int, explain bool) *Result {
	if limit <= 0 {
		limit = models.DefaultSearchLimit
	}
	exp := r.Expand(term)
	result := &Result{
		Units:            []*models.ScoredUnit{},
		ExpandedKeywords: exp.Expanded,
		PriorityKeywords: exp.Priority,
	}

	if exp.Term == "" {
		for _, unit := range candidates {
			if len(result.Units) >= limit {
				break
			}
			if unit == nil {
				continue
			}
			result.Units = append(result.Units, &models.ScoredUnit{KnowledgeUnit: unit})
		}
		return result
	}

	scored := make([]*models.ScoredUnit, 0, len(candidates))
	for _, unit := range candidates {
		if unit == nil {
			continue
		}
		score, breakdown := r.Score(exp, unit)
		if score <= 0 {
			continue
		}
		su := &models.ScoredUnit{KnowledgeUnit: unit, Score: score}
		if explain {
			su.Breakdown = breakdown
		}
		scored = append(scored, su)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	result.Units = scored
	return result
}
