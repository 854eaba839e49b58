package ranking

import (
	"strings"

	"github.com/hyperjump/moyu/internal/models"
)

// KeywordScorer computes the generic part of a unit's score: exact term,
// priority and expanded term containment plus the urgency bonus.
type KeywordScorer struct {
	config *RankingConfig
}

// NewKeywordScorer creates a new KeywordScorer.
func NewKeywordScorer(config *RankingConfig) *KeywordScorer {
	return &KeywordScorer{config: config}
}

// Name returns the scorer name.
func (s *KeywordScorer) Name() string {
	return "keyword"
}

// Score fills the generic components of breakdown and returns their sum.
func (s *KeywordScorer) Score(ctx *ScoringContext, breakdown *models.ScoreBreakdown) int {
	exp := ctx.Expansion
	c := s.config

	breakdown.Exact = s.fieldScore(ctx, exp.Term, c.ExactTitleScore, c.ExactContentScore, c.ExactKeywordsScore)

	for _, term := range exp.Priority {
		breakdown.Priority += s.fieldScore(ctx, term, c.PriorityTitleScore, c.PriorityContentScore, c.PriorityKeywordsScore)
	}
	for _, term := range exp.Expanded {
		if exp.IsPriority(term) {
			continue
		}
		breakdown.Expanded += s.fieldScore(ctx, term, c.ExpandedTitleScore, c.ExpandedContentScore, c.ExpandedKeywordsScore)
	}

	breakdown.Urgency = s.urgencyBonus(ctx.Unit)

	return breakdown.Exact + breakdown.Priority + breakdown.Expanded + breakdown.Urgency
}

func (s *KeywordScorer) fieldScore(ctx *ScoringContext, term string, title, content, keywords int) int {
	if term == "" {
		return 0
	}
	score := 0
	if strings.Contains(ctx.Title, term) {
		score += title
	}
	if strings.Contains(ctx.Content, term) {
		score += content
	}
	if strings.Contains(ctx.Keywords, term) {
		score += keywords
	}
	return score
}

func (s *KeywordScorer) urgencyBonus(unit *models.KnowledgeUnit) int {
	if unit == nil {
		return 0
	}
	switch unit.Urgency {
	case models.UrgencyImmediate:
		return s.config.UrgencyImmediateBonus
	case models.UrgencyWithin24h:
		return s.config.UrgencyWithin24hBonus
	default:
		return 0
	}
}
