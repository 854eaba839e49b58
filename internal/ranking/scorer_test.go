package ranking

import (
	"testing"

	"github.com/hyperjump/moyu/internal/models"
)

func TestKeywordScorer_Score(t *testing.T) {
	scorer := NewKeywordScorer(DefaultRankingConfig())
	table := KeywordTable{{Trigger: "열", Terms: []string{"발열", "유선염", "체온", "해열제", "오한"}}}

	tests := []struct {
		name string
		term string
		unit *models.KnowledgeUnit
		want models.ScoreBreakdown
	}{
		{
			name: "exact title only",
			term: "트림",
			unit: &models.KnowledgeUnit{Title: "트림 시키는 법"},
			want: models.ScoreBreakdown{Exact: 15},
		},
		{
			name: "exact in every field",
			term: "트림",
			unit: &models.KnowledgeUnit{Title: "트림", Content: "트림", Keywords: []string{"트림"}},
			want: models.ScoreBreakdown{Exact: 35},
		},
		{
			name: "expanded terms outside priority",
			term: "열",
			unit: &models.KnowledgeUnit{Title: "해열제 복용", Content: "오한이 있으면", Keywords: []string{"오한"}},
			// exact: title "해열제" contains 열 (+15); expanded 해열제 title +2; 오한 content +1, keywords +2
			want: models.ScoreBreakdown{Exact: 15, Expanded: 5},
		},
		{
			name: "urgency immediate",
			term: "트림",
			unit: &models.KnowledgeUnit{Title: "무관한 제목", Urgency: models.UrgencyImmediate},
			want: models.ScoreBreakdown{Urgency: 3},
		},
		{
			name: "missing fields score zero",
			term: "열",
			unit: &models.KnowledgeUnit{},
			want: models.ScoreBreakdown{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := Expand(table, tt.term, 3)
			ctx := NewScoringContext(exp, tt.unit)
			var got models.ScoreBreakdown
			total := scorer.Score(ctx, &got)
			if got.Exact != tt.want.Exact || got.Priority != tt.want.Priority ||
				got.Expanded != tt.want.Expanded || got.Urgency != tt.want.Urgency {
				t.Errorf("Score() breakdown = %+v, want %+v", got, tt.want)
			}
			if wantTotal := tt.want.Exact + tt.want.Priority + tt.want.Expanded + tt.want.Urgency; total != wantTotal {
				t.Errorf("Score() = %d, want %d", total, wantTotal)
			}
		})
	}
}

func TestKeywordScorer_CaseInsensitive(t *testing.T) {
	scorer := NewKeywordScorer(DefaultRankingConfig())
	exp := Expand(nil, "lanolin", 3)
	unit := &models.KnowledgeUnit{Title: "Lanolin 연고", Keywords: []string{"LANOLIN"}}
	var b models.ScoreBreakdown
	if got := scorer.Score(NewScoringContext(exp, unit), &b); got != 27 {
		t.Errorf("Score() = %d, want 27", got)
	}
}
