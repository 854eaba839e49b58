package ranking

import "strings"

// Rule names accepted by RankingConfig.DisabledRules.
const (
	RuleInjury  = "injury"
	RuleRefusal = "refusal"
)

// Field selects which unit fields a rule effect inspects.
type Field int

const (
	// FieldTitle inspects the title.
	FieldTitle Field = 1 << iota
	// FieldContent inspects the content.
	FieldContent
)

// Effect adds Delta once when any of Triggers appears in the selected fields.
type Effect struct {
	Triggers []string
	Fields   Field
	Delta    int
}

func (e Effect) matches(ctx *ScoringContext) bool {
	if e.Fields&FieldTitle != 0 && containsAny(ctx.Title, e.Triggers) {
		return true
	}
	return e.Fields&FieldContent != 0 && containsAny(ctx.Content, e.Triggers)
}

// TriggerRule applies its effects only when the search term contains one of
// QueryTriggers. Effects are evaluated independently and their deltas summed.
type TriggerRule struct {
	RuleName      string
	QueryTriggers []string
	Effects       []Effect
}

// Name returns the rule name.
func (r *TriggerRule) Name() string {
	return r.RuleName
}

// Adjust returns the summed delta of every matching effect.
func (r *TriggerRule) Adjust(ctx *ScoringContext) int {
	if !containsAny(ctx.Term(), r.QueryTriggers) {
		return 0
	}
	delta := 0
	for _, e := range r.Effects {
		if e.matches(ctx) {
			delta += e.Delta
		}
	}
	return delta
}

// NewInjuryRule returns the nipple injury rule: for injury searches it demotes
// titles about devices and their usage and promotes titles about causes and
// treatment.
func NewInjuryRule() *TriggerRule {
	return &TriggerRule{
		RuleName:      RuleInjury,
		QueryTriggers: []string{"상처", "갈라", "피가", "피나", "헐었", "물집"},
		Effects: []Effect{
			{Triggers: []string{"보호기", "사용법"}, Fields: FieldTitle, Delta: -5},
			{Triggers: []string{"원인", "치료", "회복"}, Fields: FieldTitle, Delta: 8},
		},
	}
}

// NewRefusalRule returns the latch refusal rule: for refusal searches it
// demotes sleep material and promotes refusal material.
func NewRefusalRule() *TriggerRule {
	return &TriggerRule{
		RuleName:      RuleRefusal,
		QueryTriggers: []string{"안물", "안 물", "거부"},
		Effects: []Effect{
			{Triggers: []string{"수면", "재우기", "밤잠"}, Fields: FieldTitle | FieldContent, Delta: -10},
			{Triggers: []string{"거부", "안물", "안 물"}, Fields: FieldTitle | FieldContent, Delta: 10},
		},
	}
}

// DefaultRules returns the built-in adjustment rules in application order,
// skipping those disabled in config.
func DefaultRules(config *RankingConfig) []AdjustmentRule {
	all := []AdjustmentRule{NewInjuryRule(), NewRefusalRule()}
	rules := make([]AdjustmentRule, 0, len(all))
	for _, r := range all {
		if config == nil || config.RuleEnabled(r.Name()) {
			rules = append(rules, r)
		}
	}
	return rules
}

func containsAny(s string, substrs []string) bool {
	if s == "" {
		return false
	}
	for _, sub := range substrs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
