package ranking

// RankingConfig holds the static scoring weights. Weights are integers and
// additive; every matching term contributes once per field.
type RankingConfig struct {
	// Exact search term containment
	ExactTitleScore    int `yaml:"exact_title_score"`    // default: 15
	ExactContentScore  int `yaml:"exact_content_score"`  // default: 8
	ExactKeywordsScore int `yaml:"exact_keywords_score"` // default: 12

	// Priority terms (first matching table entry)
	PriorityTitleScore    int `yaml:"priority_title_score"`    // default: 10
	PriorityContentScore  int `yaml:"priority_content_score"`  // default: 6
	PriorityKeywordsScore int `yaml:"priority_keywords_score"` // default: 8
	PriorityTermCount     int `yaml:"priority_term_count"`     // default: 3

	// Remaining expanded terms
	ExpandedTitleScore    int `yaml:"expanded_title_score"`    // default: 2
	ExpandedContentScore  int `yaml:"expanded_content_score"`  // default: 1
	ExpandedKeywordsScore int `yaml:"expanded_keywords_score"` // default: 2

	// Urgency bonus
	UrgencyImmediateBonus int `yaml:"urgency_immediate_bonus"`  // default: 3
	UrgencyWithin24hBonus int `yaml:"urgency_within_24h_bonus"` // default: 2

	// DisabledRules lists adjustment rule names to skip.
	DisabledRules []string `yaml:"disabled_rules"`
}

// DefaultRankingConfig returns the default ranking configuration.
func DefaultRankingConfig() *RankingConfig {
	return &RankingConfig{
		ExactTitleScore:    15,
		ExactContentScore:  8,
		ExactKeywordsScore: 12,

		PriorityTitleScore:    10,
		PriorityContentScore:  6,
		PriorityKeywordsScore: 8,
		PriorityTermCount:     3,

		ExpandedTitleScore:    2,
		ExpandedContentScore:  1,
		ExpandedKeywordsScore: 2,

		UrgencyImmediateBonus: 3,
		UrgencyWithin24hBonus: 2,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *RankingConfig) ApplyDefaults() {
	defaults := DefaultRankingConfig()

	if c.ExactTitleScore == 0 {
		c.ExactTitleScore = defaults.ExactTitleScore
	}
	if c.ExactContentScore == 0 {
		c.ExactContentScore = defaults.ExactContentScore
	}
	if c.ExactKeywordsScore == 0 {
		c.ExactKeywordsScore = defaults.ExactKeywordsScore
	}

	if c.PriorityTitleScore == 0 {
		c.PriorityTitleScore = defaults.PriorityTitleScore
	}
	if c.PriorityContentScore == 0 {
		c.PriorityContentScore = defaults.PriorityContentScore
	}
	if c.PriorityKeywordsScore == 0 {
		c.PriorityKeywordsScore = defaults.PriorityKeywordsScore
	}
	if c.PriorityTermCount == 0 {
		c.PriorityTermCount = defaults.PriorityTermCount
	}

	if c.ExpandedTitleScore == 0 {
		c.ExpandedTitleScore = defaults.ExpandedTitleScore
	}
	if c.ExpandedContentScore == 0 {
		c.ExpandedContentScore = defaults.ExpandedContentScore
	}
	if c.ExpandedKeywordsScore == 0 {
		c.ExpandedKeywordsScore = defaults.ExpandedKeywordsScore
	}

	if c.UrgencyImmediateBonus == 0 {
		c.UrgencyImmediateBonus = defaults.UrgencyImmediateBonus
	}
	if c.UrgencyWithin24hBonus == 0 {
		c.UrgencyWithin24hBonus = defaults.UrgencyWithin24hBonus
	}
}

// RuleEnabled reports whether the named adjustment rule is enabled.
func (c *RankingConfig) RuleEnabled(name string) bool {
	for _, n := range c.DisabledRules {
		if n == name {
			return false
		}
	}
	return true
}
