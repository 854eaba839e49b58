package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Urgency is the triage level attached to a knowledge unit.
type Urgency string

const (
	// UrgencyImmediate marks units that describe situations needing action now.
	UrgencyImmediate Urgency = "즉시대응필요"
	// UrgencyWithin24h marks units that should be checked within a day.
	UrgencyWithin24h Urgency = "24시간내확인"
)

// ID is an opaque identifier. Upstream stores emit ids either as JSON numbers
// or JSON strings; both decode to their textual form.
type ID string

// UnmarshalJSON accepts a string, a number or null.
func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*id = ""
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*id = ID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// UnmarshalYAML accepts any scalar; seed files write ids as numbers or strings.
func (id *ID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: id must be a scalar", value.Line)
	}
	if value.Tag == "!!null" {
		*id = ""
		return nil
	}
	*id = ID(value.Value)
	return nil
}

// String returns the textual id.
func (id ID) String() string {
	return string(id)
}

// KnowledgeUnit is a single curated piece of breastfeeding guidance as stored
// in the knowledge base. It is read-only to the ranker.
type KnowledgeUnit struct {
	ID       ID       `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Content  string   `json:"content" yaml:"content"`
	Chapter  string   `json:"chapter,omitempty" yaml:"chapter,omitempty"`
	Timeline string   `json:"timeline,omitempty" yaml:"timeline,omitempty"`
	Urgency  Urgency  `json:"urgency,omitempty" yaml:"urgency,omitempty"`
	Category ID       `json:"category,omitempty" yaml:"category,omitempty"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// KeywordText returns the keyword list joined by spaces and lower-cased.
func (u *KnowledgeUnit) KeywordText() string {
	if u == nil || len(u.Keywords) == 0 {
		return ""
	}
	return strings.ToLower(strings.Join(u.Keywords, " "))
}

// Adjustment records the delta a named adjustment rule applied to a score.
type Adjustment struct {
	Rule  string `json:"rule"`
	Delta int    `json:"delta"`
}

// ScoreBreakdown splits a unit's score into its components.
type ScoreBreakdown struct {
	Exact       int          `json:"exact"`
	Priority    int          `json:"priority"`
	Expanded    int          `json:"expanded"`
	Urgency     int          `json:"urgency"`
	Adjustments []Adjustment `json:"adjustments,omitempty"`
}

// ScoredUnit is a knowledge unit with its per-request relevance score.
type ScoredUnit struct {
	*KnowledgeUnit
	Score     int             `json:"score"`
	Breakdown *ScoreBreakdown `json:"breakdown,omitempty"`
}
