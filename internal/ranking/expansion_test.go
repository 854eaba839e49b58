package ranking

import (
	"reflect"
	"testing"
)

func TestExpand(t *testing.T) {
	table := KeywordTable{
		{Trigger: "열", Terms: []string{"발열", "유선염", "체온", "해열제"}},
		{Trigger: "유선염", Terms: []string{"유선염", "울혈", "항생제"}},
		{Trigger: "안물", Terms: []string{"젖거부", "물리기"}},
	}

	tests := []struct {
		name         string
		term         string
		wantExpanded []string
		wantPriority []string
	}{
		{
			name:         "no match",
			term:         "트림",
			wantExpanded: []string{},
			wantPriority: []string{},
		},
		{
			name:         "single entry capped priority",
			term:         "열",
			wantExpanded: []string{"발열", "유선염", "체온", "해열제"},
			wantPriority: []string{"발열", "유선염", "체온"},
		},
		{
			name:         "first match wins priority and union dedups",
			term:         "유선염 열",
			wantExpanded: []string{"발열", "유선염", "체온", "해열제", "울혈", "항생제"},
			wantPriority: []string{"발열", "유선염", "체온"},
		},
		{
			name:         "entry shorter than cap",
			term:         "아기가 안물어요",
			wantExpanded: []string{"젖거부", "물리기"},
			wantPriority: []string{"젖거부", "물리기"},
		},
		{
			name:         "empty term",
			term:         "",
			wantExpanded: []string{},
			wantPriority: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := Expand(table, tt.term, 3)
			if !reflect.DeepEqual(exp.Expanded, tt.wantExpanded) {
				t.Errorf("Expanded = %v, want %v", exp.Expanded, tt.wantExpanded)
			}
			if !reflect.DeepEqual(exp.Priority, tt.wantPriority) {
				t.Errorf("Priority = %v, want %v", exp.Priority, tt.wantPriority)
			}
			for _, p := range tt.wantPriority {
				if !exp.IsPriority(p) {
					t.Errorf("IsPriority(%q) = false", p)
				}
			}
		})
	}
}

func TestDefaultKeywordTable_TriggersAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i, entry := range DefaultKeywordTable() {
		if entry.Trigger == "" {
			t.Errorf("entry %d has empty trigger", i)
		}
		if len(entry.Terms) == 0 {
			t.Errorf("entry %q has no terms", entry.Trigger)
		}
		if seen[entry.Trigger] {
			t.Errorf("duplicate trigger %q", entry.Trigger)
		}
		seen[entry.Trigger] = true
	}
}
