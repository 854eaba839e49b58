package ranking

import "strings"

// Expand matches term against every entry of table in order. All matching
// entries contribute to Expanded; only the first contributes Priority, capped
// to priorityCount terms.
func Expand(table KeywordTable, term string, priorityCount int) *Expansion {
	exp := &Expansion{
		Term:     term,
		Expanded: []string{},
		Priority: []string{},
		priority: make(map[string]struct{}),
	}
	if term == "" {
		return exp
	}

	seen := make(map[string]struct{})
	matched := false
	for _, entry := range table {
		trigger := strings.ToLower(entry.Trigger)
		if trigger == "" || !strings.Contains(term, trigger) {
			continue
		}
		if !matched {
			matched = true
			for i, t := range entry.Terms {
				if i >= priorityCount {
					break
				}
				t = strings.ToLower(t)
				if _, dup := exp.priority[t]; dup {
					continue
				}
				exp.priority[t] = struct{}{}
				exp.Priority = append(exp.Priority, t)
			}
		}
		for _, t := range entry.Terms {
			t = strings.ToLower(t)
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			exp.Expanded = append(exp.Expanded, t)
		}
	}
	return exp
}
