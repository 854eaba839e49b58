package seed

import (
	"strings"
	"unicode"

	"github.com/hyperjump/moyu/internal/models"
)

// normalize trims every field, collapses whitespace in single-line fields and
// drops blank keywords.
func normalize(u *models.KnowledgeUnit) {
	u.ID = models.ID(strings.TrimSpace(u.ID.String()))
	u.Title = collapseSpace(u.Title)
	u.Content = strings.TrimSpace(u.Content)
	u.Chapter = collapseSpace(u.Chapter)
	u.Timeline = collapseSpace(u.Timeline)
	u.Urgency = models.Urgency(strings.TrimSpace(string(u.Urgency)))
	u.Category = models.ID(strings.TrimSpace(u.Category.String()))

	kept := u.Keywords[:0]
	for _, k := range u.Keywords {
		if k = collapseSpace(k); k != "" {
			kept = append(kept, k)
		}
	}
	if len(kept) == 0 {
		kept = nil
	}
	u.Keywords = kept
}

func collapseSpace(text string) string {
	text = strings.TrimSpace(text)
	var b strings.Builder
	wasSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !wasSpace {
				b.WriteRune(' ')
				wasSpace = true
			}
		} else {
			b.WriteRune(r)
			wasSpace = false
		}
	}
	return b.String()
}
