package seed

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/moyu/internal/models"
)

// Recognised header cells. Columns may appear in any order; unknown columns
// are ignored.
const (
	colID       = "id"
	colTitle    = "title"
	colContent  = "content"
	colChapter  = "chapter"
	colTimeline = "timeline"
	colUrgency  = "urgency"
	colCategory = "category"
	colKeywords = "keywords"
)

// loadExcel reads every sheet. The first row of a sheet is its header; a
// sheet without a title or content column is skipped.
func loadExcel(content []byte) ([]*models.KnowledgeUnit, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	units := []*models.KnowledgeUnit{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("get rows for sheet %q: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		cols := headerIndex(rows[0])
		_, hasTitle := cols[colTitle]
		_, hasContent := cols[colContent]
		if !hasTitle && !hasContent {
			continue
		}
		for _, row := range rows[1:] {
			cell := func(name string) string {
				i, ok := cols[name]
				if !ok || i >= len(row) {
					return ""
				}
				return row[i]
			}
			units = append(units, &models.KnowledgeUnit{
				ID:       models.ID(strings.TrimSpace(cell(colID))),
				Title:    cell(colTitle),
				Content:  cell(colContent),
				Chapter:  cell(colChapter),
				Timeline: cell(colTimeline),
				Urgency:  models.Urgency(cell(colUrgency)),
				Category: models.ID(strings.TrimSpace(cell(colCategory))),
				Keywords: splitKeywords(cell(colKeywords)),
			})
		}
	}
	return units, nil
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, dup := cols[name]; name != "" && !dup {
			cols[name] = i
		}
	}
	return cols
}

func splitKeywords(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}
