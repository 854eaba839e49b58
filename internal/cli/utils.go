// Package cli provides CLI output helpers for moyu.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/moyu/internal/models"
	"github.com/hyperjump/moyu/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// snippetRunes bounds the content shown per result in text output.
const snippetRunes = 120

// ParseOutputFormat maps a flag value to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case OutputText, "":
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// WriteSearchResults writes search results to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	writeSearchResultsText(w, response)
	return nil
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "\nFound %d results in %dms\n", response.Count, response.QueryTime)
	if len(response.ExpandedKeywords) > 0 {
		fmt.Fprintf(w, "Expanded: %s\n", strings.Join(response.ExpandedKeywords, ", "))
	}
	fmt.Fprintln(w)
	for i, result := range response.Results {
		writeOneResult(w, i+1, result)
	}
}

func writeOneResult(w io.Writer, rank int, result *models.ScoredUnit) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "%d. [%s] %s (score %d)\n", rank, result.ID, result.Title, result.Score)
	if result.Urgency != "" {
		fmt.Fprintf(w, "Urgency: %s\n", result.Urgency)
	}
	if b := result.Breakdown; b != nil {
		fmt.Fprintf(w, "Breakdown: exact=%d priority=%d expanded=%d urgency=%d", b.Exact, b.Priority, b.Expanded, b.Urgency)
		for _, adj := range b.Adjustments {
			fmt.Fprintf(w, " %s=%+d", adj.Rule, adj.Delta)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(result.Content, snippetRunes))
}

// WriteAnswer writes a chat answer to w in the given format.
func WriteAnswer(w io.Writer, response *models.ChatResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	fmt.Fprintf(w, "%s\n\n(%s)\n", strings.TrimSpace(response.Answer), response.Model)
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
