// Package seed loads knowledge units from seed files and imports them into a
// writable record source.
package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/moyu/internal/fileid"
	"github.com/hyperjump/moyu/internal/models"
)

// DefaultExtensions lists the seed formats Loader understands.
var DefaultExtensions = []string{".yaml", ".yml", ".xlsx"}

// Loader parses seed files into knowledge units.
type Loader struct{}

// NewLoader returns a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the file at path and returns its units. Units without an id get
// one derived from path and their row position.
func (l *Loader) Load(path string) ([]*models.KnowledgeUnit, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	units, err := l.LoadBytes(content, ext)
	if err != nil {
		return nil, err
	}
	for i, u := range units {
		if u.ID == "" {
			u.ID = models.ID(fileid.UnitID(path, i))
		}
	}
	return units, nil
}

// LoadBytes parses content according to ext (with leading dot). IDs are left
// as found.
func (l *Loader) LoadBytes(content []byte, ext string) ([]*models.KnowledgeUnit, error) {
	var (
		units []*models.KnowledgeUnit
		err   error
	)
	switch ext {
	case ".yaml", ".yml":
		units, err = loadYAML(content)
	case ".xlsx":
		units, err = loadExcel(content)
	default:
		return nil, fmt.Errorf("unsupported seed format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	out := units[:0]
	for _, u := range units {
		if u == nil {
			continue
		}
		normalize(u)
		if u.Title == "" && u.Content == "" {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
