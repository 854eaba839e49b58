package seed

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/moyu/internal/storage"
)

// Importer loads seed files and writes their units into a storage.Writer.
// Units are keyed by the absolute path of the file they came from, so
// re-importing a file replaces its previous units.
type Importer struct {
	writer storage.Writer
	loader *Loader
	logger *zap.Logger
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) ImporterOption {
	return func(im *Importer) { im.logger = l }
}

// NewImporter creates an importer writing to w.
func NewImporter(w storage.Writer, opts ...ImporterOption) *Importer {
	im := &Importer{
		writer: w,
		loader: NewLoader(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// ImportFile loads the file at path and replaces the units previously
// imported from it. If allowedExts is non-empty the file's extension must be
// in the list (case-insensitive). Returns the number of units written.
func (im *Importer) ImportFile(ctx context.Context, path string, allowedExts []string) (int, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(absPath))
	if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
		return 0, fmt.Errorf("extension %q not in allowed list", ext)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return 0, fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("not a regular file: %s", absPath)
	}

	units, err := im.loader.Load(absPath)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", absPath, err)
	}
	if err := im.writer.ReplaceSource(ctx, absPath, units); err != nil {
		return 0, fmt.Errorf("store units from %s: %w", absPath, err)
	}
	im.logger.Debug("seed file imported", zap.String("path", absPath), zap.Int("units", len(units)))
	return len(units), nil
}

// ImportDirectory walks dir and imports every regular file whose extension is
// in allowedExts (all supported formats when empty). Subdirectories are
// visited only when recursive is true. Returns the number of files and units
// imported and the first error encountered.
func (im *Importer) ImportDirectory(ctx context.Context, dir string, allowedExts []string, recursive bool) (files, units int, err error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, 0, fmt.Errorf("not a directory: %s", absDir)
	}
	if len(allowedExts) == 0 {
		allowedExts = DefaultExtensions
	}
	err = filepath.WalkDir(absDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if !recursive && path != absDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !extensionAllowed(filepath.Ext(path), allowedExts) {
			return nil
		}
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		n, importErr := im.ImportFile(ctx, path, allowedExts)
		if importErr != nil {
			return importErr
		}
		files++
		units += n
		return nil
	})
	return files, units, err
}

// RemoveFile deletes every unit imported from path.
func (im *Importer) RemoveFile(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	n, err := im.writer.DeleteBySource(ctx, absPath)
	if err != nil {
		return fmt.Errorf("delete units from %s: %w", absPath, err)
	}
	im.logger.Debug("seed file removed", zap.String("path", absPath), zap.Int64("units", n))
	return nil
}
