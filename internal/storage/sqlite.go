package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/moyu/internal/models"
)

// SQLiteStorage is a local record source backed by SQLite. Units are seeded
// from files; each row remembers the file it came from.
type SQLiteStorage struct {
	db    *sql.DB
	path  string
	limit int
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string, opts ...Option) (*SQLiteStorage, error) {
	o := buildOptions(opts)
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db, path: dbPath, limit: o.candidateLimit}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS knowledge_units (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		chapter TEXT NOT NULL DEFAULT '',
		timeline TEXT NOT NULL DEFAULT '',
		urgency TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		keywords TEXT NOT NULL DEFAULT '[]',
		source_file TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_units_category ON knowledge_units(category);
	CREATE INDEX IF NOT EXISTS idx_units_source_file ON knowledge_units(source_file);
	`
	_, err := db.Exec(schema)
	return err
}

// Kind returns KindSQLite.
func (s *SQLiteStorage) Kind() string {
	return KindSQLite
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Fetch returns up to the candidate limit units in categoryID (all categories
// when empty), most urgent first, then in insertion order.
func (s *SQLiteStorage) Fetch(ctx context.Context, categoryID models.ID) ([]*models.KnowledgeUnit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, chapter, timeline, urgency, category, keywords
		 FROM knowledge_units
		 WHERE (? = '' OR category = ?)
		 ORDER BY `+urgencyOrder+`, rowid
		 LIMIT ?`,
		categoryID.String(), categoryID.String(), s.limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: query knowledge units: %v", models.ErrUpstreamUnavailable, err)
	}
	defer rows.Close()

	units := []*models.KnowledgeUnit{}
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate knowledge units: %v", models.ErrUpstreamUnavailable, err)
	}
	return units, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUnit(row rowScanner) (*models.KnowledgeUnit, error) {
	var u models.KnowledgeUnit
	var id, urgency, category, keywordsJSON string
	if err := row.Scan(&id, &u.Title, &u.Content, &u.Chapter, &u.Timeline, &urgency, &category, &keywordsJSON); err != nil {
		return nil, err
	}
	u.ID = models.ID(id)
	u.Urgency = models.Urgency(urgency)
	u.Category = models.ID(category)
	if keywordsJSON != "" {
		if err := json.Unmarshal([]byte(keywordsJSON), &u.Keywords); err != nil {
			return nil, fmt.Errorf("failed to unmarshal keywords: %w", err)
		}
	}
	return &u, nil
}

// GetUnit returns a unit by ID.
func (s *SQLiteStorage) GetUnit(ctx context.Context, id models.ID) (*models.KnowledgeUnit, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, chapter, timeline, urgency, category, keywords
		 FROM knowledge_units WHERE id = ?`, id.String(),
	)
	u, err := scanUnit(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("unit not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUnit inserts or replaces a single unit with no source file.
func (s *SQLiteStorage) CreateUnit(ctx context.Context, u *models.KnowledgeUnit) error {
	return insertUnit(ctx, s.db, "", u, time.Now())
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertUnit(ctx context.Context, db execer, sourceFile string, u *models.KnowledgeUnit, now time.Time) error {
	if u.ID == "" {
		return fmt.Errorf("%w: unit id required", models.ErrInvalidInput)
	}
	keywords := u.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	keywordsJSON, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT OR REPLACE INTO knowledge_units
		 (id, title, content, chapter, timeline, urgency, category, keywords, source_file, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID.String(), u.Title, u.Content, u.Chapter, u.Timeline, string(u.Urgency), u.Category.String(),
		string(keywordsJSON), sourceFile, now, now,
	)
	return err
}

// ReplaceSource deletes the units previously imported from sourceFile and
// inserts units in a single transaction.
func (s *SQLiteStorage) ReplaceSource(ctx context.Context, sourceFile string, units []*models.KnowledgeUnit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM knowledge_units WHERE source_file = ?`, sourceFile); err != nil {
		return err
	}
	now := time.Now()
	for _, u := range units {
		if err := insertUnit(ctx, tx, sourceFile, u, now); err != nil {
			return fmt.Errorf("insert unit %s: %w", u.ID, err)
		}
	}
	return tx.Commit()
}

// DeleteBySource removes every unit imported from sourceFile.
func (s *SQLiteStorage) DeleteBySource(ctx context.Context, sourceFile string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM knowledge_units WHERE source_file = ?`, sourceFile)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// CountUnits returns the number of stored units.
func (s *SQLiteStorage) CountUnits(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM knowledge_units`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
