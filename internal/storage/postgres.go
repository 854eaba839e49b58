package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hyperjump/moyu/internal/models"
)

// urgencyOrder ranks immediate units first so that truncation by the
// candidate limit keeps the most urgent material.
const urgencyOrder = `CASE urgency WHEN '즉시대응필요' THEN 0 WHEN '24시간내확인' THEN 1 ELSE 2 END`

const postgresFetchQuery = `
SELECT id::text, COALESCE(title, ''), COALESCE(content, ''), COALESCE(chapter, ''),
       COALESCE(timeline, ''), COALESCE(urgency, ''), COALESCE(category::text, ''), keywords
FROM knowledge_units
WHERE ($1 = '' OR category::text = $1)
ORDER BY ` + urgencyOrder + `, id
LIMIT $2`

// PostgresSource reads the knowledge_units table of a PostgreSQL database
// directly. keywords is expected to be a text[] column.
type PostgresSource struct {
	db    *sql.DB
	limit int
}

// NewPostgresSource opens a connection pool for dsn. An empty dsn is
// accepted; Fetch then reports the store as unconfigured.
func NewPostgresSource(dsn string, opts ...Option) (*PostgresSource, error) {
	o := buildOptions(opts)
	src := &PostgresSource{limit: o.candidateLimit}
	if dsn == "" {
		return src, nil
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	src.db = db
	return src, nil
}

// Kind returns KindPostgres.
func (s *PostgresSource) Kind() string {
	return KindPostgres
}

// Fetch returns up to the candidate limit units in categoryID, or in every
// category when categoryID is empty.
func (s *PostgresSource) Fetch(ctx context.Context, categoryID models.ID) ([]*models.KnowledgeUnit, error) {
	if s.db == nil {
		return nil, fmt.Errorf("%w: database not configured", models.ErrUpstreamUnavailable)
	}
	rows, err := s.db.QueryContext(ctx, postgresFetchQuery, categoryID.String(), s.limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query knowledge units: %v", models.ErrUpstreamUnavailable, err)
	}
	defer rows.Close()

	units := []*models.KnowledgeUnit{}
	for rows.Next() {
		var u models.KnowledgeUnit
		var id, category, urgency string
		var keywords []string
		if err := rows.Scan(&id, &u.Title, &u.Content, &u.Chapter, &u.Timeline, &urgency, &category, pq.Array(&keywords)); err != nil {
			return nil, fmt.Errorf("%w: scan knowledge unit: %v", models.ErrUpstreamRejected, err)
		}
		u.ID = models.ID(id)
		u.Category = models.ID(category)
		u.Urgency = models.Urgency(urgency)
		u.Keywords = keywords
		units = append(units, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate knowledge units: %v", models.ErrUpstreamUnavailable, err)
	}
	return units, nil
}

// CountUnits returns the number of rows in knowledge_units.
func (s *PostgresSource) CountUnits(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("%w: database not configured", models.ErrUpstreamUnavailable)
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM knowledge_units`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count knowledge units: %v", models.ErrUpstreamUnavailable, err)
	}
	return n, nil
}

// Close closes the connection pool.
func (s *PostgresSource) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
