package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/moyu/internal/models"
)

func TestDatabaseFileBytes(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "k.db")
	require.NoError(t, os.WriteFile(db, []byte("hello"), 0644))
	require.NoError(t, os.WriteFile(db+"-wal", []byte("abc"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.db"), []byte("ignored"), 0644))

	got, err := DatabaseFileBytes(db)
	require.NoError(t, err)
	assert.Equal(t, int64(8), got)

	got, err = DatabaseFileBytes(filepath.Join(dir, "missing.db"))
	require.NoError(t, err)
	assert.Zero(t, got)

	got, err = DatabaseFileBytes("")
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestSQLiteStorage_DiskUsageBytes(t *testing.T) {
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "k.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.ReplaceSource(context.Background(), "seed.yaml", []*models.KnowledgeUnit{
		{ID: "1", Title: "유선염 대처법", Content: "열이 나고 가슴이 붓습니다."},
	}))
	n, err := store.DiskUsageBytes()
	require.NoError(t, err)
	assert.Positive(t, n)
}
