package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/db"
)

func repoMigrationsDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed")
	// this file lives in cmd/migrate/, so repo root is ../..
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", "db", "migrations"))
}

func TestCollectMigrations_ParsesMigrationsDir(t *testing.T) {
	migrations, err := goose.CollectMigrations(repoMigrationsDir(t), 0, goose.MaxVersion)
	require.NoError(t, err)
	assert.NotEmpty(t, migrations)
}

func TestSQLMigrations_HaveGooseDirectives(t *testing.T) {
	dir := repoMigrationsDir(t)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)

		s := string(b)
		assert.Contains(t, s, "-- +goose Up", e.Name())
		assert.Contains(t, s, "-- +goose Down", e.Name())
	}
}

func TestEmbeddedMigrations_MatchDirectory(t *testing.T) {
	onDisk, err := filepath.Glob(filepath.Join(repoMigrationsDir(t), "*.sql"))
	require.NoError(t, err)
	for i, p := range onDisk {
		onDisk[i] = filepath.Base(p)
	}

	embedded, err := fs.Glob(db.Migrations(), "*.sql")
	require.NoError(t, err)

	assert.ElementsMatch(t, onDisk, embedded)
}

func TestSchema_DefinesCatalogTables(t *testing.T) {
	b, err := fs.ReadFile(db.Migrations(), "20250101000001_create_catalog.sql")
	require.NoError(t, err)

	schema := string(b)
	for _, table := range []string{"authors", "books", "publishers", "book_author"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
	assert.Contains(t, schema, "PRIMARY KEY (book_id, author_id)")
}

func TestSchema_IDsAreBigint(t *testing.T) {
	b, err := fs.ReadFile(db.Migrations(), "20250101000003_widen_ids.sql")
	require.NoError(t, err)

	up := strings.SplitN(string(b), "-- +goose Down", 2)[0]
	for _, col := range []string{
		"publishers ALTER COLUMN id",
		"authors ALTER COLUMN id",
		"books ALTER COLUMN id",
		"books ALTER COLUMN publisher_id",
		"book_author ALTER COLUMN book_id",
		"book_author ALTER COLUMN author_id",
	} {
		assert.Contains(t, up, col+" TYPE BIGINT")
	}
	assert.Contains(t, up, "ON DELETE SET NULL")
}
