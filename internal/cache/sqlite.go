package cache

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS api_cache (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_api_cache_key ON api_cache (key);
`

// SQLiteStore is a [Store] persisted to a SQLite database, surviving restarts.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite-backed store at the given path.
// The path can be ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM api_cache WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO api_cache (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, created_at = CURRENT_TIMESTAMP",
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteMatched(ctx context.Context, prefix string) error {
	// LIKE wildcards in the prefix itself must be escaped so only literal
	// prefix matches are deleted.
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	_, err := s.db.ExecContext(ctx, `DELETE FROM api_cache WHERE key LIKE ? ESCAPE '\'`, escaped+"%")
	if err != nil {
		return fmt.Errorf("failed to delete cache entries: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
