// Package store persists daily summaries as opaque JSON blobs in SQLite.
// Storage is deliberately a dumb key-value surface: keys name a rounded
// coordinate and calendar date, values are whatever summary shape was
// current when they were written. Interpreting old shapes is the domain
// reader's job, not the store's.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed key-value store for persisted summaries.
type Store struct {
	db *sql.DB
}

// Open creates or opens the summary database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS summaries (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the stored value for key. The second return reports presence.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM summaries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Put upserts the value for key.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO summaries (key, value, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// Scan returns all key/value pairs whose key starts with prefix. An empty
// prefix returns everything.
func (s *Store) Scan(ctx context.Context, prefix string) (map[string][]byte, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM summaries WHERE key LIKE ? || '%' ORDER BY key`, prefix)
	if err != nil {
		return nil, fmt.Errorf("scan %q: %w", prefix, err)
	}
	defer rows.Close()

	out := map[string][]byte{}
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan %q: %w", prefix, err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan %q: %w", prefix, err)
	}
	return out, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Key builds the storage key for a coordinate and calendar date. Coordinates
// round to 2 decimals (roughly a kilometer) so nearby requests share one
// persisted summary.
func Key(lat, lon float64, date string) string {
	return fmt.Sprintf("%.2f,%.2f|%s", lat, lon, date)
}

// ParseKey splits a storage key back into coordinate and date.
func ParseKey(key string) (lat, lon float64, date string, err error) {
	coord, date, ok := strings.Cut(key, "|")
	if !ok {
		return 0, 0, "", fmt.Errorf("malformed key %q", key)
	}
	latStr, lonStr, ok := strings.Cut(coord, ",")
	if !ok {
		return 0, 0, "", fmt.Errorf("malformed key %q", key)
	}
	if lat, err = strconv.ParseFloat(latStr, 64); err != nil {
		return 0, 0, "", fmt.Errorf("malformed key %q", key)
	}
	if lon, err = strconv.ParseFloat(lonStr, 64); err != nil {
		return 0, 0, "", fmt.Errorf("malformed key %q", key)
	}
	return lat, lon, date, nil
}
