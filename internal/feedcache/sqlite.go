// Package feedcache persists assembled feed snapshots between requests.
// Implementations report errors honestly; deciding that a broken store is
// merely a cache miss is the caller's call.
package feedcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mkoval/newsfuse/internal/models"
)

// SQLite keeps snapshots in a local single-file database so a restarted
// process can serve the last assembled feed immediately.
type SQLite struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

// OpenSQLite opens (creating if needed) the snapshot database. Writes go
// through a single connection; reads use a separate read-only handle.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	writeDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("open read db: %w", err)
	}

	s := &SQLite{readDB: readDB, writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			key        TEXT PRIMARY KEY,
			entities   TEXT NOT NULL,
			fetched_at TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Load returns the stored snapshot for the key, or nil when there is none.
func (s *SQLite) Load(ctx context.Context, key string) (*models.FeedSnapshot, error) {
	row := s.readDB.QueryRowContext(ctx,
		`SELECT entities, fetched_at FROM snapshots WHERE key = ?`, key)

	var rawEntities, rawFetchedAt string
	if err := row.Scan(&rawEntities, &rawFetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load snapshot %s: %w", key, err)
	}

	var entities []models.FusedNewsEntity
	if err := json.Unmarshal([]byte(rawEntities), &entities); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", key, err)
	}

	fetchedAt, err := time.Parse(time.RFC3339Nano, rawFetchedAt)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s timestamp: %w", key, err)
	}

	return &models.FeedSnapshot{Entities: entities, FetchedAt: fetchedAt}, nil
}

// Save replaces the snapshot stored under the key. Snapshots are written
// wholesale, never patched.
func (s *SQLite) Save(ctx context.Context, key string, snapshot models.FeedSnapshot) error {
	rawEntities, err := json.Marshal(snapshot.Entities)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", key, err)
	}

	_, err = s.writeDB.ExecContext(ctx, `
		INSERT INTO snapshots (key, entities, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			entities = excluded.entities,
			fetched_at = excluded.fetched_at
	`, key, string(rawEntities), snapshot.FetchedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	return nil
}

// Clear removes the snapshot stored under the key.
func (s *SQLite) Clear(ctx context.Context, key string) error {
	if _, err := s.writeDB.ExecContext(ctx,
		`DELETE FROM snapshots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("clear snapshot %s: %w", key, err)
	}
	return nil
}

// Close releases both database handles.
func (s *SQLite) Close() error {
	var firstErr error
	if s.readDB != nil {
		if err := s.readDB.Close(); err != nil {
			firstErr = err
		}
	}
	if s.writeDB != nil {
		if err := s.writeDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
