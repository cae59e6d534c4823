// Package cache provides a sqlite-backed session cache for downloaded shard
// payloads. Cache entries are keyed by immutable inputs (the shard path), so
// nothing is ever invalidated mid-session; the underlying bucket is treated
// as append-only between sessions.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// ShardCache stores raw shard payloads between pipeline runs.
type ShardCache struct {
	db *sql.DB
}

const migration = `
CREATE TABLE IF NOT EXISTS shard_payloads (
	path_hash  TEXT PRIMARY KEY,
	path       TEXT NOT NULL,
	payload    BLOB NOT NULL,
	fetched_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

// Open opens (or creates) the cache database at the given path and applies
// WAL mode plus the schema.
func Open(dsn string) (*ShardCache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "cache: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "cache: exec %s", pragma)
		}
	}
	if _, err := db.Exec(migration); err != nil {
		_ = db.Close()
		return nil, eris.Wrap(err, "cache: migrate")
	}
	return &ShardCache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *ShardCache) Close() error {
	return c.db.Close()
}

// key returns SHA-256 hex of the shard path.
func key(path string) string {
	h := sha256.Sum256([]byte(path))
	return fmt.Sprintf("%x", h)
}

// Get returns the cached payload for a shard path, or (nil, false) on miss.
func (c *ShardCache) Get(ctx context.Context, path string) ([]byte, bool, error) {
	var payload []byte
	row := c.db.QueryRowContext(ctx,
		"SELECT payload FROM shard_payloads WHERE path_hash = ?", key(path))
	if err := row.Scan(&payload); err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, eris.Wrap(err, "cache: get")
	}
	zap.L().Debug("shard cache hit", zap.String("path", path))
	return payload, true, nil
}

// Put stores a shard payload, replacing any prior entry for the same path.
func (c *ShardCache) Put(ctx context.Context, path string, payload []byte) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO shard_payloads (path_hash, path, payload, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (path_hash) DO UPDATE SET
			payload    = excluded.payload,
			fetched_at = excluded.fetched_at`,
		key(path), path, payload, time.Now().UTC(),
	)
	if err != nil {
		return eris.Wrap(err, "cache: put")
	}
	return nil
}
