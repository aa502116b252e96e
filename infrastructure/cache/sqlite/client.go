// ABOUTME: SQLite snapshot store for the result cache
// ABOUTME: Keeps search snapshots across CLI invocations in a single database file

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/byfranke/PastebinSearch/core/interfaces"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultPath is used when no database file is configured
const DefaultPath = "pastesearch-cache.db"

const (
	maxKeyLength     = 255
	maxSnapshotBytes = 16 << 20
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	key        TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	stored_at  INTEGER NOT NULL,
	expires_at INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS snapshots_expires_at ON snapshots (expires_at);
`

// Store implements interfaces.Cache on a SQLite table.
// expires_at 0 marks snapshots without a TTL.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewSQLiteCache opens (or creates) the snapshot database at path
func NewSQLiteCache(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}

	// one writer at a time; concurrent CLI runs wait instead of failing
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening snapshot database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshot schema: %w", err)
	}

	return &Store{db: db, path: path, now: time.Now}, nil
}

func checkKey(key string) error {
	switch {
	case key == "":
		return errors.New("snapshot key cannot be empty")
	case len(key) > maxKeyLength:
		return fmt.Errorf("snapshot key exceeds %d bytes", maxKeyLength)
	}
	return nil
}

// Get returns the payload stored under key. Expired snapshots are removed when read.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	var (
		payload   []byte
		expiresAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, expires_at FROM snapshots WHERE key = ?`, key,
	).Scan(&payload, &expiresAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, interfaces.ErrCacheMiss
	case err != nil:
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	if expiresAt != 0 && expiresAt <= s.now().Unix() {
		_ = s.Delete(ctx, key)
		return nil, interfaces.ErrCacheMiss
	}
	return payload, nil
}

// Set upserts a snapshot. A ttl of 0 keeps it until deleted.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if len(value) == 0 {
		return errors.New("snapshot payload cannot be empty")
	}
	if len(value) > maxSnapshotBytes {
		return fmt.Errorf("snapshot payload exceeds %d bytes", maxSnapshotBytes)
	}

	now := s.now()
	var expiresAt int64
	if ttl > 0 {
		expiresAt = now.Add(ttl).Unix()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, payload, stored_at, expires_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			stored_at = excluded.stored_at,
			expires_at = excluded.expires_at`,
		key, value, now.Unix(), expiresAt)
	if err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Delete removes a snapshot; a missing key is not an error
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	return nil
}

// Len counts stored snapshots, expired ones included until they are read
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting snapshots: %w", err)
	}
	return n, nil
}

// Path returns the database file
func (s *Store) Path() string {
	return s.path
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

var _ interfaces.Cache = (*Store)(nil)
