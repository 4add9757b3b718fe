// Package sqlite provides a SQLite-backed snapshot store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pixil98/go-stash/internal/snapshot"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS inventory_snapshots (
	name       TEXT PRIMARY KEY,
	capacity   INTEGER NOT NULL,
	body       TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Store persists snapshots in SQLite, one row per inventory name.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens a SQLite snapshot store and creates its table.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Load returns the snapshot saved under name.
func (s *Store) Load(ctx context.Context, name string) (*snapshot.Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, false, fmt.Errorf("storage is not configured")
	}

	var body string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT body FROM inventory_snapshots WHERE name = ?`,
		name,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get snapshot: %w", err)
	}

	snap := &snapshot.Snapshot{}
	if err := json.Unmarshal([]byte(body), snap); err != nil {
		return nil, false, fmt.Errorf("unmarshal snapshot %q: %w", name, err)
	}
	return snap, true, nil
}

// Save inserts or replaces the snapshot stored under name.
func (s *Store) Save(ctx context.Context, name string, snap *snapshot.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("inventory name is required")
	}
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("validating snapshot %q: %w", name, err)
	}

	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO inventory_snapshots (name, capacity, body, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   capacity = excluded.capacity,
		   body = excluded.body,
		   updated_at = excluded.updated_at`,
		name,
		snap.Capacity,
		string(body),
		s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
