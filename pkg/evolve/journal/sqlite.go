package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/randalmurphal/evolve/pkg/evolve/event"
	"github.com/randalmurphal/evolve/pkg/evolve/stream"
)

// SQLiteStore persists raw events to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite journal store.
// The path should be a file path (e.g., "./events.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A second pooled connection to ":memory:" would see a different
	// database, and appends serialize on position anyway.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			stream_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			revision INTEGER NOT NULL,
			metadata TEXT NOT NULL,
			data BLOB NOT NULL,
			PRIMARY KEY (stream_id, position)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_events_stream_id
		ON events(stream_id)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Append implements Store.
func (s *SQLiteStore) Append(ctx context.Context, streamID string, raws ...event.Raw) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	if len(raws) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	for _, raw := range raws {
		meta, err := json.Marshal(raw.Meta)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO events (stream_id, position, name, revision, metadata, data)
			VALUES (
				?,
				COALESCE((SELECT MAX(position) FROM events WHERE stream_id = ?), 0) + 1,
				?, ?, ?, ?
			)
		`, streamID, streamID, raw.Name, raw.Revision, string(meta), []byte(raw.Data)); err != nil {
			return fmt.Errorf("append event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

// Events implements Store.
func (s *SQLiteStore) Events(ctx context.Context, streamID string) stream.Stream[event.Raw] {
	return func(yield func(event.Raw, error) bool) {
		s.mu.RLock()
		if s.closed {
			s.mu.RUnlock()
			yield(event.Raw{}, ErrStoreClosed)
			return
		}
		rows, err := s.db.QueryContext(ctx, `
			SELECT name, revision, metadata, data
			FROM events
			WHERE stream_id = ?
			ORDER BY position
		`, streamID)
		s.mu.RUnlock()

		if err != nil {
			yield(event.Raw{}, fmt.Errorf("read events: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var raw event.Raw
			var meta string
			var data []byte
			if err := rows.Scan(&raw.Name, &raw.Revision, &meta, &data); err != nil {
				yield(event.Raw{}, fmt.Errorf("scan event: %w", err))
				return
			}
			if err := json.Unmarshal([]byte(meta), &raw.Meta); err != nil {
				yield(event.Raw{}, fmt.Errorf("unmarshal metadata: %w", err))
				return
			}
			raw.Data = json.RawMessage(data)
			if !yield(raw, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(event.Raw{}, fmt.Errorf("read events: %w", err))
		}
	}
}

// Len implements Store.
func (s *SQLiteStore) Len(ctx context.Context, streamID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ErrStoreClosed
	}

	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM events WHERE stream_id = ?
	`, streamID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
