package journal

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteJournal persists dispatch records to SQLite.
// It is suitable for single-process production use.
type SQLiteJournal struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// Compile-time interface check.
var _ Journal = (*SQLiteJournal)(nil)

// NewSQLiteJournal creates a SQLite-backed journal.
// The path should be a file path (e.g., "./changes.db") or ":memory:" for testing.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS change_journal (
			change_id TEXT PRIMARY KEY,
			cache TEXT NOT NULL,
			entry TEXT NOT NULL,
			generation INTEGER NOT NULL,
			dispatched_at TEXT NOT NULL,
			duration_ms REAL NOT NULL,
			error TEXT NOT NULL DEFAULT ''
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_change_journal_entry
		ON change_journal(entry, dispatched_at)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

// Record implements Journal.
func (j *SQLiteJournal) Record(ctx context.Context, rec *Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return ErrClosed
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO change_journal
			(change_id, cache, entry, generation, dispatched_at, duration_ms, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ChangeID, rec.Cache, rec.Entry, rec.Generation,
		rec.DispatchedAt.UTC().Format(time.RFC3339Nano), rec.DurationMS, rec.Error)

	if err != nil {
		return fmt.Errorf("record change: %w", err)
	}
	return nil
}

// List implements Journal.
func (j *SQLiteJournal) List(ctx context.Context, entry string, limit int) ([]*Record, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.closed {
		return nil, ErrClosed
	}

	query := `
		SELECT change_id, cache, entry, generation, dispatched_at, duration_ms, error
		FROM change_journal
		WHERE entry = ?
		ORDER BY dispatched_at DESC
	`
	args := []any{entry}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list changes: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		var rec Record
		var dispatchedAt string
		if err := rows.Scan(&rec.ChangeID, &rec.Cache, &rec.Entry, &rec.Generation,
			&dispatchedAt, &rec.DurationMS, &rec.Error); err != nil {
			return nil, fmt.Errorf("scan change record: %w", err)
		}
		rec.DispatchedAt, _ = time.Parse(time.RFC3339Nano, dispatchedAt)
		out = append(out, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate change records: %w", err)
	}

	return out, nil
}

// Count implements Journal.
func (j *SQLiteJournal) Count(ctx context.Context) (int, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.closed {
		return 0, ErrClosed
	}

	var n int
	err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM change_journal`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count change records: %w", err)
	}
	return n, nil
}

// Close implements Journal.
func (j *SQLiteJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}

	j.closed = true
	return j.db.Close()
}
