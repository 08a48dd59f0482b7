// Package journal records dispatched change notifications and listener
// outcomes for diagnostics. It is an audit trail, not a persistence layer:
// cache values are never written here, only notification metadata.
package journal

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Sentinel errors returned by journal implementations.
var (
	// ErrClosed indicates an operation on a closed journal.
	ErrClosed = errors.New("journal is closed")

	// ErrFull indicates the journal rejected a record because it is at
	// capacity.
	ErrFull = errors.New("journal is full")
)

// Record describes one dispatched change notification.
type Record struct {
	// ChangeID is the notification's unique ID.
	ChangeID string `json:"change_id"`

	// Cache is the owning cache's name.
	Cache string `json:"cache"`

	// Entry is the name of the entry that changed.
	Entry string `json:"entry"`

	// Generation is the entry's generation at dispatch time.
	Generation uint64 `json:"generation"`

	// DispatchedAt is when the listener task started running.
	DispatchedAt time.Time `json:"dispatched_at"`

	// DurationMS is how long the listener ran, in milliseconds.
	DurationMS float64 `json:"duration_ms"`

	// Error is the listener failure message; empty on success.
	Error string `json:"error,omitempty"`
}

// Journal stores change notification records.
// Implementations must be safe for concurrent use.
type Journal interface {
	// Record appends a dispatch record.
	Record(ctx context.Context, rec *Record) error

	// List returns records for a single entry, newest first.
	// limit <= 0 returns all matching records.
	List(ctx context.Context, entry string, limit int) ([]*Record, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases journal resources.
	Close() error
}

// MemoryConfig configures the in-memory journal.
type MemoryConfig struct {
	// MaxRecords caps stored records. Default: 10000.
	MaxRecords int
}

// DefaultMemoryConfig provides reasonable defaults.
var DefaultMemoryConfig = MemoryConfig{
	MaxRecords: 10000,
}

// MemoryJournal is an in-memory Journal.
// Suitable for tests and single-process diagnostics.
type MemoryJournal struct {
	mu      sync.RWMutex
	records []*Record
	cfg     MemoryConfig
	closed  bool
}

// NewMemoryJournal creates an in-memory journal.
func NewMemoryJournal(cfg MemoryConfig) *MemoryJournal {
	if cfg.MaxRecords <= 0 {
		cfg.MaxRecords = DefaultMemoryConfig.MaxRecords
	}
	return &MemoryJournal{cfg: cfg}
}

// Record implements Journal.
func (j *MemoryJournal) Record(ctx context.Context, rec *Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return ErrClosed
	}
	if len(j.records) >= j.cfg.MaxRecords {
		return ErrFull
	}

	stored := *rec
	j.records = append(j.records, &stored)
	return nil
}

// List implements Journal.
func (j *MemoryJournal) List(ctx context.Context, entry string, limit int) ([]*Record, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.closed {
		return nil, ErrClosed
	}

	var out []*Record
	for i := len(j.records) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		if j.records[i].Entry == entry {
			out = append(out, j.records[i])
		}
	}
	return out, nil
}

// Count implements Journal.
func (j *MemoryJournal) Count(ctx context.Context) (int, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.closed {
		return 0, ErrClosed
	}
	return len(j.records), nil
}

// Close implements Journal.
func (j *MemoryJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.closed = true
	return nil
}
