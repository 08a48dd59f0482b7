package valcache

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/valcache/pkg/valcache/journal"
	"github.com/randalmurphal/valcache/pkg/valcache/observability"
	"github.com/randalmurphal/valcache/pkg/valcache/pool"
)

// Cache is a named registry of fixed-length []uint16 values with
// asynchronous change notification. Entries keep insertion order; keys are
// unique. All operations are safe for concurrent use: a single lock guards
// every read and write of entry state, so readers can never observe an
// entry mid-mutation or after deletion.
//
// Change listeners run on a worker pool, off the caller's goroutine. Set
// returns before the listener runs; each listener invocation receives a
// value snapshot, never a live entry reference.
type Cache struct {
	name string
	cfg  cacheConfig

	mu    sync.RWMutex
	items map[string]*list.Element // key -> element; element value is *entry
	order *list.List               // insertion order, front = oldest

	pool *pool.Pool
}

// New creates a cache and starts its listener pool.
//
// An invalid name (empty or longer than NameMax) is non-fatal: the cache is
// still returned, usable with an empty name, alongside ErrInvalidName.
func New(name string, opts ...Option) (*Cache, error) {
	cfg := defaultCacheConfig()
	for _, fn := range opts {
		fn(&cfg)
	}

	var initErr error
	if err := validateName(name); err != nil {
		initErr = &OpError{Cache: name, Op: "init", Err: err}
		name = ""
	}

	p, err := pool.New("cache", pool.Config{
		Workers:    cfg.workers,
		QueueDepth: cfg.queueDepth,
	})
	if err != nil {
		return nil, fmt.Errorf("create listener pool: %w", err)
	}

	return &Cache{
		name:  name,
		cfg:   cfg,
		items: make(map[string]*list.Element),
		order: list.New(),
		pool:  p,
	}, initErr
}

// Name returns the cache's name.
func (c *Cache) Name() string {
	return c.name
}

// Has reports whether an entry with the given name exists.
func (c *Cache) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.items[name]
	return ok
}

// Lookup returns a descriptive snapshot of the named entry.
func (c *Cache) Lookup(name string) (Info, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	el, ok := c.items[name]
	if !ok {
		return Info{}, false
	}
	return el.Value.(*entry).info(), true
}

// Add creates a new entry holding a copy of value, with an optional change
// listener bound for the entry's lifetime. It fails with ErrAlreadyExists
// for duplicate names and ErrInvalidLength when len(value) exceeds
// ValueMax. On failure no entry is created. Add never fires the listener.
func (c *Cache) Add(name string, value []uint16, listener ChangeListener) error {
	ctx := context.Background()

	if err := validateName(name); err != nil {
		return c.opError(ctx, "add", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Existence check and insertion stay atomic under the write lock.
	if _, ok := c.items[name]; ok {
		return c.opError(ctx, "add", name, ErrAlreadyExists)
	}
	if len(value) > ValueMax {
		return c.opError(ctx, "add", name, ErrInvalidLength)
	}

	owned := make([]uint16, len(value))
	copy(owned, value)

	c.items[name] = c.order.PushBack(&entry{
		name:     name,
		value:    owned,
		listener: listener,
	})

	observability.LogAdd(c.cfg.logger, c.name, name, len(owned))
	c.cfg.metrics.RecordOp(ctx, c.name, "add", nil)
	return nil
}

// Delete removes the named entry, preserving the order of the rest.
// It fails with ErrEmptyCache when the cache holds no entries and
// ErrNotFound when the name is absent.
func (c *Cache) Delete(name string) error {
	ctx := context.Background()

	if err := validateName(name); err != nil {
		return c.opError(ctx, "delete", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) == 0 {
		return c.opError(ctx, "delete", name, ErrEmptyCache)
	}

	el, ok := c.items[name]
	if !ok {
		return c.opError(ctx, "delete", name, ErrNotFound)
	}

	c.order.Remove(el)
	delete(c.items, name)
	el.Value.(*entry).value = nil

	observability.LogDelete(c.cfg.logger, c.name, name)
	c.cfg.metrics.RecordOp(ctx, c.name, "delete", nil)
	return nil
}

// Get returns a copy of the named entry's value.
func (c *Cache) Get(name string) ([]uint16, error) {
	ctx := context.Background()

	if err := validateName(name); err != nil {
		return nil, c.opError(ctx, "get", name, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	el, ok := c.items[name]
	if !ok {
		return nil, c.opError(ctx, "get", name, ErrNotFound)
	}

	e := el.Value.(*entry)
	out := make([]uint16, len(e.value))
	copy(out, e.value)

	c.cfg.metrics.RecordOp(ctx, c.name, "get", nil)
	return out, nil
}

// Set overwrites the named entry's value. The new value must have exactly
// the entry's length. When at least one element differs and a listener is
// registered, exactly one notification task is submitted to the pool; Set
// returns before the listener runs. An identical value submits nothing.
func (c *Cache) Set(name string, value []uint16) error {
	ctx := context.Background()

	if err := validateName(name); err != nil {
		return c.opError(ctx, "set", name, err)
	}

	c.mu.Lock()

	el, ok := c.items[name]
	if !ok {
		c.mu.Unlock()
		return c.opError(ctx, "set", name, ErrNotFound)
	}

	e := el.Value.(*entry)
	if len(value) != len(e.value) {
		c.mu.Unlock()
		return c.opError(ctx, "set", name, ErrInvalidLength)
	}

	var change Change
	changed := false
	for i, v := range value {
		if e.value[i] != v {
			changed = true
			break
		}
	}
	if changed {
		old := e.value
		e.value = make([]uint16, len(value))
		copy(e.value, value)
		e.gen++

		if e.listener != nil {
			newCopy := make([]uint16, len(e.value))
			copy(newCopy, e.value)
			change = Change{
				ID:         uuid.New().String(),
				Cache:      c.name,
				Name:       name,
				Old:        old, // ownership transfers to the snapshot
				New:        newCopy,
				Generation: e.gen,
				Timestamp:  time.Now(),
			}
		}
	}
	listener := e.listener
	c.mu.Unlock()

	observability.LogSet(c.cfg.logger, c.name, name, changed)
	c.cfg.metrics.RecordOp(ctx, c.name, "set", nil)

	if changed && listener != nil {
		c.dispatch(change, listener)
	}
	return nil
}

// Size reports the entry count and the total occupied value bytes
// (2 bytes per element), traversing entries in insertion order. An empty
// cache reports zeros along with ErrNotInitialized.
func (c *Cache) Size() (entries int, bytes int, err error) {
	ctx := context.Background()

	c.mu.RLock()
	for el := c.order.Front(); el != nil; el = el.Next() {
		entries++
		bytes += len(el.Value.(*entry).value) * valueUnitSize
	}
	c.mu.RUnlock()

	if entries == 0 {
		return 0, 0, c.opError(ctx, "size", "", ErrNotInitialized)
	}

	c.cfg.metrics.RecordOp(ctx, c.name, "size", nil)
	c.cfg.metrics.RecordSize(ctx, c.name, int64(entries), int64(bytes))
	return entries, bytes, nil
}

// Keys returns all entry names in insertion order.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.items))
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry).name)
	}
	return keys
}

// Close stops the listener pool, waiting for queued notifications to run.
// Entries remain readable; further Set calls still store values but their
// notifications are dropped and logged. Close does not close a configured
// journal: its lifetime belongs to the caller.
func (c *Cache) Close() error {
	return c.pool.Close()
}

// PoolStats returns counters from the listener pool.
func (c *Cache) PoolStats() pool.Stats {
	return c.pool.Stats()
}

// dispatch submits one notification task for a change snapshot.
func (c *Cache) dispatch(change Change, listener ChangeListener) {
	task := func(ctx context.Context) {
		start := time.Now()
		spanCtx, span := c.cfg.spans.StartDispatchSpan(ctx, c.name, change.Name, change.ID)

		var taskErr error
		func() {
			defer func() {
				if r := recover(); r != nil {
					taskErr = fmt.Errorf("listener panic: %v", r)
				}
			}()
			listener.OnValueChanged(spanCtx, change)
		}()

		duration := time.Since(start)
		durationMs := float64(duration.Microseconds()) / 1000.0

		c.cfg.spans.EndSpanWithError(span, taskErr)
		c.cfg.metrics.RecordDispatch(ctx, c.name, change.Name, duration, taskErr)

		if taskErr != nil {
			observability.LogListenerError(c.cfg.logger, c.name, change.Name, change.ID, taskErr)
		} else {
			observability.LogChangeDispatched(c.cfg.logger, c.name, change.Name, change.ID, durationMs)
		}

		if c.cfg.journal != nil {
			rec := &journal.Record{
				ChangeID:     change.ID,
				Cache:        c.name,
				Entry:        change.Name,
				Generation:   change.Generation,
				DispatchedAt: start,
				DurationMS:   durationMs,
			}
			if taskErr != nil {
				rec.Error = taskErr.Error()
			}
			if err := c.cfg.journal.Record(ctx, rec); err != nil {
				observability.LogOpError(c.cfg.logger, c.name, "journal", change.Name, err)
			}
		}
	}

	if err := c.pool.Submit(task); err != nil {
		observability.LogOpError(c.cfg.logger, c.name, "dispatch", change.Name, err)
	}
}

// opError wraps err with operation context, recording it in logs and metrics.
func (c *Cache) opError(ctx context.Context, op, name string, err error) error {
	wrapped := &OpError{Cache: c.name, Op: op, Entry: name, Err: err}
	observability.LogOpError(c.cfg.logger, c.name, op, name, err)
	c.cfg.metrics.RecordOp(ctx, c.name, op, err)
	return wrapped
}
