// Package pool provides a bounded worker pool for fire-and-forget task
// execution. The cache uses it to run change listeners off the caller's
// goroutine; tasks carry no results and cannot be cancelled once submitted.
package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// Sentinel errors returned by pool operations.
var (
	// ErrClosed indicates Submit was called after Close.
	ErrClosed = errors.New("pool is closed")

	// ErrNilTask indicates Submit was called with a nil task.
	ErrNilTask = errors.New("task cannot be nil")
)

// Task is a unit of work executed by a pool worker.
// The context is the pool's base context; it is not cancelled per-task.
type Task func(ctx context.Context)

// Config configures pool behavior.
type Config struct {
	// Workers is the number of worker goroutines.
	// Default: 4
	Workers int

	// QueueDepth is the task channel buffer size. Submit blocks when the
	// queue is full and all workers are busy.
	// Default: 64
	QueueDepth int

	// OnPanic is called when a task panics. The panic is recovered so a
	// misbehaving task cannot take down a worker.
	OnPanic func(v any)
}

// DefaultConfig provides reasonable defaults.
var DefaultConfig = Config{
	Workers:    4,
	QueueDepth: 64,
}

// Pool executes submitted tasks on a fixed set of worker goroutines.
// It is safe for concurrent use.
type Pool struct {
	name string
	cfg  Config

	mu     sync.RWMutex
	closed bool
	tasks  chan Task
	wg     sync.WaitGroup

	submitted atomic.Int64
	completed atomic.Int64
	panicked  atomic.Int64
}

// New creates a pool and starts its workers.
// The name appears in errors and is typically the owning cache's name.
func New(name string, cfg Config) (*Pool, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig.Workers
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = DefaultConfig.QueueDepth
	}

	p := &Pool{
		name:  name,
		cfg:   cfg,
		tasks: make(chan Task, cfg.QueueDepth),
	}

	for i := 0; i < cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p, nil
}

// Name returns the pool's name.
func (p *Pool) Name() string {
	return p.name
}

// Submit queues a task for asynchronous execution.
// It blocks when the queue is full and returns ErrClosed after Close.
// There is no ordering guarantee between tasks once workers > 1.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return fmt.Errorf("pool %s: %w", p.name, ErrNilTask)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return fmt.Errorf("pool %s: %w", p.name, ErrClosed)
	}

	p.tasks <- task
	p.submitted.Add(1)
	return nil
}

// Close stops accepting tasks and waits for queued tasks to finish.
// It is idempotent.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}

// Stats provides counters about pool activity.
type Stats struct {
	Submitted int64 // Total tasks accepted by Submit
	Completed int64 // Tasks that ran to completion
	Panicked  int64 // Tasks that panicked
}

// Stats returns a snapshot of pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Panicked:  p.panicked.Load(),
	}
}

// worker consumes tasks until the queue is closed and drained.
func (p *Pool) worker() {
	defer p.wg.Done()
	ctx := context.Background()
	for task := range p.tasks {
		p.run(ctx, task)
	}
}

// run executes one task, recovering panics.
func (p *Pool) run(ctx context.Context, task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.panicked.Add(1)
			if p.cfg.OnPanic != nil {
				p.cfg.OnPanic(r)
			}
		}
	}()

	task(ctx)
	p.completed.Add(1)
}
