package valcache

import (
	"log/slog"

	"github.com/randalmurphal/valcache/pkg/valcache/journal"
	"github.com/randalmurphal/valcache/pkg/valcache/observability"
)

// cacheConfig holds construction-time configuration.
type cacheConfig struct {
	workers    int
	queueDepth int
	logger     *slog.Logger
	metrics    observability.MetricsRecorder
	spans      observability.SpanManager
	journal    journal.Journal
}

// defaultCacheConfig returns the default configuration.
func defaultCacheConfig() cacheConfig {
	return cacheConfig{
		workers:    4,
		queueDepth: 64,
		metrics:    observability.NoopMetrics{},
		spans:      observability.NoopSpanManager{},
	}
}

// Option configures cache construction.
type Option func(*cacheConfig)

// WithWorkers sets the listener pool's worker count.
// Default: 4
func WithWorkers(n int) Option {
	return func(c *cacheConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithQueueDepth sets the listener pool's task queue depth.
// Set blocks dispatching when the queue is full and all workers are busy.
// Default: 64
func WithQueueDepth(n int) Option {
	return func(c *cacheConfig) {
		if n > 0 {
			c.queueDepth = n
		}
	}
}

// WithLogger enables structured logging of cache operations.
// A nil logger disables logging (the default).
func WithLogger(logger *slog.Logger) Option {
	return func(c *cacheConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Default: observability.NoopMetrics.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *cacheConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracing enables OTel spans around listener dispatch.
func WithTracing() Option {
	return func(c *cacheConfig) {
		c.spans = observability.NewSpanManager()
	}
}

// WithJournal records dispatched notifications and listener outcomes to j.
// The journal's lifetime is owned by the caller; Close does not close it.
func WithJournal(j journal.Journal) Option {
	return func(c *cacheConfig) {
		c.journal = j
	}
}
