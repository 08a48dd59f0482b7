package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records cache metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordOp records a cache operation with its error status.
	RecordOp(ctx context.Context, cache, op string, err error)

	// RecordDispatch records an async listener dispatch with its duration
	// and error status.
	RecordDispatch(ctx context.Context, cache, entry string, duration time.Duration, err error)

	// RecordSize records the cache's entry count and occupied bytes.
	RecordSize(ctx context.Context, cache string, entries, bytes int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	ops             metric.Int64Counter
	opErrors        metric.Int64Counter
	dispatches      metric.Int64Counter
	listenerErrors  metric.Int64Counter
	listenerLatency metric.Float64Histogram
	entryCount      metric.Int64Histogram
	occupiedBytes   metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("valcache")

	ops, err := meter.Int64Counter("valcache.ops",
		metric.WithDescription("Number of cache operations"),
	)
	if err != nil {
		return nil, err
	}

	opErrors, err := meter.Int64Counter("valcache.op.errors",
		metric.WithDescription("Number of failed cache operations"),
	)
	if err != nil {
		return nil, err
	}

	dispatches, err := meter.Int64Counter("valcache.changes.dispatched",
		metric.WithDescription("Number of change notifications dispatched"),
	)
	if err != nil {
		return nil, err
	}

	listenerErrors, err := meter.Int64Counter("valcache.listener.errors",
		metric.WithDescription("Number of change listener failures"),
	)
	if err != nil {
		return nil, err
	}

	listenerLatency, err := meter.Float64Histogram("valcache.listener.latency_ms",
		metric.WithDescription("Change listener execution latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	entryCount, err := meter.Int64Histogram("valcache.entries",
		metric.WithDescription("Entry count observed by size queries"),
	)
	if err != nil {
		return nil, err
	}

	occupiedBytes, err := meter.Int64Histogram("valcache.occupied_bytes",
		metric.WithDescription("Occupied value bytes observed by size queries"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		ops:             ops,
		opErrors:        opErrors,
		dispatches:      dispatches,
		listenerErrors:  listenerErrors,
		listenerLatency: listenerLatency,
		entryCount:      entryCount,
		occupiedBytes:   occupiedBytes,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordOp records a cache operation.
func (m *otelMetrics) RecordOp(ctx context.Context, cache, op string, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("cache", cache),
		attribute.String("op", op),
	}

	m.ops.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		m.opErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordDispatch records a listener dispatch.
func (m *otelMetrics) RecordDispatch(ctx context.Context, cache, entry string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("cache", cache),
		attribute.String("entry", entry),
	}

	m.dispatches.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.listenerLatency.Record(ctx, float64(duration.Microseconds())/1000.0, metric.WithAttributes(attrs...))

	if err != nil {
		m.listenerErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordSize records a size query result.
func (m *otelMetrics) RecordSize(ctx context.Context, cache string, entries, bytes int64) {
	attrs := []attribute.KeyValue{
		attribute.String("cache", cache),
	}
	m.entryCount.Record(ctx, entries, metric.WithAttributes(attrs...))
	m.occupiedBytes.Record(ctx, bytes, metric.WithAttributes(attrs...))
}
