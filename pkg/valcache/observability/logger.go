// Package observability provides production-grade observability features
// for valcache: structured logging, metrics, and distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds cache context to a logger.
// Returns a new logger with cache and entry fields.
func EnrichLogger(logger *slog.Logger, cache, entry string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("cache", cache),
		slog.String("entry", entry),
	)
}

// LogAdd logs a successful entry insertion.
func LogAdd(logger *slog.Logger, cache, entry string, length int) {
	if logger == nil {
		return
	}
	logger.Debug("entry added",
		slog.String("cache", cache),
		slog.String("entry", entry),
		slog.Int("length", length),
	)
}

// LogDelete logs a successful entry removal.
func LogDelete(logger *slog.Logger, cache, entry string) {
	if logger == nil {
		return
	}
	logger.Debug("entry deleted",
		slog.String("cache", cache),
		slog.String("entry", entry),
	)
}

// LogSet logs a value write.
func LogSet(logger *slog.Logger, cache, entry string, changed bool) {
	if logger == nil {
		return
	}
	logger.Debug("entry value set",
		slog.String("cache", cache),
		slog.String("entry", entry),
		slog.Bool("changed", changed),
	)
}

// LogOpError logs a failed cache operation.
func LogOpError(logger *slog.Logger, cache, op, entry string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("cache operation failed",
		slog.String("cache", cache),
		slog.String("op", op),
		slog.String("entry", entry),
		slog.String("error", err.Error()),
	)
}

// LogChangeDispatched logs completion of an async change listener.
func LogChangeDispatched(logger *slog.Logger, cache, entry, changeID string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("change listener completed",
		slog.String("cache", cache),
		slog.String("entry", entry),
		slog.String("change_id", changeID),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogListenerError logs a change listener failure (non-fatal).
func LogListenerError(logger *slog.Logger, cache, entry, changeID string, err error) {
	if logger == nil {
		return
	}
	logger.Error("change listener failed",
		slog.String("cache", cache),
		slog.String("entry", entry),
		slog.String("change_id", changeID),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000.0
	}
}
