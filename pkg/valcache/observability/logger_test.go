package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogger returns a debug-level JSON logger writing to buf.
func captureLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// lastEntry decodes the last log line from buf.
func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestEnrichLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := captureLogger(&buf)

	enriched := EnrichLogger(logger, "sensors", "temp")
	require.NotNil(t, enriched)

	enriched.Info("hello")
	entry := lastEntry(t, &buf)
	assert.Equal(t, "sensors", entry["cache"])
	assert.Equal(t, "temp", entry["entry"])
}

func TestEnrichLoggerNil(t *testing.T) {
	assert.Nil(t, EnrichLogger(nil, "sensors", "temp"))
}

func TestLogAdd(t *testing.T) {
	var buf bytes.Buffer
	LogAdd(captureLogger(&buf), "sensors", "temp", 2)

	entry := lastEntry(t, &buf)
	assert.Equal(t, "entry added", entry["msg"])
	assert.Equal(t, "temp", entry["entry"])
	assert.Equal(t, float64(2), entry["length"])
}

func TestLogDelete(t *testing.T) {
	var buf bytes.Buffer
	LogDelete(captureLogger(&buf), "sensors", "temp")

	entry := lastEntry(t, &buf)
	assert.Equal(t, "entry deleted", entry["msg"])
}

func TestLogSet(t *testing.T) {
	var buf bytes.Buffer
	LogSet(captureLogger(&buf), "sensors", "temp", true)

	entry := lastEntry(t, &buf)
	assert.Equal(t, "entry value set", entry["msg"])
	assert.Equal(t, true, entry["changed"])
}

func TestLogOpError(t *testing.T) {
	var buf bytes.Buffer
	LogOpError(captureLogger(&buf), "sensors", "delete", "gone", errors.New("entry not found"))

	entry := lastEntry(t, &buf)
	assert.Equal(t, "cache operation failed", entry["msg"])
	assert.Equal(t, "delete", entry["op"])
	assert.Equal(t, "entry not found", entry["error"])
}

func TestLogChangeDispatched(t *testing.T) {
	var buf bytes.Buffer
	LogChangeDispatched(captureLogger(&buf), "sensors", "temp", "change-1", 2.5)

	entry := lastEntry(t, &buf)
	assert.Equal(t, "change listener completed", entry["msg"])
	assert.Equal(t, "change-1", entry["change_id"])
	assert.Equal(t, 2.5, entry["duration_ms"])
}

func TestLogListenerError(t *testing.T) {
	var buf bytes.Buffer
	LogListenerError(captureLogger(&buf), "sensors", "temp", "change-1", errors.New("boom"))

	entry := lastEntry(t, &buf)
	assert.Equal(t, "change listener failed", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
}

func TestNilLoggersDoNotPanic(t *testing.T) {
	LogAdd(nil, "c", "e", 1)
	LogDelete(nil, "c", "e")
	LogSet(nil, "c", "e", false)
	LogOpError(nil, "c", "op", "e", errors.New("x"))
	LogChangeDispatched(nil, "c", "e", "id", 0)
	LogListenerError(nil, "c", "e", "id", errors.New("x"))
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	elapsed := done()
	assert.GreaterOrEqual(t, elapsed, 0.0)
}
