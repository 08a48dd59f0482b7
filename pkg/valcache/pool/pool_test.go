package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	p, err := New("test", Config{})
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, "test", p.Name())
	assert.Equal(t, Stats{}, p.Stats())
}

func TestSubmitRunsTask(t *testing.T) {
	p, err := New("test", Config{Workers: 2})
	require.NoError(t, err)

	done := make(chan struct{})
	err = p.Submit(func(ctx context.Context) {
		close(done)
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run")
	}

	require.NoError(t, p.Close())

	stats := p.Stats()
	assert.Equal(t, int64(1), stats.Submitted)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Equal(t, int64(0), stats.Panicked)
}

func TestSubmitNilTask(t *testing.T) {
	p, err := New("test", Config{})
	require.NoError(t, err)
	defer p.Close()

	err = p.Submit(nil)
	require.ErrorIs(t, err, ErrNilTask)
}

func TestSubmitAfterClose(t *testing.T) {
	p, err := New("test", Config{})
	require.NoError(t, err)
	require.NoError(t, p.Close())

	err = p.Submit(func(ctx context.Context) {})
	require.ErrorIs(t, err, ErrClosed)
}

func TestCloseIdempotent(t *testing.T) {
	p, err := New("test", Config{})
	require.NoError(t, err)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
}

func TestCloseWaitsForQueuedTasks(t *testing.T) {
	p, err := New("test", Config{Workers: 1, QueueDepth: 16})
	require.NoError(t, err)

	var ran atomic.Int64
	for i := 0; i < 10; i++ {
		err := p.Submit(func(ctx context.Context) {
			time.Sleep(time.Millisecond)
			ran.Add(1)
		})
		require.NoError(t, err)
	}

	require.NoError(t, p.Close())
	assert.Equal(t, int64(10), ran.Load())
}

func TestPanicRecovery(t *testing.T) {
	var panics atomic.Int64
	p, err := New("test", Config{
		Workers: 1,
		OnPanic: func(v any) { panics.Add(1) },
	})
	require.NoError(t, err)

	require.NoError(t, p.Submit(func(ctx context.Context) {
		panic("boom")
	}))

	// The worker must survive the panic and run subsequent tasks.
	done := make(chan struct{})
	require.NoError(t, p.Submit(func(ctx context.Context) {
		close(done)
	}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker died after panic")
	}

	require.NoError(t, p.Close())

	stats := p.Stats()
	assert.Equal(t, int64(1), stats.Panicked)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Equal(t, int64(1), panics.Load())
}

func TestConcurrentSubmit(t *testing.T) {
	p, err := New("test", Config{Workers: 4, QueueDepth: 8})
	require.NoError(t, err)

	var ran atomic.Int64
	var wg sync.WaitGroup
	n := 200

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := p.Submit(func(ctx context.Context) {
				ran.Add(1)
			})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()
	require.NoError(t, p.Close())

	assert.Equal(t, int64(n), ran.Load())
	assert.Equal(t, int64(n), p.Stats().Submitted)
}

func TestConcurrentSubmitAndClose(t *testing.T) {
	p, err := New("test", Config{Workers: 2, QueueDepth: 4})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Either accepted or rejected with ErrClosed; never a panic.
			err := p.Submit(func(ctx context.Context) {})
			if err != nil {
				assert.ErrorIs(t, err, ErrClosed)
			}
		}()
	}

	require.NoError(t, p.Close())
	wg.Wait()
}
