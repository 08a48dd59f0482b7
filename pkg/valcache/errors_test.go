package valcache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpErrorFormatting(t *testing.T) {
	err := &OpError{Cache: "sensors", Op: "add", Entry: "temp", Err: ErrAlreadyExists}
	assert.Equal(t, `cache sensors: add "temp": entry already exists`, err.Error())
	assert.ErrorIs(t, err, ErrAlreadyExists)

	sizeErr := &OpError{Cache: "sensors", Op: "size", Err: ErrNotInitialized}
	assert.Equal(t, "cache sensors: size: cache not initialized", sizeErr.Error())
}

func TestOpErrorUnwrap(t *testing.T) {
	err := &OpError{Cache: "c", Op: "get", Entry: "e", Err: ErrNotFound}
	assert.Equal(t, ErrNotFound, errors.Unwrap(err))
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrInvalidName,
		ErrNotFound,
		ErrAlreadyExists,
		ErrInvalidLength,
		ErrEmptyCache,
		ErrNotInitialized,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}

func TestListenerFunc(t *testing.T) {
	var got Change
	fn := ListenerFunc(func(ctx context.Context, ch Change) {
		got = ch
	})

	fn.OnValueChanged(context.Background(), Change{ID: "x", Name: "temp"})
	require.Equal(t, "x", got.ID)
	require.Equal(t, "temp", got.Name)
}
