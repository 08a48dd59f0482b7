// Package valcache provides a named in-memory value registry with
// asynchronous change notification.
package valcache

import (
	"errors"
	"fmt"
)

// Sentinel errors for cache operations.
var (
	// ErrInvalidName indicates a key that is empty or longer than NameMax.
	ErrInvalidName = errors.New("invalid entry name")

	// ErrNotFound indicates the named entry does not exist.
	ErrNotFound = errors.New("entry not found")

	// ErrAlreadyExists indicates Add was called with an existing name.
	ErrAlreadyExists = errors.New("entry already exists")

	// ErrInvalidLength indicates a value longer than ValueMax, or a Set
	// value whose length differs from the entry's length.
	ErrInvalidLength = errors.New("invalid value length")

	// ErrEmptyCache indicates Delete was called on a cache with no entries.
	ErrEmptyCache = errors.New("cache has no entries")

	// ErrNotInitialized indicates a size query on a cache with no entries.
	ErrNotInitialized = errors.New("cache not initialized")
)

// OpError wraps a cache operation failure with its context.
type OpError struct {
	// Cache is the cache's name.
	Cache string
	// Op is the operation that failed ("add", "delete", "get", "set", "size").
	Op string
	// Entry is the entry name involved, if any.
	Entry string
	// Err is the underlying sentinel error.
	Err error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("cache %s: %s %q: %v", e.Cache, e.Op, e.Entry, e.Err)
	}
	return fmt.Sprintf("cache %s: %s: %v", e.Cache, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *OpError) Unwrap() error {
	return e.Err
}
