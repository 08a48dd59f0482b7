package valcache

import (
	"context"
	"time"
)

// Change is an immutable snapshot of one observed value change. Listeners
// receive the snapshot, never a reference into the live cache, so a delete
// racing a pending notification cannot expose freed or mutating state.
type Change struct {
	// ID uniquely identifies this notification.
	ID string

	// Cache is the owning cache's name.
	Cache string

	// Name is the key of the entry that changed.
	Name string

	// Old is the value before the write.
	Old []uint16

	// New is the value after the write.
	New []uint16

	// Generation is the entry's change count after this write.
	// Successive changes to one entry carry strictly increasing generations,
	// though their listeners may run in any order.
	Generation uint64

	// Timestamp is when the write was observed.
	Timestamp time.Time
}

// ChangeListener is notified when an entry's value is overwritten with
// different content. OnValueChanged runs on a pool worker goroutine, after
// Set has returned; implementations must be safe to call concurrently.
type ChangeListener interface {
	OnValueChanged(ctx context.Context, change Change)
}

// ListenerFunc adapts a function to the ChangeListener interface.
type ListenerFunc func(ctx context.Context, change Change)

// OnValueChanged implements ChangeListener.
func (f ListenerFunc) OnValueChanged(ctx context.Context, change Change) {
	f(ctx, change)
}
