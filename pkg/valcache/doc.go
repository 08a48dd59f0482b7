/*
Package valcache provides a named in-memory value registry with
asynchronous change notification.

# Overview

A Cache stores small fixed-length []uint16 values under unique string
keys, preserving insertion order. Every operation is guarded by a single
lock, so concurrent adds, deletes, reads and writes never observe
partial state. When Set overwrites a value with different content, the
entry's listener is handed a snapshot of the change and executed on a
bounded worker pool, after Set has already returned.

# Basic Usage

Create a cache, add entries, and react to changes:

	c, err := valcache.New("sensors")
	if err != nil {
	    log.Fatal(err)
	}
	defer c.Close()

	listener := valcache.ListenerFunc(func(ctx context.Context, ch valcache.Change) {
	    fmt.Printf("%s changed: %v -> %v\n", ch.Name, ch.Old, ch.New)
	})

	_ = c.Add("temp", []uint16{21, 0}, listener)
	_ = c.Set("temp", []uint16{22, 5}) // listener runs asynchronously

# Limits

Keys are at most NameMax bytes; values hold at most ValueMax elements.
Values are copied on the way in and on the way out — callers never share
a buffer with the cache.

# Notification Contract

Dispatch is fire-and-forget. There is no ordering guarantee between the
listener runs of successive Set calls on the same entry (generations in
the Change snapshots are strictly increasing and can be used to detect
stale notifications), and a notification may run after its entry has
been deleted. Snapshots make that safe: listeners never touch live cache
state.

# Observability

Structured logging (log/slog), OpenTelemetry metrics and tracing, and an
optional change journal are wired through Options; all default to off or
no-op. See the observability, journal, and config subpackages.
*/
package valcache
