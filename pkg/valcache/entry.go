package valcache

// Limits on entry keys and values.
const (
	// NameMax is the maximum key length in bytes.
	NameMax = 32

	// ValueMax is the maximum number of 16-bit elements per entry.
	ValueMax = 255

	// valueUnitSize is the byte width of one value element.
	valueUnitSize = 2
)

// entry is one named value slot. The value buffer is owned exclusively by
// the cache; callers only ever see copies. The generation counter increments
// on every observed value change and tags outgoing notifications.
type entry struct {
	name     string
	value    []uint16
	listener ChangeListener
	gen      uint64
}

// Info describes an entry without exposing its live buffer.
type Info struct {
	// Name is the entry's key.
	Name string

	// Length is the entry's element count.
	Length int

	// Generation is the number of value changes observed so far.
	Generation uint64

	// HasListener reports whether a change listener is registered.
	HasListener bool
}

// info builds an Info snapshot. Caller must hold the cache lock.
func (e *entry) info() Info {
	return Info{
		Name:        e.name,
		Length:      len(e.value),
		Generation:  e.gen,
		HasListener: e.listener != nil,
	}
}

// validateName checks the key against NameMax.
func validateName(name string) error {
	if name == "" || len(name) > NameMax {
		return ErrInvalidName
	}
	return nil
}
