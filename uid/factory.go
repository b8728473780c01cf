// Package uid issues the small positive integers that identify every
// auditable object in a to-do list.
//
// A Factory is not a process-wide singleton. Each to-do list owns one, so
// several lists (one per end user, say) can share a process without their
// identifiers interfering.
package uid

import (
	"strconv"
	"sync"
)

// UID is a unique identifier. Valid identifiers are at least Min.
type UID int64

const (
	// None is the identifier of the synthetic "no context" context. It is
	// never issued.
	None UID = 0

	// Min is the smallest identifier a Factory issues.
	Min UID = 1
)

// String returns the identifier in the user-facing uid=N syntax.
func (u UID) String() string {
	return Prefix + strconv.FormatInt(int64(u), 10)
}

// Factory issues strictly increasing identifiers. It is safe for concurrent use.
type Factory struct {
	mu       sync.Mutex
	previous UID
}

// NewFactory returns a factory whose first identifier is Min.
func NewFactory() *Factory {
	return &Factory{previous: Min - 1}
}

// Next issues a new identifier, greater than every identifier previously
// issued or observed.
func (f *Factory) Next() UID {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.previous++
	return f.previous
}

// Observe notes an identifier that already exists, e.g. one read back from
// a save file, so that Next never issues it again.
func (f *Factory) Observe(existing UID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if existing > f.previous {
		f.previous = existing
	}
}

// Reset forgets every issued and observed identifier. Deserialization calls
// Reset and then Observe for each decoded identifier.
func (f *Factory) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.previous = Min - 1
}

// Peek returns the high-water mark without issuing anything.
func (f *Factory) Peek() UID {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.previous
}
