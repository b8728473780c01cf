// Package store persists the frozen bytes of a to-do list. It knows
// nothing about their contents; see package serialization for that.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/amonks/immaculater/internal/validation"
)

// Backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// DefaultName names the to-do list in a SQLite database when none is given.
const DefaultName = "default"

// ErrUnknownBackend indicates a backend name Open does not recognize.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Store reads and writes one named resource. A resource that does not
// exist yet reads as empty.
type Store interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error

	// Name describes the resource for messages and logs.
	Name() string

	Close() error
}

// Options selects and configures a backend.
type Options struct {
	// Backend is BackendFile or BackendSQLite. BackendFile is used when
	// empty.
	Backend string

	// Path is the file, or the SQLite database, to use.
	Path string

	// Name picks one of several lists stored in a SQLite database.
	Name string
}

// Open returns the store opts describes.
func Open(ctx context.Context, opts Options) (Store, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(opts.Path), nil
	case BackendSQLite:
		name := opts.Name
		if name == "" {
			name = DefaultName
		}
		return OpenSQLite(ctx, opts.Path, name)
	default:
		return nil, validation.OneOf(ErrUnknownBackend, "storage backend", opts.Backend, []string{BackendFile, BackendSQLite})
	}
}
