// Package pointer implements the per-table current-snapshot pointer: the
// only shared mutable state in the engine. Every mutation goes through
// CompareAndSwap; a commit that loses the race observes a false swap and
// rebases. The pointer value is a snapshot storage location; the empty
// string means the table has no published snapshot yet.
package pointer

import (
	"context"
	"errors"
)

var ErrPointerIO = errors.New("pointer store io failed")

// Store maps a table key to its current snapshot location.
type Store interface {
	// Read returns the current snapshot location, or "" when none has been
	// published.
	Read(ctx context.Context, table string) (string, error)

	// CompareAndSwap atomically replaces the pointer with next if it still
	// equals expected. It reports whether the swap happened; a false return
	// with nil error means another writer advanced the pointer first.
	CompareAndSwap(ctx context.Context, table, expected, next string) (bool, error)
}
