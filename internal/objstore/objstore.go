// Package objstore abstracts the durable object store holding chunks,
// snapshots, and table definitions. Objects are immutable once written:
// every key is written exactly once, so concurrent readers never observe a
// partially updated object.
package objstore

import (
	"context"
	"errors"
)

var (
	ErrRead     = errors.New("object store read failed")
	ErrWrite    = errors.New("object store write failed")
	ErrNotExist = errors.New("object does not exist")
)

// Store is a flat keyspace of opaque byte objects. Implementations must make
// Put all-or-nothing: a key either holds the full object or does not exist.
type Store interface {
	// Put stores data under key. Write failures are reported, not retried.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the object at key, or an error wrapping ErrNotExist.
	Get(ctx context.Context, key string) ([]byte, error)
}
