package strata

import (
	"fmt"
	"strconv"

	"strata/internal/objstore"
	"strata/internal/pointer"
)

// Table option keys, carried as string key/value pairs on the table.
const (
	// OptKeyChunkBlockNum is the merge threshold: how many consecutive input
	// batches are grouped into one stored chunk during append. "1" makes
	// every input batch its own block, which pins pruning granularity to
	// input granularity.
	OptKeyChunkBlockNum = "chunk_block_num"

	// OptKeySnapshotLocation is the storage location of the table's current
	// snapshot. It is reported in Table.Options and advanced only through
	// the commit protocol, never written directly.
	OptKeySnapshotLocation = "snapshot_location"
)

// ObjectStore is the durable object store the catalog persists into.
type ObjectStore = objstore.Store

// PointerStore holds each table's current-snapshot pointer and performs the
// compare-and-swap that serializes commits.
type PointerStore = pointer.Store

// NewMemObjectStore returns an in-memory object store, useful for tests and
// ephemeral catalogs.
func NewMemObjectStore() ObjectStore { return objstore.NewMem() }

// NewMemPointerStore returns an in-memory pointer store.
func NewMemPointerStore() PointerStore { return pointer.NewMem() }

// Options configures a catalog.
type Options struct {
	logger            Logger
	store             ObjectStore
	pointers          PointerStore
	commitRetries     int
	snapshotCacheSize int
	mergeThreshold    int
}

func defaultOptions() Options {
	return Options{
		logger:            DiscardLogger{},
		commitRetries:     10,
		snapshotCacheSize: 128,
		mergeThreshold:    100,
	}
}

// Option configures catalog behavior using the functional options pattern.
type Option func(*Options)

// WithLogger routes engine logging (commit retries, flushes) to l.
func WithLogger(l Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithObjectStore overrides the object store; the path argument of Open is
// ignored for object storage when set.
func WithObjectStore(s ObjectStore) Option {
	return func(o *Options) { o.store = s }
}

// WithPointerStore overrides the snapshot pointer store.
func WithPointerStore(s PointerStore) Option {
	return func(o *Options) { o.pointers = s }
}

// WithCommitRetries bounds how many times a commit rebases and retries after
// losing the pointer race before giving up with ErrCommitConflict.
func WithCommitRetries(n int) Option {
	return func(o *Options) { o.commitRetries = n }
}

// WithSnapshotCacheSize sets the snapshot reader's cache capacity in
// entries. Zero or negative disables the cache.
func WithSnapshotCacheSize(n int) Option {
	return func(o *Options) { o.snapshotCacheSize = n }
}

// WithDefaultMergeThreshold sets the merge threshold for tables that do not
// carry OptKeyChunkBlockNum.
func WithDefaultMergeThreshold(n int) Option {
	return func(o *Options) { o.mergeThreshold = n }
}

// parseMergeThreshold validates an OptKeyChunkBlockNum value.
func parseMergeThreshold(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, OptKeyChunkBlockNum, raw, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, OptKeyChunkBlockNum, n)
	}
	return n, nil
}
