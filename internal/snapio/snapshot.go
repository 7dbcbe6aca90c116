package snapio

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/elastic/go-freelru"
	"github.com/google/uuid"

	"strata/internal/objstore"
	"strata/meta"
)

// Object key prefixes. Keys are content-free UUIDs: a snapshot or chunk is
// never rewritten, so a fresh key per object is what makes publication
// atomic (the pointer swap is the only visible state change).
const (
	snapshotPrefix = "_ss/"
	chunkPrefix    = "_b/"
)

func snapshotKey() string { return snapshotPrefix + uuid.NewString() }
func chunkKey() string    { return chunkPrefix + uuid.NewString() }

// SnapshotWriter persists snapshots to the object store.
type SnapshotWriter struct {
	store objstore.Store
}

// NewSnapshotWriter creates a snapshot writer over store.
func NewSnapshotWriter(store objstore.Store) *SnapshotWriter {
	return &SnapshotWriter{store: store}
}

// Write persists snap at a fresh location and returns it. The object is
// inert until a pointer references the location.
func (w *SnapshotWriter) Write(ctx context.Context, snap *meta.TableSnapshot) (string, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	loc := snapshotKey()
	if err := w.store.Put(ctx, loc, seal(payload)); err != nil {
		return "", err
	}
	return loc, nil
}

// SnapshotReader loads persisted snapshots. Snapshots are immutable, so the
// reader fronts the store with an LRU keyed by location; a cache hit never
// goes stale.
type SnapshotReader struct {
	store objstore.Store
	cache *freelru.LRU[string, *meta.TableSnapshot]
}

func hashLocation(loc string) uint32 {
	return uint32(xxhash.Sum64String(loc))
}

// NewSnapshotReader creates a snapshot reader over store with a cache of
// cacheSize entries. cacheSize <= 0 disables caching.
func NewSnapshotReader(store objstore.Store, cacheSize int) (*SnapshotReader, error) {
	r := &SnapshotReader{store: store}
	if cacheSize > 0 {
		cache, err := freelru.New[string, *meta.TableSnapshot](uint32(cacheSize), hashLocation)
		if err != nil {
			return nil, err
		}
		r.cache = cache
	}
	return r, nil
}

// Read loads the snapshot persisted at loc. It fails if the object is
// missing or malformed.
func (r *SnapshotReader) Read(ctx context.Context, loc string) (*meta.TableSnapshot, error) {
	if r.cache != nil {
		if snap, ok := r.cache.Get(loc); ok {
			return snap, nil
		}
	}

	data, err := r.store.Get(ctx, loc)
	if err != nil {
		return nil, err
	}
	payload, err := unseal(data)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", loc, err)
	}
	snap := &meta.TableSnapshot{}
	if err := json.Unmarshal(payload, snap); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w: %v", loc, ErrMalformed, err)
	}

	if r.cache != nil {
		r.cache.Add(loc, snap)
	}
	return snap, nil
}
