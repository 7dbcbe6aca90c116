package snapio

import (
	"context"
	"encoding/json"
	"fmt"

	"strata/internal/objstore"
	"strata/meta"
)

// chunkObject is the persisted form of one stored chunk: the column vectors
// in schema order, with names carried for self-description.
type chunkObject struct {
	Names   []string       `json:"names"`
	Columns [][]meta.Value `json:"columns"`
}

// ChunkWriter flushes merged column vectors to the object store and builds
// the catalog entry for the stored chunk. Statistics are computed here, once,
// from the actual values being written.
type ChunkWriter struct {
	store objstore.Store
}

// NewChunkWriter creates a chunk writer over store.
func NewChunkWriter(store objstore.Store) *ChunkWriter {
	return &ChunkWriter{store: store}
}

// Write stores one chunk and returns its BlockMeta. cols must be in schema
// order and of equal length.
func (w *ChunkWriter) Write(ctx context.Context, schema *meta.Schema, cols [][]meta.Value) (*meta.BlockMeta, error) {
	obj := chunkObject{
		Names:   make([]string, schema.Len()),
		Columns: cols,
	}
	stats := make(map[string]*meta.ColumnStats, schema.Len())
	for i, def := range schema.Columns {
		obj.Names[i] = def.Name
		stats[def.Name] = meta.BuildColumnStats(cols[i])
	}

	payload, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	loc := chunkKey()
	if err := w.store.Put(ctx, loc, seal(payload)); err != nil {
		return nil, err
	}

	var rows uint64
	if len(cols) > 0 {
		rows = uint64(len(cols[0]))
	}
	return &meta.BlockMeta{
		Location: loc,
		RowCount: rows,
		ColStats: stats,
	}, nil
}

// ChunkReader loads stored chunk data back into column vectors.
type ChunkReader struct {
	store objstore.Store
}

// NewChunkReader creates a chunk reader over store.
func NewChunkReader(store objstore.Store) *ChunkReader {
	return &ChunkReader{store: store}
}

// Read returns the column vectors of the chunk stored at loc, keyed by
// column name.
func (r *ChunkReader) Read(ctx context.Context, loc string) (map[string][]meta.Value, error) {
	data, err := r.store.Get(ctx, loc)
	if err != nil {
		return nil, err
	}
	payload, err := unseal(data)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", loc, err)
	}
	obj := chunkObject{}
	if err := json.Unmarshal(payload, &obj); err != nil {
		return nil, fmt.Errorf("chunk %s: %w: %v", loc, ErrMalformed, err)
	}
	if len(obj.Names) != len(obj.Columns) {
		return nil, fmt.Errorf("chunk %s: %w: %d names for %d columns",
			loc, ErrMalformed, len(obj.Names), len(obj.Columns))
	}
	cols := make(map[string][]meta.Value, len(obj.Names))
	for i, name := range obj.Names {
		cols[name] = obj.Columns[i]
	}
	return cols, nil
}
