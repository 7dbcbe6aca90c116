package strata

import (
	"context"
	"errors"
	"fmt"
	"io"

	"strata/expr"
	"strata/internal/snapio"
	"strata/meta"
)

// Table is a handle on one catalog table. Handles are cheap, stateless
// views: all table state lives in the object store and the pointer store,
// so any number of handles (in any number of processes) may append, commit,
// and read concurrently.
type Table struct {
	db     string
	name   string
	engine string
	schema *meta.Schema

	options        map[string]string
	mergeThreshold int

	key         string // pointer store key
	pointers    PointerStore
	snapshots   *snapio.SnapshotReader
	snapWriter  *snapio.SnapshotWriter
	chunks      *snapio.ChunkWriter
	chunkReader *snapio.ChunkReader
	log         Logger
	retries     int
}

// Database returns the table's database name.
func (t *Table) Database() string { return t.db }

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Engine returns the storage engine recorded at creation.
func (t *Table) Engine() string { return t.engine }

// Schema returns the table schema, fixed at creation.
func (t *Table) Schema() *meta.Schema { return t.schema }

// Options returns the table's option map, including the current snapshot
// location under OptKeySnapshotLocation when a snapshot has been published.
func (t *Table) Options(ctx context.Context) (map[string]string, error) {
	out := copyOptions(t.options)
	loc, err := t.pointers.Read(ctx, t.key)
	if err != nil {
		return nil, err
	}
	if loc != "" {
		out[OptKeySnapshotLocation] = loc
	}
	return out, nil
}

// Append consumes the batch stream one batch at a time, groups up to the
// table's merge threshold of consecutive batches into each stored chunk,
// computes statistics, and flushes the chunks. It returns the BlockMeta
// commit candidates for the flushed chunks, in flush order.
//
// Flushed chunks are inert until Commit publishes a snapshot referencing
// them; abandoning the candidates (including on cancellation) leaves only
// unreferenced storage objects behind.
func (t *Table) Append(ctx context.Context, batches BatchIterator) ([]*meta.BlockMeta, error) {
	var out []*meta.BlockMeta

	pending := make([][]meta.Value, t.schema.Len())
	merged := 0

	flush := func() error {
		if merged == 0 {
			return nil
		}
		bm, err := t.chunks.Write(ctx, t.schema, pending)
		if err != nil {
			return err
		}
		t.log.Info("flushed chunk",
			"table", t.key, "location", bm.Location, "rows", bm.RowCount, "batches", merged)
		out = append(out, bm)
		pending = make([][]meta.Value, t.schema.Len())
		merged = 0
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := batches.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if !b.Schema().Equal(t.schema) {
			return nil, fmt.Errorf("%w: batch schema differs from table %s", ErrBatchShape, t.key)
		}
		for i := range pending {
			pending[i] = append(pending[i], b.Column(i)...)
		}
		merged++
		if merged >= t.mergeThreshold {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

// Commit publishes a new snapshot referencing blocks. With overwrite false
// the new snapshot extends the current one; with overwrite true it replaces
// the block set.
//
// The commit protocol is optimistic: read the pointer, build and persist a
// candidate snapshot against that base, then compare-and-swap the pointer.
// Losing the swap means another commit landed first; the candidate is
// rebased onto the winner and retried, up to the configured retry budget.
// Readers never observe a partial commit: the pointer swap is the only
// visible state change, and it installs a fully persisted snapshot.
func (t *Table) Commit(ctx context.Context, blocks []*meta.BlockMeta, overwrite bool) (*meta.TableSnapshot, error) {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		baseLoc, err := t.pointers.Read(ctx, t.key)
		if err != nil {
			return nil, err
		}

		var candidate *meta.TableSnapshot
		if baseLoc == "" {
			candidate = meta.NewSnapshot(t.schema, blocks)
		} else {
			base, err := t.snapshots.Read(ctx, baseLoc)
			if err != nil {
				return nil, err
			}
			candidate = base.Successor(blocks, overwrite)
		}

		loc, err := t.snapWriter.Write(ctx, candidate)
		if err != nil {
			return nil, err
		}

		swapped, err := t.pointers.CompareAndSwap(ctx, t.key, baseLoc, loc)
		if err != nil {
			return nil, err
		}
		if swapped {
			t.log.Info("committed snapshot",
				"table", t.key, "snapshot_id", candidate.SnapshotID,
				"blocks", len(candidate.Blocks), "location", loc)
			return candidate, nil
		}
		// The abandoned candidate object stays behind as unreferenced
		// garbage for external collection.
		if attempt >= t.retries {
			return nil, fmt.Errorf("%w: table %s gave up after %d attempts",
				ErrCommitConflict, t.key, attempt+1)
		}
		t.log.Warn("snapshot pointer moved, rebasing commit",
			"table", t.key, "attempt", attempt+1)
	}
}

// Snapshot loads the table's current snapshot, or nil when nothing has been
// committed yet.
func (t *Table) Snapshot(ctx context.Context) (*meta.TableSnapshot, error) {
	loc, err := t.pointers.Read(ctx, t.key)
	if err != nil {
		return nil, err
	}
	if loc == "" {
		return nil, nil
	}
	return t.snapshots.Read(ctx, loc)
}

// Prune loads the current snapshot and returns the blocks that may contain
// rows matching every filter. A nil filter set returns every block.
func (t *Table) Prune(ctx context.Context, filters []expr.Expr) ([]*meta.BlockMeta, error) {
	snap, err := t.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}
	return Prune(t.schema, filters, snap)
}

// ReadBlock loads the stored column vectors of one block, keyed by column
// name.
func (t *Table) ReadBlock(ctx context.Context, block *meta.BlockMeta) (map[string][]meta.Value, error) {
	return t.chunkReader.Read(ctx, block.Location)
}
