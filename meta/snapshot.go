package meta

// TableSnapshot is an immutable, versioned description of a table's full
// block set. Readers that captured a snapshot keep seeing it unchanged while
// later commits publish successors; all mutation happens by building a new
// snapshot, never by editing a published one.
//
// SnapshotID increases by one per commit, which gives commits a total order
// for conflict detection. PrevSnapshotID links snapshots into an append-only
// history chain; zero means this is the first snapshot of the table.
type TableSnapshot struct {
	SnapshotID     uint64       `json:"snapshot_id"`
	PrevSnapshotID uint64       `json:"prev_snapshot_id,omitempty"`
	Schema         *Schema      `json:"schema"`
	Blocks         []*BlockMeta `json:"blocks"`
}

// NewSnapshot builds the first snapshot of a table.
func NewSnapshot(schema *Schema, blocks []*BlockMeta) *TableSnapshot {
	return &TableSnapshot{
		SnapshotID: 1,
		Schema:     schema,
		Blocks:     append([]*BlockMeta(nil), blocks...),
	}
}

// Successor builds the next snapshot in the chain. With overwrite false the
// new snapshot carries this snapshot's blocks followed by the new ones; with
// overwrite true it carries only the new ones, superseding (not deleting)
// everything before.
func (s *TableSnapshot) Successor(blocks []*BlockMeta, overwrite bool) *TableSnapshot {
	next := &TableSnapshot{
		SnapshotID:     s.SnapshotID + 1,
		PrevSnapshotID: s.SnapshotID,
		Schema:         s.Schema,
	}
	if overwrite {
		next.Blocks = append([]*BlockMeta(nil), blocks...)
		return next
	}
	next.Blocks = make([]*BlockMeta, 0, len(s.Blocks)+len(blocks))
	next.Blocks = append(next.Blocks, s.Blocks...)
	next.Blocks = append(next.Blocks, blocks...)
	return next
}

// RowCount sums the row counts of every block in the snapshot.
func (s *TableSnapshot) RowCount() uint64 {
	var total uint64
	for _, b := range s.Blocks {
		total += b.RowCount
	}
	return total
}
