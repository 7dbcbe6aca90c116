package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBlocks(locs ...string) []*BlockMeta {
	blocks := make([]*BlockMeta, len(locs))
	for i, loc := range locs {
		blocks[i] = &BlockMeta{Location: loc, RowCount: 3}
	}
	return blocks
}

func TestSnapshotChain(t *testing.T) {
	t.Parallel()

	schema, err := NewSchema(ColumnDef{Name: "a", Type: KindUInt64})
	require.NoError(t, err)

	first := NewSnapshot(schema, testBlocks("b1", "b2"))
	assert.Equal(t, uint64(1), first.SnapshotID)
	assert.Equal(t, uint64(0), first.PrevSnapshotID)
	assert.Equal(t, uint64(6), first.RowCount())

	second := first.Successor(testBlocks("b3"), false)
	assert.Equal(t, uint64(2), second.SnapshotID)
	assert.Equal(t, uint64(1), second.PrevSnapshotID)
	require.Len(t, second.Blocks, 3)
	assert.Equal(t, "b1", second.Blocks[0].Location)
	assert.Equal(t, "b3", second.Blocks[2].Location)

	// The predecessor is untouched.
	assert.Len(t, first.Blocks, 2)
}

func TestSnapshotSuccessorOverwrite(t *testing.T) {
	t.Parallel()

	schema, err := NewSchema(ColumnDef{Name: "a", Type: KindUInt64})
	require.NoError(t, err)

	first := NewSnapshot(schema, testBlocks("b1", "b2"))
	replaced := first.Successor(testBlocks("b9"), true)

	assert.Equal(t, uint64(2), replaced.SnapshotID)
	assert.Equal(t, uint64(1), replaced.PrevSnapshotID, "history link survives overwrite")
	require.Len(t, replaced.Blocks, 1)
	assert.Equal(t, "b9", replaced.Blocks[0].Location)
}

func TestSnapshotSuccessorDoesNotAliasBlocks(t *testing.T) {
	t.Parallel()

	schema, err := NewSchema(ColumnDef{Name: "a", Type: KindUInt64})
	require.NoError(t, err)

	first := NewSnapshot(schema, testBlocks("b1"))
	second := first.Successor(testBlocks("b2"), false)
	third := first.Successor(testBlocks("b3"), false)

	// Divergent successors of the same base must not share backing arrays.
	require.Len(t, second.Blocks, 2)
	require.Len(t, third.Blocks, 2)
	assert.Equal(t, "b2", second.Blocks[1].Location)
	assert.Equal(t, "b3", third.Blocks[1].Location)
}
