package strata

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strata/meta"
)

func TestCreateAndGetTable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cat := setup(t)
	schema := abSchema(t)

	created, err := cat.CreateTable(ctx, "testdb", "t1", schema, "",
		map[string]string{OptKeyChunkBlockNum: "2"})
	require.NoError(t, err)
	assert.Equal(t, "testdb", created.Database())
	assert.Equal(t, "t1", created.Name())
	assert.Equal(t, DefaultEngine, created.Engine())
	assert.True(t, created.Schema().Equal(schema))

	got, err := cat.GetTable(ctx, "testdb", "t1")
	require.NoError(t, err)
	assert.Same(t, created, got, "handles are cached per catalog")
}

func TestCreateTableDuplicate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cat := setup(t)
	schema := abSchema(t)

	_, err := cat.CreateTable(ctx, "testdb", "dup", schema, "", nil)
	require.NoError(t, err)

	_, err = cat.CreateTable(ctx, "testdb", "dup", schema, "", nil)
	require.ErrorIs(t, err, ErrTableExists)
	assert.Contains(t, err.Error(), "testdb.dup")
}

func TestGetTableMissing(t *testing.T) {
	t.Parallel()
	cat := setup(t)

	_, err := cat.GetTable(context.Background(), "testdb", "ghost")
	require.ErrorIs(t, err, ErrTableNotFound)
	assert.Contains(t, err.Error(), "testdb.ghost")
}

func TestCreateTableValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cat := setup(t)
	schema := abSchema(t)

	_, err := cat.CreateTable(ctx, "", "t", schema, "", nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = cat.CreateTable(ctx, "testdb", "t", nil, "", nil)
	assert.ErrorIs(t, err, ErrInvalidSchema)

	_, err = cat.CreateTable(ctx, "testdb", "t", schema, "",
		map[string]string{OptKeyChunkBlockNum: "0"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = cat.CreateTable(ctx, "testdb", "t", schema, "",
		map[string]string{OptKeyChunkBlockNum: "lots"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestCatalogReopenFindsTables(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Shared stores stand in for durable storage surviving a process restart.
	store := NewMemObjectStore()
	pointers := NewMemPointerStore()

	cat, err := Open("", WithObjectStore(store), WithPointerStore(pointers))
	require.NoError(t, err)

	schema := abSchema(t)
	tbl, err := cat.CreateTable(ctx, "testdb", "durable", schema, "",
		map[string]string{OptKeyChunkBlockNum: "1"})
	require.NoError(t, err)

	candidates, err := tbl.Append(ctx, Batches(abBatches(t, schema, 3)...))
	require.NoError(t, err)
	_, err = tbl.Commit(ctx, candidates, false)
	require.NoError(t, err)

	reopened, err := Open("", WithObjectStore(store), WithPointerStore(pointers))
	require.NoError(t, err)

	again, err := reopened.GetTable(ctx, "testdb", "durable")
	require.NoError(t, err)
	assert.True(t, again.Schema().Equal(schema))
	assert.Equal(t, "1", again.options[OptKeyChunkBlockNum])

	snap, err := again.Snapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Len(t, snap.Blocks, 3)
}

func TestOpenOnFilesystem(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	cat, err := Open(dir)
	require.NoError(t, err)

	schema := abSchema(t)
	tbl, err := cat.CreateTable(ctx, "testdb", "ondisk", schema, "",
		map[string]string{OptKeyChunkBlockNum: "1"})
	require.NoError(t, err)

	candidates, err := tbl.Append(ctx, Batches(abBatches(t, schema, 2)...))
	require.NoError(t, err)
	_, err = tbl.Commit(ctx, candidates, false)
	require.NoError(t, err)

	// A second catalog over the same directory sees the committed state.
	other, err := Open(dir)
	require.NoError(t, err)
	tbl2, err := other.GetTable(ctx, "testdb", "ondisk")
	require.NoError(t, err)

	snap, err := tbl2.Snapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, uint64(6), snap.RowCount())
}

func TestOpenWithoutPathOrStores(t *testing.T) {
	t.Parallel()

	_, err := Open("")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Open("", WithObjectStore(NewMemObjectStore()))
	assert.ErrorIs(t, err, ErrInvalidConfig, "pointer store still missing")
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "strata.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"path: /tmp/strata-data\ncommit_retries: 5\nsnapshot_cache_size: 16\nmerge_threshold: 4\n",
	), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/strata-data", cfg.Path)
	assert.Equal(t, 5, cfg.CommitRetries)
	assert.Equal(t, 16, cfg.SnapshotCacheSize)
	assert.Equal(t, 4, cfg.MergeThreshold)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("commit_retries: -1\n"), 0o644))
	_, err = LoadConfig(bad)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestOpenConfigMergeThresholdDefault(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := Config{MergeThreshold: 4}
	cat, err := OpenConfig(cfg,
		WithObjectStore(NewMemObjectStore()),
		WithPointerStore(NewMemPointerStore()),
	)
	require.NoError(t, err)

	schema := abSchema(t)
	// No per-table chunk_block_num, so the catalog default applies.
	tbl, err := cat.CreateTable(ctx, "testdb", "defaulted", schema, "", nil)
	require.NoError(t, err)

	candidates, err := tbl.Append(ctx, Batches(abBatches(t, schema, 10)...))
	require.NoError(t, err)
	assert.Len(t, candidates, 3, "ceil(10/4) chunks")
}

func TestTableSchemaKindValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cat := setup(t)

	schema, err := meta.NewSchema(meta.ColumnDef{Name: "a", Type: meta.KindInt64})
	require.NoError(t, err)
	tbl, err := cat.CreateTable(ctx, "testdb", "typed", schema, "", nil)
	require.NoError(t, err)

	// Wrong value kind for the declared column type.
	_, err = NewBatch(tbl.Schema(), []meta.Value{meta.String("nope")})
	assert.ErrorIs(t, err, ErrBatchShape)

	// Null into a non-nullable column.
	_, err = NewBatch(tbl.Schema(), []meta.Value{meta.Null()})
	assert.ErrorIs(t, err, ErrBatchShape)
}
