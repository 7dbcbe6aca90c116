package objstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSPutGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fs, err := NewFS(t.TempDir())
	require.NoError(t, err)

	data := []byte("hello blocks")
	require.NoError(t, fs.Put(ctx, "_b/one", data))

	got, err := fs.Get(ctx, "_b/one")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	stats := fs.Stats()
	assert.Equal(t, uint64(1), stats.Writes)
	assert.Equal(t, uint64(1), stats.Reads)
}

func TestFSGetMissing(t *testing.T) {
	t.Parallel()

	fs, err := NewFS(t.TempDir())
	require.NoError(t, err)

	_, err = fs.Get(context.Background(), "_b/absent")
	require.ErrorIs(t, err, ErrNotExist)
	assert.Contains(t, err.Error(), "_b/absent")
}

func TestFSNestedKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fs, err := NewFS(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fs.Put(ctx, "_tbl/db/deep/name", []byte("x")))
	got, err := fs.Get(ctx, "_tbl/db/deep/name")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)
}

func TestMemPutGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := NewMem()
	require.NoError(t, m.Put(ctx, "k", []byte{1, 2}))

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, got)

	// The store holds its own copy.
	got[0] = 9
	again, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, again)

	_, err = m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotExist)
	assert.Equal(t, 1, m.Len())
}

func TestMemHookInjectsFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	boom := errors.New("disk on fire")
	m := NewMem()
	m.Hook = func(op, key string) error {
		if op == "put" {
			return boom
		}
		return nil
	}

	err := m.Put(ctx, "k", []byte("v"))
	require.ErrorIs(t, err, ErrWrite)
	assert.Contains(t, err.Error(), "disk on fire")
	assert.Equal(t, 0, m.Len())
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMem()
	assert.ErrorIs(t, m.Put(ctx, "k", nil), ErrWrite)
	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrRead)
}
