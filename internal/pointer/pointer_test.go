package pointer

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemCAS(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := NewMem()

	loc, err := m.Read(ctx, "db/t")
	require.NoError(t, err)
	assert.Equal(t, "", loc, "fresh table has no snapshot")

	ok, err := m.CompareAndSwap(ctx, "db/t", "", "_ss/one")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.CompareAndSwap(ctx, "db/t", "", "_ss/two")
	require.NoError(t, err)
	assert.False(t, ok, "stale expected value must not swap")

	loc, err = m.Read(ctx, "db/t")
	require.NoError(t, err)
	assert.Equal(t, "_ss/one", loc)

	ok, err = m.CompareAndSwap(ctx, "db/t", "_ss/one", "_ss/two")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFSCAS(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fs, err := NewFS(t.TempDir())
	require.NoError(t, err)

	loc, err := fs.Read(ctx, "db/t")
	require.NoError(t, err)
	assert.Equal(t, "", loc)

	ok, err := fs.CompareAndSwap(ctx, "db/t", "", "_ss/one")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = fs.CompareAndSwap(ctx, "db/t", "_ss/stale", "_ss/two")
	require.NoError(t, err)
	assert.False(t, ok)

	loc, err = fs.Read(ctx, "db/t")
	require.NoError(t, err)
	assert.Equal(t, "_ss/one", loc)
}

func TestFSCASContention(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fs, err := NewFS(t.TempDir())
	require.NoError(t, err)

	// Many goroutines race one swap each from the same expected value;
	// exactly one may win per generation.
	const writers = 16
	var wg sync.WaitGroup
	wins := make([]bool, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			ok, err := fs.CompareAndSwap(ctx, "db/t", "", fmt.Sprintf("_ss/gen1-%d", id))
			assert.NoError(t, err)
			wins[id] = ok
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, w := range wins {
		if w {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one CAS wins per pointer value")
}

func TestMemSwapHookWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := NewMem()
	hooked := 0
	m.SwapHook = func(table string) { hooked++ }

	ok, err := m.CompareAndSwap(ctx, "db/t", "", "_ss/one")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, hooked)
}
