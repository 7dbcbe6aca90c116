package pointer

import (
	"context"
	"sync"
)

// Mem is an in-process pointer store for tests and ephemeral catalogs.
type Mem struct {
	mu       sync.Mutex
	pointers map[string]string

	// SwapHook, when set, runs inside the CAS critical section before the
	// comparison. Tests use it to widen race windows deterministically.
	SwapHook func(table string)
}

// NewMem creates an empty in-memory pointer store.
func NewMem() *Mem {
	return &Mem{pointers: make(map[string]string)}
}

func (m *Mem) Read(ctx context.Context, table string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pointers[table], nil
}

func (m *Mem) CompareAndSwap(ctx context.Context, table, expected, next string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SwapHook != nil {
		m.SwapHook(table)
	}
	if m.pointers[table] != expected {
		return false, nil
	}
	m.pointers[table] = next
	return true, nil
}
