package objstore

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Mem is an in-memory store for tests and ephemeral tables. Hook, when set,
// runs before every operation and can inject failures.
type Mem struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// Hook intercepts operations; op is "put" or "get". A non-nil return
	// aborts the operation with that error wrapped in the matching kind.
	Hook func(op, key string) error

	gets atomic.Uint64
	puts atomic.Uint64
}

// NewMem creates an empty in-memory store.
func NewMem() *Mem {
	return &Mem{objects: make(map[string][]byte)}
}

func (m *Mem) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if m.Hook != nil {
		if err := m.Hook("put", key); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrWrite, key, err)
		}
	}
	m.puts.Add(1)

	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.objects[key] = cp
	return nil
}

func (m *Mem) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	if m.Hook != nil {
		if err := m.Hook("get", key); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrRead, key, err)
		}
	}
	m.gets.Add(1)

	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, key)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// Len returns the number of stored objects.
func (m *Mem) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// Gets returns the number of successful Get calls.
func (m *Mem) Gets() uint64 { return m.gets.Load() }
