package objstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
)

// FS stores objects as files under a root directory. Writes go to a
// temporary file first and are renamed into place after fsync, so a crash
// mid-write leaves no visible object.
type FS struct {
	root string

	// Stats counters
	reads  atomic.Uint64
	writes atomic.Uint64
}

// NewFS creates a filesystem-backed store rooted at dir.
func NewFS(dir string) (*FS, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return &FS{root: dir}, nil
}

func (f *FS) path(key string) string {
	return filepath.Join(f.root, filepath.FromSlash(key))
}

func (f *FS) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	f.writes.Add(1)

	dst := f.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, key, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".put-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %s: %v", ErrWrite, key, err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %s: %v", ErrWrite, key, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, key, err)
	}
	if err = os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, key, err)
	}
	return nil
}

func (f *FS) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	f.reads.Add(1)

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, key)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, key, err)
	}
	return data, nil
}

// Stats holds I/O counters.
type Stats struct {
	Reads  uint64
	Writes uint64
}

// Stats returns I/O counters.
func (f *FS) Stats() Stats {
	return Stats{Reads: f.reads.Load(), Writes: f.writes.Load()}
}
