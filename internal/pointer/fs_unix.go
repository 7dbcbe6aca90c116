//go:build unix

package pointer

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// FS persists pointers as one file per table under a directory. Mutual
// exclusion between committers in different processes comes from an
// exclusive flock on a per-table lock file held across the read-compare-
// write sequence. Pointer files are replaced by atomic rename, so lock-free
// readers always see a complete value.
type FS struct {
	dir string
}

// NewFS creates a filesystem-backed pointer store under dir.
func NewFS(dir string) (*FS, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPointerIO, err)
	}
	return &FS{dir: dir}, nil
}

func (f *FS) ptrPath(table string) string {
	return filepath.Join(f.dir, url.PathEscape(table)+".ptr")
}

func (f *FS) lockPath(table string) string {
	return filepath.Join(f.dir, url.PathEscape(table)+".lock")
}

func (f *FS) Read(ctx context.Context, table string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(f.ptrPath(table))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %s: %v", ErrPointerIO, table, err)
	}
	return string(data), nil
}

func (f *FS) CompareAndSwap(ctx context.Context, table, expected, next string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	lock, err := os.OpenFile(f.lockPath(table), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrPointerIO, table, err)
	}
	// Closing the descriptor releases the flock.
	defer lock.Close()

	if err = unix.Flock(int(lock.Fd()), unix.LOCK_EX); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrPointerIO, table, err)
	}

	current, err := f.Read(ctx, table)
	if err != nil {
		return false, err
	}
	if current != expected {
		return false, nil
	}

	dst := f.ptrPath(table)
	tmp, err := os.CreateTemp(f.dir, ".ptr-*")
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrPointerIO, table, err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.WriteString(next); err != nil {
		tmp.Close()
		return false, fmt.Errorf("%w: %s: %v", ErrPointerIO, table, err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return false, fmt.Errorf("%w: %s: %v", ErrPointerIO, table, err)
	}
	if err = tmp.Close(); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrPointerIO, table, err)
	}
	if err = os.Rename(tmp.Name(), dst); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrPointerIO, table, err)
	}
	return true, nil
}
