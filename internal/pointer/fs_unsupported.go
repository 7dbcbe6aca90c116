//go:build !unix

package pointer

import (
	"context"
	"fmt"
)

// FS is unavailable on platforms without flock.
type FS struct{}

func NewFS(dir string) (*FS, error) {
	return nil, fmt.Errorf("%w: filesystem pointer store requires flock support", ErrPointerIO)
}

func (f *FS) Read(ctx context.Context, table string) (string, error) {
	return "", fmt.Errorf("%w: unsupported platform", ErrPointerIO)
}

func (f *FS) CompareAndSwap(ctx context.Context, table, expected, next string) (bool, error) {
	return false, fmt.Errorf("%w: unsupported platform", ErrPointerIO)
}
