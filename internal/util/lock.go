package util

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// AcquireLock takes an exclusive cross-process lock on path, creating
// the parent directory if needed. It gives up after timeout so a
// second operator session fails fast instead of hanging behind a
// long-running install. The caller must Unlock the returned lock.
func AcquireLock(path string, timeout time.Duration) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	lock := flock.New(path)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("lock acquisition failed: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another mtpulse operation is in progress (lock held: %s)", path)
	}
	return lock, nil
}
