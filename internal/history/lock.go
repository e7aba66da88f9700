package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	elserrors "github.com/Aman-CERP/amanels/internal/errors"
)

// fileLock serializes writers of one history database across processes.
// The lock file sits next to the database as <name>.lock.
type fileLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

func newFileLock(dbPath string) *fileLock {
	lockPath := dbPath + ".lock"
	return &fileLock{path: lockPath, flock: flock.New(lockPath)}
}

// tryLock takes the lock without blocking. A lock held elsewhere is
// reported as ErrCodeHistoryLocked so callers can retry.
func (l *fileLock) tryLock() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !acquired {
		return elserrors.New(elserrors.ErrCodeHistoryLocked, "history is locked by another process", nil).
			WithDetail("lock", l.path)
	}
	l.locked = true
	return nil
}

// lock retries tryLock with backoff until ctx ends or the attempts run out.
func (l *fileLock) lock(ctx context.Context, cfg elserrors.RetryConfig) error {
	return elserrors.Retry(ctx, cfg, l.tryLock)
}

// unlock is safe to call when not locked.
func (l *fileLock) unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
