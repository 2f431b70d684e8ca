package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"roster/internal/faults"
	"roster/internal/logging"
)

// Lock is an exclusive advisory lock held by the one process allowed to
// write the roster.
type Lock struct {
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

// AcquireLock takes the writer lock at path without blocking. When another
// process holds it the returned error wraps faults.ErrLocked.
func AcquireLock(path string, logger *slog.Logger) (*Lock, error) {
	logger = logging.NewComponentLogger(logger, "store")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, faults.Wrap(faults.ErrPersistence, "store", "lock", "create lock directory", err)
	}

	l := &Lock{path: path, lock: flock.New(path), logger: logger}
	ok, err := l.lock.TryLock()
	if err != nil {
		return nil, faults.Wrap(faults.ErrPersistence, "store", "lock", "acquire lock", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock file %s)", faults.ErrLocked, path)
	}
	logger.Debug("writer lock acquired", logging.String(logging.FieldPath, path))
	return l, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release drops the lock. Calling it on a nil or released lock is safe.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil || !l.lock.Locked() {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		l.logger.Warn("failed to release writer lock",
			logging.String(logging.FieldPath, l.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "store_unlock_failed"),
			logging.String(logging.FieldErrorHint, "remove the lock file if no roster process is running"),
		)
		return faults.Wrap(faults.ErrPersistence, "store", "unlock", "release lock", err)
	}
	return nil
}
