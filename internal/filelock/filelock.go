// Package filelock provides advisory file locking so concurrent tasklines
// processes do not interleave read-modify-write cycles on one markdown file.
package filelock

import (
	"errors"
	"os"
)

const lockFileMode = 0o600

// ErrLocked is returned by TryLock when another holder has the lock.
var ErrLocked = errors.New("lock held by another process")

// Lock acquires an exclusive advisory lock on the lock file at path,
// creating it if needed, and blocks until the lock is available. Callers
// lock a sibling of the markdown file, never the file itself, so editors
// that replace files by rename stay safe. The returned function releases
// the lock; it removes nothing on disk.
func Lock(path string) (unlock func() error, err error) {
	return acquire(path, true)
}

// TryLock is Lock without waiting: it fails with ErrLocked when the lock
// is held elsewhere. Interactive callers use it to stay responsive.
func TryLock(path string) (unlock func() error, err error) {
	return acquire(path, false)
}

func acquire(path string, wait bool) (func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock path derived from the target file
	if err != nil {
		return nil, err
	}

	if err := lockFile(f, wait); err != nil {
		_ = f.Close()
		return nil, err
	}

	return func() error {
		return errors.Join(unlockFile(f), f.Close())
	}, nil
}
