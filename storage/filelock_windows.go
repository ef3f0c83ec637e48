//go:build windows

package storage

import (
	"os"
	"time"
)

// FileLock provides advisory file locking for cross-process synchronization.
// On Windows, opening the lock file with exclusive sharing acts as the lock.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a file lock. The lock is not acquired until Lock() is called.
// The lock file will be created at path + ".lock".
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path + ".lock"}
}

// Lock acquires an exclusive lock with the specified timeout.
// Returns ErrLockTimeout if the lock cannot be acquired within the timeout.
func (l *FileLock) Lock(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		file, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
		if err == nil {
			l.file = file
			return nil
		}
		if !os.IsExist(err) {
			return &StorageError{Op: "lock", Entity: "file", Err: err}
		}
		time.Sleep(10 * time.Millisecond)
	}
	return ErrLockTimeout
}

// Unlock releases the lock.
func (l *FileLock) Unlock() error {
	if l.file == nil {
		return nil
	}
	l.file.Close()
	os.Remove(l.path)
	l.file = nil
	return nil
}
