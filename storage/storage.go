// Package storage persists the client's credential slot: the auth token and
// a minimal user record, restored at startup.
package storage

import (
	"errors"
	"fmt"
)

// Sentinel errors for common storage conditions.
var (
	// ErrNoCredentials indicates no credentials are persisted.
	ErrNoCredentials = errors.New("storage: no credentials")
	// ErrStorageCorrupt indicates data corruption was detected.
	ErrStorageCorrupt = errors.New("storage: data corruption detected")
	// ErrLockTimeout indicates a timeout acquiring a file lock.
	ErrLockTimeout = errors.New("storage: lock acquisition timeout")
)

// StorageError wraps storage errors with operation context.
// Use errors.As() to extract this error type and get operation details:
//
//	var storErr *storage.StorageError
//	if errors.As(err, &storErr) {
//		fmt.Printf("Failed to %s %s: %v\n", storErr.Op, storErr.Entity, storErr.Err)
//	}
type StorageError struct {
	// Op is the operation that failed ("read", "write", "clear", "lock").
	Op string
	// Entity is the entity type ("credentials", "file").
	Entity string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the storage error.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Entity, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *StorageError) Unwrap() error { return e.Err }

// CredentialStore is the persisted credential slot. There is exactly one slot
// per client; concurrent logins are last-write-wins. Implementations must be
// safe for concurrent use.
type CredentialStore interface {
	// Load returns the persisted credentials, or ErrNoCredentials if the
	// slot is empty.
	Load() (*Credentials, error)

	// Save replaces the slot contents.
	Save(creds *Credentials) error

	// Clear empties the slot. Clearing an already-empty slot is not an error.
	Clear() error

	// Close releases resources held by the store.
	Close() error
}
