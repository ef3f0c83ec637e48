package vidtube

import (
	"vidtube/http"
	"vidtube/storage"
	"vidtube/store"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, vidtube.ErrSessionExpired) {
//		fmt.Println("please log in again")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var apiErr *vidtube.APIError
//	if errors.As(err, &apiErr) {
//		fmt.Printf("server said: %s (status %d)\n", apiErr.Message, apiErr.StatusCode)
//	}

// Type aliases for convenient error handling.
type (
	// APIError carries the server's status code and verbatim error message.
	APIError = http.APIError
	// NetworkError wraps transport-level failures where no response arrived.
	NetworkError = http.NetworkError
	// StorageError wraps errors during credential storage operations.
	StorageError = storage.StorageError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrAuthRequired indicates an operation needs a session and none exists.
	ErrAuthRequired = http.ErrAuthRequired
	// ErrSessionExpired indicates the server rejected the credential (401).
	ErrSessionExpired = http.ErrSessionExpired
	// ErrForbidden indicates the session holder may not perform the action.
	ErrForbidden = http.ErrForbidden
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = http.ErrNotFound
	// ErrValidation indicates the server rejected the request as malformed.
	ErrValidation = http.ErrValidation
	// ErrNetwork indicates the request never produced a server response.
	ErrNetwork = http.ErrNetwork

	// Store errors
	// ErrSelfSubscribe indicates an attempt to subscribe to one's own channel.
	ErrSelfSubscribe = store.ErrSelfSubscribe
	// ErrEmptyContent indicates a comment with no content.
	ErrEmptyContent = store.ErrEmptyContent
	// ErrNotYourComment indicates a comment ownership violation.
	ErrNotYourComment = store.ErrNotYourComment

	// Storage errors
	// ErrNoCredentials indicates no persisted credentials exist.
	ErrNoCredentials = storage.ErrNoCredentials
	// ErrStorageCorrupt indicates credential data corruption was detected.
	ErrStorageCorrupt = storage.ErrStorageCorrupt
	// ErrLockTimeout indicates a timeout acquiring the credential file lock.
	ErrLockTimeout = storage.ErrLockTimeout
)

// IsTransient reports whether an error is worth retrying (network failures
// and 5xx responses).
func IsTransient(err error) bool {
	return http.IsTransient(err)
}
