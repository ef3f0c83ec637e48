package http

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors forming the client error taxonomy. Every failure surfaced
// by the stores unwraps to exactly one of these.
var (
	// ErrAuthRequired indicates the action needs a session and none exists.
	// It is raised before any network call is attempted.
	ErrAuthRequired = errors.New("authentication required")

	// ErrSessionExpired indicates the server rejected the credential (401).
	ErrSessionExpired = errors.New("session expired")

	// ErrForbidden indicates an ownership violation (403).
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the referenced entity vanished server-side (404).
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates the server rejected the request (other 4xx).
	ErrValidation = errors.New("validation failed")

	// ErrServer indicates a 5xx response.
	ErrServer = errors.New("server error")

	// ErrNetwork indicates a transport-level failure (no HTTP response).
	ErrNetwork = errors.New("network failure")
)

// APIError is an HTTP error response from the backend. Message carries the
// server-supplied error text verbatim when the body is a {"error": "..."}
// payload.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Message is the server-supplied error message, if any.
	Message string

	kind error
}

// Error returns a string representation of the API error.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}

// Unwrap returns the taxonomy sentinel for use with errors.Is().
func (e *APIError) Unwrap() error { return e.kind }

// NetworkError wraps a transport-level failure. errors.Is(err, ErrNetwork)
// reports true for it.
type NetworkError struct {
	Err error
}

// Error returns a string representation of the network error.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure: %v", e.Err)
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error { return e.Err }

// Is reports ErrNetwork so callers can match the taxonomy sentinel.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// errorBody is the backend's error payload shape.
type errorBody struct {
	Error string `json:"error"`
}

// ErrorFromResponse classifies a non-2xx response into the taxonomy.
// It returns nil for 2xx responses.
func ErrorFromResponse(resp *Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var body errorBody
	// Best effort; a non-JSON error body just leaves Message empty.
	json.Unmarshal(resp.Body, &body)

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    body.Error,
		kind:       classify(resp.StatusCode),
	}
}

func classify(status int) error {
	switch {
	case status == 401:
		return ErrSessionExpired
	case status == 403:
		return ErrForbidden
	case status == 404:
		return ErrNotFound
	case status >= 500:
		return ErrServer
	default:
		return ErrValidation
	}
}

// IsTransient reports whether an error is worth retrying: transport failures
// and 5xx responses. 4xx responses are permanent.
func IsTransient(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrServer)
}
