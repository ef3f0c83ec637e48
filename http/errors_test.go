package http

import (
	"errors"
	"testing"
)

func TestErrorFromResponse_Success(t *testing.T) {
	for _, status := range []int{200, 201, 204} {
		resp := &Response{StatusCode: status, Body: []byte(`{}`)}
		if err := ErrorFromResponse(resp); err != nil {
			t.Errorf("ErrorFromResponse(status %d) = %v, want nil", status, err)
		}
	}
}

func TestErrorFromResponse_Classification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"unauthorized", 401, ErrSessionExpired},
		{"forbidden", 403, ErrForbidden},
		{"not found", 404, ErrNotFound},
		{"bad request", 400, ErrValidation},
		{"conflict", 409, ErrValidation},
		{"server error", 500, ErrServer},
		{"bad gateway", 502, ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &Response{StatusCode: tt.status, Body: []byte(`{"error":"nope"}`)}
			err := ErrorFromResponse(resp)
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("ErrorFromResponse(status %d) = %v, want errors.Is %v",
					tt.status, err, tt.sentinel)
			}
		})
	}
}

func TestErrorFromResponse_VerbatimMessage(t *testing.T) {
	resp := &Response{StatusCode: 400, Body: []byte(`{"error":"Username already exists"}`)}
	err := ErrorFromResponse(resp)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("ErrorFromResponse() = %T, want *APIError", err)
	}
	if apiErr.Message != "Username already exists" {
		t.Errorf("Message = %q, want server text verbatim", apiErr.Message)
	}
	if apiErr.StatusCode != 400 {
		t.Errorf("StatusCode = %d, want 400", apiErr.StatusCode)
	}
}

func TestErrorFromResponse_NonJSONBody(t *testing.T) {
	resp := &Response{StatusCode: 500, Body: []byte("<html>Internal Server Error</html>")}
	err := ErrorFromResponse(resp)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("ErrorFromResponse() = %T, want *APIError", err)
	}
	if apiErr.Message != "" {
		t.Errorf("Message = %q, want empty for non-JSON body", apiErr.Message)
	}
	if !errors.Is(err, ErrServer) {
		t.Errorf("errors.Is(err, ErrServer) = false, want true")
	}
}

func TestNetworkError_IsSentinel(t *testing.T) {
	inner := errors.New("connection refused")
	err := &NetworkError{Err: inner}

	if !errors.Is(err, ErrNetwork) {
		t.Error("errors.Is(NetworkError, ErrNetwork) = false, want true")
	}
	if !errors.Is(err, inner) {
		t.Error("errors.Is(NetworkError, inner) = false, want true")
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"network failure", &NetworkError{Err: errors.New("refused")}, true},
		{"server error", ErrorFromResponse(&Response{StatusCode: 503}), true},
		{"validation", ErrorFromResponse(&Response{StatusCode: 400}), false},
		{"unauthorized", ErrorFromResponse(&Response{StatusCode: 401}), false},
		{"not found", ErrorFromResponse(&Response{StatusCode: 404}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
