package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// SessionHooks is the gateway's view of the session layer: where the bearer
// credential comes from and who to tell when the server rejects it.
type SessionHooks interface {
	// Token returns the current bearer token, if a session is active.
	Token() (string, bool)

	// HandleUnauthorized is invoked when an authenticated call returns 401.
	// The session layer resets global state; the 401 response is still
	// returned to the caller unchanged.
	HandleUnauthorized()
}

// Gateway routes every backend call. It injects the bearer credential when a
// session is active, sets a JSON content type unless the body is multipart,
// tags each request with an X-Request-ID, and detects session expiry.
//
// The gateway never retries. 5xx and network failures are returned to the
// caller; retry policy, if any, lives there.
type Gateway struct {
	client *Client
	base   string
	logger *slog.Logger

	mu      sync.RWMutex
	session SessionHooks
}

// NewGateway creates a gateway for the backend rooted at baseURL.
func NewGateway(client *Client, baseURL string, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		client: client,
		base:   strings.TrimRight(baseURL, "/"),
		logger: logger,
	}
}

// BindSession attaches the session layer. The session manager itself issues
// requests through the gateway, so it is bound after construction.
func (g *Gateway) BindSession(s SessionHooks) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session = s
}

// URL returns the absolute URL for a backend path.
func (g *Gateway) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return g.base + path
}

// Request performs a JSON request against the backend. body, when non-nil,
// is marshaled as the JSON request body. The bearer credential is injected
// when a session is active; anonymous calls go out without it.
func (g *Gateway) Request(ctx context.Context, method, path string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	return g.do(ctx, method, path, "application/json", reader)
}

// Multipart performs a request with a pre-encoded multipart body. The
// contentType carries the encoder's boundary and is passed through to the
// transport untouched.
func (g *Gateway) Multipart(ctx context.Context, method, path, contentType string, body io.Reader) (*Response, error) {
	return g.do(ctx, method, path, contentType, body)
}

func (g *Gateway) do(ctx context.Context, method, path, contentType string, body io.Reader) (*Response, error) {
	headers := map[string]string{
		"X-Request-ID": uuid.NewString(),
	}
	if body != nil && contentType != "" {
		headers["Content-Type"] = contentType
	}

	g.mu.RLock()
	session := g.session
	g.mu.RUnlock()

	authenticated := false
	if session != nil {
		if token, ok := session.Token(); ok {
			headers["Authorization"] = "Bearer " + token
			authenticated = true
		}
	}

	resp, err := g.client.Do(ctx, method, g.URL(path), body, headers)
	if err != nil {
		g.logger.Debug("request failed", "method", method, "path", path, "err", err)
		return nil, err
	}

	g.logger.Debug("request completed",
		"method", method, "path", path, "status", resp.StatusCode)

	// A rejected credential invalidates the whole session. The response is
	// still handed back unchanged; callers keep their own 401 handling.
	if resp.StatusCode == http.StatusUnauthorized && authenticated {
		session.HandleUnauthorized()
	}

	return resp, nil
}
