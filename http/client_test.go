package http

import (
	"context"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_Do_Success(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := New(nil)
	defer client.Close()

	resp, err := client.Do(context.Background(), nethttp.MethodGet, server.URL, nil, nil)
	if err != nil {
		t.Fatalf("Do() error = %v, want nil", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if string(resp.Body) != `{"ok":true}` {
		t.Errorf("Body = %q", resp.Body)
	}
}

func TestClient_Do_ErrorStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid token"}`))
	}))
	defer server.Close()

	client := New(nil)
	defer client.Close()

	resp, err := client.Do(context.Background(), nethttp.MethodGet, server.URL, nil, nil)
	if err != nil {
		t.Fatalf("Do() error = %v, want nil for HTTP-level errors", err)
	}
	if resp.StatusCode != 401 {
		t.Errorf("StatusCode = %d, want 401", resp.StatusCode)
	}
}

func TestClient_Do_NetworkFailure(t *testing.T) {
	client := New(nil)
	defer client.Close()

	// Nothing listens here.
	_, err := client.Do(context.Background(), nethttp.MethodGet, "http://127.0.0.1:1", nil, nil)
	if err == nil {
		t.Fatal("Do() error = nil, want network error")
	}

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Errorf("Do() error = %T, want *NetworkError", err)
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("errors.Is(err, ErrNetwork) = false, want true")
	}
}

func TestClient_Do_Timeout(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond
	client := New(cfg)
	defer client.Close()

	_, err := client.Do(context.Background(), nethttp.MethodGet, server.URL, nil, nil)
	if err == nil {
		t.Fatal("Do() error = nil, want timeout")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("timeout should classify as network failure, got %v", err)
	}
}

func TestClient_Do_SetsHeaders(t *testing.T) {
	var gotAgent, gotCustom string
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotCustom = r.Header.Get("X-Custom")
		w.WriteHeader(nethttp.StatusOK)
	}))
	defer server.Close()

	client := New(nil)
	defer client.Close()

	_, err := client.Do(context.Background(), nethttp.MethodPost, server.URL,
		strings.NewReader("{}"), map[string]string{"X-Custom": "value"})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if gotAgent != "vidtube/1.0" {
		t.Errorf("User-Agent = %q, want vidtube/1.0", gotAgent)
	}
	if gotCustom != "value" {
		t.Errorf("X-Custom = %q, want value", gotCustom)
	}
}

func TestClient_Do_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	client := New(nil)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Do(ctx, nethttp.MethodGet, server.URL, nil, nil)
	if err == nil {
		t.Fatal("Do() error = nil, want canceled")
	}
}
