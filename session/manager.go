// Package session owns the authenticated identity: acquire on login, restore
// on startup, invalidate on 401 or explicit logout. Exactly one session
// exists process-wide, or none (anonymous).
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"vidtube/api"
	"vidtube/storage"
)

// User is the authenticated user's identity.
type User struct {
	ID           int
	Username     string
	ProfileImage string
}

// Session pairs the opaque bearer token with the user it belongs to.
type Session struct {
	Token string
	User  User
}

// Event describes a session lifecycle transition delivered to listeners.
type Event int

const (
	// EventLogin fires when a session becomes active (login or restore).
	EventLogin Event = iota
	// EventLogout fires on explicit logout or account deletion.
	EventLogout
	// EventExpired fires when the server rejected the credential (401).
	EventExpired
)

// Listener receives session lifecycle events. Listeners run synchronously on
// the invalidating call; anything that issues requests or calls back into the
// Manager must be deferred to another goroutine.
type Listener func(Event)

// NoticeFunc surfaces a user-visible message.
type NoticeFunc func(message string)

// Backend is the slice of the API the session layer needs. *api.Client
// satisfies it.
type Backend interface {
	Login(ctx context.Context, username, password string) (*api.LoginResult, error)
	VerifyToken(ctx context.Context) (*api.VerifyResult, error)
	GetUser(ctx context.Context, username string) (*api.UserProfile, error)
	DeleteAccount(ctx context.Context, password string) error
}

// Manager is the single writer of session state. All stores read it; the
// request gateway consults it for the bearer token and reports 401s back via
// HandleUnauthorized.
type Manager struct {
	store   storage.CredentialStore
	backend Backend
	logger  *slog.Logger

	mu        sync.RWMutex
	current   *Session
	listeners []Listener
	notice    NoticeFunc
	notified  bool // expiry notice latch, reset on login
	restoring bool // suppresses the expiry notice during startup liveness check
}

// NewManager creates a session manager. State is anonymous until Restore or
// Login succeeds.
func NewManager(store storage.CredentialStore, backend Backend, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:   store,
		backend: backend,
		logger:  logger,
	}
}

// Subscribe registers a lifecycle listener.
func (m *Manager) Subscribe(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// SetNoticeFunc installs the sink for user-visible notices such as the
// session-expired message.
func (m *Manager) SetNoticeFunc(fn NoticeFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notice = fn
}

// Current returns the active session, if any.
func (m *Manager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}

// Token returns the current bearer token. It implements the gateway's
// SessionHooks.
func (m *Manager) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return "", false
	}
	return m.current.Token, true
}

// Restore reads persisted credentials at startup and verifies them against
// the backend. Any verification failure, network failures included, clears
// the persisted credentials and leaves state anonymous: a cached session
// that cannot be verified is not trusted.
func (m *Manager) Restore(ctx context.Context) error {
	creds, err := m.store.Load()
	if err != nil {
		if errors.Is(err, storage.ErrNoCredentials) {
			return nil
		}
		return err
	}

	m.mu.Lock()
	m.current = &Session{
		Token: creds.Token,
		User: User{
			ID:           creds.UserID,
			Username:     creds.Username,
			ProfileImage: creds.ProfileImage,
		},
	}
	m.restoring = true
	m.mu.Unlock()

	_, err = m.backend.VerifyToken(ctx)

	m.mu.Lock()
	m.restoring = false
	m.mu.Unlock()

	if err != nil {
		m.logger.Info("stored session rejected, clearing credentials", "err", err)
		m.mu.Lock()
		m.current = nil
		m.mu.Unlock()
		if clearErr := m.store.Clear(); clearErr != nil {
			m.logger.Warn("failed to clear credentials", "err", clearErr)
		}
		return nil
	}

	m.logger.Info("session restored", "username", creds.Username)
	m.emit(EventLogin)
	return nil
}

// Login exchanges credentials for a session, persists it, and enriches the
// user record with the profile image. A profile lookup failure downgrades
// gracefully: the session is still established, just without an image.
// Login failures surface the server-provided message verbatim.
func (m *Manager) Login(ctx context.Context, username, password string) (*Session, error) {
	result, err := m.backend.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		Token: result.Token,
		User:  User{ID: result.ID, Username: result.Username},
	}

	m.mu.Lock()
	m.current = sess
	m.notified = false
	m.mu.Unlock()

	// Best effort profile enrichment; the token is already active.
	if profile, err := m.backend.GetUser(ctx, result.Username); err != nil {
		m.logger.Warn("profile lookup after login failed", "username", result.Username, "err", err)
	} else {
		m.mu.Lock()
		if m.current == sess {
			m.current.User.ProfileImage = profile.ProfileImage
			sess = m.current
		}
		m.mu.Unlock()
	}

	if err := m.store.Save(&storage.Credentials{
		Token:        sess.Token,
		UserID:       sess.User.ID,
		Username:     sess.User.Username,
		ProfileImage: sess.User.ProfileImage,
	}); err != nil {
		m.logger.Warn("failed to persist credentials", "err", err)
	}

	m.logger.Info("logged in", "username", sess.User.Username)
	m.emit(EventLogin)

	snapshot := *sess
	return &snapshot, nil
}

// Logout clears the persisted and in-memory session and resets dependent
// stores to their anonymous defaults.
func (m *Manager) Logout() error {
	m.mu.Lock()
	wasActive := m.current != nil
	m.current = nil
	m.mu.Unlock()

	err := m.store.Clear()
	if wasActive {
		m.logger.Info("logged out")
		m.emit(EventLogout)
	}
	return err
}

// DeleteAccount removes the account after password confirmation and then
// destroys the session like a logout.
func (m *Manager) DeleteAccount(ctx context.Context, password string) error {
	if _, ok := m.Current(); !ok {
		return errors.New("no active session")
	}
	if err := m.backend.DeleteAccount(ctx, password); err != nil {
		return err
	}
	return m.Logout()
}

// HandleUnauthorized is invoked by the request gateway when any
// authenticated call returns 401. It performs the same reset as Logout,
// surfaces a single session-expired notice even when several in-flight
// calls fail concurrently, and implements the gateway's SessionHooks.
func (m *Manager) HandleUnauthorized() {
	m.mu.Lock()
	if m.current == nil {
		// A concurrent 401 already invalidated the session.
		m.mu.Unlock()
		return
	}
	if m.restoring {
		// Startup liveness check failing is handled quietly by Restore.
		m.mu.Unlock()
		return
	}
	m.current = nil
	firstNotice := !m.notified
	m.notified = true
	notice := m.notice
	m.mu.Unlock()

	m.logger.Info("session expired")
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("failed to clear credentials", "err", err)
	}
	if firstNotice && notice != nil {
		notice("Your session has expired. Please log in again.")
	}
	m.emit(EventExpired)
}

func (m *Manager) emit(ev Event) {
	m.mu.RLock()
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.RUnlock()

	for _, l := range listeners {
		l(ev)
	}
}
