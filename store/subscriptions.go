package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"vidtube/http"
)

// SubscriptionBackend is the slice of the API the subscription store needs.
// *api.Client satisfies it.
type SubscriptionBackend interface {
	Subscribe(ctx context.Context, userID int, channel string) (bool, error)
	ListSubscriptions(ctx context.Context, userID int) ([]string, error)
}

// Subscriptions tracks the set of channels the current user follows. The set
// is keyed by channel name; membership answers "is the button lit" for any
// channel shown in the UI.
type Subscriptions struct {
	backend SubscriptionBackend
	session SessionSource
	catalog *Catalog
	logger  *slog.Logger

	mu       sync.RWMutex
	channels map[string]struct{}
}

// NewSubscriptions creates an empty subscription store.
func NewSubscriptions(backend SubscriptionBackend, sess SessionSource, catalog *Catalog, logger *slog.Logger) *Subscriptions {
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscriptions{
		backend:  backend,
		session:  sess,
		catalog:  catalog,
		logger:   logger,
		channels: make(map[string]struct{}),
	}
}

// Toggle flips the subscription to a channel and reports the resulting
// membership. Subscribing to one's own channel is rejected before any
// network call. When the toggled channel owns the currently open video, its
// detail record is refetched so the displayed subscriber count stays honest.
func (s *Subscriptions) Toggle(ctx context.Context, channel string) (bool, error) {
	sess, ok := s.session.Current()
	if !ok {
		return false, http.ErrAuthRequired
	}
	if channel == sess.User.Username {
		return false, ErrSelfSubscribe
	}

	subscribed, err := s.backend.Subscribe(ctx, sess.User.ID, channel)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	if subscribed {
		s.channels[channel] = struct{}{}
	} else {
		delete(s.channels, channel)
	}
	s.mu.Unlock()

	if cur, ok := s.catalog.Current(); ok && cur.Channel == channel {
		if _, err := s.catalog.LoadDetail(ctx, cur.ID); err != nil {
			s.logger.Warn("detail refresh after subscription toggle failed",
				"video", cur.ID, "err", err)
		}
	}

	s.logger.Debug("subscription toggled", "channel", channel, "subscribed", subscribed)
	return subscribed, nil
}

// Refresh replaces the set with the server's full list. Called after login
// and restore; failures leave the previous set in place.
func (s *Subscriptions) Refresh(ctx context.Context) error {
	sess, ok := s.session.Current()
	if !ok {
		return http.ErrAuthRequired
	}

	channels, err := s.backend.ListSubscriptions(ctx, sess.User.ID)
	if err != nil {
		return err
	}

	set := make(map[string]struct{}, len(channels))
	for _, ch := range channels {
		set[ch] = struct{}{}
	}
	s.mu.Lock()
	s.channels = set
	s.mu.Unlock()
	return nil
}

// IsSubscribed reports membership for one channel.
func (s *Subscriptions) IsSubscribed(channel string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.channels[channel]
	return ok
}

// All returns the followed channels, sorted for stable display.
func (s *Subscriptions) All() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.channels))
	for ch := range s.channels {
		out = append(out, ch)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Reset empties the set. Called on logout and session expiry.
func (s *Subscriptions) Reset() {
	s.mu.Lock()
	s.channels = make(map[string]struct{})
	s.mu.Unlock()
}
