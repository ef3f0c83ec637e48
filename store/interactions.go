package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"vidtube/api"
	"vidtube/http"
	"vidtube/session"
)

// SessionSource exposes the active session to the stores. *session.Manager
// satisfies it.
type SessionSource interface {
	Current() (session.Session, bool)
}

// Reaction is the user's stance on a video. At most one of like and dislike
// holds at a time.
type Reaction string

const (
	ReactionNone    Reaction = ""
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

// ReactionBackend is the slice of the API the interaction store needs.
// *api.Client satisfies it.
type ReactionBackend interface {
	Like(ctx context.Context, videoID, userID int) (*api.ReactionResult, error)
	Dislike(ctx context.Context, videoID, userID int) (*api.ReactionResult, error)
}

// Stats are the displayed like/dislike counts for one video.
type Stats struct {
	Likes    int
	Dislikes int
}

// Interactions tracks the current user's per-video reaction state and the
// count overrides produced by toggles. Toggles apply optimistically and are
// replaced, never merged, by the server's authoritative counts.
type Interactions struct {
	backend ReactionBackend
	session SessionSource
	catalog *Catalog
	logger  *slog.Logger

	mu    sync.RWMutex
	state map[int]Reaction
	stats map[int]Stats // count overrides, shadowing catalog records
}

// NewInteractions creates an interaction store with no recorded reactions.
func NewInteractions(backend ReactionBackend, sess SessionSource, catalog *Catalog, logger *slog.Logger) *Interactions {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Interactions{
		backend: backend,
		session: sess,
		catalog: catalog,
		logger:  logger,
		state:   make(map[int]Reaction),
		stats:   make(map[int]Stats),
	}
	// A fresh list makes the catalog counts authoritative again.
	catalog.OnListReplace(s.clearOverrides)
	return s
}

func (s *Interactions) clearOverrides() {
	s.mu.Lock()
	s.stats = make(map[int]Stats)
	s.mu.Unlock()
}

// State returns the user's recorded reaction for a video.
func (s *Interactions) State(videoID int) Reaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state[videoID]
}

// Stats returns the displayed counts for a video: the toggle override when
// one exists, otherwise the catalog record's counts.
func (s *Interactions) Stats(videoID int) Stats {
	s.mu.RLock()
	if st, ok := s.stats[videoID]; ok {
		s.mu.RUnlock()
		return st
	}
	s.mu.RUnlock()
	if v, ok := s.catalog.Get(videoID); ok {
		return Stats{Likes: v.Likes, Dislikes: v.Dislikes}
	}
	return Stats{}
}

// ToggleLike flips the user's like on a video. Liking while disliked moves
// the reaction over; liking while liked removes it.
func (s *Interactions) ToggleLike(ctx context.Context, videoID int) error {
	return s.toggle(ctx, videoID, ReactionLike)
}

// ToggleDislike flips the user's dislike on a video, symmetric to ToggleLike.
func (s *Interactions) ToggleDislike(ctx context.Context, videoID int) error {
	return s.toggle(ctx, videoID, ReactionDislike)
}

func (s *Interactions) toggle(ctx context.Context, videoID int, target Reaction) error {
	sess, ok := s.session.Current()
	if !ok {
		return http.ErrAuthRequired
	}

	s.mu.Lock()
	prevState := s.state[videoID]
	prevStats, hadStats := s.stats[videoID]

	base := prevStats
	if !hadStats {
		if v, ok := s.catalog.Get(videoID); ok {
			base = Stats{Likes: v.Likes, Dislikes: v.Dislikes}
		}
	}
	nextState, nextStats := transition(prevState, target, base)
	s.state[videoID] = nextState
	s.stats[videoID] = nextStats
	s.mu.Unlock()

	update := BeginOptimistic(func() func() {
		return func() {
			s.mu.Lock()
			s.state[videoID] = prevState
			if hadStats {
				s.stats[videoID] = prevStats
			} else {
				delete(s.stats, videoID)
			}
			s.mu.Unlock()
		}
	})

	var result *api.ReactionResult
	var err error
	if target == ReactionLike {
		result, err = s.backend.Like(ctx, videoID, sess.User.ID)
	} else {
		result, err = s.backend.Dislike(ctx, videoID, sess.User.ID)
	}
	if err != nil {
		// An expired session already reset the whole store; putting the
		// old reaction back would resurrect per-user state.
		if !errors.Is(err, http.ErrSessionExpired) {
			update.Rollback()
		}
		return err
	}
	update.Commit()

	confirmed := ReactionNone
	if result.IsLiked {
		confirmed = ReactionLike
	} else if result.IsDisliked {
		confirmed = ReactionDislike
	}

	s.mu.Lock()
	s.state[videoID] = confirmed
	s.stats[videoID] = Stats{Likes: result.Likes, Dislikes: result.Dislikes}
	s.mu.Unlock()

	s.catalog.ApplyPatch(videoID, Patch{Likes: &result.Likes, Dislikes: &result.Dislikes})
	s.logger.Debug("reaction reconciled", "video", videoID, "state", string(confirmed))
	return nil
}

// Reset drops all reactions and count overrides, returning every video to
// its catalog counts. Called on logout and session expiry.
func (s *Interactions) Reset() {
	s.mu.Lock()
	s.state = make(map[int]Reaction)
	s.stats = make(map[int]Stats)
	s.mu.Unlock()
}

// transition computes the optimistic next state and counts for pressing the
// target reaction from the previous state.
func transition(prev, target Reaction, base Stats) (Reaction, Stats) {
	next := base
	switch {
	case prev == target && target == ReactionLike:
		next.Likes--
		return ReactionNone, next
	case prev == target && target == ReactionDislike:
		next.Dislikes--
		return ReactionNone, next
	case target == ReactionLike:
		next.Likes++
		if prev == ReactionDislike {
			next.Dislikes--
		}
		return ReactionLike, next
	default:
		next.Dislikes++
		if prev == ReactionLike {
			next.Likes--
		}
		return ReactionDislike, next
	}
}
