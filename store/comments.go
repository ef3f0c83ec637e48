package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"vidtube/api"
	"vidtube/http"
)

// CommentBackend is the slice of the API the comment store needs.
// *api.Client satisfies it.
type CommentBackend interface {
	ListComments(ctx context.Context, videoID int) ([]api.Comment, error)
	CreateComment(ctx context.Context, videoID, userID int, content string) (*api.Comment, error)
	UpdateComment(ctx context.Context, commentID int, content string) error
	DeleteComment(ctx context.Context, commentID int) error
	GetUser(ctx context.Context, username string) (*api.UserProfile, error)
}

// Comments keeps per-video comment lists in newest-first order, a best-effort
// cache of commenter avatars, and the single editing cursor: at most one
// comment is in edit mode at a time.
type Comments struct {
	backend CommentBackend
	session SessionSource
	logger  *slog.Logger

	mu       sync.RWMutex
	byVideo  map[int][]api.Comment
	profiles map[string]string // username -> profile image URL
	editing  int
	hasEdit  bool
	inflight map[int]bool // per-video compose box submission guard
}

// NewComments creates an empty comment store.
func NewComments(backend CommentBackend, sess SessionSource, logger *slog.Logger) *Comments {
	if logger == nil {
		logger = slog.Default()
	}
	return &Comments{
		backend:  backend,
		session:  sess,
		logger:   logger,
		byVideo:  make(map[int][]api.Comment),
		profiles: make(map[string]string),
		inflight: make(map[int]bool),
	}
}

// Load fetches a video's comments and replaces the cached list. Avatar
// lookups for new commenters run afterwards, best effort: a missing avatar
// never fails the load.
func (s *Comments) Load(ctx context.Context, videoID int) ([]api.Comment, error) {
	comments, err := s.backend.ListComments(ctx, videoID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.byVideo[videoID] = comments
	missing := make([]string, 0)
	seen := make(map[string]bool)
	for _, c := range comments {
		if _, cached := s.profiles[c.Username]; !cached && !seen[c.Username] {
			seen[c.Username] = true
			missing = append(missing, c.Username)
		}
	}
	s.mu.Unlock()

	for _, username := range missing {
		profile, err := s.backend.GetUser(ctx, username)
		if err != nil {
			s.logger.Debug("commenter profile lookup failed", "username", username, "err", err)
			continue
		}
		s.mu.Lock()
		s.profiles[username] = profile.ProfileImage
		s.mu.Unlock()
	}

	return s.Comments(videoID), nil
}

// Comments returns a copy of the cached list for a video, newest first.
func (s *Comments) Comments(videoID int) []api.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]api.Comment, len(s.byVideo[videoID]))
	copy(out, s.byVideo[videoID])
	return out
}

// ProfileImage returns the cached avatar URL for a commenter.
func (s *Comments) ProfileImage(username string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.profiles[username]
	return img, ok
}

// Create posts a comment and prepends the server-assigned record to the
// video's list. While a submission is pending the compose box is locked:
// a second Create for the same video fails with ErrSubmitInFlight.
func (s *Comments) Create(ctx context.Context, videoID int, content string) (*api.Comment, error) {
	sess, ok := s.session.Current()
	if !ok {
		return nil, http.ErrAuthRequired
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	s.mu.Lock()
	if s.inflight[videoID] {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	s.inflight[videoID] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.inflight, videoID)
		s.mu.Unlock()
	}()

	comment, err := s.backend.CreateComment(ctx, videoID, sess.User.ID, content)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.byVideo[videoID] = append([]api.Comment{*comment}, s.byVideo[videoID]...)
	if sess.User.ProfileImage != "" {
		s.profiles[comment.Username] = sess.User.ProfileImage
	}
	s.mu.Unlock()

	snapshot := *comment
	return &snapshot, nil
}

// StartEdit moves the editing cursor to a comment, closing any other edit.
func (s *Comments) StartEdit(commentID int) {
	s.mu.Lock()
	s.editing = commentID
	s.hasEdit = true
	s.mu.Unlock()
}

// CancelEdit closes the active edit, if any.
func (s *Comments) CancelEdit() {
	s.mu.Lock()
	s.editing = 0
	s.hasEdit = false
	s.mu.Unlock()
}

// Editing returns the comment currently in edit mode, if any.
func (s *Comments) Editing() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editing, s.hasEdit
}

// Update changes a comment's content on the server and in place in the
// cached list, then closes the edit if this comment was being edited. A 403
// surfaces as ErrNotYourComment.
func (s *Comments) Update(ctx context.Context, videoID, commentID int, content string) error {
	if _, ok := s.session.Current(); !ok {
		return http.ErrAuthRequired
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyContent
	}

	if err := s.backend.UpdateComment(ctx, commentID, content); err != nil {
		return mapOwnership(err)
	}

	s.mu.Lock()
	for i := range s.byVideo[videoID] {
		if s.byVideo[videoID][i].ID == commentID {
			s.byVideo[videoID][i].Content = content
			break
		}
	}
	if s.hasEdit && s.editing == commentID {
		s.editing = 0
		s.hasEdit = false
	}
	s.mu.Unlock()
	return nil
}

// Delete removes a comment on the server and from the cached list. On 403
// the list is left untouched and ErrNotYourComment is returned.
func (s *Comments) Delete(ctx context.Context, videoID, commentID int) error {
	if _, ok := s.session.Current(); !ok {
		return http.ErrAuthRequired
	}

	if err := s.backend.DeleteComment(ctx, commentID); err != nil {
		return mapOwnership(err)
	}

	s.mu.Lock()
	list := s.byVideo[videoID]
	for i := range list {
		if list[i].ID == commentID {
			s.byVideo[videoID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if s.hasEdit && s.editing == commentID {
		s.editing = 0
		s.hasEdit = false
	}
	s.mu.Unlock()
	return nil
}

// Reset closes the editing cursor and pending-submission guards. Comment
// lists and avatars are public data and survive logout.
func (s *Comments) Reset() {
	s.mu.Lock()
	s.editing = 0
	s.hasEdit = false
	s.inflight = make(map[int]bool)
	s.mu.Unlock()
}

// mapOwnership turns the server's 403 into the user-facing ownership error.
func mapOwnership(err error) error {
	if errors.Is(err, http.ErrForbidden) {
		return fmt.Errorf("%w: %w", ErrNotYourComment, err)
	}
	return err
}
