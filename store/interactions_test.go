package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/api"
	"vidtube/http"
)

// fakeReactionBackend scripts like/dislike responses and counts calls.
type fakeReactionBackend struct {
	result *api.ReactionResult
	err    error
	calls  int
}

func (f *fakeReactionBackend) Like(ctx context.Context, videoID, userID int) (*api.ReactionResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeReactionBackend) Dislike(ctx context.Context, videoID, userID int) (*api.ReactionResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func seededCatalog(t *testing.T, videos ...api.Video) *Catalog {
	t.Helper()
	c := NewCatalog(&fakeCatalogBackend{list: videos}, nil)
	_, err := c.LoadList(context.Background(), "")
	require.NoError(t, err)
	return c
}

func TestToggleLike_AnonymousRejectedWithoutNetworkCall(t *testing.T) {
	backend := &fakeReactionBackend{}
	catalog := seededCatalog(t, api.Video{ID: 1, Likes: 5})
	s := NewInteractions(backend, &fakeSession{}, catalog, nil)

	err := s.ToggleLike(context.Background(), 1)
	require.ErrorIs(t, err, http.ErrAuthRequired)
	assert.Zero(t, backend.calls, "no request goes out for anonymous toggles")
	assert.Equal(t, ReactionNone, s.State(1))
	assert.Equal(t, Stats{Likes: 5}, s.Stats(1), "counts untouched")
}

func TestToggleLike_ServerResponseReplacesOptimisticCounts(t *testing.T) {
	// Optimistic math would say 6 likes; the server knows better.
	backend := &fakeReactionBackend{result: &api.ReactionResult{Likes: 12, Dislikes: 3, IsLiked: true}}
	catalog := seededCatalog(t, api.Video{ID: 1, Likes: 5, Dislikes: 2})
	s := NewInteractions(backend, loggedIn(42, "alice"), catalog, nil)

	require.NoError(t, s.ToggleLike(context.Background(), 1))

	assert.Equal(t, ReactionLike, s.State(1))
	assert.Equal(t, Stats{Likes: 12, Dislikes: 3}, s.Stats(1), "authoritative counts replace, never add")

	v, _ := catalog.Get(1)
	assert.Equal(t, 12, v.Likes, "catalog record patched with server counts")
}

func TestToggleLike_DoubleToggleReturnsToNone(t *testing.T) {
	backend := &fakeReactionBackend{result: &api.ReactionResult{Likes: 6, Dislikes: 0, IsLiked: true}}
	catalog := seededCatalog(t, api.Video{ID: 1, Likes: 5})
	s := NewInteractions(backend, loggedIn(42, "alice"), catalog, nil)

	require.NoError(t, s.ToggleLike(context.Background(), 1))
	require.Equal(t, ReactionLike, s.State(1))

	backend.result = &api.ReactionResult{Likes: 5, Dislikes: 0, IsLiked: false}
	require.NoError(t, s.ToggleLike(context.Background(), 1))

	assert.Equal(t, ReactionNone, s.State(1), "like then like again lands on none")
	assert.Equal(t, Stats{Likes: 5}, s.Stats(1))
}

func TestToggleDislike_MovesReactionOver(t *testing.T) {
	backend := &fakeReactionBackend{result: &api.ReactionResult{Likes: 6, IsLiked: true}}
	catalog := seededCatalog(t, api.Video{ID: 1, Likes: 5, Dislikes: 1})
	s := NewInteractions(backend, loggedIn(42, "alice"), catalog, nil)

	require.NoError(t, s.ToggleLike(context.Background(), 1))

	backend.result = &api.ReactionResult{Likes: 5, Dislikes: 2, IsDisliked: true}
	require.NoError(t, s.ToggleDislike(context.Background(), 1))

	assert.Equal(t, ReactionDislike, s.State(1), "dislike displaces the like")
	assert.Equal(t, Stats{Likes: 5, Dislikes: 2}, s.Stats(1))
}

func TestToggle_FailureRollsBack(t *testing.T) {
	backend := &fakeReactionBackend{err: &http.NetworkError{Err: errors.New("refused")}}
	catalog := seededCatalog(t, api.Video{ID: 1, Likes: 5, Dislikes: 2})
	s := NewInteractions(backend, loggedIn(42, "alice"), catalog, nil)

	err := s.ToggleLike(context.Background(), 1)
	require.Error(t, err)

	assert.Equal(t, ReactionNone, s.State(1), "optimistic state reverted")
	assert.Equal(t, Stats{Likes: 5, Dislikes: 2}, s.Stats(1), "optimistic counts reverted")
}

func TestToggle_SessionExpiryDoesNotResurrectState(t *testing.T) {
	catalog := seededCatalog(t, api.Video{ID: 1, Likes: 5})
	sess := loggedIn(42, "alice")
	s := NewInteractions(nil, sess, catalog, nil)

	// The 401 response path: the session layer resets the store while the
	// request is in flight, then the call returns ErrSessionExpired.
	expired := http.ErrorFromResponse(&http.Response{StatusCode: 401})
	backend := &fakeReactionBackend{err: expired}
	s.backend = backend

	err := s.ToggleLike(context.Background(), 1)
	require.ErrorIs(t, err, http.ErrSessionExpired)

	s.Reset() // what the session listener does
	assert.Equal(t, ReactionNone, s.State(1))
	assert.Equal(t, Stats{Likes: 5}, s.Stats(1), "display falls back to catalog counts")
}

func TestToggle_OptimisticTransitionMath(t *testing.T) {
	tests := []struct {
		name      string
		prev      Reaction
		target    Reaction
		base      Stats
		wantState Reaction
		wantStats Stats
	}{
		{"none to like", ReactionNone, ReactionLike, Stats{5, 2}, ReactionLike, Stats{6, 2}},
		{"like to none", ReactionLike, ReactionLike, Stats{6, 2}, ReactionNone, Stats{5, 2}},
		{"none to dislike", ReactionNone, ReactionDislike, Stats{5, 2}, ReactionDislike, Stats{5, 3}},
		{"dislike to none", ReactionDislike, ReactionDislike, Stats{5, 3}, ReactionNone, Stats{5, 2}},
		{"dislike to like", ReactionDislike, ReactionLike, Stats{5, 3}, ReactionLike, Stats{6, 2}},
		{"like to dislike", ReactionLike, ReactionDislike, Stats{6, 2}, ReactionDislike, Stats{5, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, stats := transition(tt.prev, tt.target, tt.base)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.wantStats, stats)
		})
	}
}

func TestListReload_ClearsCountOverrides(t *testing.T) {
	catalogBackend := &fakeCatalogBackend{list: []api.Video{{ID: 1, Likes: 5}}}
	catalog := NewCatalog(catalogBackend, nil)
	_, err := catalog.LoadList(context.Background(), "")
	require.NoError(t, err)

	backend := &fakeReactionBackend{result: &api.ReactionResult{Likes: 6, IsLiked: true}}
	s := NewInteractions(backend, loggedIn(42, "alice"), catalog, nil)

	require.NoError(t, s.ToggleLike(context.Background(), 1))
	require.Equal(t, Stats{Likes: 6}, s.Stats(1))

	// A fresh list carries newer authoritative counts.
	catalogBackend.list = []api.Video{{ID: 1, Likes: 8}}
	_, err = catalog.LoadList(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, Stats{Likes: 8}, s.Stats(1), "reload drops toggle overrides")
	assert.Equal(t, ReactionLike, s.State(1), "the user's reaction survives a reload")
}

func TestInteractions_Reset(t *testing.T) {
	backend := &fakeReactionBackend{result: &api.ReactionResult{Likes: 6, IsLiked: true}}
	catalog := seededCatalog(t, api.Video{ID: 1, Likes: 5})
	s := NewInteractions(backend, loggedIn(42, "alice"), catalog, nil)

	require.NoError(t, s.ToggleLike(context.Background(), 1))
	s.Reset()

	assert.Equal(t, ReactionNone, s.State(1))
	assert.Equal(t, Stats{Likes: 6}, s.Stats(1),
		"after reset the catalog record is the display source; it already carries the patched count")
}
