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

// fakeSubscriptionBackend scripts subscribe/list responses and counts calls.
type fakeSubscriptionBackend struct {
	subscribed bool
	toggleErr  error
	calls      int

	channels []string
	listErr  error
}

func (f *fakeSubscriptionBackend) Subscribe(ctx context.Context, userID int, channel string) (bool, error) {
	f.calls++
	if f.toggleErr != nil {
		return false, f.toggleErr
	}
	f.subscribed = !f.subscribed
	return f.subscribed, nil
}

func (f *fakeSubscriptionBackend) ListSubscriptions(ctx context.Context, userID int) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.channels, nil
}

func TestToggle_AnonymousRejected(t *testing.T) {
	backend := &fakeSubscriptionBackend{}
	s := NewSubscriptions(backend, &fakeSession{}, NewCatalog(&fakeCatalogBackend{}, nil), nil)

	_, err := s.Toggle(context.Background(), "bob")
	require.ErrorIs(t, err, http.ErrAuthRequired)
	assert.Zero(t, backend.calls)
}

func TestToggle_SelfSubscribeRejectedWithoutNetworkCall(t *testing.T) {
	backend := &fakeSubscriptionBackend{}
	s := NewSubscriptions(backend, loggedIn(42, "alice"), NewCatalog(&fakeCatalogBackend{}, nil), nil)

	_, err := s.Toggle(context.Background(), "alice")
	require.ErrorIs(t, err, ErrSelfSubscribe)
	assert.Zero(t, backend.calls, "no request goes out for a self-subscription")
}

func TestToggle_ServerFlagDrivesMembership(t *testing.T) {
	backend := &fakeSubscriptionBackend{}
	s := NewSubscriptions(backend, loggedIn(42, "alice"), NewCatalog(&fakeCatalogBackend{}, nil), nil)

	subscribed, err := s.Toggle(context.Background(), "bob")
	require.NoError(t, err)
	assert.True(t, subscribed)
	assert.True(t, s.IsSubscribed("bob"))

	subscribed, err = s.Toggle(context.Background(), "bob")
	require.NoError(t, err)
	assert.False(t, subscribed)
	assert.False(t, s.IsSubscribed("bob"), "double toggle is the identity")
}

func TestToggle_FailureLeavesSetUntouched(t *testing.T) {
	backend := &fakeSubscriptionBackend{toggleErr: errors.New("boom")}
	s := NewSubscriptions(backend, loggedIn(42, "alice"), NewCatalog(&fakeCatalogBackend{}, nil), nil)

	_, err := s.Toggle(context.Background(), "bob")
	require.Error(t, err)
	assert.False(t, s.IsSubscribed("bob"))
}

func TestToggle_RefetchesOpenVideoOfToggledChannel(t *testing.T) {
	catalogBackend := &fakeCatalogBackend{
		list: []api.Video{{ID: 1, Channel: "bob", SubscriberCount: 10}},
		detail: map[int]api.Video{
			1: {ID: 1, Channel: "bob", SubscriberCount: 11},
		},
	}
	catalog := NewCatalog(catalogBackend, nil)
	_, err := catalog.LoadList(context.Background(), "")
	require.NoError(t, err)
	_, err = catalog.LoadDetail(context.Background(), 1)
	require.NoError(t, err)
	detailCallsBefore := catalogBackend.detailCalls

	s := NewSubscriptions(&fakeSubscriptionBackend{}, loggedIn(42, "alice"), catalog, nil)
	_, err = s.Toggle(context.Background(), "bob")
	require.NoError(t, err)

	assert.Equal(t, detailCallsBefore+1, catalogBackend.detailCalls,
		"the open video's channel changed, so its record is refetched")
}

func TestToggle_OtherChannelDoesNotRefetch(t *testing.T) {
	catalogBackend := &fakeCatalogBackend{
		list:   []api.Video{{ID: 1, Channel: "bob"}},
		detail: map[int]api.Video{1: {ID: 1, Channel: "bob"}},
	}
	catalog := NewCatalog(catalogBackend, nil)
	_, err := catalog.LoadList(context.Background(), "")
	require.NoError(t, err)
	_, err = catalog.LoadDetail(context.Background(), 1)
	require.NoError(t, err)
	detailCallsBefore := catalogBackend.detailCalls

	s := NewSubscriptions(&fakeSubscriptionBackend{}, loggedIn(42, "alice"), catalog, nil)
	_, err = s.Toggle(context.Background(), "carol")
	require.NoError(t, err)

	assert.Equal(t, detailCallsBefore, catalogBackend.detailCalls)
}

func TestRefresh_ReplacesSet(t *testing.T) {
	backend := &fakeSubscriptionBackend{channels: []string{"bob", "carol"}}
	s := NewSubscriptions(backend, loggedIn(42, "alice"), NewCatalog(&fakeCatalogBackend{}, nil), nil)

	require.NoError(t, s.Refresh(context.Background()))
	assert.Equal(t, []string{"bob", "carol"}, s.All())

	backend.channels = []string{"dave"}
	require.NoError(t, s.Refresh(context.Background()))
	assert.Equal(t, []string{"dave"}, s.All(), "refresh replaces, not merges")
}

func TestRefresh_FailureKeepsPreviousSet(t *testing.T) {
	backend := &fakeSubscriptionBackend{channels: []string{"bob"}}
	s := NewSubscriptions(backend, loggedIn(42, "alice"), NewCatalog(&fakeCatalogBackend{}, nil), nil)

	require.NoError(t, s.Refresh(context.Background()))
	backend.listErr = errors.New("boom")
	require.Error(t, s.Refresh(context.Background()))

	assert.True(t, s.IsSubscribed("bob"), "failed refresh leaves the set alone")
}

func TestSubscriptions_Reset(t *testing.T) {
	backend := &fakeSubscriptionBackend{channels: []string{"bob"}}
	s := NewSubscriptions(backend, loggedIn(42, "alice"), NewCatalog(&fakeCatalogBackend{}, nil), nil)

	require.NoError(t, s.Refresh(context.Background()))
	s.Reset()
	assert.Empty(t, s.All())
}
