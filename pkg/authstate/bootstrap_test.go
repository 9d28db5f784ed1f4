package authstate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edumentor/learnconnect/pkg/learnsdk"
	"github.com/edumentor/learnconnect/pkg/tokenstore"
)

func seededStore(t *testing.T, pair tokenstore.Pair) *tokenstore.MemoryStore {
	t.Helper()
	store := tokenstore.NewMemoryStore()
	require.NoError(t, store.Save(pair))
	return store
}

func TestBootstrapNoPersistedTokens(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{} // any network call would panic on a nil fn
	m := New(api, tokenstore.NewMemoryStore(), nil)

	var seen []Status
	m.Subscribe(func(s State) { seen = append(seen, s.Status) })

	require.NoError(t, m.Bootstrap(context.Background()))

	// Idle -> Loading -> Idle, no network calls.
	require.Equal(t, []Status{StatusLoading, StatusIdle}, seen)
	require.Equal(t, int32(0), api.currentUserCalls.Load())
	require.Equal(t, int32(0), api.refreshCalls.Load())
}

func TestBootstrapValidAccessToken(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{currentUserFn: func() (*learnsdk.UserProfile, error) {
		return &learnsdk.UserProfile{ID: "42", Role: "tutor"}, nil
	}}
	store := seededStore(t, tokenstore.Pair{AccessToken: "a1", RefreshToken: "r1"})
	m := New(api, store, nil)

	require.NoError(t, m.Bootstrap(context.Background()))

	state := m.State()
	require.Equal(t, StatusAuthenticated, state.Status)
	require.Equal(t, "42", state.Session.User.ID)
	require.Equal(t, tokenstore.Pair{AccessToken: "a1", RefreshToken: "r1"}, state.Session.Tokens)
	require.Equal(t, int32(1), api.currentUserCalls.Load())
	require.Equal(t, int32(0), api.refreshCalls.Load())
}

func TestBootstrapExpiredAccessTokenHealsOnce(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	m := New(api, seededStore(t, tokenstore.Pair{AccessToken: "stale", RefreshToken: "r1"}), nil)

	api.currentUserFn = func() (*learnsdk.UserProfile, error) {
		if m.AccessToken() == "stale" {
			return nil, unauthorized("token expired")
		}
		return &learnsdk.UserProfile{ID: "42"}, nil
	}
	api.refreshFn = func(refreshToken string) (*learnsdk.TokenPair, error) {
		require.Equal(t, "r1", refreshToken)
		return &learnsdk.TokenPair{AccessToken: "fresh", ExpiresIn: 900}, nil
	}

	require.NoError(t, m.Bootstrap(context.Background()))

	state := m.State()
	require.Equal(t, StatusAuthenticated, state.Status)
	require.Equal(t, "42", state.Session.User.ID)
	// Refresh token retained, new access token persisted.
	require.Equal(t, tokenstore.Pair{AccessToken: "fresh", RefreshToken: "r1"}, state.Session.Tokens)

	// Exactly one refresh and exactly one retry.
	require.Equal(t, int32(1), api.refreshCalls.Load())
	require.Equal(t, int32(2), api.currentUserCalls.Load())
}

func TestBootstrapRefreshFailureClearsStore(t *testing.T) {
	t.Parallel()

	store := seededStore(t, tokenstore.Pair{AccessToken: "stale", RefreshToken: "dead"})
	api := &fakeAPI{
		currentUserFn: func() (*learnsdk.UserProfile, error) { return nil, unauthorized("token expired") },
		refreshFn: func(string) (*learnsdk.TokenPair, error) {
			return nil, unauthorized("refresh token expired")
		},
	}
	m := New(api, store, nil)

	require.NoError(t, m.Bootstrap(context.Background()))

	// Silent landing in Idle, store cleared, no retry loop.
	require.Equal(t, StatusIdle, m.State().Status)
	require.Equal(t, int32(1), api.refreshCalls.Load())
	require.Equal(t, int32(1), api.currentUserCalls.Load())

	pair, err := store.Load()
	require.NoError(t, err)
	require.Nil(t, pair)
}

func TestBootstrapRetryAfterRefreshStillRejected(t *testing.T) {
	t.Parallel()

	// Backend misconfigured to reject even refreshed tokens: the single
	// bounded retry must not loop.
	store := seededStore(t, tokenstore.Pair{AccessToken: "stale", RefreshToken: "r1"})
	api := &fakeAPI{
		currentUserFn: func() (*learnsdk.UserProfile, error) { return nil, unauthorized("token expired") },
		refreshFn: func(string) (*learnsdk.TokenPair, error) {
			return &learnsdk.TokenPair{AccessToken: "fresh", ExpiresIn: 900}, nil
		},
	}
	m := New(api, store, nil)

	require.NoError(t, m.Bootstrap(context.Background()))

	require.Equal(t, StatusIdle, m.State().Status)
	require.Equal(t, int32(1), api.refreshCalls.Load())
	require.Equal(t, int32(2), api.currentUserCalls.Load())

	pair, err := store.Load()
	require.NoError(t, err)
	require.Nil(t, pair)
}

func TestBootstrapNetworkFailure(t *testing.T) {
	t.Parallel()

	// A non-auth failure during the who-am-I call is not worth a refresh:
	// clear and land Idle, silently.
	store := seededStore(t, tokenstore.Pair{AccessToken: "a1", RefreshToken: "r1"})
	api := &fakeAPI{
		currentUserFn: func() (*learnsdk.UserProfile, error) {
			return nil, &learnsdk.APIError{Kind: learnsdk.KindNetworkUnavailable, Message: "connection refused"}
		},
	}
	m := New(api, store, nil)

	require.NoError(t, m.Bootstrap(context.Background()))

	require.Equal(t, StatusIdle, m.State().Status)
	require.Equal(t, int32(0), api.refreshCalls.Load())
}

func TestBootstrapRunsOnce(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{currentUserFn: func() (*learnsdk.UserProfile, error) {
		return &learnsdk.UserProfile{ID: "42"}, nil
	}}
	m := New(api, seededStore(t, tokenstore.Pair{AccessToken: "a1", RefreshToken: "r1"}), nil)

	require.NoError(t, m.Bootstrap(context.Background()))
	require.NoError(t, m.Bootstrap(context.Background()))

	require.Equal(t, int32(1), api.currentUserCalls.Load())
	require.Equal(t, StatusAuthenticated, m.State().Status)
}

func TestBootstrapStorageUnavailable(t *testing.T) {
	t.Parallel()

	m := New(&fakeAPI{}, &failingStore{}, nil)

	require.NoError(t, m.Bootstrap(context.Background()))
	require.Equal(t, StatusIdle, m.State().Status)
}
