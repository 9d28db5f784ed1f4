package learnsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type staticTokens struct{ token string }

func (s *staticTokens) AccessToken() string { return s.token }

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/auth/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "user@example.com", creds.Email)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(AuthPayload{
			User:   UserProfile{ID: "1", Role: "learner"},
			Tokens: TokenPair{AccessToken: "a1", RefreshToken: "r1", ExpiresIn: 900},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	payload, err := client.Login(context.Background(), Credentials{Email: "user@example.com", Password: "correct"})
	require.NoError(t, err)
	require.Equal(t, "1", payload.User.ID)
	require.Equal(t, "a1", payload.Tokens.AccessToken)
	require.Equal(t, "r1", payload.Tokens.RefreshToken)
}

func TestLoginInvalidCredentials(t *testing.T) {
	t.Parallel()

	// Legacy error shape: bare {"error": "..."}.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Login(context.Background(), Credentials{Email: "user@example.com", Password: "wrong"})
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, KindUnauthorized, apiErr.Kind)
	require.Equal(t, "Invalid credentials", apiErr.Message)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestRegisterValidationErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":"validation_failed","message":"validation failed","fieldErrors":{"email":"email must be a valid email address"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Register(context.Background(), Registration{Name: "x", Email: "bad"})

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, KindValidationFailed, apiErr.Kind)
	require.Equal(t, "email must be a valid email address", apiErr.FieldErrors["email"])
}

func TestNetworkErrorNormalized(t *testing.T) {
	t.Parallel()

	// A closed server produces a transport-level failure.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL)
	_, err := client.CurrentUser(context.Background())
	require.True(t, IsKind(err, KindNetworkUnavailable))
}

func TestErrorKindsByStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		kind   ErrorKind
	}{
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusForbidden, KindForbidden},
		{http.StatusNotFound, KindNotFound},
		{http.StatusBadRequest, KindValidationFailed},
		{http.StatusInternalServerError, KindServerError},
		{http.StatusTeapot, KindUnknown},
	}

	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		client := NewClient(server.URL)
		_, err := client.CurrentUser(context.Background())
		require.True(t, IsKind(err, tc.kind), "status %d should map to %s, got %v", tc.status, tc.kind, err)
		server.Close()
	}
}

func TestMalformedSuccessBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user": `)) // truncated
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Login(context.Background(), Credentials{Email: "a@b.c", Password: "p"})
	require.True(t, IsKind(err, KindUnknown))
}

func TestBearerTokenAttached(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(UserProfile{ID: "1"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.Tokens = &staticTokens{token: "tok-123"}

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, "1", user.ID)
}

type countingRefresher struct {
	calls  atomic.Int32
	tokens *staticTokens
}

func (r *countingRefresher) Refresh(ctx context.Context) error {
	r.calls.Add(1)
	r.tokens.token = "fresh"
	return nil
}

func TestRetryUnauthorizedDisabledByDefault(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	tokens := &staticTokens{token: "stale"}
	refresher := &countingRefresher{tokens: tokens}

	client := NewClient(server.URL)
	client.Tokens = tokens
	client.Refresher = refresher

	_, err := client.CurrentUser(context.Background())
	require.True(t, IsKind(err, KindUnauthorized))
	require.Equal(t, int32(1), hits.Load())
	require.Equal(t, int32(0), refresher.calls.Load())
}

func TestRetryUnauthorizedRefreshesOnce(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(UserProfile{ID: "1"})
	}))
	defer server.Close()

	tokens := &staticTokens{token: "stale"}
	refresher := &countingRefresher{tokens: tokens}

	client := NewClient(server.URL)
	client.Tokens = tokens
	client.Refresher = refresher
	client.RetryUnauthorized = true

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, "1", user.ID)
	require.Equal(t, int32(2), hits.Load())
	require.Equal(t, int32(1), refresher.calls.Load())
}

func TestRetryUnauthorizedBounded(t *testing.T) {
	t.Parallel()

	// Backend rejects even refreshed tokens: exactly one refresh, one retry.
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	tokens := &staticTokens{token: "stale"}
	refresher := &countingRefresher{tokens: tokens}

	client := NewClient(server.URL)
	client.Tokens = tokens
	client.Refresher = refresher
	client.RetryUnauthorized = true

	_, err := client.CurrentUser(context.Background())
	require.True(t, IsKind(err, KindUnauthorized))
	require.Equal(t, int32(2), hits.Load())
	require.Equal(t, int32(1), refresher.calls.Load())
}
