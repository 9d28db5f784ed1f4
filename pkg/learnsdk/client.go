// Package learnsdk is the typed client for the LearnConnect REST API. It is
// the single point through which every feature issues HTTP calls: it attaches
// the current access token, normalizes transport and application errors into
// *APIError, and exposes thin typed wrappers per feature (auth, sessions,
// skills, matching, analytics, notifications).
package learnsdk

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// TokenProvider supplies the current access token for outbound requests.
// It is read per request from live auth state, never from durable storage,
// so the client cannot send a stale token after a refresh.
type TokenProvider interface {
	AccessToken() string
}

// Refresher performs a single silent token refresh. When RetryUnauthorized is
// enabled on the Client, an Unauthorized response triggers one Refresh
// followed by one retry of the original request.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Client is the LearnConnect API gateway client.
//
// The zero policy on auth state: the client never mutates it. An Unauthorized
// response is surfaced to the caller (or, when RetryUnauthorized is set,
// triggers exactly one refresh-and-retry via the Refresher); deciding to
// force a logout is the auth state machine's job.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Tokens supplies the bearer token for authenticated requests.
	// Unauthenticated endpoints ignore it. May be nil.
	Tokens TokenProvider

	// Refresher and RetryUnauthorized configure the mid-session refresh
	// policy. The default (off) matches "heal silently only at bootstrap":
	// expired-token failures mid-session surface to the caller.
	Refresher         Refresher
	RetryUnauthorized bool

	// Limiter throttles outbound requests. Nil disables throttling.
	Limiter *rate.Limiter

	Logger *slog.Logger
}

// NewClient creates a client for the given base URL with a 10 second request
// timeout and a lenient outbound rate limit.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		Limiter: rate.NewLimiter(rate.Limit(50), 100),
		Logger:  slog.Default(),
	}
}

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.BaseURL + path
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
