// Package authstate is the single authority on whether the client considers
// itself authenticated. It owns the auth state machine, the token side
// effects against the token store, and the startup session bootstrapper.
//
// The machine is constructed explicitly and passed to callers by dependency
// injection; there is no package-level state, so tests can run isolated
// machines in parallel.
package authstate

import (
	"github.com/edumentor/learnconnect/pkg/learnsdk"
	"github.com/edumentor/learnconnect/pkg/tokenstore"
)

// Status enumerates the machine's states. Exactly one holds at any time.
type Status int

const (
	// StatusIdle: no session attempted, or the session ended.
	StatusIdle Status = iota

	// StatusLoading: a login, register, bootstrap, or refresh is in flight.
	StatusLoading

	// StatusAuthenticated: a full session (profile + tokens) is held.
	StatusAuthenticated

	// StatusFailed: a login or register failed; carries the reason.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is an authenticated user: profile plus the live token pair. It is
// never constructed partially; it exists only while the machine is
// Authenticated and is destroyed on logout or irrecoverable refresh failure.
type Session struct {
	User   learnsdk.UserProfile
	Tokens tokenstore.Pair
}

// State is a snapshot of the machine. Session is non-nil exactly when Status
// is StatusAuthenticated; Err is non-empty exactly when Status is
// StatusFailed.
type State struct {
	Status  Status
	Session *Session
	Err     string
}

// Authenticated reports whether a session is held.
func (s State) Authenticated() bool { return s.Status == StatusAuthenticated }
