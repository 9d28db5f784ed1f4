package authstate

import (
	"github.com/edumentor/learnconnect/pkg/learnsdk"
	"github.com/edumentor/learnconnect/pkg/tokenstore"
)

// event is the tagged union driving transitions. The machine is the only
// event source; transition is a pure function over (State, event) so the
// whole table is testable without any I/O.
type event interface{ isEvent() }

// evBegin marks an operation in flight (login, register, bootstrap).
type evBegin struct{}

// evAuthenticated carries a complete session.
type evAuthenticated struct{ session Session }

// evAuthFailed carries the flattened failure reason for login/register.
type evAuthFailed struct{ message string }

// evBootstrapFailed ends a bootstrap silently: there is no session to
// complain about, so it lands in Idle, not Failed.
type evBootstrapFailed struct{}

// evLoggedOut ends the session locally regardless of the remote call.
type evLoggedOut struct{}

// evProfileUpdated replaces the profile inside an authenticated session.
type evProfileUpdated struct{ user learnsdk.UserProfile }

// evTokensRefreshed replaces the token pair inside an authenticated session.
type evTokensRefreshed struct{ pair tokenstore.Pair }

// evErrorCleared acknowledges a failure, returning to Idle.
type evErrorCleared struct{}

func (evBegin) isEvent()           {}
func (evAuthenticated) isEvent()   {}
func (evAuthFailed) isEvent()      {}
func (evBootstrapFailed) isEvent() {}
func (evLoggedOut) isEvent()       {}
func (evProfileUpdated) isEvent()  {}
func (evTokensRefreshed) isEvent() {}
func (evErrorCleared) isEvent()    {}

// transition applies e to s and returns the next state. Events that do not
// apply in the current state leave it unchanged; the machine's guards are
// responsible for not emitting them.
func transition(s State, e event) State {
	switch e := e.(type) {
	case evBegin:
		return State{Status: StatusLoading}

	case evAuthenticated:
		session := e.session
		return State{Status: StatusAuthenticated, Session: &session}

	case evAuthFailed:
		return State{Status: StatusFailed, Err: e.message}

	case evBootstrapFailed:
		return State{Status: StatusIdle}

	case evLoggedOut:
		return State{Status: StatusIdle}

	case evProfileUpdated:
		if s.Status != StatusAuthenticated {
			return s
		}
		session := *s.Session
		session.User = e.user
		return State{Status: StatusAuthenticated, Session: &session}

	case evTokensRefreshed:
		if s.Status != StatusAuthenticated {
			return s
		}
		session := *s.Session
		session.Tokens = e.pair
		return State{Status: StatusAuthenticated, Session: &session}

	case evErrorCleared:
		if s.Status != StatusFailed {
			return s
		}
		return State{Status: StatusIdle}

	default:
		return s
	}
}
