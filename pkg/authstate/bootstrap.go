package authstate

import (
	"context"

	"github.com/edumentor/learnconnect/pkg/learnsdk"
	"github.com/edumentor/learnconnect/pkg/tokenstore"
)

// Bootstrap reconstructs a session from persisted tokens, exactly once per
// machine lifetime, with at most one self-healing refresh attempt.
//
// Failure is silent: there is no session to complain about, so every failure
// path lands in Idle, never Failed, and irrecoverable paths clear the store.
// With no persisted pair it returns without any network call. The bounded
// single refresh prevents a refresh loop against a backend that rejects
// every refreshed token.
func (m *Machine) Bootstrap(ctx context.Context) error {
	m.mu.Lock()
	if m.bootstrapped {
		m.mu.Unlock()
		m.logger.Debug("bootstrap already ran, ignoring")
		return nil
	}
	m.bootstrapped = true
	m.mu.Unlock()

	if !m.begin("bootstrap") {
		return nil
	}

	pair, err := m.store.Load()
	if err != nil {
		m.logger.Warn("token storage unavailable during bootstrap", "err", err)
	}
	if pair == nil {
		m.apply(evBootstrapFailed{})
		return nil
	}

	user, err := m.whoAmI(ctx, *pair)
	if err == nil {
		m.apply(evAuthenticated{session: Session{User: *user, Tokens: *pair}})
		return nil
	}

	// Only an expired or invalid access token is worth a refresh; anything
	// else (network down, malformed response) ends the attempt.
	if !learnsdk.IsKind(err, learnsdk.KindUnauthorized) {
		m.abandonBootstrap("current-user call failed", err)
		return nil
	}

	refreshed, err := m.refreshPair(ctx, *pair)
	if err != nil {
		m.abandonBootstrap("refresh failed", err)
		return nil
	}

	// One retry with the refreshed token, never more.
	user, err = m.whoAmI(ctx, refreshed)
	if err != nil {
		m.abandonBootstrap("retry after refresh failed", err)
		return nil
	}

	m.apply(evAuthenticated{session: Session{User: *user, Tokens: refreshed}})
	return nil
}

// whoAmI calls the current-user endpoint authenticating with pair's access
// token via the pendingAccess slot, since no session exists yet.
func (m *Machine) whoAmI(ctx context.Context, pair tokenstore.Pair) (*learnsdk.UserProfile, error) {
	m.mu.Lock()
	m.pendingAccess = pair.AccessToken
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.pendingAccess = ""
		m.mu.Unlock()
	}()

	return m.api.CurrentUser(ctx)
}

// abandonBootstrap clears persisted tokens and lands in Idle, logging the
// reason at debug level only; bootstrap failure is "no session", not an
// error the user should see.
func (m *Machine) abandonBootstrap(reason string, err error) {
	m.logger.Debug("bootstrap abandoned", "reason", reason, "err", err)
	if clearErr := m.store.Clear(); clearErr != nil {
		m.logger.Warn("failed to clear persisted tokens", "err", clearErr)
	}
	m.apply(evBootstrapFailed{})
}
