package authstate

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/edumentor/learnconnect/pkg/learnsdk"
	"github.com/edumentor/learnconnect/pkg/tokenstore"
)

// API is the slice of the gateway client the machine drives. *learnsdk.Client
// satisfies it; tests substitute fakes.
type API interface {
	Login(ctx context.Context, creds learnsdk.Credentials) (*learnsdk.AuthPayload, error)
	Register(ctx context.Context, reg learnsdk.Registration) (*learnsdk.AuthPayload, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*learnsdk.TokenPair, error)
	CurrentUser(ctx context.Context) (*learnsdk.UserProfile, error)
	UpdateProfile(ctx context.Context, update learnsdk.ProfileUpdate) (*learnsdk.UserProfile, error)
}

// ErrNotAuthenticated is returned by operations that require a session.
var ErrNotAuthenticated = errors.New("authstate: not authenticated")

// Machine is the auth state machine: the only writer of AuthState and the
// only mutator of the token store. Feature code reads the access token
// indirectly through the gateway client, which uses the machine as its
// TokenProvider.
//
// Operations block until their network call resolves; the Loading status is
// the observable marker of an in-flight operation. A login, register, or
// bootstrap issued while Loading is ignored, which closes the double-submit
// race without any caller discipline.
type Machine struct {
	api    API
	store  tokenstore.Store
	logger *slog.Logger

	mu           sync.Mutex
	state        State
	bootstrapped bool

	// pendingAccess carries the access token during bootstrap, before a
	// session exists, so the gateway's "who am I" call can authenticate.
	pendingAccess string

	subMu sync.Mutex
	subs  []func(State)
}

// New constructs a machine in the Idle state. store and api must be non-nil;
// logger falls back to slog.Default.
func New(api API, store tokenstore.Store, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		api:    api,
		store:  store,
		logger: logger,
		state:  State{Status: StatusIdle},
	}
}

// State returns a snapshot of the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers fn to run after every state change. Subscribers are
// called synchronously, outside the state lock, in registration order.
func (m *Machine) Subscribe(fn func(State)) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	m.subs = append(m.subs, fn)
}

// AccessToken implements learnsdk.TokenProvider. It reads from live state,
// never from the token store, so a refresh is visible immediately.
func (m *Machine) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status == StatusAuthenticated {
		return m.state.Session.Tokens.AccessToken
	}
	return m.pendingAccess
}

// apply runs the transition function and notifies subscribers.
func (m *Machine) apply(e event) State {
	m.mu.Lock()
	m.state = transition(m.state, e)
	next := m.state
	m.mu.Unlock()

	m.notify(next)
	return next
}

// notify calls subscribers outside the state lock, in registration order.
func (m *Machine) notify(next State) {
	m.subMu.Lock()
	subs := make([]func(State), len(m.subs))
	copy(subs, m.subs)
	m.subMu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}

// begin moves to Loading if an auth operation may start from the current
// state. It reports false when the call must be ignored (already Loading) or
// is invalid (already Authenticated). Guard and transition happen under one
// lock so two racing calls cannot both start.
func (m *Machine) begin(op string) bool {
	m.mu.Lock()
	switch m.state.Status {
	case StatusLoading:
		m.mu.Unlock()
		m.logger.Debug("auth operation ignored, another is in flight", "op", op)
		return false
	case StatusAuthenticated:
		m.mu.Unlock()
		m.logger.Debug("auth operation ignored, already authenticated", "op", op)
		return false
	default:
		m.state = transition(m.state, evBegin{})
		next := m.state
		m.mu.Unlock()
		m.notify(next)
		return true
	}
}

// Login authenticates with credentials. On success the machine becomes
// Authenticated and the token pair is persisted; on failure it becomes
// Failed with a flattened message and the error is returned so the caller
// can surface field-level details. A call while Loading or Authenticated is
// ignored and returns nil.
func (m *Machine) Login(ctx context.Context, creds learnsdk.Credentials) error {
	if !m.begin("login") {
		return nil
	}

	payload, err := m.api.Login(ctx, creds)
	if err != nil {
		m.apply(evAuthFailed{message: flatten(err)})
		return err
	}

	m.establish(*payload)
	return nil
}

// Register creates an account and authenticates in one step. Semantics match
// Login.
func (m *Machine) Register(ctx context.Context, reg learnsdk.Registration) error {
	if !m.begin("register") {
		return nil
	}

	payload, err := m.api.Register(ctx, reg)
	if err != nil {
		m.apply(evAuthFailed{message: flatten(err)})
		return err
	}

	m.establish(*payload)
	return nil
}

// establish persists the pair and transitions to Authenticated. A store
// failure degrades to an in-memory-only session rather than failing the
// login.
func (m *Machine) establish(payload learnsdk.AuthPayload) {
	pair := tokenstore.Pair{
		AccessToken:  payload.Tokens.AccessToken,
		RefreshToken: payload.Tokens.RefreshToken,
	}

	if err := m.store.Save(pair); err != nil {
		m.logger.Warn("token persistence unavailable, session will not survive restart", "err", err)
	}

	m.apply(evAuthenticated{session: Session{User: payload.User, Tokens: pair}})
}

// Logout ends the session. Local token clearing is authoritative: the store
// is cleared and the machine lands in Idle even when the remote revocation
// call fails. Calling Logout without a session is a no-op.
func (m *Machine) Logout(ctx context.Context) error {
	m.mu.Lock()
	if m.state.Status != StatusAuthenticated {
		m.mu.Unlock()
		return nil
	}
	refreshToken := m.state.Session.Tokens.RefreshToken
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.logger.Warn("failed to clear persisted tokens on logout", "err", err)
	}

	if err := m.api.Logout(ctx, refreshToken); err != nil {
		m.logger.Warn("remote logout failed, session ended locally", "err", err)
	}

	m.apply(evLoggedOut{})
	return nil
}

// UpdateProfile merges fields into the authenticated profile. Failure leaves
// the state untouched and returns the error to the caller; it is never
// recorded in AuthState.
func (m *Machine) UpdateProfile(ctx context.Context, update learnsdk.ProfileUpdate) error {
	if !m.State().Authenticated() {
		return ErrNotAuthenticated
	}

	user, err := m.api.UpdateProfile(ctx, update)
	if err != nil {
		return err
	}

	m.apply(evProfileUpdated{user: *user})
	return nil
}

// ClearError acknowledges a Failed state, returning to Idle.
func (m *Machine) ClearError() {
	m.apply(evErrorCleared{})
}

// Refresh implements learnsdk.Refresher: one silent refresh of the
// authenticated session's access token. The refresh token is retained unless
// the server rotates it. The new pair is persisted and visible to the
// gateway immediately.
func (m *Machine) Refresh(ctx context.Context) error {
	m.mu.Lock()
	if m.state.Status != StatusAuthenticated {
		m.mu.Unlock()
		return ErrNotAuthenticated
	}
	current := m.state.Session.Tokens
	m.mu.Unlock()

	pair, err := m.refreshPair(ctx, current)
	if err != nil {
		return err
	}

	m.apply(evTokensRefreshed{pair: pair})
	return nil
}

// refreshPair exchanges current's refresh token for a new access token and
// persists the result.
func (m *Machine) refreshPair(ctx context.Context, current tokenstore.Pair) (tokenstore.Pair, error) {
	refreshed, err := m.api.Refresh(ctx, current.RefreshToken)
	if err != nil {
		return tokenstore.Pair{}, err
	}

	pair := tokenstore.Pair{
		AccessToken:  refreshed.AccessToken,
		RefreshToken: current.RefreshToken,
	}
	if refreshed.RefreshToken != "" {
		pair.RefreshToken = refreshed.RefreshToken
	}

	if err := m.store.Save(pair); err != nil {
		m.logger.Warn("token persistence unavailable after refresh", "err", err)
	}

	return pair, nil
}

// flatten reduces an error to the single human-readable message stored in
// the Failed state. Field-level details stay on the error itself.
func flatten(err error) string {
	if apiErr, ok := learnsdk.AsAPIError(err); ok {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		switch apiErr.Kind {
		case learnsdk.KindNetworkUnavailable:
			return "network unavailable"
		case learnsdk.KindUnauthorized:
			return "invalid credentials"
		case learnsdk.KindValidationFailed:
			return "validation failed"
		case learnsdk.KindServerError:
			return "server error"
		default:
			return "request failed"
		}
	}
	return err.Error()
}
