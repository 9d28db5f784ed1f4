// Package tokenstore persists the access/refresh token pair across CLI
// invocations. It is the single source of truth for "is a session persisted";
// the auth state machine is its only writer.
package tokenstore

// Pair holds the two credentials issued by the auth endpoints. AccessToken is
// short-lived and authorizes individual API calls; RefreshToken is long-lived
// and only ever exchanged for a new access token.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Complete reports whether both tokens are present. A pair with only one
// token is an inconsistent half-session and is treated as absent.
func (p Pair) Complete() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}

// Store is durable storage for a token pair.
//
// Load returns (nil, nil) when no pair is persisted. A partially persisted
// pair (one of the two tokens missing) must be cleared and reported as
// absent, never returned. Clear is idempotent.
type Store interface {
	Save(pair Pair) error
	Load() (*Pair, error)
	Clear() error
}
