package domain

import "time"

// TokenPair is what the auth endpoints return: a short-lived JWT access
// token and the opaque refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int    `json:"expiresIn"` // seconds until access token expiry
}

// RefreshToken models the stored refresh token record. Only the SHA-256
// fingerprint of the opaque token is persisted.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string // base64url SHA-256 fingerprint
	SessionID string // survives rotation, ties refreshes to one login
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuthResult bundles the authenticated user with their fresh token pair.
type AuthResult struct {
	User   User
	Tokens TokenPair
}
