// Package jwtx issues and verifies Ed25519-signed access tokens.
package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token TTL defaults. Access tokens are short-lived; session longevity comes
// from the opaque refresh token, not from the JWT.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrUnknownKID  = errors.New("jwtx: unknown kid")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// Claims are the access-token claims shared between the token service and the
// bearer middleware.
type Claims struct {
	jwt.RegisteredClaims

	// SID is the session ID, matching the refresh-token chain the access
	// token was minted from.
	SID string `json:"sid,omitempty"`

	// Role is the account role, "learner" or "tutor".
	Role string `json:"role,omitempty"`

	// Name is the display name for the user.
	Name string `json:"name,omitempty"`
}

// NewAccessClaims builds minimally-correct claims for an access token.
func NewAccessClaims(subject, sid, role, name, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		SID:  sid,
		Role: role,
		Name: name,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks the issuer when an expected value is configured.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token is inside its nbf/exp window, with leeway
// for clock skew.
func (c *Claims) ValidateExpiry(leeway time.Duration) error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
