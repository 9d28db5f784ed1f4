package jwtx

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates EdDSA-signed JWTs against a set of known public keys.
type Verifier struct {
	keys   map[string]ed25519.PublicKey
	issuer string
	leeway time.Duration
}

// NewVerifier creates a verifier. issuer may be empty to skip the check;
// leeway absorbs clock skew when validating exp/nbf.
func NewVerifier(issuer string, leeway time.Duration) *Verifier {
	return &Verifier{
		keys:   make(map[string]ed25519.PublicKey),
		issuer: issuer,
		leeway: leeway,
	}
}

// AddKey registers a public key under its kid. Keeping old kids registered
// through a rotation lets in-flight tokens verify until they expire.
func (v *Verifier) AddKey(kid string, pub ed25519.PublicKey) {
	v.keys[kid] = pub
}

// Verify validates the JWT string and returns its parsed claims.
func (v *Verifier) Verify(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}))

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, ErrUnknownKID
		}
		pub, ok := v.keys[kid]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKID, kid)
		}
		return pub, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrMalformed
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return nil, err
	}
	if err := claims.ValidateExpiry(v.leeway); err != nil {
		return nil, err
	}

	return claims, nil
}
