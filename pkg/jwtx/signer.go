package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Signer signs access-token claims with an Ed25519 key identified by kid.
type Signer struct {
	kid string
	key ed25519.PrivateKey
	pub ed25519.PublicKey
}

// NewSigner loads an Ed25519 private key from PEM bytes. The key must be in
// PKCS8 format.
func NewSigner(kid string, pemKey []byte) (*Signer, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, errors.New("jwtx: invalid PEM for Ed25519 key")
	}
	if block.Type != "PRIVATE KEY" {
		return nil, fmt.Errorf("jwtx: expected PRIVATE KEY, got %q", block.Type)
	}

	priv, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse PKCS8: %w", err)
	}

	key, ok := priv.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("jwtx: not an Ed25519 private key")
	}

	return &Signer{kid: kid, key: key, pub: key.Public().(ed25519.PublicKey)}, nil
}

// NewEphemeralSigner generates a fresh Ed25519 keypair. Tokens signed with it
// do not survive a restart, which suits development and tests.
func NewEphemeralSigner(kid string) (*Signer, error) {
	pub, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("jwtx: generate keypair: %w", err)
	}
	return &Signer{kid: kid, key: key, pub: pub}, nil
}

func (s *Signer) KID() string { return s.kid }

// PublicKey returns the verification half of the keypair.
func (s *Signer) PublicKey() ed25519.PublicKey { return s.pub }

// Sign turns claims into a signed JWT string carrying the kid header.
func (s *Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}

// MarshalPrivatePEM encodes the private key as PKCS8 PEM, for persisting a
// generated key across restarts.
func (s *Signer) MarshalPrivatePEM() ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(s.key)
	if err != nil {
		return nil, fmt.Errorf("jwtx: marshal PKCS8: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}
