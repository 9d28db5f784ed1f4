// Package service holds the application logic between the HTTP handlers and
// the store.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/edumentor/learnconnect/internal/server/domain"
	"github.com/edumentor/learnconnect/internal/server/store"
	"github.com/edumentor/learnconnect/pkg/cryptox"
	"github.com/edumentor/learnconnect/pkg/idx"
	"github.com/edumentor/learnconnect/pkg/jwtx"
	"github.com/edumentor/learnconnect/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
)

// AuthService issues and rotates token pairs and owns the account lifecycle.
type AuthService struct {
	Signer     *jwtx.Signer
	Store      store.Store
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Register creates a new account and logs it in, returning the user and a
// fresh token pair.
func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*domain.AuthResult, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         role,
	}

	var pair domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return err
		}

		pair, err = s.issuePair(ctx, tx, user, idx.New().String(), now)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.Info("user registered", slog.String("user_id", user.ID), slog.String("role", user.Role))
	return &domain.AuthResult{User: user, Tokens: pair}, nil
}

// Login verifies the password and starts a new session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("login failed", slog.String("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	var pair domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		pair, err = s.issuePair(ctx, tx, user, idx.New().String(), now)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.Info("login succeeded", slog.String("user_id", user.ID))
	return &domain.AuthResult{User: user, Tokens: pair}, nil
}

// Refresh rotates the presented refresh token: the old record is revoked and
// a new pair is issued in the same session chain. Presenting an
// already-rotated token revokes the whole chain, since it signals theft.
func (s *AuthService) Refresh(ctx context.Context, refreshOpaque string) (*domain.TokenPair, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	fp := cryptox.FingerprintToken(refreshOpaque)
	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	if rt.Revoked {
		l.Warn("revoked refresh token replayed, revoking session",
			slog.String("user_id", rt.UserID), slog.String("session_id", rt.SessionID))
		_ = s.Store.RefreshTokens().RevokeSession(ctx, rt.SessionID)
		return nil, ErrInvalidRefresh
	}
	if now.After(rt.ExpiresAt) {
		return nil, ErrInvalidRefresh
	}

	user, err := s.Store.Users().GetUserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	var pair domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp); err != nil {
			return err
		}
		pair, err = s.issuePair(ctx, tx, user, rt.SessionID, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &pair, nil
}

// Logout revokes the presented refresh token. Unknown tokens are not an
// error; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshOpaque string) error {
	fp := cryptox.FingerprintToken(refreshOpaque)
	err := s.Store.RefreshTokens().RevokeRefreshToken(ctx, fp)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// issuePair signs an access token and persists a new refresh record inside
// the caller's transaction.
func (s *AuthService) issuePair(ctx context.Context, tx store.Tx, user domain.User, sessionID string, now time.Time) (domain.TokenPair, error) {
	claims := jwtx.NewAccessClaims(user.ID, sessionID, user.Role, user.Name, s.Issuer, s.AccessTTL, now)
	access, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.TokenPair{}, err
	}

	record := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    user.ID,
		TokenHash: cryptox.FingerprintToken(refreshOpaque),
		SessionID: sessionID,
		ExpiresAt: now.Add(s.RefreshTTL),
	}
	if err := tx.RefreshTokens().CreateRefreshToken(ctx, record); err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refreshOpaque,
		ExpiresIn:    int(s.AccessTTL.Seconds()),
	}, nil
}
