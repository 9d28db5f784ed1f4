package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumentor/learnconnect/internal/server/domain"
	"github.com/edumentor/learnconnect/internal/server/store"
	"github.com/edumentor/learnconnect/internal/server/store/sqlite"
	"github.com/edumentor/learnconnect/pkg/jwtx"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newAuthService(t *testing.T, st store.Store) *AuthService {
	t.Helper()

	signer, err := jwtx.NewEphemeralSigner("test-key")
	require.NoError(t, err)

	return &AuthService{
		Signer:     signer,
		Store:      st,
		Issuer:     "https://auth.test",
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	st := newTestStore(t)
	svc := newAuthService(t, st)
	ctx := context.Background()

	res, err := svc.Register(ctx, "Ada", "ada@example.com", "correct horse", domain.RoleLearner)
	require.NoError(t, err)
	assert.NotEmpty(t, res.User.ID)
	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.NotEmpty(t, res.Tokens.AccessToken)
	assert.NotEmpty(t, res.Tokens.RefreshToken)
	assert.Equal(t, int(svc.AccessTTL.Seconds()), res.Tokens.ExpiresIn)

	// Email is normalized on register, matched case-insensitively on login.
	login, err := svc.Login(ctx, "ADA@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = svc.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	st := newTestStore(t)
	svc := newAuthService(t, st)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ada", "ada@example.com", "pw-one-two", domain.RoleLearner)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Ada Again", "Ada@Example.com", "pw-three", domain.RoleTutor)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAccessTokenCarriesIdentity(t *testing.T) {
	st := newTestStore(t)
	svc := newAuthService(t, st)
	ctx := context.Background()

	res, err := svc.Register(ctx, "Tina", "tina@example.com", "pw-secret", domain.RoleTutor)
	require.NoError(t, err)

	v := jwtx.NewVerifier(svc.Issuer, time.Minute)
	v.AddKey(svc.Signer.KID(), svc.Signer.PublicKey())

	claims, err := v.Verify(res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.Subject)
	assert.Equal(t, domain.RoleTutor, claims.Role)
	assert.Equal(t, "Tina", claims.Name)
	assert.NotEmpty(t, claims.SID)
}

func TestRefreshRotatesToken(t *testing.T) {
	st := newTestStore(t)
	svc := newAuthService(t, st)
	ctx := context.Background()

	res, err := svc.Register(ctx, "Ada", "ada@example.com", "pw-secret", domain.RoleLearner)
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, res.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEqual(t, res.Tokens.RefreshToken, pair.RefreshToken)

	// The rotated-away token no longer works.
	_, err = svc.Refresh(ctx, res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestRefreshReplayRevokesSession(t *testing.T) {
	st := newTestStore(t)
	svc := newAuthService(t, st)
	ctx := context.Background()

	res, err := svc.Register(ctx, "Ada", "ada@example.com", "pw-secret", domain.RoleLearner)
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, res.Tokens.RefreshToken)
	require.NoError(t, err)

	// Replay of the old token tears down the whole chain.
	_, err = svc.Refresh(ctx, res.Tokens.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	st := newTestStore(t)
	svc := newAuthService(t, st)

	_, err := svc.Refresh(context.Background(), "not-a-real-token")
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	st := newTestStore(t)
	svc := newAuthService(t, st)
	ctx := context.Background()

	res, err := svc.Register(ctx, "Ada", "ada@example.com", "pw-secret", domain.RoleLearner)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, res.Tokens.RefreshToken))

	_, err = svc.Refresh(ctx, res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)

	// Logout is idempotent, unknown tokens included.
	assert.NoError(t, svc.Logout(ctx, res.Tokens.RefreshToken))
	assert.NoError(t, svc.Logout(ctx, "never-issued"))
}
