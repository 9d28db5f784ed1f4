package sqlite

import (
	"context"
	"time"

	"github.com/edumentor/learnconnect/internal/server/domain"
	"github.com/edumentor/learnconnect/internal/server/store"
)

type refreshTokensRepo struct {
	q querier
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	now := toEpoch(time.Now())
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token_hash, session_id, expires_at, revoked, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.TokenHash, t.SessionID, toEpoch(t.ExpiresAt), t.Revoked, now, now,
	)
	return mapConstraint(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, session_id, expires_at, revoked, created_at, updated_at
		FROM refresh_tokens WHERE token_hash = ?`, hash)

	var t domain.RefreshToken
	var expires, created, updated int64
	err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.SessionID, &expires, &t.Revoked, &created, &updated)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	t.ExpiresAt = fromEpoch(expires)
	t.CreatedAt = fromEpoch(created)
	t.UpdatedAt = fromEpoch(updated)
	return t, nil
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, hash string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = 1, updated_at = ? WHERE token_hash = ?`,
		toEpoch(time.Now()), hash)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// RevokeSession revokes the whole rotation chain. No rows is not an error
// here; the chain may already be gone.
func (r *refreshTokensRepo) RevokeSession(ctx context.Context, sessionID string) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = 1, updated_at = ? WHERE session_id = ? AND revoked = 0`,
		toEpoch(time.Now()), sessionID)
	return err
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < ?`, toEpoch(time.Now()))
	return err
}
