package sqlite

import (
	"context"
	"database/sql"

	"github.com/edumentor/learnconnect/internal/server/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // outer DB stays open

// Ping is a no-op for transactions; the connection is already established.
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users                 { return &usersRepo{q: t.tx} }
func (t *txStore) RefreshTokens() store.RefreshTokens { return &refreshTokensRepo{q: t.tx} }
func (t *txStore) Skills() store.Skills               { return &skillsRepo{q: t.tx} }
func (t *txStore) Bookings() store.Bookings           { return &bookingsRepo{q: t.tx} }
func (t *txStore) Messages() store.Messages           { return &messagesRepo{q: t.tx} }
func (t *txStore) Reviews() store.Reviews             { return &reviewsRepo{q: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // applied before any tx starts
