package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SinArtur/Sstu-DB/core/session"
)

var _ session.Store = (*SessionStore)(nil)

const (
	loadSessionQuery = `SELECT data FROM client_sessions WHERE key = $1`
	saveSessionQuery = `INSERT INTO client_sessions (key, data, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
)

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SessionStore keeps session records in the client_sessions table. Calls made
// with a context from WithTx run inside that transaction.
type SessionStore struct {
	pool *pgxpool.Pool
}

// NewSessionStore creates a store. Run Migrate first.
func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

// Load implements session.Store.
func (s *SessionStore) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	if err := s.db(ctx).QueryRow(ctx, loadSessionQuery, key).Scan(&data); err != nil {
		if IsNotFoundError(err) {
			return nil, session.ErrNotFound
		}
		return nil, errors.Join(ErrSessionStore, err)
	}
	return data, nil
}

// Save implements session.Store.
func (s *SessionStore) Save(ctx context.Context, key string, data []byte) error {
	if _, err := s.db(ctx).Exec(ctx, saveSessionQuery, key, data); err != nil {
		return errors.Join(ErrSessionStore, err)
	}
	return nil
}

func (s *SessionStore) db(ctx context.Context) querier {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return s.pool
}
