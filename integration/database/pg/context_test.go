package pg_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/SinArtur/Sstu-DB/integration/database/pg"
)

// fakeTx satisfies pgx.Tx for context plumbing; its methods are never called.
type fakeTx struct {
	pgx.Tx
}

func TestWithTx(t *testing.T) {
	t.Parallel()

	t.Run("empty context", func(t *testing.T) {
		t.Parallel()
		tx, ok := pg.TxFromContext(context.Background())
		assert.False(t, ok)
		assert.Nil(t, tx)
	})

	t.Run("nil tx keeps context", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		assert.Equal(t, ctx, pg.WithTx(ctx, nil))
	})

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		want := &fakeTx{}
		got, ok := pg.TxFromContext(pg.WithTx(context.Background(), want))
		assert.True(t, ok)
		assert.Same(t, want, got)
	})

	t.Run("joins existing transaction", func(t *testing.T) {
		t.Parallel()
		ctx := pg.WithTx(context.Background(), &fakeTx{})
		called := false
		err := pg.InTx(ctx, nil, func(inner context.Context) error {
			called = true
			assert.Equal(t, ctx, inner)
			return nil
		})
		assert.NoError(t, err)
		assert.True(t, called)
	})
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()
	assert.True(t, pg.IsNotFoundError(pgx.ErrNoRows))
	assert.False(t, pg.IsNotFoundError(pgx.ErrTxClosed))
	assert.True(t, pg.IsTxClosedError(pgx.ErrTxClosed))
}
