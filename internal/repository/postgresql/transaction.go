package postgresql

import (
	"context"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/shared"
	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type txCtxKey struct{}

// Row and advisory locks serialize pay run writes.
var txOptions = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

// GetQuerier returns the transaction carried by ctx, or the pool when there is none.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return db.Pool
}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txCtxKey{}).(pgx.Tx)
	return tx, ok
}

type txManager struct {
	db *database.DB
}

func NewTxManager(db *database.DB) shared.TxManager {
	return &txManager{db: db}
}

// RunInTx implements shared.TxManager. A ctx already carrying a transaction joins it.
func (m *txManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	return pgx.BeginTxFunc(ctx, m.db.Pool, txOptions, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, txCtxKey{}, tx))
	})
}
