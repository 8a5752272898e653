package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const txKey contextKey = "db_tx"

// WithTx begins a transaction on the pool and returns a context carrying it.
// Repositories that resolve their connection through TxFromContext will then
// execute inside the transaction; the caller owns Commit/Rollback.
func WithTx(ctx context.Context, pool *pgxpool.Pool) (context.Context, pgx.Tx, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return ctx, nil, fmt.Errorf("begin transaction: %w", err)
	}
	return context.WithValue(ctx, txKey, tx), tx, nil
}

// TxFromContext returns the transaction carried by ctx, or nil.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey).(pgx.Tx)
	return tx
}

// InTx runs fn inside a transaction, committing on success and rolling back
// on error or panic. Multi-statement mutations (user + profile, invoice +
// line items) go through here so a partial write never survives a failure.
func InTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	txCtx, tx, err := WithTx(ctx, pool)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(txCtx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// TxRunner abstracts InTx so services can be constructed against a pool in
// production and a pass-through in tests.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// PoolTxRunner returns a TxRunner bound to the given pool.
func PoolTxRunner(pool *pgxpool.Pool) TxRunner {
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		return InTx(ctx, pool, fn)
	}
}

// NoTxRunner returns a TxRunner that invokes fn directly, with no
// transaction. Used by tests with in-memory repositories.
func NoTxRunner() TxRunner {
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		return fn(ctx)
	}
}
