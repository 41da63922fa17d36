package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

var NoTX interface{}

// TransactionManager provides a thin abstraction to execute a function within a
// database transaction, passing the underlying transaction handle via `tx`.
//
// USAGE
// tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
// rec, err := store.FindByNonce(ctx, tx, nonce)
// ...
// return store.Delete(ctx, tx, rec.ID)
// })
//
// The concrete type of `tx` is infra-defined (pgx.Tx for Postgres, *sql.Tx for SQLite).
// Stores MUST gracefully accept a nil tx (non-transactional path).
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
