package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle threaded through repository calls.
// The concrete type is infra-defined (pgx.Tx for Postgres). Repositories
// must accept a nil handle and fall back to their non-transactional path.
type Tx interface{}

// TransactionManager runs a function inside a database transaction, passing
// the handle via tx. Use cases stay free of storage types; repositories
// detect the handle implementation-side.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
