package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is the opaque transaction handle repositories accept. Its concrete type
// is infra-defined (pgx.Tx for Postgres); repositories must gracefully accept
// NoTX for the non-transactional path.
type Tx interface{}

// NoTX marks a call that should run against the pool directly.
var NoTX Tx

// TransactionManager executes a function within a database transaction,
// passing the transaction handle via tx. Keeping the handle opaque stops
// transaction types from leaking into use-case interfaces while still letting
// repositories run tx-bound reads and writes.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
