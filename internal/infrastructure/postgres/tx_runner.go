package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// beginner lo cumplen *pgxpool.Pool y pgx.Tx (este último abre un savepoint).
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	q Querier
}

// NewTxRunner construye el runner. Si q no puede abrir transacciones, fn corre directo sobre q.
func NewTxRunner(q Querier) *TxRunner {
	return &TxRunner{q: q}
}

// Run inicia una transacción, ejecuta fn con la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(q Querier) error) error {
	b, ok := r.q.(beginner)
	if !ok {
		return fn(r.q)
	}
	tx, err := b.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
