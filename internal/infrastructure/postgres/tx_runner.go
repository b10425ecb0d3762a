package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// La consistencia la dan los SELECT ... FOR UPDATE de los repos más los constraints del esquema.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Repos) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// View abre una transacción REPEATABLE READ de solo lectura: todas las consultas de fn
// ven el mismo snapshot.
func (r *TxRunner) View(ctx context.Context, fn func(tx repository.Repos) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (r *TxRunner) run(ctx context.Context, opts pgx.TxOptions, fn func(tx repository.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(Repos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Repos construye los repositorios sobre q (pool o tx).
func Repos(q Querier) repository.Repos {
	return repository.Repos{
		Locations:   NewLocationRepository(q),
		Products:    NewProductRepository(q),
		Assignments: NewAssignmentRepository(q),
		Orders:      NewOrderRepository(q),
		Users:       NewUserRepository(q),
	}
}
