package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/vendafacil-api/internal/application/fiscal"
	"github.com/jhoicas/vendafacil-api/internal/domain/repository"
)

// Ensure TxRunner implements fiscal.SaleTxRunner.
var _ fiscal.SaleTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunSales inicia una transacción, ejecuta fn con el repositorio de ventas atado a la tx
// y hace Commit o Rollback. Reservar numeración y crear la venta quedan en la misma tx.
func (r *TxRunner) RunSales(ctx context.Context, fn func(sales repository.SaleRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewSaleRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
