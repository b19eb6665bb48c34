// Package ledger_repo provides the PostgreSQL implementation of the stock
// ledger repository.
package ledger_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/id"
	"orfebre/internal/domain/ledger"
	"orfebre/internal/infrastructure/storage/postgres"
)

const movementsTable = "stock_movements"

// StockRepo implements ledger.Repository.
type StockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ ledger.Repository = (*StockRepo)(nil)

// NewStockRepo creates a new stock ledger repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// applyDeltaSQL keeps the result non-negative and skips deactivated
// products, so concurrent writers cannot push stock below zero and a
// soft-deleted product stops moving. No read-modify-write window.
const applyDeltaSQL = `
	UPDATE cat_products
	SET stock = stock + $1, version = version + 1
	WHERE id = $2 AND active AND stock + $1 >= 0
	RETURNING stock
`

const diagnoseDeltaSQL = `SELECT stock, active FROM cat_products WHERE id = $1`

// ApplyDelta atomically adds delta to the stock of an active product.
func (r *StockRepo) ApplyDelta(ctx context.Context, productID id.ID, delta int64) (int64, error) {
	querier := r.txManager.GetQuerier(ctx)

	var stockAfter int64
	err := querier.QueryRow(ctx, applyDeltaSQL, delta, productID).Scan(&stockAfter)
	if err == nil {
		return stockAfter, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("apply stock delta: %w", err)
	}

	// Zero rows: the product is missing, inactive, or short on stock.
	var (
		available int64
		active    bool
	)
	err = querier.QueryRow(ctx, diagnoseDeltaSQL, productID).Scan(&available, &active)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperror.NewNotFound("product", productID.String())
	}
	if err != nil {
		return 0, fmt.Errorf("read stock: %w", err)
	}
	if !active {
		return 0, apperror.NewReferential("product is deactivated; reactivate it before moving stock").
			WithDetail("product_id", productID.String())
	}

	return 0, apperror.NewInsufficientStock(productID.String(), -delta, available)
}

// InsertMovement appends a movement row in the caller's transaction.
func (r *StockRepo) InsertMovement(ctx context.Context, m ledger.Movement) error {
	q := r.builder.
		Insert(movementsTable).
		Columns("id", "product_id", "delta", "reason", "reference_type", "reference_id", "note", "actor", "stock_after").
		Values(m.ID, m.ProductID, m.Delta, m.Reason, m.ReferenceType, m.ReferenceID, m.Note, m.Actor, m.StockAfter)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert movement: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetBalance returns the current stock level.
func (r *StockRepo) GetBalance(ctx context.Context, productID id.ID) (int64, error) {
	var stock int64
	err := r.txManager.GetQuerier(ctx).
		QueryRow(ctx, `SELECT stock FROM cat_products WHERE id = $1`, productID).
		Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperror.NewNotFound("product", productID.String())
	}
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return stock, nil
}

// ListMovements returns movements for a product, newest first.
func (r *StockRepo) ListMovements(ctx context.Context, productID id.ID, limit, offset int) ([]ledger.Movement, error) {
	q := r.movementSelect().
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}

	return r.selectMovements(ctx, q)
}

// ListMovementsByReference returns the movements a document produced.
func (r *StockRepo) ListMovementsByReference(ctx context.Context, refType string, refID id.ID) ([]ledger.Movement, error) {
	q := r.movementSelect().
		Where(squirrel.Eq{"reference_type": refType}).
		Where(squirrel.Eq{"reference_id": refID}).
		OrderBy("created_at ASC")

	return r.selectMovements(ctx, q)
}

// HasMovements reports whether the product appears in the ledger.
func (r *StockRepo) HasMovements(ctx context.Context, productID id.ID) (bool, error) {
	var exists int
	err := r.txManager.GetQuerier(ctx).
		QueryRow(ctx, `SELECT 1 FROM stock_movements WHERE product_id = $1 LIMIT 1`, productID).
		Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("has movements: %w", err)
	}
	return true, nil
}

func (r *StockRepo) movementSelect() squirrel.SelectBuilder {
	return r.builder.
		Select("id", "product_id", "delta", "reason", "reference_type", "reference_id", "note", "actor", "stock_after", "created_at").
		From(movementsTable)
}

func (r *StockRepo) selectMovements(ctx context.Context, q squirrel.SelectBuilder) ([]ledger.Movement, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build movements query: %w", err)
	}

	var items []ledger.Movement
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}
	return items, nil
}
