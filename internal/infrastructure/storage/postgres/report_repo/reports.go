// Package report_repo runs the read-only aggregation queries behind the
// reports service. All queries go through the transaction-aware querier so
// reports can participate in a read-only transaction.
package report_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"orfebre/internal/domain/reports"
	"orfebre/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
}

var _ reports.Repository = (*ReportRepo)(nil)

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

func (r *ReportRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// DailySales sums sale totals in [from, to). The caller hands over the
// day boundaries already resolved to the reporting timezone.
func (r *ReportRepo) DailySales(ctx context.Context, from, to time.Time) (reports.DailySales, error) {
	result := reports.DailySales{Date: from}

	q := r.builder().
		Select("COALESCE(SUM(total), 0)", "COUNT(*)").
		From("doc_sales").
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.Lt{"date": to})

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).
		Scan(&result.Total, &result.Count); err != nil {
		return result, fmt.Errorf("daily sales: %w", err)
	}

	return result, nil
}

// BestSeller finds the product with the most units sold in [from, to).
// Ties break alphabetically by product name. No sales yields a zero value.
func (r *ReportRepo) BestSeller(ctx context.Context, from, to time.Time) (reports.BestSeller, error) {
	q := r.builder().
		Select("l.product_id", "p.name", "SUM(l.quantity) AS units").
		From("doc_sale_lines l").
		Join("doc_sales s ON s.id = l.document_id").
		Join("cat_products p ON p.id = l.product_id").
		Where(squirrel.GtOrEq{"s.date": from}).
		Where(squirrel.Lt{"s.date": to}).
		GroupBy("l.product_id", "p.name").
		OrderBy("units DESC", "p.name ASC").
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return reports.BestSeller{}, fmt.Errorf("build query: %w", err)
	}

	var result reports.BestSeller
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).
		Scan(&result.ProductID, &result.ProductName, &result.UnitsSold)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reports.BestSeller{}, nil
		}
		return reports.BestSeller{}, fmt.Errorf("best seller: %w", err)
	}

	return result, nil
}

// LowStock lists active products at or below their minimum, the deepest
// shortfall first.
func (r *ReportRepo) LowStock(ctx context.Context) ([]reports.LowStockItem, error) {
	q := r.builder().
		Select("id", "code", "name", "stock", "min_stock").
		From("cat_products").
		Where(squirrel.Eq{"active": true}).
		Where(squirrel.Expr("stock <= min_stock")).
		OrderBy("(stock - min_stock) ASC", "name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []reports.LowStockItem
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	return items, nil
}

// SalesByPaymentMethod totals sales per payment method in [from, to).
func (r *ReportRepo) SalesByPaymentMethod(ctx context.Context, from, to time.Time) ([]reports.PaymentMethodTotal, error) {
	q := r.builder().
		Select("payment_method", "COALESCE(SUM(total), 0) AS total", "COUNT(*) AS count").
		From("doc_sales").
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.Lt{"date": to}).
		GroupBy("payment_method").
		OrderBy("total DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var totals []reports.PaymentMethodTotal
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &totals, sql, args...); err != nil {
		return nil, fmt.Errorf("sales by payment method: %w", err)
	}
	return totals, nil
}

// StockValuation sums on-hand units and their value at unit cost across
// the active catalog.
func (r *ReportRepo) StockValuation(ctx context.Context) (reports.Valuation, error) {
	q := r.builder().
		Select("COALESCE(SUM(stock), 0)", "COALESCE(SUM(stock * unit_cost), 0)").
		From("cat_products").
		Where(squirrel.Eq{"active": true})

	sql, args, err := q.ToSql()
	if err != nil {
		return reports.Valuation{}, fmt.Errorf("build query: %w", err)
	}

	var result reports.Valuation
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).
		Scan(&result.TotalUnits, &result.TotalValue); err != nil {
		return reports.Valuation{}, fmt.Errorf("stock valuation: %w", err)
	}

	return result, nil
}
