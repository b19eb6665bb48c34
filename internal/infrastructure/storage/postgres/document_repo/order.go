package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"orfebre/internal/core/id"
	"orfebre/internal/core/types"
	"orfebre/internal/domain"
	"orfebre/internal/domain/orders"
	"orfebre/internal/infrastructure/storage/postgres"
)

const orderTable = "orders"

// OrderRepo implements orders.Repository.
type OrderRepo struct {
	*BaseDocumentRepo[*orders.Order]
}

var _ orders.Repository = (*OrderRepo)(nil)

// NewOrderRepo creates a new order repository.
func NewOrderRepo(txManager *postgres.TxManager) *OrderRepo {
	return &OrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*orders.Order](
			txManager,
			orderTable,
			"order",
			postgres.ExtractDBColumns[orders.Order](),
			func() *orders.Order { return &orders.Order{} },
		),
	}
}

// Create inserts a new order. Orders carry no lines.
func (r *OrderRepo) Create(ctx context.Context, o *orders.Order) error {
	return r.InsertHeader(ctx, o)
}

// GetByID retrieves an order by ID.
func (r *OrderRepo) GetByID(ctx context.Context, orderID id.ID) (*orders.Order, error) {
	return r.GetHeader(ctx, orderID)
}

// Update persists order changes with optimistic locking.
func (r *OrderRepo) Update(ctx context.Context, o *orders.Order) error {
	return r.UpdateHeader(ctx, o)
}

// Delete removes an order.
func (r *OrderRepo) Delete(ctx context.Context, orderID id.ID) error {
	return r.DeleteHeader(ctx, orderID)
}

// List retrieves orders filtered by date range, customer and status.
func (r *OrderRepo) List(ctx context.Context, filter orders.ListFilter) (domain.ListResult[*orders.Order], error) {
	result := domain.ListResult[*orders.Order]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.Select()
	if !filter.From.IsZero() {
		q = q.Where(squirrel.GtOrEq{"date": filter.From})
	}
	if !filter.To.IsZero() {
		q = q.Where(squirrel.LtOrEq{"date": filter.To})
	}
	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.Querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("date DESC", "number DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list orders: %w", err)
	}

	return result, nil
}

// PendingBalance sums outstanding balances across a customer's open orders.
func (r *OrderRepo) PendingBalance(ctx context.Context, customerID id.ID) (types.Money, error) {
	q := r.Builder().
		Select("COALESCE(SUM(balance), 0)").
		From(orderTable).
		Where(squirrel.Eq{"customer_id": customerID}).
		Where(squirrel.Eq{"status": []orders.Status{orders.StatusPendiente, orders.StatusEnProceso}})

	sql, args, err := q.ToSql()
	if err != nil {
		return types.Zero(), fmt.Errorf("build query: %w", err)
	}

	var balance types.Money
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&balance); err != nil {
		return types.Zero(), fmt.Errorf("pending balance: %w", err)
	}
	return balance, nil
}
