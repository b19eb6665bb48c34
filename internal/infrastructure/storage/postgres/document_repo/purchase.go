package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"orfebre/internal/core/id"
	"orfebre/internal/domain"
	"orfebre/internal/domain/documents"
	"orfebre/internal/domain/documents/purchase"
	"orfebre/internal/infrastructure/storage/postgres"
)

const (
	purchaseTable      = "doc_purchases"
	purchaseLinesTable = "doc_purchase_lines"
)

// PurchaseRepo implements purchase.Repository.
type PurchaseRepo struct {
	*BaseDocumentRepo[*purchase.Purchase]
}

var _ purchase.Repository = (*PurchaseRepo)(nil)

// NewPurchaseRepo creates a new purchase repository.
func NewPurchaseRepo(txManager *postgres.TxManager) *PurchaseRepo {
	return &PurchaseRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*purchase.Purchase](
			txManager,
			purchaseTable,
			"purchase",
			postgres.ExtractDBColumns[purchase.Purchase](),
			func() *purchase.Purchase { return &purchase.Purchase{} },
		),
	}
}

// Create inserts the header and its lines.
func (r *PurchaseRepo) Create(ctx context.Context, p *purchase.Purchase) error {
	if err := r.InsertHeader(ctx, p); err != nil {
		return err
	}
	return r.insertLines(ctx, p.Lines)
}

// GetByID retrieves a purchase with its lines.
func (r *PurchaseRepo) GetByID(ctx context.Context, documentID id.ID) (*purchase.Purchase, error) {
	p, err := r.GetHeader(ctx, documentID)
	if err != nil {
		return nil, err
	}

	lines, err := r.loadLines(ctx, documentID)
	if err != nil {
		return nil, err
	}
	p.Lines = lines

	return p, nil
}

// Delete removes the lines and the header.
func (r *PurchaseRepo) Delete(ctx context.Context, documentID id.ID) error {
	q := r.Builder().
		Delete(purchaseLinesTable).
		Where(squirrel.Eq{"document_id": documentID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete purchase lines: %w", err)
	}

	return r.DeleteHeader(ctx, documentID)
}

// List retrieves purchase headers.
func (r *PurchaseRepo) List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[*purchase.Purchase], error) {
	return r.ListHeaders(ctx, filter)
}

func (r *PurchaseRepo) insertLines(ctx context.Context, lines []purchase.Line) error {
	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(purchaseLinesTable).
		Columns("id", "document_id", "product_id", "quantity", "unit_cost", "subtotal")
	for _, l := range lines {
		q = q.Values(l.ID, l.DocumentID, l.ProductID, l.Quantity, l.UnitCost, l.Subtotal)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert purchase lines: %w", err)
	}
	return nil
}

func (r *PurchaseRepo) loadLines(ctx context.Context, documentID id.ID) ([]purchase.Line, error) {
	q := r.Builder().
		Select("id", "document_id", "product_id", "quantity", "unit_cost", "subtotal").
		From(purchaseLinesTable).
		Where(squirrel.Eq{"document_id": documentID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load lines: %w", err)
	}

	var lines []purchase.Line
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("load purchase lines: %w", err)
	}
	return lines, nil
}
