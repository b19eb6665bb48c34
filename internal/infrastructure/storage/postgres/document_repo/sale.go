package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"orfebre/internal/core/id"
	"orfebre/internal/domain"
	"orfebre/internal/domain/documents"
	"orfebre/internal/domain/documents/sale"
	"orfebre/internal/infrastructure/storage/postgres"
)

const (
	saleTable      = "doc_sales"
	saleLinesTable = "doc_sale_lines"
)

// SaleRepo implements sale.Repository.
type SaleRepo struct {
	*BaseDocumentRepo[*sale.Sale]
}

var _ sale.Repository = (*SaleRepo)(nil)

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txManager *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*sale.Sale](
			txManager,
			saleTable,
			"sale",
			postgres.ExtractDBColumns[sale.Sale](),
			func() *sale.Sale { return &sale.Sale{} },
		),
	}
}

// Create inserts the header and its lines.
func (r *SaleRepo) Create(ctx context.Context, s *sale.Sale) error {
	if err := r.InsertHeader(ctx, s); err != nil {
		return err
	}
	return r.insertLines(ctx, s.Lines)
}

// GetByID retrieves a sale with its lines.
func (r *SaleRepo) GetByID(ctx context.Context, documentID id.ID) (*sale.Sale, error) {
	s, err := r.GetHeader(ctx, documentID)
	if err != nil {
		return nil, err
	}

	lines, err := r.loadLines(ctx, documentID)
	if err != nil {
		return nil, err
	}
	s.Lines = lines

	return s, nil
}

// Delete removes the lines and the header.
func (r *SaleRepo) Delete(ctx context.Context, documentID id.ID) error {
	q := r.Builder().
		Delete(saleLinesTable).
		Where(squirrel.Eq{"document_id": documentID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete sale lines: %w", err)
	}

	return r.DeleteHeader(ctx, documentID)
}

// List retrieves sale headers.
func (r *SaleRepo) List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[*sale.Sale], error) {
	return r.ListHeaders(ctx, filter)
}

func (r *SaleRepo) insertLines(ctx context.Context, lines []sale.Line) error {
	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(saleLinesTable).
		Columns("id", "document_id", "product_id", "quantity", "unit_price", "subtotal")
	for _, l := range lines {
		q = q.Values(l.ID, l.DocumentID, l.ProductID, l.Quantity, l.UnitPrice, l.Subtotal)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sale lines: %w", err)
	}
	return nil
}

func (r *SaleRepo) loadLines(ctx context.Context, documentID id.ID) ([]sale.Line, error) {
	q := r.Builder().
		Select("id", "document_id", "product_id", "quantity", "unit_price", "subtotal").
		From(saleLinesTable).
		Where(squirrel.Eq{"document_id": documentID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load lines: %w", err)
	}

	var lines []sale.Line
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("load sale lines: %w", err)
	}
	return lines, nil
}
