package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"orfebre/internal/core/id"
	"orfebre/internal/domain"
	"orfebre/internal/domain/documents"
	"orfebre/internal/domain/documents/production"
	"orfebre/internal/infrastructure/storage/postgres"
)

const (
	productionTable      = "doc_productions"
	productionLinesTable = "doc_production_lines"
)

// ProductionRepo implements production.Repository.
type ProductionRepo struct {
	*BaseDocumentRepo[*production.Production]
}

var _ production.Repository = (*ProductionRepo)(nil)

// NewProductionRepo creates a new production repository.
func NewProductionRepo(txManager *postgres.TxManager) *ProductionRepo {
	return &ProductionRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*production.Production](
			txManager,
			productionTable,
			"production",
			postgres.ExtractDBColumns[production.Production](),
			func() *production.Production { return &production.Production{} },
		),
	}
}

// Create inserts the header and its lines.
func (r *ProductionRepo) Create(ctx context.Context, p *production.Production) error {
	if err := r.InsertHeader(ctx, p); err != nil {
		return err
	}
	return r.insertLines(ctx, p.Lines)
}

// GetByID retrieves a batch with its lines.
func (r *ProductionRepo) GetByID(ctx context.Context, documentID id.ID) (*production.Production, error) {
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
func (r *ProductionRepo) Delete(ctx context.Context, documentID id.ID) error {
	q := r.Builder().
		Delete(productionLinesTable).
		Where(squirrel.Eq{"document_id": documentID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete production lines: %w", err)
	}

	return r.DeleteHeader(ctx, documentID)
}

// List retrieves batch headers; lines are loaded on demand via GetByID.
func (r *ProductionRepo) List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[*production.Production], error) {
	return r.ListHeaders(ctx, filter)
}

func (r *ProductionRepo) insertLines(ctx context.Context, lines []production.Line) error {
	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(productionLinesTable).
		Columns("id", "document_id", "product_id", "quantity")
	for _, l := range lines {
		q = q.Values(l.ID, l.DocumentID, l.ProductID, l.Quantity)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert production lines: %w", err)
	}
	return nil
}

func (r *ProductionRepo) loadLines(ctx context.Context, documentID id.ID) ([]production.Line, error) {
	q := r.Builder().
		Select("id", "document_id", "product_id", "quantity").
		From(productionLinesTable).
		Where(squirrel.Eq{"document_id": documentID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load lines: %w", err)
	}

	var lines []production.Line
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("load production lines: %w", err)
	}
	return lines, nil
}
