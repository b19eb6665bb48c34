package production

import (
	"context"

	"orfebre/internal/core/id"
	"orfebre/internal/domain"
	"orfebre/internal/domain/catalogs/product"
	"orfebre/internal/domain/documents"
)

// Repository defines storage operations for production batches.
// Create and Delete write header and lines together; callers wrap them in
// a transaction alongside the stock deltas.
type Repository interface {
	Create(ctx context.Context, p *Production) error
	GetByID(ctx context.Context, documentID id.ID) (*Production, error)
	Delete(ctx context.Context, documentID id.ID) error
	List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[*Production], error)
}

// Products creates catalog products for lines that register a brand-new
// piece together with its first batch. Implemented by the product service,
// code generation included.
type Products interface {
	Create(ctx context.Context, p *product.Product) error
}
