package purchase

import (
	"context"

	"orfebre/internal/core/id"
	"orfebre/internal/domain"
	"orfebre/internal/domain/documents"
)

// Repository defines storage operations for purchases.
type Repository interface {
	Create(ctx context.Context, p *Purchase) error
	GetByID(ctx context.Context, documentID id.ID) (*Purchase, error)
	Delete(ctx context.Context, documentID id.ID) error
	List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[*Purchase], error)
}

// Suppliers answers existence checks for supplier references.
type Suppliers interface {
	Exists(ctx context.Context, supplierID id.ID) (bool, error)
}
