package sale

import (
	"context"

	"orfebre/internal/core/id"
	"orfebre/internal/domain"
	"orfebre/internal/domain/catalogs/customer"
	"orfebre/internal/domain/documents"
)

// Repository defines storage operations for sales.
type Repository interface {
	Create(ctx context.Context, s *Sale) error
	GetByID(ctx context.Context, documentID id.ID) (*Sale, error)
	Delete(ctx context.Context, documentID id.ID) error
	List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[*Sale], error)
}

// Customers resolves customer references.
type Customers interface {
	GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error)
}

// Sink receives committed sales. Delivery failures surface as warnings,
// never as rollbacks.
type Sink interface {
	DeliverSale(ctx context.Context, s *Sale) error
}
