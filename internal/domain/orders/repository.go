package orders

import (
	"context"

	"orfebre/internal/core/id"
	"orfebre/internal/core/types"
	"orfebre/internal/domain"
	"orfebre/internal/domain/catalogs/customer"
	"orfebre/internal/domain/documents"
)

// ListFilter narrows order listings.
type ListFilter struct {
	documents.ListFilter

	CustomerID *id.ID
	Status     Status
}

// Repository defines storage operations for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID id.ID) (*Order, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, orderID id.ID) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Order], error)

	// PendingBalance sums the balances of a customer's open orders.
	PendingBalance(ctx context.Context, customerID id.ID) (types.Money, error)
}

// Customers resolves customer references.
type Customers interface {
	GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error)
}
