package product

import (
	"context"

	"orfebre/internal/domain"
)

// Repository defines storage operations for products.
type Repository interface {
	domain.CatalogRepository[*Product]

	// FindLowStock returns active products at or below their minimum,
	// most critical first.
	FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error)
}
