package supplier

import (
	"orfebre/internal/core/tx"
	"orfebre/internal/domain"
)

// Repository defines storage operations for suppliers.
type Repository interface {
	domain.CatalogRepository[*Supplier]
}

// Service provides supplier catalog operations.
type Service struct {
	*domain.CatalogService[*Supplier]
}

// NewService creates a new supplier service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService[*Supplier](repo, txManager, "supplier"),
	}
}
