package customer

import (
	"orfebre/internal/core/tx"
	"orfebre/internal/domain"
)

// Repository defines storage operations for customers.
type Repository interface {
	domain.CatalogRepository[*Customer]
}

// Service provides customer catalog operations.
type Service struct {
	*domain.CatalogService[*Customer]
}

// NewService creates a new customer service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService[*Customer](repo, txManager, "customer"),
	}
}
