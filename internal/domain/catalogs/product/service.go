package product

import (
	"context"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/id"
	"orfebre/internal/core/tx"
	"orfebre/internal/domain"
	"orfebre/internal/domain/codes"
	"orfebre/internal/domain/ledger"
	"orfebre/pkg/logger"
)

// Service provides product catalog operations. It layers code generation
// and delete protection on top of the generic catalog service.
type Service struct {
	*domain.CatalogService[*Product]

	repo      Repository
	generator *codes.Generator
	ledger    *ledger.Service
}

// NewService creates a new product service.
func NewService(repo Repository, txManager tx.Manager, generator *codes.Generator, ledgerSvc *ledger.Service) *Service {
	s := &Service{
		CatalogService: domain.NewCatalogService[*Product](repo, txManager, "product"),
		repo:           repo,
		generator:      generator,
		ledger:         ledgerSvc,
	}

	// Products that already moved stock must stay for the ledger history;
	// they can only be deactivated.
	s.Hooks().OnBeforeDelete(func(ctx context.Context, p *Product) error {
		has, err := s.ledger.HasMovements(ctx, p.ID)
		if err != nil {
			return err
		}
		if has {
			return apperror.NewReferential("product has stock movements; deactivate it instead").
				WithDetail("product_id", p.ID.String())
		}
		return nil
	})

	return s
}

// Create creates a product, generating a code from the group key when none
// is supplied. A non-zero initial stock is booked through the ledger as an
// opening manual adjustment, so the stock column stays the sum of the
// product's movements from day one.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if p.Stock < 0 {
		return apperror.NewValidation("initial stock cannot be negative").
			WithDetail("stock", p.Stock)
	}
	opening := p.Stock
	p.Stock = 0

	if err := s.createWithCode(ctx, p); err != nil {
		p.Stock = opening
		return err
	}
	if opening == 0 {
		return nil
	}

	m, err := s.ledger.Apply(ctx, ledger.Delta{
		ProductID: p.ID,
		Delta:     opening,
		Reason:    ledger.ReasonManualAdjustment,
		Note:      "saldo inicial",
	})
	if err != nil {
		// The row exists but the opening never landed; take the product
		// back out rather than leave it without its first movement. It
		// has no history yet, so the delete hook lets it through.
		if delErr := s.CatalogService.Delete(ctx, p.ID); delErr != nil {
			logger.Warn(ctx, "failed to remove product after opening stock error",
				"product_id", p.ID.String(),
				"error", delErr,
			)
		}
		return err
	}
	p.Stock = m.StockAfter
	return nil
}

// createWithCode inserts the catalog row. A duplicate generated code means
// another writer drew the same number concurrently; one fresh draw is
// attempted before giving up. The retry cannot share a transaction with
// the first insert: the unique violation would have aborted it.
func (s *Service) createWithCode(ctx context.Context, p *Product) error {
	generated := false
	if p.Code == "" {
		code, err := s.generator.Generate(ctx, p.GroupKey)
		if err != nil {
			return err
		}
		p.Code = code
		generated = true
	}

	err := s.CatalogService.Create(ctx, p)
	if err == nil {
		return nil
	}

	if generated && isDuplicateCode(err) {
		logger.Warn(ctx, "generated code collided, retrying once",
			"code", p.Code,
		)
		code, genErr := s.generator.Generate(ctx, p.GroupKey)
		if genErr != nil {
			return genErr
		}
		p.Code = code
		if retryErr := s.CatalogService.Create(ctx, p); retryErr != nil {
			if isDuplicateCode(retryErr) {
				return apperror.NewConcurrentModification("product", p.Code)
			}
			return retryErr
		}
		return nil
	}

	return err
}

// Deactivate marks the product as inactive without touching history.
func (s *Service) Deactivate(ctx context.Context, productID id.ID) error {
	return s.SetActive(ctx, productID, false)
}

// FindLowStock returns products at or below their minimum stock.
func (s *Service) FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error) {
	return s.repo.FindLowStock(ctx, filter)
}

func isDuplicateCode(err error) bool {
	appErr, ok := apperror.AsAppError(err)
	return ok && appErr.Code == apperror.CodeDuplicate
}
