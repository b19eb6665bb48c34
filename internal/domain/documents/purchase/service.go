package purchase

import (
	"context"
	"fmt"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/id"
	"orfebre/internal/core/tx"
	"orfebre/internal/core/types"
	"orfebre/internal/domain"
	"orfebre/internal/domain/audit"
	"orfebre/internal/domain/costing"
	"orfebre/internal/domain/documents"
	"orfebre/internal/domain/ledger"
	"orfebre/pkg/logger"
	"orfebre/pkg/numerator"
)

// ReferenceType tags ledger movements produced by this document type.
const ReferenceType = "purchase"

var numberingConfig = numerator.DefaultConfig("C")

// Service creates and removes purchases.
type Service struct {
	repo      Repository
	suppliers Suppliers
	txManager tx.Manager
	ledger    *ledger.Service
	numbers   documents.Numbering
	audit     audit.Recorder
}

// NewService creates a new purchase service.
func NewService(repo Repository, suppliers Suppliers, txManager tx.Manager, ledgerSvc *ledger.Service, numbers documents.Numbering, recorder audit.Recorder) *Service {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &Service{
		repo:      repo,
		suppliers: suppliers,
		txManager: txManager,
		ledger:    ledgerSvc,
		numbers:   numbers,
		audit:     recorder,
	}
}

// Create validates and posts a purchase. Every line's quantity enters
// stock with reason "purchase".
func (s *Service) Create(ctx context.Context, p *Purchase) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	if p.SupplierID != nil {
		exists, err := s.suppliers.Exists(ctx, *p.SupplierID)
		if err != nil {
			return fmt.Errorf("check supplier: %w", err)
		}
		if !exists {
			return apperror.NewReferential("supplier does not exist").
				WithDetail("supplier_id", p.SupplierID.String())
		}
	}

	total := types.Zero()
	for i := range p.Lines {
		subtotal, err := costing.LineSubtotal(p.Lines[i].Quantity, p.Lines[i].UnitCost)
		if err != nil {
			return err
		}
		p.Lines[i].Subtotal = subtotal
		total = total.Add(subtotal)
	}
	p.Total = types.Round2(total)

	if p.Number == "" {
		number, err := s.numbers.GetNextNumber(ctx, numberingConfig, nil, p.Date)
		if err != nil {
			return fmt.Errorf("assign purchase number: %w", err)
		}
		p.Number = number
	}

	for i := range p.Lines {
		if id.IsNil(p.Lines[i].ID) {
			p.Lines[i].ID = id.New()
		}
		p.Lines[i].DocumentID = p.ID
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, p); err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}
		_, err := s.ledger.ApplyAll(ctx, s.deltas(p, 1))
		return err
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, ReferenceType, p.ID, audit.ActionCreate, p)
	logger.Info(ctx, "purchase created",
		"number", p.Number,
		"total", p.Total.String(),
	)
	return nil
}

// GetByID returns a purchase with its lines.
func (s *Service) GetByID(ctx context.Context, documentID id.ID) (*Purchase, error) {
	return s.repo.GetByID(ctx, documentID)
}

// List returns purchases within the filter's date range.
func (s *Service) List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[*Purchase], error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}

// Delete removes a purchase and reverses its stock. Fails with an
// insufficient stock error when the bought goods were already sold.
func (s *Service) Delete(ctx context.Context, documentID id.ID) error {
	p, err := s.repo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.ledger.ApplyAll(ctx, s.deltas(p, -1)); err != nil {
			return err
		}
		return s.repo.Delete(ctx, documentID)
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, ReferenceType, p.ID, audit.ActionDelete, p)
	logger.Info(ctx, "purchase deleted", "number", p.Number)
	return nil
}

func (s *Service) deltas(p *Purchase, sign int64) []ledger.Delta {
	refID := p.ID
	deltas := make([]ledger.Delta, 0, len(p.Lines))
	for _, l := range p.Lines {
		deltas = append(deltas, ledger.Delta{
			ProductID:     l.ProductID,
			Delta:         sign * l.Quantity,
			Reason:        ledger.ReasonPurchase,
			ReferenceType: ReferenceType,
			ReferenceID:   &refID,
		})
	}
	return deltas
}
