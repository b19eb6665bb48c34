package production

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
const ReferenceType = "production"

var numberingConfig = numerator.DefaultConfig("PRO")

// Service creates and removes production batches. Header, lines and stock
// deltas land in one transaction.
type Service struct {
	repo      Repository
	products  Products
	txManager tx.Manager
	ledger    *ledger.Service
	numbers   documents.Numbering
	audit     audit.Recorder

	// defaultRate applies when a batch does not specify its own hourly rate.
	defaultRate types.Money
}

// NewService creates a new production service.
func NewService(repo Repository, products Products, txManager tx.Manager, ledgerSvc *ledger.Service, numbers documents.Numbering, recorder audit.Recorder, defaultRate types.Money) *Service {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	if defaultRate.IsZero() {
		defaultRate = costing.DefaultHourlyRate
	}
	return &Service{
		repo:        repo,
		products:    products,
		txManager:   txManager,
		ledger:      ledgerSvc,
		numbers:     numbers,
		audit:       recorder,
		defaultRate: defaultRate,
	}
}

// Create validates, costs and posts a production batch. Every line's
// quantity enters stock with reason "production". A line carrying a
// NewProduct registers that product in the same transaction; its stock
// starts at zero and the batch delta brings it up.
func (s *Service) Create(ctx context.Context, p *Production) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	if p.HourlyRate.IsZero() {
		p.HourlyRate = s.defaultRate
	}

	total, err := costing.ProductionCost(costing.ProductionInput{
		Materials:  p.MaterialsCost,
		Hours:      p.Hours,
		HourlyRate: p.HourlyRate,
		Tooling:    p.ToolingCost,
		Other:      p.OtherCost,
	})
	if err != nil {
		return err
	}
	p.TotalCost = total
	p.UnitCost = types.Round2(total.Div(types.MoneyFromInt(p.TotalUnits())))

	if p.Number == "" {
		number, err := s.numbers.GetNextNumber(ctx, numberingConfig, nil, p.Date)
		if err != nil {
			return fmt.Errorf("assign production number: %w", err)
		}
		p.Number = number
	}

	for i := range p.Lines {
		if id.IsNil(p.Lines[i].ID) {
			p.Lines[i].ID = id.New()
		}
		p.Lines[i].DocumentID = p.ID
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.createLineProducts(ctx, p); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, p); err != nil {
			return fmt.Errorf("create production: %w", err)
		}
		_, err := s.ledger.ApplyAll(ctx, s.deltas(p, 1))
		return err
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, ReferenceType, p.ID, audit.ActionCreate, p)
	logger.Info(ctx, "production batch created",
		"number", p.Number,
		"units", p.TotalUnits(),
		"total_cost", p.TotalCost.String(),
	)
	return nil
}

// GetByID returns a batch with its lines.
func (s *Service) GetByID(ctx context.Context, documentID id.ID) (*Production, error) {
	return s.repo.GetByID(ctx, documentID)
}

// List returns batches within the filter's date range.
func (s *Service) List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[*Production], error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}

// Delete removes a batch and takes its stock back out. If the produced
// stock was already sold, the reversal fails with an insufficient stock
// error and nothing is deleted.
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
	logger.Info(ctx, "production batch deleted", "number", p.Number)
	return nil
}

// createLineProducts registers the catalog products of lines that carry a
// NewProduct. Runs inside the posting transaction so a later failure rolls
// the products back with the batch.
func (s *Service) createLineProducts(ctx context.Context, p *Production) error {
	for i := range p.Lines {
		np := p.Lines[i].NewProduct
		if np == nil {
			continue
		}
		if s.products == nil {
			return apperror.NewValidation("inline product creation is not available").
				WithDetail("line", i)
		}

		// The batch is the product's cost basis; stock starts at zero and
		// the production delta raises it.
		np.Stock = 0
		if np.UnitCost.IsZero() {
			np.UnitCost = p.UnitCost
		}

		if err := s.products.Create(ctx, np); err != nil {
			return err
		}
		p.Lines[i].ProductID = np.ID
	}
	return nil
}

func (s *Service) deltas(p *Production, sign int64) []ledger.Delta {
	refID := p.ID
	deltas := make([]ledger.Delta, 0, len(p.Lines))
	for _, l := range p.Lines {
		deltas = append(deltas, ledger.Delta{
			ProductID:     l.ProductID,
			Delta:         sign * l.Quantity,
			Reason:        ledger.ReasonProduction,
			ReferenceType: ReferenceType,
			ReferenceID:   &refID,
		})
	}
	return deltas
}
