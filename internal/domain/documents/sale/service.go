package sale

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
const ReferenceType = "sale"

var numberingConfig = numerator.DefaultConfig("V")

// Service creates and removes sales.
type Service struct {
	repo      Repository
	customers Customers
	txManager tx.Manager
	ledger    *ledger.Service
	numbers   documents.Numbering
	audit     audit.Recorder
	sink      Sink
}

// NewService creates a new sale service. sink may be nil when no webhook
// is configured.
func NewService(repo Repository, customers Customers, txManager tx.Manager, ledgerSvc *ledger.Service, numbers documents.Numbering, recorder audit.Recorder, sink Sink) *Service {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &Service{
		repo:      repo,
		customers: customers,
		txManager: txManager,
		ledger:    ledgerSvc,
		numbers:   numbers,
		audit:     recorder,
		sink:      sink,
	}
}

// Create validates and posts a sale. Every line's quantity leaves stock
// with reason "sale"; a short line aborts the whole document. After the
// transaction commits the sale is pushed to the sink; a failed delivery
// comes back as a warning and never undoes the sale.
func (s *Service) Create(ctx context.Context, doc *Sale) ([]string, error) {
	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}

	if doc.CustomerID != nil {
		cust, err := s.customers.GetByID(ctx, *doc.CustomerID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil, apperror.NewReferential("customer does not exist").
					WithDetail("customer_id", doc.CustomerID.String())
			}
			return nil, fmt.Errorf("check customer: %w", err)
		}
		doc.CustomerName = cust.Name
	}

	subtotal := types.Zero()
	for i := range doc.Lines {
		lineSubtotal, err := costing.LineSubtotal(doc.Lines[i].Quantity, doc.Lines[i].UnitPrice)
		if err != nil {
			return nil, err
		}
		doc.Lines[i].Subtotal = lineSubtotal
		subtotal = subtotal.Add(lineSubtotal)
	}
	doc.Subtotal = types.Round2(subtotal)
	doc.Total = types.Round2(subtotal.Add(doc.Tax))

	if doc.Number == "" {
		number, err := s.numbers.GetNextNumber(ctx, numberingConfig, nil, doc.Date)
		if err != nil {
			return nil, fmt.Errorf("assign sale number: %w", err)
		}
		doc.Number = number
	}

	for i := range doc.Lines {
		if id.IsNil(doc.Lines[i].ID) {
			doc.Lines[i].ID = id.New()
		}
		doc.Lines[i].DocumentID = doc.ID
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		_, err := s.ledger.ApplyAll(ctx, s.deltas(doc, -1))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, ReferenceType, doc.ID, audit.ActionCreate, doc)
	logger.Info(ctx, "sale created",
		"number", doc.Number,
		"total", doc.Total.String(),
		"payment_method", doc.PaymentMethod,
	)

	var warnings []string
	if s.sink != nil {
		if err := s.sink.DeliverSale(ctx, doc); err != nil {
			logger.Warn(ctx, "sale sink delivery failed",
				"number", doc.Number,
				"error", err,
			)
			warnings = append(warnings, fmt.Sprintf("sale recorded but delivery failed: %v", err))
		}
	}

	return warnings, nil
}

// GetByID returns a sale with its lines.
func (s *Service) GetByID(ctx context.Context, documentID id.ID) (*Sale, error) {
	return s.repo.GetByID(ctx, documentID)
}

// List returns sales within the filter's date range.
func (s *Service) List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[*Sale], error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}

// Delete removes a sale and puts the sold stock back.
func (s *Service) Delete(ctx context.Context, documentID id.ID) error {
	doc, err := s.repo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.ledger.ApplyAll(ctx, s.deltas(doc, 1)); err != nil {
			return err
		}
		return s.repo.Delete(ctx, documentID)
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, ReferenceType, doc.ID, audit.ActionDelete, doc)
	logger.Info(ctx, "sale deleted", "number", doc.Number)
	return nil
}

func (s *Service) deltas(doc *Sale, sign int64) []ledger.Delta {
	refID := doc.ID
	deltas := make([]ledger.Delta, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		deltas = append(deltas, ledger.Delta{
			ProductID:     l.ProductID,
			Delta:         sign * l.Quantity,
			Reason:        ledger.ReasonSale,
			ReferenceType: ReferenceType,
			ReferenceID:   &refID,
		})
	}
	return deltas
}
