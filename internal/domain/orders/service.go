package orders

import (
	"context"
	"fmt"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/id"
	"orfebre/internal/core/tx"
	"orfebre/internal/core/types"
	"orfebre/internal/domain"
	"orfebre/internal/domain/audit"
	"orfebre/internal/domain/documents"
	"orfebre/pkg/logger"
	"orfebre/pkg/numerator"
)

const entityType = "order"

var numberingConfig = numerator.DefaultConfig("PED")

// Service manages custom orders.
type Service struct {
	repo      Repository
	customers Customers
	txManager tx.Manager
	numbers   documents.Numbering
	audit     audit.Recorder
}

// NewService creates a new order service.
func NewService(repo Repository, customers Customers, txManager tx.Manager, numbers documents.Numbering, recorder audit.Recorder) *Service {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &Service{
		repo:      repo,
		customers: customers,
		txManager: txManager,
		numbers:   numbers,
		audit:     recorder,
	}
}

// Create registers a new order.
func (s *Service) Create(ctx context.Context, o *Order) error {
	if err := o.Validate(ctx); err != nil {
		return err
	}

	if o.CustomerID != nil {
		cust, err := s.customers.GetByID(ctx, *o.CustomerID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewReferential("customer does not exist").
					WithDetail("customer_id", o.CustomerID.String())
			}
			return fmt.Errorf("check customer: %w", err)
		}
		o.CustomerName = cust.Name
	}

	o.Recalculate()

	if o.Number == "" {
		number, err := s.numbers.GetNextNumber(ctx, numberingConfig, nil, o.Date)
		if err != nil {
			return fmt.Errorf("assign order number: %w", err)
		}
		o.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, o)
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, entityType, o.ID, audit.ActionCreate, o)
	logger.Info(ctx, "order created",
		"number", o.Number,
		"balance", o.Balance.String(),
	)
	return nil
}

// GetByID returns an order.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

// Update modifies an order's editable fields. The status is changed
// through ChangeStatus, not here.
func (s *Service) Update(ctx context.Context, o *Order) error {
	if err := o.Validate(ctx); err != nil {
		return err
	}

	current, err := s.repo.GetByID(ctx, o.ID)
	if err != nil {
		return err
	}
	if o.Status != current.Status {
		return apperror.NewValidation("status is changed through the status endpoint").
			WithDetail("field", "status")
	}
	if !current.IsOpen() {
		return apperror.NewConflict("closed orders cannot be edited").
			WithDetail("status", string(current.Status))
	}

	o.Recalculate()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, o)
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, entityType, o.ID, audit.ActionUpdate, o)
	return nil
}

// ChangeStatus moves an order through its lifecycle. Invalid transitions
// (reopening a delivered order, cancelling twice) are rejected.
func (s *Service) ChangeStatus(ctx context.Context, orderID id.ID, to Status) (*Order, error) {
	if _, err := ParseStatus(string(to)); err != nil {
		return nil, err
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(o.Status, to) {
		return nil, apperror.NewConflict("status transition not allowed").
			WithDetail("from", string(o.Status)).
			WithDetail("to", string(to))
	}

	from := o.Status
	o.Status = to

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, entityType, o.ID, audit.ActionUpdate, o)
	logger.Info(ctx, "order status changed",
		"number", o.Number,
		"from", from,
		"to", to,
	)
	return o, nil
}

// Delete removes an order. Delivered orders are part of the history and
// stay; cancel them first if they were recorded by mistake.
func (s *Service) Delete(ctx context.Context, orderID id.ID) error {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.Status == StatusEntregado {
		return apperror.NewConflict("delivered orders cannot be deleted").
			WithDetail("number", o.Number)
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, orderID)
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, entityType, o.ID, audit.ActionDelete, o)
	return nil
}

// List returns orders matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Order], error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}

// PendingBalance sums the open balances of a customer.
func (s *Service) PendingBalance(ctx context.Context, customerID id.ID) (types.Money, error) {
	return s.repo.PendingBalance(ctx, customerID)
}
