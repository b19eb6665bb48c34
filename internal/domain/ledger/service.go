package ledger

import (
	"context"
	"fmt"

	appctx "orfebre/internal/core/context"
	"orfebre/internal/core/id"
	"orfebre/internal/core/tx"
	"orfebre/pkg/logger"
)

// Service applies stock deltas and keeps the movement history consistent
// with the stock column. Both writes happen in one transaction; when the
// caller already runs inside one (document posting), it is reused.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new ledger service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// Apply validates and applies a stock delta, recording the movement.
func (s *Service) Apply(ctx context.Context, d Delta) (Movement, error) {
	if err := d.Validate(); err != nil {
		return Movement{}, err
	}

	var movement Movement
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		stockAfter, err := s.repo.ApplyDelta(ctx, d.ProductID, d.Delta)
		if err != nil {
			return err
		}

		movement = Movement{
			ID:            id.New(),
			ProductID:     d.ProductID,
			Delta:         d.Delta,
			Reason:        d.Reason,
			ReferenceType: d.ReferenceType,
			ReferenceID:   d.ReferenceID,
			Note:          d.Note,
			Actor:         appctx.GetUserID(ctx),
			StockAfter:    stockAfter,
		}

		if err := s.repo.InsertMovement(ctx, movement); err != nil {
			return fmt.Errorf("insert movement: %w", err)
		}
		return nil
	})
	if err != nil {
		return Movement{}, err
	}

	logger.Info(ctx, "stock delta applied",
		"product_id", d.ProductID,
		"delta", d.Delta,
		"reason", d.Reason,
		"stock_after", movement.StockAfter,
	)

	return movement, nil
}

// ApplyAll applies a batch of deltas. Meant to be called inside an open
// transaction so a failing line aborts the whole document.
func (s *Service) ApplyAll(ctx context.Context, deltas []Delta) ([]Movement, error) {
	movements := make([]Movement, 0, len(deltas))
	for _, d := range deltas {
		m, err := s.Apply(ctx, d)
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, nil
}

// Balance returns the current stock level for a product.
func (s *Service) Balance(ctx context.Context, productID id.ID) (int64, error) {
	return s.repo.GetBalance(ctx, productID)
}

// Movements returns recent movement history for a product.
func (s *Service) Movements(ctx context.Context, productID id.ID, limit, offset int) ([]Movement, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.repo.ListMovements(ctx, productID, limit, offset)
}

// MovementsByReference returns the movements a document produced.
func (s *Service) MovementsByReference(ctx context.Context, refType string, refID id.ID) ([]Movement, error) {
	return s.repo.ListMovementsByReference(ctx, refType, refID)
}

// HasMovements reports whether a product has ledger history.
func (s *Service) HasMovements(ctx context.Context, productID id.ID) (bool, error) {
	return s.repo.HasMovements(ctx, productID)
}
