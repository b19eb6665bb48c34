package ledger

import (
	"context"

	"orfebre/internal/core/id"
)

// Repository defines storage operations for the stock ledger.
type Repository interface {
	// ApplyDelta atomically adds delta to the product's stock and returns
	// the new level. The update is conditional: it only succeeds when the
	// result stays non-negative, so there is no read-modify-write window.
	// Returns InsufficientStockError when the product exists but lacks
	// stock, NotFound when it does not exist.
	ApplyDelta(ctx context.Context, productID id.ID, delta int64) (int64, error)

	// InsertMovement appends a movement row. Called in the same
	// transaction as ApplyDelta.
	InsertMovement(ctx context.Context, m Movement) error

	// GetBalance returns the current stock level.
	GetBalance(ctx context.Context, productID id.ID) (int64, error)

	// ListMovements returns recent movements for a product, newest first.
	ListMovements(ctx context.Context, productID id.ID, limit, offset int) ([]Movement, error)

	// ListMovementsByReference returns movements recorded for a document.
	ListMovementsByReference(ctx context.Context, refType string, refID id.ID) ([]Movement, error)

	// HasMovements reports whether the product appears in the ledger.
	HasMovements(ctx context.Context, productID id.ID) (bool, error)
}
