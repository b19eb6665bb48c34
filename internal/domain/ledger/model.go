// Package ledger provides the stock ledger: every change to a product's
// stock goes through a signed delta with a reason, and the resulting
// movement row is written in the same transaction as the stock update.
package ledger

import (
	"time"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/id"
)

// Reason classifies why stock changed.
type Reason string

const (
	ReasonProduction       Reason = "production"
	ReasonPurchase         Reason = "purchase"
	ReasonSale             Reason = "sale"
	ReasonManualAdjustment Reason = "manual-adjustment"
)

// ParseReason validates a raw reason string.
func ParseReason(raw string) (Reason, error) {
	switch Reason(raw) {
	case ReasonProduction, ReasonPurchase, ReasonSale, ReasonManualAdjustment:
		return Reason(raw), nil
	default:
		return "", apperror.NewValidation("unknown stock movement reason").
			WithDetail("reason", raw)
	}
}

// Movement is one applied stock delta.
type Movement struct {
	ID            id.ID     `db:"id" json:"id"`
	ProductID     id.ID     `db:"product_id" json:"productId"`
	Delta         int64     `db:"delta" json:"delta"`
	Reason        Reason    `db:"reason" json:"reason"`
	ReferenceType string    `db:"reference_type" json:"referenceType,omitempty"`
	ReferenceID   *id.ID    `db:"reference_id" json:"referenceId,omitempty"`
	Note          string    `db:"note" json:"note,omitempty"`
	Actor         string    `db:"actor" json:"actor,omitempty"`
	StockAfter    int64     `db:"stock_after" json:"stockAfter"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// Delta is a request to change a product's stock.
type Delta struct {
	ProductID     id.ID
	Delta         int64
	Reason        Reason
	ReferenceType string
	ReferenceID   *id.ID
	Note          string
}

// Validate checks the delta before it touches the database.
func (d Delta) Validate() error {
	if id.IsNil(d.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if d.Delta == 0 {
		return apperror.NewValidation("delta must not be zero").
			WithDetail("field", "delta")
	}
	if _, err := ParseReason(string(d.Reason)); err != nil {
		return err
	}
	// Shrinking stock by hand needs an explanation for the audit trail.
	if d.Reason == ReasonManualAdjustment && d.Delta < 0 && d.Note == "" {
		return apperror.NewValidation("a note is required when adjusting stock down").
			WithDetail("field", "note")
	}
	return nil
}
