// Package purchase provides purchase documents for goods bought from
// suppliers. Posting a purchase increases stock for every line.
package purchase

import (
	"context"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/entity"
	"orfebre/internal/core/id"
	"orfebre/internal/core/types"
)

// Purchase is a receipt of bought goods.
type Purchase struct {
	entity.Document

	// SupplierID is optional; informal street purchases have no supplier.
	SupplierID *id.ID `db:"supplier_id" json:"supplierId,omitempty"`

	Total types.Money `db:"total" json:"total"`

	Lines []Line `db:"-" json:"lines"`
}

// Line is one bought product.
type Line struct {
	ID         id.ID       `db:"id" json:"id"`
	DocumentID id.ID       `db:"document_id" json:"documentId"`
	ProductID  id.ID       `db:"product_id" json:"productId"`
	Quantity   int64       `db:"quantity" json:"quantity"`
	UnitCost   types.Money `db:"unit_cost" json:"unitCost"`
	Subtotal   types.Money `db:"subtotal" json:"subtotal"`
}

// New creates an empty purchase dated now.
func New() *Purchase {
	return &Purchase{
		Document: entity.NewDocument(),
	}
}

// Validate implements entity.Validatable.
func (p *Purchase) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if len(p.Lines) == 0 {
		return apperror.NewValidation("a purchase needs at least one line").
			WithDetail("field", "lines")
	}

	for i, l := range p.Lines {
		if id.IsNil(l.ProductID) {
			return apperror.NewValidation("line product is required").
				WithDetail("line", i)
		}
		if l.Quantity <= 0 {
			return apperror.NewValidation("line quantity must be positive").
				WithDetail("line", i).
				WithDetail("quantity", l.Quantity)
		}
		if l.UnitCost.IsNegative() {
			return apperror.NewValidation("line unit cost cannot be negative").
				WithDetail("line", i)
		}
	}

	return nil
}
