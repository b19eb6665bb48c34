// Package production provides production batch documents. Posting a batch
// increases stock for every line; removing it takes the stock back.
package production

import (
	"context"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/entity"
	"orfebre/internal/core/id"
	"orfebre/internal/core/types"
	"orfebre/internal/domain/catalogs/product"
)

// Production is a finished batch of workshop output.
// Cost components follow the workshop formula: materials + labor
// (hours * hourly rate) + tooling + other.
type Production struct {
	entity.Document

	MaterialsCost types.Money `db:"materials_cost" json:"materialsCost"`
	Hours         types.Money `db:"hours" json:"hours"`
	HourlyRate    types.Money `db:"hourly_rate" json:"hourlyRate"`
	ToolingCost   types.Money `db:"tooling_cost" json:"toolingCost"`
	OtherCost     types.Money `db:"other_cost" json:"otherCost"`

	// TotalCost and UnitCost are computed at creation, never accepted
	// from the client.
	TotalCost types.Money `db:"total_cost" json:"totalCost"`
	UnitCost  types.Money `db:"unit_cost" json:"unitCost"`

	Lines []Line `db:"-" json:"lines"`
}

// Line is one produced product with its quantity.
// Either ProductID points at an existing catalog product, or NewProduct
// describes one to be created together with the batch. In the second case
// ProductID is filled in during posting.
type Line struct {
	ID         id.ID `db:"id" json:"id"`
	DocumentID id.ID `db:"document_id" json:"documentId"`
	ProductID  id.ID `db:"product_id" json:"productId"`
	Quantity   int64 `db:"quantity" json:"quantity"`

	NewProduct *product.Product `db:"-" json:"-"`
}

// New creates an empty production batch dated now.
func New() *Production {
	return &Production{
		Document: entity.NewDocument(),
	}
}

// TotalUnits sums the line quantities.
func (p *Production) TotalUnits() int64 {
	var total int64
	for _, l := range p.Lines {
		total += l.Quantity
	}
	return total
}

// Validate implements entity.Validatable.
func (p *Production) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if len(p.Lines) == 0 {
		return apperror.NewValidation("a production batch needs at least one line").
			WithDetail("field", "lines")
	}

	for i, l := range p.Lines {
		if id.IsNil(l.ProductID) && l.NewProduct == nil {
			return apperror.NewValidation("line product is required").
				WithDetail("line", i)
		}
		if l.Quantity <= 0 {
			return apperror.NewValidation("line quantity must be positive").
				WithDetail("line", i).
				WithDetail("quantity", l.Quantity)
		}
	}

	return nil
}
