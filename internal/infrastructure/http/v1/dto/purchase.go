package dto

import (
	"time"

	"orfebre/internal/core/id"
	"orfebre/internal/core/types"
	"orfebre/internal/domain/documents/purchase"
)

// PurchaseLineRequest is one bought product.
type PurchaseLineRequest struct {
	ProductID string      `json:"productId" binding:"required"`
	Quantity  int64       `json:"quantity" binding:"required"`
	UnitCost  types.Money `json:"unitCost"`
}

// CreatePurchaseRequest for posting a purchase.
type CreatePurchaseRequest struct {
	Date       *time.Time `json:"date"`
	Notes      string     `json:"notes"`
	SupplierID *string    `json:"supplierId"`

	Lines []PurchaseLineRequest `json:"lines" binding:"required"`
}

// ToEntity maps the request to a domain purchase.
func (r CreatePurchaseRequest) ToEntity() *purchase.Purchase {
	p := purchase.New()
	if r.Date != nil {
		p.Date = *r.Date
	}
	p.Notes = r.Notes
	if r.SupplierID != nil {
		if supplierID, err := id.Parse(*r.SupplierID); err == nil {
			p.SupplierID = &supplierID
		}
	}

	p.Lines = make([]purchase.Line, 0, len(r.Lines))
	for _, l := range r.Lines {
		productID, _ := id.Parse(l.ProductID)
		p.Lines = append(p.Lines, purchase.Line{
			ProductID: productID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
		})
	}
	return p
}

// PurchaseLineResponse is one bought line.
type PurchaseLineResponse struct {
	ID        string      `json:"id"`
	ProductID string      `json:"productId"`
	Quantity  int64       `json:"quantity"`
	UnitCost  types.Money `json:"unitCost"`
	Subtotal  types.Money `json:"subtotal"`
}

// PurchaseResponse contains purchase fields.
type PurchaseResponse struct {
	ID         string      `json:"id"`
	Number     string      `json:"number"`
	Date       time.Time   `json:"date"`
	Notes      string      `json:"notes,omitempty"`
	Version    int         `json:"version"`
	SupplierID *string     `json:"supplierId,omitempty"`
	Total      types.Money `json:"total"`

	Lines []PurchaseLineResponse `json:"lines,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// FromPurchase creates PurchaseResponse from a domain purchase.
func FromPurchase(p *purchase.Purchase) *PurchaseResponse {
	resp := &PurchaseResponse{
		ID:        p.ID.String(),
		Number:    p.Number,
		Date:      p.Date,
		Notes:     p.Notes,
		Version:   p.Version,
		Total:     p.Total,
		CreatedAt: p.CreatedAt,
	}
	if p.SupplierID != nil {
		s := p.SupplierID.String()
		resp.SupplierID = &s
	}
	for _, l := range p.Lines {
		resp.Lines = append(resp.Lines, PurchaseLineResponse{
			ID:        l.ID.String(),
			ProductID: l.ProductID.String(),
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
			Subtotal:  l.Subtotal,
		})
	}
	return resp
}
