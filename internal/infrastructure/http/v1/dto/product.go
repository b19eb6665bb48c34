package dto

import (
	"time"

	"orfebre/internal/core/types"
	"orfebre/internal/domain/catalogs/product"
	"orfebre/internal/domain/ledger"
)

// CreateProductRequest for creating products. Either code or groupKey must
// be supplied; a missing code is generated from the group key.
type CreateProductRequest struct {
	Code     string `json:"code"`
	GroupKey string `json:"groupKey"`
	Name     string `json:"name" binding:"required"`

	Category string `json:"category"`
	Material string `json:"material"`
	Unit     string `json:"unit"`
	Origin   string `json:"origin"`

	UnitCost       types.Money  `json:"unitCost"`
	SalePrice      types.Money  `json:"salePrice"`
	WholesalePrice *types.Money `json:"wholesalePrice"`
	OfferPrice     *types.Money `json:"offerPrice"`

	Stock    int64 `json:"stock"`
	MinStock int64 `json:"minStock"`

	PhotoURL string `json:"photoUrl"`
}

// ToEntity maps the request to a domain product.
func (r CreateProductRequest) ToEntity() *product.Product {
	p := product.New(r.Name)
	p.Code = r.Code
	p.GroupKey = r.GroupKey
	if r.Category != "" {
		p.Category = product.Category(r.Category)
	}
	if r.Material != "" {
		p.Material = product.Material(r.Material)
	}
	if r.Unit != "" {
		p.Unit = product.Unit(r.Unit)
	}
	p.Origin = r.Origin
	p.UnitCost = r.UnitCost
	p.SalePrice = r.SalePrice
	p.WholesalePrice = r.WholesalePrice
	p.OfferPrice = r.OfferPrice
	p.Stock = r.Stock
	p.MinStock = r.MinStock
	p.PhotoURL = r.PhotoURL
	return p
}

// UpdateProductRequest for updating products. Stock is absent on purpose:
// stock only moves through the ledger.
type UpdateProductRequest struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	Material *string `json:"material"`
	Unit     *string `json:"unit"`
	Origin   *string `json:"origin"`

	UnitCost       *types.Money `json:"unitCost"`
	SalePrice      *types.Money `json:"salePrice"`
	WholesalePrice *types.Money `json:"wholesalePrice"`
	OfferPrice     *types.Money `json:"offerPrice"`

	MinStock *int64  `json:"minStock"`
	PhotoURL *string `json:"photoUrl"`

	Version int `json:"version" binding:"required,min=1"`
}

// ApplyTo merges the request onto an existing product.
func (r UpdateProductRequest) ApplyTo(p *product.Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Category != nil {
		p.Category = product.Category(*r.Category)
	}
	if r.Material != nil {
		p.Material = product.Material(*r.Material)
	}
	if r.Unit != nil {
		p.Unit = product.Unit(*r.Unit)
	}
	if r.Origin != nil {
		p.Origin = *r.Origin
	}
	if r.UnitCost != nil {
		p.UnitCost = *r.UnitCost
	}
	if r.SalePrice != nil {
		p.SalePrice = *r.SalePrice
	}
	if r.WholesalePrice != nil {
		p.WholesalePrice = r.WholesalePrice
	}
	if r.OfferPrice != nil {
		p.OfferPrice = r.OfferPrice
	}
	if r.MinStock != nil {
		p.MinStock = *r.MinStock
	}
	if r.PhotoURL != nil {
		p.PhotoURL = *r.PhotoURL
	}
	p.Version = r.Version
}

// ProductResponse contains product fields.
type ProductResponse struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Active  bool   `json:"active"`
	Version int    `json:"version"`

	Category string `json:"category"`
	Material string `json:"material"`
	Unit     string `json:"unit"`
	Origin   string `json:"origin,omitempty"`

	UnitCost       types.Money  `json:"unitCost"`
	SalePrice      types.Money  `json:"salePrice"`
	WholesalePrice *types.Money `json:"wholesalePrice,omitempty"`
	OfferPrice     *types.Money `json:"offerPrice,omitempty"`

	Stock    int64 `json:"stock"`
	MinStock int64 `json:"minStock"`
	LowStock bool  `json:"lowStock"`

	PhotoURL string `json:"photoUrl,omitempty"`
}

// FromProduct creates ProductResponse from a domain product.
func FromProduct(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:             p.ID.String(),
		Code:           p.Code,
		Name:           p.Name,
		Active:         p.Active,
		Version:        p.Version,
		Category:       string(p.Category),
		Material:       string(p.Material),
		Unit:           string(p.Unit),
		Origin:         p.Origin,
		UnitCost:       p.UnitCost,
		SalePrice:      p.SalePrice,
		WholesalePrice: p.WholesalePrice,
		OfferPrice:     p.OfferPrice,
		Stock:          p.Stock,
		MinStock:       p.MinStock,
		LowStock:       p.IsLowStock(),
		PhotoURL:       p.PhotoURL,
	}
}

// GenerateCodeRequest asks for the next code in a product family.
type GenerateCodeRequest struct {
	GroupKey string `json:"groupKey" binding:"required"`
}

// GenerateCodeResponse carries a freshly drawn product code.
type GenerateCodeResponse struct {
	Code string `json:"code"`
}

// MovementResponse is one ledger entry.
type MovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"productId"`
	Delta         int64     `json:"delta"`
	Reason        string    `json:"reason"`
	ReferenceType string    `json:"referenceType,omitempty"`
	ReferenceID   *string   `json:"referenceId,omitempty"`
	Note          string    `json:"note,omitempty"`
	Actor         string    `json:"actor,omitempty"`
	StockAfter    int64     `json:"stockAfter"`
	CreatedAt     time.Time `json:"createdAt"`
}

// FromMovement creates MovementResponse from a ledger movement.
func FromMovement(m ledger.Movement) MovementResponse {
	resp := MovementResponse{
		ID:            m.ID.String(),
		ProductID:     m.ProductID.String(),
		Delta:         m.Delta,
		Reason:        string(m.Reason),
		ReferenceType: m.ReferenceType,
		Note:          m.Note,
		Actor:         m.Actor,
		StockAfter:    m.StockAfter,
		CreatedAt:     m.CreatedAt,
	}
	if m.ReferenceID != nil {
		s := m.ReferenceID.String()
		resp.ReferenceID = &s
	}
	return resp
}
