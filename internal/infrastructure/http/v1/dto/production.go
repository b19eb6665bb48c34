package dto

import (
	"time"

	"orfebre/internal/core/id"
	"orfebre/internal/core/types"
	"orfebre/internal/domain/catalogs/product"
	"orfebre/internal/domain/documents/production"
)

// ProductionLineRequest is one produced product. Either productId refers
// to an existing product, or newProduct describes one to register together
// with the batch.
type ProductionLineRequest struct {
	ProductID  string                       `json:"productId"`
	Quantity   int64                        `json:"quantity" binding:"required"`
	NewProduct *ProductionNewProductRequest `json:"newProduct"`
}

// ProductionNewProductRequest is a product born from its first batch.
// Stock is absent on purpose: the batch quantity becomes the stock, and
// the unit cost defaults to the batch's computed unit cost.
type ProductionNewProductRequest struct {
	Code     string `json:"code"`
	GroupKey string `json:"groupKey"`
	Name     string `json:"name" binding:"required"`

	Category string `json:"category"`
	Material string `json:"material"`
	Unit     string `json:"unit"`
	Origin   string `json:"origin"`

	UnitCost  types.Money `json:"unitCost"`
	SalePrice types.Money `json:"salePrice"`
	MinStock  int64       `json:"minStock"`

	PhotoURL string `json:"photoUrl"`
}

// ToEntity maps the inline payload to a domain product.
func (r ProductionNewProductRequest) ToEntity() *product.Product {
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
	p.MinStock = r.MinStock
	p.PhotoURL = r.PhotoURL
	return p
}

// CreateProductionRequest for posting a production batch.
// Total and unit cost are computed server-side.
type CreateProductionRequest struct {
	Date  *time.Time `json:"date"`
	Notes string     `json:"notes"`

	MaterialsCost types.Money `json:"materialsCost"`
	Hours         types.Money `json:"hours"`
	HourlyRate    types.Money `json:"hourlyRate"`
	ToolingCost   types.Money `json:"toolingCost"`
	OtherCost     types.Money `json:"otherCost"`

	Lines []ProductionLineRequest `json:"lines" binding:"required"`
}

// ToEntity maps the request to a domain production batch.
// Line product IDs that fail to parse become nil IDs and are rejected by
// document validation.
func (r CreateProductionRequest) ToEntity() *production.Production {
	p := production.New()
	if r.Date != nil {
		p.Date = *r.Date
	}
	p.Notes = r.Notes
	p.MaterialsCost = r.MaterialsCost
	p.Hours = r.Hours
	p.HourlyRate = r.HourlyRate
	p.ToolingCost = r.ToolingCost
	p.OtherCost = r.OtherCost

	p.Lines = make([]production.Line, 0, len(r.Lines))
	for _, l := range r.Lines {
		line := production.Line{Quantity: l.Quantity}
		if l.NewProduct != nil {
			line.NewProduct = l.NewProduct.ToEntity()
		} else {
			line.ProductID, _ = id.Parse(l.ProductID)
		}
		p.Lines = append(p.Lines, line)
	}
	return p
}

// ProductionLineResponse is one produced line.
type ProductionLineResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

// ProductionResponse contains production batch fields.
type ProductionResponse struct {
	ID      string    `json:"id"`
	Number  string    `json:"number"`
	Date    time.Time `json:"date"`
	Notes   string    `json:"notes,omitempty"`
	Version int       `json:"version"`

	MaterialsCost types.Money `json:"materialsCost"`
	Hours         types.Money `json:"hours"`
	HourlyRate    types.Money `json:"hourlyRate"`
	ToolingCost   types.Money `json:"toolingCost"`
	OtherCost     types.Money `json:"otherCost"`
	TotalCost     types.Money `json:"totalCost"`
	UnitCost      types.Money `json:"unitCost"`

	Lines []ProductionLineResponse `json:"lines,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// FromProduction creates ProductionResponse from a domain batch.
func FromProduction(p *production.Production) *ProductionResponse {
	resp := &ProductionResponse{
		ID:            p.ID.String(),
		Number:        p.Number,
		Date:          p.Date,
		Notes:         p.Notes,
		Version:       p.Version,
		MaterialsCost: p.MaterialsCost,
		Hours:         p.Hours,
		HourlyRate:    p.HourlyRate,
		ToolingCost:   p.ToolingCost,
		OtherCost:     p.OtherCost,
		TotalCost:     p.TotalCost,
		UnitCost:      p.UnitCost,
		CreatedAt:     p.CreatedAt,
	}
	for _, l := range p.Lines {
		resp.Lines = append(resp.Lines, ProductionLineResponse{
			ID:        l.ID.String(),
			ProductID: l.ProductID.String(),
			Quantity:  l.Quantity,
		})
	}
	return resp
}
