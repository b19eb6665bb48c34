// Package product provides the product catalog.
package product

import (
	"context"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/entity"
	"orfebre/internal/core/types"
)

// Category of jewelry piece.
type Category string

const (
	CategoryAnillo  Category = "anillo"
	CategoryArete   Category = "arete"
	CategoryCollar  Category = "collar"
	CategoryPulsera Category = "pulsera"
	CategoryDije    Category = "dije"
	CategoryOtro    Category = "otro"
)

// Material the piece is made of.
type Material string

const (
	MaterialPlata  Material = "plata"
	MaterialAlpaca Material = "alpaca"
	MaterialBronce Material = "bronce"
	MaterialOro    Material = "oro"
	MaterialOtro   Material = "otro"
)

// Unit the product is sold in.
type Unit string

const (
	UnitUnidad Unit = "unidad"
	UnitPar    Unit = "par"
	UnitJuego  Unit = "juego"
)

var (
	validCategories = map[Category]bool{
		CategoryAnillo: true, CategoryArete: true, CategoryCollar: true,
		CategoryPulsera: true, CategoryDije: true, CategoryOtro: true,
	}
	validMaterials = map[Material]bool{
		MaterialPlata: true, MaterialAlpaca: true, MaterialBronce: true,
		MaterialOro: true, MaterialOtro: true,
	}
	validUnits = map[Unit]bool{
		UnitUnidad: true, UnitPar: true, UnitJuego: true,
	}
)

// Product is a catalog item the workshop produces or resells.
// Stock is only ever changed through the ledger, never by direct update.
type Product struct {
	entity.Catalog

	Category Category `db:"category" json:"category"`
	Material Material `db:"material" json:"material"`
	Unit     Unit     `db:"unit" json:"unit"`

	// Origin distinguishes own production from purchased goods
	Origin string `db:"origin" json:"origin,omitempty"`

	UnitCost       types.Money  `db:"unit_cost" json:"unitCost"`
	SalePrice      types.Money  `db:"sale_price" json:"salePrice"`
	WholesalePrice *types.Money `db:"wholesale_price" json:"wholesalePrice,omitempty"`
	OfferPrice     *types.Money `db:"offer_price" json:"offerPrice,omitempty"`

	Stock    int64 `db:"stock" json:"stock"`
	MinStock int64 `db:"min_stock" json:"minStock"`

	PhotoURL string `db:"photo_url" json:"photoUrl,omitempty"`

	// GroupKey feeds the code generator when no code is supplied.
	// Not persisted.
	GroupKey string `db:"-" json:"groupKey,omitempty"`
}

// New creates a product with defaults.
func New(name string) *Product {
	return &Product{
		Catalog:  entity.NewCatalog("", name),
		Category: CategoryOtro,
		Material: MaterialOtro,
		Unit:     UnitUnidad,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !validCategories[p.Category] {
		return apperror.NewValidation("unknown category").
			WithDetail("field", "category").
			WithDetail("value", string(p.Category))
	}
	if !validMaterials[p.Material] {
		return apperror.NewValidation("unknown material").
			WithDetail("field", "material").
			WithDetail("value", string(p.Material))
	}
	if !validUnits[p.Unit] {
		return apperror.NewValidation("unknown unit").
			WithDetail("field", "unit").
			WithDetail("value", string(p.Unit))
	}

	if p.UnitCost.IsNegative() {
		return apperror.NewValidation("unit cost cannot be negative").
			WithDetail("field", "unitCost")
	}
	if p.SalePrice.IsNegative() {
		return apperror.NewValidation("sale price cannot be negative").
			WithDetail("field", "salePrice")
	}
	if p.WholesalePrice != nil && p.WholesalePrice.IsNegative() {
		return apperror.NewValidation("wholesale price cannot be negative").
			WithDetail("field", "wholesalePrice")
	}
	if p.OfferPrice != nil && p.OfferPrice.IsNegative() {
		return apperror.NewValidation("offer price cannot be negative").
			WithDetail("field", "offerPrice")
	}

	if p.Stock < 0 {
		return apperror.NewValidation("stock cannot be negative").
			WithDetail("field", "stock")
	}
	if p.MinStock < 0 {
		return apperror.NewValidation("minimum stock cannot be negative").
			WithDetail("field", "minStock")
	}

	return nil
}

// IsLowStock reports whether the product is at or below its minimum.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}
