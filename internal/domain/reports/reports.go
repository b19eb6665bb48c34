// Package reports provides read-only aggregations over sales and stock.
package reports

import (
	"context"
	"time"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/id"
	"orfebre/internal/core/types"
)

// DailySales summarizes one business day.
type DailySales struct {
	Date  time.Time   `json:"date"`
	Total types.Money `json:"total"`
	Count int64       `json:"count"`
}

// BestSeller is the most sold product in a period. ProductID is nil when
// the period had no sales.
type BestSeller struct {
	ProductID   *id.ID `json:"productId,omitempty"`
	ProductName string `json:"productName,omitempty"`
	UnitsSold   int64  `json:"unitsSold"`
}

// LowStockItem is a product at or below its minimum.
type LowStockItem struct {
	ProductID id.ID  `db:"id" json:"productId"`
	Code      string `db:"code" json:"code"`
	Name      string `db:"name" json:"name"`
	Stock     int64  `db:"stock" json:"stock"`
	MinStock  int64  `db:"min_stock" json:"minStock"`
}

// PaymentMethodTotal aggregates sales per payment method.
type PaymentMethodTotal struct {
	Method string      `db:"payment_method" json:"method"`
	Total  types.Money `db:"total" json:"total"`
	Count  int64       `db:"count" json:"count"`
}

// Valuation is the stock value of the active catalog at unit cost.
type Valuation struct {
	TotalUnits int64       `json:"totalUnits"`
	TotalValue types.Money `json:"totalValue"`
}

// Repository runs the aggregation queries. Time ranges are half-open
// [from, to) instants; calendar interpretation happens in the service.
type Repository interface {
	DailySales(ctx context.Context, from, to time.Time) (DailySales, error)
	BestSeller(ctx context.Context, from, to time.Time) (BestSeller, error)
	LowStock(ctx context.Context) ([]LowStockItem, error)
	SalesByPaymentMethod(ctx context.Context, from, to time.Time) ([]PaymentMethodTotal, error)
	StockValuation(ctx context.Context) (Valuation, error)
}

// Service validates report parameters, turns calendar days into concrete
// time windows in the workshop's timezone and delegates to the repository.
// A sale at 20:00 in Lima belongs to that Lima day, not the UTC one.
type Service struct {
	repo Repository
	loc  *time.Location
}

// NewService creates a new report service. A nil location falls back to
// UTC.
func NewService(repo Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, loc: loc}
}

// DailySales returns the sales summary for one calendar day in the
// reporting timezone.
func (s *Service) DailySales(ctx context.Context, date time.Time) (DailySales, error) {
	if date.IsZero() {
		return DailySales{}, apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	from := s.dayStart(date)
	result, err := s.repo.DailySales(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		return DailySales{}, err
	}
	result.Date = from
	return result, nil
}

// BestSeller returns the most sold product between the from and to days,
// both inclusive. An empty period yields a zero-value result, not an
// error.
func (s *Service) BestSeller(ctx context.Context, from, to time.Time) (BestSeller, error) {
	if err := validRange(from, to); err != nil {
		return BestSeller{}, err
	}
	return s.repo.BestSeller(ctx, s.dayStart(from), s.dayStart(to).AddDate(0, 0, 1))
}

// LowStock returns active products at or below their minimum, most
// critical first.
func (s *Service) LowStock(ctx context.Context) ([]LowStockItem, error) {
	return s.repo.LowStock(ctx)
}

// SalesByPaymentMethod returns per-method sale totals between the from
// and to days, both inclusive.
func (s *Service) SalesByPaymentMethod(ctx context.Context, from, to time.Time) ([]PaymentMethodTotal, error) {
	if err := validRange(from, to); err != nil {
		return nil, err
	}
	return s.repo.SalesByPaymentMethod(ctx, s.dayStart(from), s.dayStart(to).AddDate(0, 0, 1))
}

// StockValuation returns the inventory value of the active catalog.
func (s *Service) StockValuation(ctx context.Context) (Valuation, error) {
	return s.repo.StockValuation(ctx)
}

// dayStart is midnight of t's calendar day in the reporting timezone.
// Incoming dates carry only year, month and day (parsed from YYYY-MM-DD),
// so the zone they were parsed in is irrelevant.
func (s *Service) dayStart(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, s.loc)
}

func validRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return apperror.NewValidation("from and to dates are required")
	}
	if to.Before(from) {
		return apperror.NewValidation("to must not be before from").
			WithDetail("from", from.Format(time.DateOnly)).
			WithDetail("to", to.Format(time.DateOnly))
	}
	return nil
}
