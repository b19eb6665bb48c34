package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/id"
	"orfebre/internal/core/types"
)

type stubRepo struct {
	bestSellerCalled bool
	from, to         time.Time
}

func (s *stubRepo) DailySales(ctx context.Context, from, to time.Time) (DailySales, error) {
	s.from, s.to = from, to
	return DailySales{Total: types.MustMoney("340.50"), Count: 3}, nil
}

func (s *stubRepo) BestSeller(ctx context.Context, from, to time.Time) (BestSeller, error) {
	s.bestSellerCalled = true
	s.from, s.to = from, to
	productID := id.New()
	return BestSeller{ProductID: &productID, ProductName: "Aretes colibri", UnitsSold: 12}, nil
}

func (s *stubRepo) LowStock(ctx context.Context) ([]LowStockItem, error) {
	return nil, nil
}

func (s *stubRepo) SalesByPaymentMethod(ctx context.Context, from, to time.Time) ([]PaymentMethodTotal, error) {
	return []PaymentMethodTotal{{Method: "yape", Total: types.MustMoney("120.00"), Count: 2}}, nil
}

func (s *stubRepo) StockValuation(ctx context.Context) (Valuation, error) {
	return Valuation{TotalUnits: 40, TotalValue: types.MustMoney("2150.00")}, nil
}

func TestDailySales_RequiresDate(t *testing.T) {
	svc := NewService(&stubRepo{}, nil)

	_, err := svc.DailySales(context.Background(), time.Time{})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestDailySales_WindowInReportingTimezone(t *testing.T) {
	lima, err := time.LoadLocation("America/Lima")
	require.NoError(t, err)

	repo := &stubRepo{}
	svc := NewService(repo, lima)

	// The handler parses YYYY-MM-DD, which lands at UTC midnight. The
	// day window must still run midnight to midnight in Lima, so an
	// evening sale (after 19:00 local, next day in UTC) stays on its
	// local day.
	date, err := time.Parse(time.DateOnly, "2026-08-29")
	require.NoError(t, err)

	result, err := svc.DailySales(context.Background(), date)
	require.NoError(t, err)

	wantFrom := time.Date(2026, 8, 29, 0, 0, 0, 0, lima)
	assert.True(t, repo.from.Equal(wantFrom), "from = %s", repo.from)
	assert.True(t, repo.to.Equal(wantFrom.AddDate(0, 0, 1)), "to = %s", repo.to)
	assert.True(t, result.Date.Equal(wantFrom))

	eveningSale := time.Date(2026, 8, 29, 20, 30, 0, 0, lima)
	assert.True(t, !eveningSale.Before(repo.from) && eveningSale.Before(repo.to))
}

func TestBestSeller_RejectsInvertedRange(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, nil)

	from := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -5)

	_, err := svc.BestSeller(context.Background(), from, to)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.False(t, repo.bestSellerCalled)
}

func TestBestSeller_PassesValidRange(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, nil)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	result, err := svc.BestSeller(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(12), result.UnitsSold)
	assert.True(t, repo.bestSellerCalled)

	// The to day is inclusive: the window extends one day past its start.
	assert.True(t, repo.to.Equal(to.AddDate(0, 0, 1)), "to = %s", repo.to)
}

func TestSalesByPaymentMethod(t *testing.T) {
	svc := NewService(&stubRepo{}, nil)

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	totals, err := svc.SalesByPaymentMethod(context.Background(), day, day)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, "yape", totals[0].Method)
}
