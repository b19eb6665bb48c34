package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/types"
)

func money(t *testing.T, s string) types.Money {
	t.Helper()
	m, err := types.NewMoneyFromString(s)
	require.NoError(t, err)
	return m
}

func TestProductionCost(t *testing.T) {
	total, err := ProductionCost(ProductionInput{
		Materials:  money(t, "120.50"),
		Hours:      money(t, "3.5"),
		HourlyRate: money(t, "30.00"),
		Tooling:    money(t, "15.00"),
		Other:      money(t, "4.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "245.00", total.StringFixed(2))
}

func TestProductionCost_DefaultRate(t *testing.T) {
	// Zero rate falls back to the workshop default of 25.00.
	total, err := ProductionCost(ProductionInput{
		Materials: money(t, "100.00"),
		Hours:     money(t, "2"),
	})
	require.NoError(t, err)
	assert.Equal(t, "150.00", total.StringFixed(2))
}

func TestProductionCost_NegativeComponent(t *testing.T) {
	_, err := ProductionCost(ProductionInput{
		Materials: money(t, "-1.00"),
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestLineSubtotal(t *testing.T) {
	sub, err := LineSubtotal(3, money(t, "45.90"))
	require.NoError(t, err)
	assert.Equal(t, "137.70", sub.StringFixed(2))
}

func TestLineSubtotal_InvalidQuantity(t *testing.T) {
	for _, qty := range []int64{0, -2} {
		_, err := LineSubtotal(qty, money(t, "10.00"))
		require.Error(t, err)
		assert.True(t, apperror.IsValidation(err))
	}
}

func TestLineSubtotal_NegativePrice(t *testing.T) {
	_, err := LineSubtotal(1, money(t, "-0.01"))
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestOrderBalance(t *testing.T) {
	balance := OrderBalance(money(t, "500.00"), money(t, "200.00"))
	assert.Equal(t, "300.00", balance.StringFixed(2))

	// Overpayment yields a negative balance, not an error.
	balance = OrderBalance(money(t, "100.00"), money(t, "150.00"))
	assert.Equal(t, "-50.00", balance.StringFixed(2))
}
