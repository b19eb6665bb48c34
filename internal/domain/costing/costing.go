// Package costing provides the workshop cost arithmetic.
// All functions are pure; persistence and defaults live with the callers.
package costing

import (
	"orfebre/internal/core/apperror"
	"orfebre/internal/core/types"
)

// DefaultHourlyRate is the labor rate applied when a production batch does
// not specify its own. Overridable through configuration.
var DefaultHourlyRate = types.MustMoney("25.00")

// ProductionInput holds the cost components of a production batch.
type ProductionInput struct {
	Materials  types.Money
	Hours      types.Money
	HourlyRate types.Money
	Tooling    types.Money
	Other      types.Money
}

// ProductionCost computes the total cost of a production batch:
// materials + hours*rate + tooling + other, rounded to cents.
// A zero HourlyRate falls back to DefaultHourlyRate.
func ProductionCost(in ProductionInput) (types.Money, error) {
	rate := in.HourlyRate
	if rate.IsZero() {
		rate = DefaultHourlyRate
	}

	for field, v := range map[string]types.Money{
		"materials":  in.Materials,
		"hours":      in.Hours,
		"hourlyRate": rate,
		"tooling":    in.Tooling,
		"other":      in.Other,
	} {
		if v.IsNegative() {
			return types.Zero(), apperror.NewValidation("cost component cannot be negative").
				WithDetail("field", field).
				WithDetail("value", v.String())
		}
	}

	labor := in.Hours.Mul(rate)
	total := in.Materials.Add(labor).Add(in.Tooling).Add(in.Other)
	return types.Round2(total), nil
}

// LineSubtotal computes quantity * unitPrice for a sale line.
// Quantity must be positive; unit price must not be negative.
func LineSubtotal(qty int64, unitPrice types.Money) (types.Money, error) {
	if qty <= 0 {
		return types.Zero(), apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", qty)
	}
	if unitPrice.IsNegative() {
		return types.Zero(), apperror.NewValidation("unit price cannot be negative").
			WithDetail("unitPrice", unitPrice.String())
	}
	return types.Round2(unitPrice.Mul(types.MoneyFromInt(qty))), nil
}

// OrderBalance computes the outstanding balance of a custom order.
// A negative result means the customer overpaid; that is representable,
// not an error.
func OrderBalance(total, advance types.Money) types.Money {
	return types.Round2(total.Sub(advance))
}
