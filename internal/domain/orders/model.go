// Package orders provides custom orders (pedidos): bespoke pieces made to
// a customer's request. Orders track money, not catalog stock.
package orders

import (
	"context"
	"time"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/entity"
	"orfebre/internal/core/id"
	"orfebre/internal/core/types"
	"orfebre/internal/domain/costing"
)

// Status of a custom order. Entregado and cancelado are terminal.
type Status string

const (
	StatusPendiente Status = "pendiente"
	StatusEnProceso Status = "en_proceso"
	StatusEntregado Status = "entregado"
	StatusCancelado Status = "cancelado"
)

var validStatuses = map[Status]bool{
	StatusPendiente: true, StatusEnProceso: true,
	StatusEntregado: true, StatusCancelado: true,
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !validStatuses[s] {
		return "", apperror.NewValidation("unknown order status").
			WithDetail("status", raw)
	}
	return s, nil
}

// CanTransition reports whether moving from one status to another is allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return false
	}
	switch from {
	case StatusPendiente:
		return to == StatusEnProceso || to == StatusEntregado || to == StatusCancelado
	case StatusEnProceso:
		return to == StatusEntregado || to == StatusCancelado
	default:
		// entregado and cancelado are final
		return false
	}
}

// Order is a bespoke piece commissioned by a customer.
type Order struct {
	entity.Document

	CustomerID   *id.ID `db:"customer_id" json:"customerId,omitempty"`
	CustomerName string `db:"customer_name" json:"customerName,omitempty"`

	Description string `db:"description" json:"description"`

	Total   types.Money `db:"total" json:"total"`
	Advance types.Money `db:"advance" json:"advance"`

	// Balance is total minus advance, maintained on every write.
	// Negative means the customer overpaid.
	Balance types.Money `db:"balance" json:"balance"`

	DueDate *time.Time `db:"due_date" json:"dueDate,omitempty"`
	Status  Status     `db:"status" json:"status"`
}

// New creates a pending order dated now.
func New() *Order {
	return &Order{
		Document: entity.NewDocument(),
		Status:   StatusPendiente,
	}
}

// Recalculate refreshes the stored balance.
func (o *Order) Recalculate() {
	o.Balance = costing.OrderBalance(o.Total, o.Advance)
}

// IsOpen reports whether the order still counts toward the customer's
// pending balance.
func (o *Order) IsOpen() bool {
	return o.Status == StatusPendiente || o.Status == StatusEnProceso
}

// Validate implements entity.Validatable.
func (o *Order) Validate(ctx context.Context) error {
	if err := o.Document.Validate(ctx); err != nil {
		return err
	}

	if o.Description == "" {
		return apperror.NewValidation("description is required").
			WithDetail("field", "description")
	}
	if _, err := ParseStatus(string(o.Status)); err != nil {
		return err
	}
	if o.Total.IsNegative() {
		return apperror.NewValidation("total cannot be negative").
			WithDetail("field", "total")
	}
	if o.Advance.IsNegative() {
		return apperror.NewValidation("advance cannot be negative").
			WithDetail("field", "advance")
	}

	return nil
}
