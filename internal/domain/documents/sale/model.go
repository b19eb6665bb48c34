// Package sale provides sale documents. Posting a sale takes stock out;
// an insufficient line aborts the whole document.
package sale

import (
	"context"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/entity"
	"orfebre/internal/core/id"
	"orfebre/internal/core/types"
)

// PaymentMethod is how the customer paid.
type PaymentMethod string

const (
	PaymentEfectivo      PaymentMethod = "efectivo"
	PaymentYape          PaymentMethod = "yape"
	PaymentPlin          PaymentMethod = "plin"
	PaymentTransferencia PaymentMethod = "transferencia"
)

var validPaymentMethods = map[PaymentMethod]bool{
	PaymentEfectivo: true, PaymentYape: true,
	PaymentPlin: true, PaymentTransferencia: true,
}

// ParsePaymentMethod validates a raw payment method string.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	m := PaymentMethod(raw)
	if !validPaymentMethods[m] {
		return "", apperror.NewValidation("unknown payment method").
			WithDetail("paymentMethod", raw)
	}
	return m, nil
}

// Sale is a sale to a customer, walk-in or registered.
type Sale struct {
	entity.Document

	// CustomerID is optional; walk-in sales carry no customer.
	CustomerID *id.ID `db:"customer_id" json:"customerId,omitempty"`

	// CustomerName is denormalized at creation so listings and the
	// webhook payload do not need a join.
	CustomerName string `db:"customer_name" json:"customerName,omitempty"`

	PaymentMethod PaymentMethod `db:"payment_method" json:"paymentMethod"`

	Subtotal types.Money `db:"subtotal" json:"subtotal"`
	Tax      types.Money `db:"tax" json:"tax"`
	Total    types.Money `db:"total" json:"total"`

	Lines []Line `db:"-" json:"lines"`
}

// Line is one sold product.
type Line struct {
	ID         id.ID       `db:"id" json:"id"`
	DocumentID id.ID       `db:"document_id" json:"documentId"`
	ProductID  id.ID       `db:"product_id" json:"productId"`
	Quantity   int64       `db:"quantity" json:"quantity"`
	UnitPrice  types.Money `db:"unit_price" json:"unitPrice"`
	Subtotal   types.Money `db:"subtotal" json:"subtotal"`
}

// New creates an empty sale dated now, paid in cash.
func New() *Sale {
	return &Sale{
		Document:      entity.NewDocument(),
		PaymentMethod: PaymentEfectivo,
	}
}

// Validate implements entity.Validatable.
func (s *Sale) Validate(ctx context.Context) error {
	if err := s.Document.Validate(ctx); err != nil {
		return err
	}

	if _, err := ParsePaymentMethod(string(s.PaymentMethod)); err != nil {
		return err
	}

	if len(s.Lines) == 0 {
		return apperror.NewValidation("a sale needs at least one line").
			WithDetail("field", "lines")
	}

	for i, l := range s.Lines {
		if id.IsNil(l.ProductID) {
			return apperror.NewValidation("line product is required").
				WithDetail("line", i)
		}
		if l.Quantity <= 0 {
			return apperror.NewValidation("line quantity must be positive").
				WithDetail("line", i).
				WithDetail("quantity", l.Quantity)
		}
		if l.UnitPrice.IsNegative() {
			return apperror.NewValidation("line unit price cannot be negative").
				WithDetail("line", i)
		}
	}

	if s.Tax.IsNegative() {
		return apperror.NewValidation("tax cannot be negative").
			WithDetail("field", "tax")
	}

	return nil
}
