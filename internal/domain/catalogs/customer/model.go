// Package customer provides the customer catalog.
package customer

import (
	"context"
	"strings"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/entity"
)

// Customer is a buyer, either retail or wholesale.
type Customer struct {
	entity.Catalog

	// DocumentID is a DNI (8 digits) or RUC (11 digits), optional.
	DocumentID string `db:"document_id" json:"documentId,omitempty"`
	Phone      string `db:"phone" json:"phone,omitempty"`
	Email      string `db:"email" json:"email,omitempty"`
	Address    string `db:"address" json:"address,omitempty"`

	// Wholesale customers get the wholesale price on sale lines by default.
	Wholesale bool `db:"wholesale" json:"wholesale"`

	Notes string `db:"notes" json:"notes,omitempty"`
}

// New creates a customer with the given code and name.
func New(code, name string) *Customer {
	return &Customer{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable.
func (c *Customer) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.DocumentID != "" {
		doc := strings.TrimSpace(c.DocumentID)
		if (len(doc) != 8 && len(doc) != 11) || !isDigits(doc) {
			return apperror.NewValidation("document must be a DNI (8 digits) or RUC (11 digits)").
				WithDetail("field", "documentId").
				WithDetail("value", c.DocumentID)
		}
		c.DocumentID = doc
	}

	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
