// Package supplier provides the supplier catalog.
package supplier

import (
	"context"
	"strings"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/entity"
)

// Supplier is a provider of raw material or finished goods.
type Supplier struct {
	entity.Catalog

	// RUC is the Peruvian tax registry number, optional for informal providers.
	RUC     string `db:"ruc" json:"ruc,omitempty"`
	Contact string `db:"contact" json:"contact,omitempty"`
	Phone   string `db:"phone" json:"phone,omitempty"`
	Email   string `db:"email" json:"email,omitempty"`
	Address string `db:"address" json:"address,omitempty"`
	Notes   string `db:"notes" json:"notes,omitempty"`
}

// New creates a supplier with the given code and name.
func New(code, name string) *Supplier {
	return &Supplier{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable.
func (s *Supplier) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}

	if s.RUC != "" {
		ruc := strings.TrimSpace(s.RUC)
		if len(ruc) != 11 || !isDigits(ruc) {
			return apperror.NewValidation("RUC must be 11 digits").
				WithDetail("field", "ruc").
				WithDetail("value", s.RUC)
		}
		s.RUC = ruc
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
