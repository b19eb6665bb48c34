package dto

import (
	"orfebre/internal/domain/catalogs/supplier"
)

// CreateSupplierRequest for creating suppliers.
type CreateSupplierRequest struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	RUC     string `json:"ruc"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// ToEntity maps the request to a domain supplier.
func (r CreateSupplierRequest) ToEntity() *supplier.Supplier {
	s := supplier.New(r.Code, r.Name)
	s.RUC = r.RUC
	s.Contact = r.Contact
	s.Phone = r.Phone
	s.Email = r.Email
	s.Address = r.Address
	s.Notes = r.Notes
	return s
}

// UpdateSupplierRequest for updating suppliers.
type UpdateSupplierRequest struct {
	Name    *string `json:"name"`
	RUC     *string `json:"ruc"`
	Contact *string `json:"contact"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
	Version int     `json:"version" binding:"required,min=1"`
}

// ApplyTo merges the request onto an existing supplier.
func (r UpdateSupplierRequest) ApplyTo(s *supplier.Supplier) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.RUC != nil {
		s.RUC = *r.RUC
	}
	if r.Contact != nil {
		s.Contact = *r.Contact
	}
	if r.Phone != nil {
		s.Phone = *r.Phone
	}
	if r.Email != nil {
		s.Email = *r.Email
	}
	if r.Address != nil {
		s.Address = *r.Address
	}
	if r.Notes != nil {
		s.Notes = *r.Notes
	}
	s.Version = r.Version
}

// SupplierResponse contains supplier fields.
type SupplierResponse struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Active  bool   `json:"active"`
	Version int    `json:"version"`
	RUC     string `json:"ruc,omitempty"`
	Contact string `json:"contact,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// FromSupplier creates SupplierResponse from a domain supplier.
func FromSupplier(s *supplier.Supplier) *SupplierResponse {
	return &SupplierResponse{
		ID:      s.ID.String(),
		Code:    s.Code,
		Name:    s.Name,
		Active:  s.Active,
		Version: s.Version,
		RUC:     s.RUC,
		Contact: s.Contact,
		Phone:   s.Phone,
		Email:   s.Email,
		Address: s.Address,
		Notes:   s.Notes,
	}
}
