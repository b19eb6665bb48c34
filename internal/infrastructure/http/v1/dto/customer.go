package dto

import (
	"orfebre/internal/core/types"
	"orfebre/internal/domain/catalogs/customer"
)

// CreateCustomerRequest for creating customers.
type CreateCustomerRequest struct {
	Code       string `json:"code" binding:"required"`
	Name       string `json:"name" binding:"required"`
	DocumentID string `json:"documentId"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	Wholesale  bool   `json:"wholesale"`
	Notes      string `json:"notes"`
}

// ToEntity maps the request to a domain customer.
func (r CreateCustomerRequest) ToEntity() *customer.Customer {
	c := customer.New(r.Code, r.Name)
	c.DocumentID = r.DocumentID
	c.Phone = r.Phone
	c.Email = r.Email
	c.Address = r.Address
	c.Wholesale = r.Wholesale
	c.Notes = r.Notes
	return c
}

// UpdateCustomerRequest for updating customers.
type UpdateCustomerRequest struct {
	Name       *string `json:"name"`
	DocumentID *string `json:"documentId"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
	Address    *string `json:"address"`
	Wholesale  *bool   `json:"wholesale"`
	Notes      *string `json:"notes"`
	Version    int     `json:"version" binding:"required,min=1"`
}

// ApplyTo merges the request onto an existing customer.
func (r UpdateCustomerRequest) ApplyTo(c *customer.Customer) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.DocumentID != nil {
		c.DocumentID = *r.DocumentID
	}
	if r.Phone != nil {
		c.Phone = *r.Phone
	}
	if r.Email != nil {
		c.Email = *r.Email
	}
	if r.Address != nil {
		c.Address = *r.Address
	}
	if r.Wholesale != nil {
		c.Wholesale = *r.Wholesale
	}
	if r.Notes != nil {
		c.Notes = *r.Notes
	}
	c.Version = r.Version
}

// CustomerResponse contains customer fields.
type CustomerResponse struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Active     bool   `json:"active"`
	Version    int    `json:"version"`
	DocumentID string `json:"documentId,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address,omitempty"`
	Wholesale  bool   `json:"wholesale"`
	Notes      string `json:"notes,omitempty"`
}

// FromCustomer creates CustomerResponse from a domain customer.
func FromCustomer(c *customer.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:         c.ID.String(),
		Code:       c.Code,
		Name:       c.Name,
		Active:     c.Active,
		Version:    c.Version,
		DocumentID: c.DocumentID,
		Phone:      c.Phone,
		Email:      c.Email,
		Address:    c.Address,
		Wholesale:  c.Wholesale,
		Notes:      c.Notes,
	}
}

// PendingBalanceResponse is the sum a customer still owes on open orders.
type PendingBalanceResponse struct {
	CustomerID     string      `json:"customerId"`
	PendingBalance types.Money `json:"pendingBalance"`
}
