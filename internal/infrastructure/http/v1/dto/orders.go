package dto

import (
	"time"

	"orfebre/internal/core/id"
	"orfebre/internal/core/types"
	"orfebre/internal/domain/orders"
)

// CreateOrderRequest for registering a custom order.
type CreateOrderRequest struct {
	Date        *time.Time  `json:"date"`
	Notes       string      `json:"notes"`
	CustomerID  *string     `json:"customerId"`
	Description string      `json:"description" binding:"required"`
	Total       types.Money `json:"total"`
	Advance     types.Money `json:"advance"`
	DueDate     *time.Time  `json:"dueDate"`
}

// ToEntity maps the request to a domain order.
func (r CreateOrderRequest) ToEntity() *orders.Order {
	o := orders.New()
	if r.Date != nil {
		o.Date = *r.Date
	}
	o.Notes = r.Notes
	if r.CustomerID != nil {
		if customerID, err := id.Parse(*r.CustomerID); err == nil {
			o.CustomerID = &customerID
		}
	}
	o.Description = r.Description
	o.Total = r.Total
	o.Advance = r.Advance
	o.DueDate = r.DueDate
	return o
}

// UpdateOrderRequest for changing an open order. Status changes go through
// the status endpoint instead.
type UpdateOrderRequest struct {
	Notes       *string      `json:"notes"`
	Description *string      `json:"description"`
	Total       *types.Money `json:"total"`
	Advance     *types.Money `json:"advance"`
	DueDate     *time.Time   `json:"dueDate"`
	Version     int          `json:"version" binding:"required,min=1"`
}

// ApplyTo merges the request onto an existing order.
func (r UpdateOrderRequest) ApplyTo(o *orders.Order) {
	if r.Notes != nil {
		o.Notes = *r.Notes
	}
	if r.Description != nil {
		o.Description = *r.Description
	}
	if r.Total != nil {
		o.Total = *r.Total
	}
	if r.Advance != nil {
		o.Advance = *r.Advance
	}
	if r.DueDate != nil {
		o.DueDate = r.DueDate
	}
	o.Version = r.Version
}

// ChangeOrderStatusRequest moves an order through its lifecycle.
type ChangeOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderResponse contains order fields.
type OrderResponse struct {
	ID           string      `json:"id"`
	Number       string      `json:"number"`
	Date         time.Time   `json:"date"`
	Notes        string      `json:"notes,omitempty"`
	Version      int         `json:"version"`
	CustomerID   *string     `json:"customerId,omitempty"`
	CustomerName string      `json:"customerName,omitempty"`
	Description  string      `json:"description"`
	Total        types.Money `json:"total"`
	Advance      types.Money `json:"advance"`
	Balance      types.Money `json:"balance"`
	DueDate      *time.Time  `json:"dueDate,omitempty"`
	Status       string      `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
}

// FromOrder creates OrderResponse from a domain order.
func FromOrder(o *orders.Order) *OrderResponse {
	resp := &OrderResponse{
		ID:           o.ID.String(),
		Number:       o.Number,
		Date:         o.Date,
		Notes:        o.Notes,
		Version:      o.Version,
		CustomerName: o.CustomerName,
		Description:  o.Description,
		Total:        o.Total,
		Advance:      o.Advance,
		Balance:      o.Balance,
		DueDate:      o.DueDate,
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt,
	}
	if o.CustomerID != nil {
		c := o.CustomerID.String()
		resp.CustomerID = &c
	}
	return resp
}
