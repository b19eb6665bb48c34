package dto

import (
	"time"

	"orfebre/internal/core/id"
	"orfebre/internal/core/types"
	"orfebre/internal/domain/documents/sale"
)

// SaleLineRequest is one sold product.
type SaleLineRequest struct {
	ProductID string      `json:"productId" binding:"required"`
	Quantity  int64       `json:"quantity" binding:"required"`
	UnitPrice types.Money `json:"unitPrice"`
}

// CreateSaleRequest for posting a sale.
type CreateSaleRequest struct {
	Date          *time.Time  `json:"date"`
	Notes         string      `json:"notes"`
	CustomerID    *string     `json:"customerId"`
	PaymentMethod string      `json:"paymentMethod"`
	Tax           types.Money `json:"tax"`

	Lines []SaleLineRequest `json:"lines" binding:"required"`
}

// ToEntity maps the request to a domain sale.
func (r CreateSaleRequest) ToEntity() *sale.Sale {
	s := sale.New()
	if r.Date != nil {
		s.Date = *r.Date
	}
	s.Notes = r.Notes
	if r.CustomerID != nil {
		if customerID, err := id.Parse(*r.CustomerID); err == nil {
			s.CustomerID = &customerID
		}
	}
	if r.PaymentMethod != "" {
		s.PaymentMethod = sale.PaymentMethod(r.PaymentMethod)
	}
	s.Tax = r.Tax

	s.Lines = make([]sale.Line, 0, len(r.Lines))
	for _, l := range r.Lines {
		productID, _ := id.Parse(l.ProductID)
		s.Lines = append(s.Lines, sale.Line{
			ProductID: productID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return s
}

// SaleLineResponse is one sold line.
type SaleLineResponse struct {
	ID        string      `json:"id"`
	ProductID string      `json:"productId"`
	Quantity  int64       `json:"quantity"`
	UnitPrice types.Money `json:"unitPrice"`
	Subtotal  types.Money `json:"subtotal"`
}

// SaleResponse contains sale fields. Warnings carry non-fatal post-commit
// problems, like a failed webhook delivery.
type SaleResponse struct {
	ID            string      `json:"id"`
	Number        string      `json:"number"`
	Date          time.Time   `json:"date"`
	Notes         string      `json:"notes,omitempty"`
	Version       int         `json:"version"`
	CustomerID    *string     `json:"customerId,omitempty"`
	CustomerName  string      `json:"customerName,omitempty"`
	PaymentMethod string      `json:"paymentMethod"`
	Subtotal      types.Money `json:"subtotal"`
	Tax           types.Money `json:"tax"`
	Total         types.Money `json:"total"`

	Lines []SaleLineResponse `json:"lines,omitempty"`

	Warnings []string `json:"warnings,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// FromSale creates SaleResponse from a domain sale.
func FromSale(s *sale.Sale, warnings []string) *SaleResponse {
	resp := &SaleResponse{
		ID:            s.ID.String(),
		Number:        s.Number,
		Date:          s.Date,
		Notes:         s.Notes,
		Version:       s.Version,
		CustomerName:  s.CustomerName,
		PaymentMethod: string(s.PaymentMethod),
		Subtotal:      s.Subtotal,
		Tax:           s.Tax,
		Total:         s.Total,
		Warnings:      warnings,
		CreatedAt:     s.CreatedAt,
	}
	if s.CustomerID != nil {
		c := s.CustomerID.String()
		resp.CustomerID = &c
	}
	for _, l := range s.Lines {
		resp.Lines = append(resp.Lines, SaleLineResponse{
			ID:        l.ID.String(),
			ProductID: l.ProductID.String(),
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	return resp
}
