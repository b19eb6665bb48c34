package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"orfebre/internal/core/apperror"
	"orfebre/internal/domain/reports"
)

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// DailySales handles GET /reports/daily-sales?date=2026-08-30.
func (h *ReportsHandler) DailySales(c *gin.Context) {
	ctx := c.Request.Context()

	date, ok := parseDate(c.Query("date"))
	if !ok {
		h.Error(c, apperror.NewValidation("date is required").
			WithDetail("format", time.DateOnly))
		return
	}

	result, err := h.service.DailySales(ctx, date)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// BestSeller handles GET /reports/best-seller?from=...&to=...
func (h *ReportsHandler) BestSeller(c *gin.Context) {
	ctx := c.Request.Context()

	from, to, err := h.parseRange(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.BestSeller(ctx, from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// LowStock handles GET /reports/low-stock.
func (h *ReportsHandler) LowStock(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := h.service.LowStock(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// SalesByPaymentMethod handles GET /reports/sales-by-payment-method.
func (h *ReportsHandler) SalesByPaymentMethod(c *gin.Context) {
	ctx := c.Request.Context()

	from, to, err := h.parseRange(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	totals, err := h.service.SalesByPaymentMethod(ctx, from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": totals})
}

// StockValuation handles GET /reports/stock-valuation.
func (h *ReportsHandler) StockValuation(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.service.StockValuation(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ReportsHandler) parseRange(c *gin.Context) (time.Time, time.Time, error) {
	from, okFrom := parseDate(c.Query("from"))
	to, okTo := parseDate(c.Query("to"))
	if !okFrom || !okTo {
		return time.Time{}, time.Time{}, apperror.NewValidation("from and to dates are required").
			WithDetail("format", time.DateOnly)
	}
	return from, to, nil
}

// RegisterRoutes registers report routes.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/daily-sales", h.DailySales)
	rg.GET("/best-seller", h.BestSeller)
	rg.GET("/low-stock", h.LowStock)
	rg.GET("/sales-by-payment-method", h.SalesByPaymentMethod)
	rg.GET("/stock-valuation", h.StockValuation)
}
