package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/id"
	"orfebre/internal/domain/ledger"
	"orfebre/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for the stock ledger.
type StockHandler struct {
	*BaseHandler
	ledger *ledger.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, ledgerSvc *ledger.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, ledger: ledgerSvc}
}

// Adjust handles POST /stock/adjustments - manual stock correction.
func (h *StockHandler) Adjust(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id format"))
		return
	}

	movement, err := h.ledger.Apply(ctx, ledger.Delta{
		ProductID: productID,
		Delta:     req.Delta,
		Reason:    ledger.ReasonManualAdjustment,
		Note:      req.Note,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromMovement(movement))
}

// Balance handles GET /stock/:productId - current stock level.
func (h *StockHandler) Balance(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Param("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id format"))
		return
	}

	stock, err := h.ledger.Balance(ctx, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StockBalanceResponse{
		ProductID: productID.String(),
		Stock:     stock,
	})
}

// Movements handles GET /stock/:productId/movements - ledger history.
func (h *StockHandler) Movements(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Param("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id format"))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)
	offset := h.ParseIntQuery(c, "offset", 0)

	movements, err := h.ledger.Movements(ctx, productID, limit, offset)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.MovementResponse, len(movements))
	for i, m := range movements {
		items[i] = dto.FromMovement(m)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// RegisterRoutes registers stock ledger routes.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/adjustments", h.Adjust)
	rg.GET("/:productId", h.Balance)
	rg.GET("/:productId/movements", h.Movements)
}
