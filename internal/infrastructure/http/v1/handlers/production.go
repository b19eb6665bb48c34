package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/id"
	"orfebre/internal/domain/documents/production"
	"orfebre/internal/infrastructure/http/v1/dto"
)

// ProductionHandler handles HTTP requests for production batches.
type ProductionHandler struct {
	*BaseHandler
	service *production.Service
}

// NewProductionHandler creates a new production handler.
func NewProductionHandler(base *BaseHandler, service *production.Service) *ProductionHandler {
	return &ProductionHandler{BaseHandler: base, service: service}
}

// Create handles POST /productions - post a batch and enter its stock.
func (h *ProductionHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateProductionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToEntity()
	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromProduction(doc))
}

// Get handles GET /productions/:id.
func (h *ProductionHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromProduction(doc))
}

// List handles GET /productions.
func (h *ProductionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.service.List(ctx, h.parseDocumentFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromProduction(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Delete handles DELETE /productions/:id - remove a batch and reverse its
// stock. Fails when the output was already sold.
func (h *ProductionHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers production routes.
func (h *ProductionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Delete)
}
