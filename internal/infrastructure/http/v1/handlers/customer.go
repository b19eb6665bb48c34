package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/id"
	"orfebre/internal/domain/catalogs/customer"
	"orfebre/internal/domain/orders"
	"orfebre/internal/infrastructure/http/v1/dto"
)

// CustomerHandler handles HTTP requests for customers.
type CustomerHandler struct {
	*CatalogHandler[*customer.Customer, dto.CreateCustomerRequest, dto.UpdateCustomerRequest]
	orders *orders.Service
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(base *BaseHandler, service *customer.Service, orderSvc *orders.Service) *CustomerHandler {
	cfg := CatalogHandlerConfig[*customer.Customer, dto.CreateCustomerRequest, dto.UpdateCustomerRequest]{
		Service:    service.CatalogService,
		EntityName: "customer",
		MapCreateDTO: func(req dto.CreateCustomerRequest) *customer.Customer {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateCustomerRequest, existing *customer.Customer) *customer.Customer {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(c *customer.Customer) any {
			return dto.FromCustomer(c)
		},
	}

	return &CustomerHandler{
		CatalogHandler: NewCatalogHandler(base, cfg),
		orders:         orderSvc,
	}
}

// PendingBalance handles GET /customers/:id/pending-balance - what the
// customer still owes across open orders.
func (h *CustomerHandler) PendingBalance(c *gin.Context) {
	ctx := c.Request.Context()

	customerID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	balance, err := h.orders.PendingBalance(ctx, customerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PendingBalanceResponse{
		CustomerID:     customerID.String(),
		PendingBalance: balance,
	})
}

// RegisterRoutes registers customer routes.
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	h.CatalogHandler.RegisterRoutes(rg)
	rg.GET("/:id/pending-balance", h.PendingBalance)
}
