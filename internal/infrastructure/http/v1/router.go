// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"orfebre/internal/domain/audit"
	"orfebre/internal/domain/catalogs/customer"
	"orfebre/internal/domain/catalogs/product"
	"orfebre/internal/domain/catalogs/supplier"
	"orfebre/internal/domain/codes"
	"orfebre/internal/domain/documents/production"
	"orfebre/internal/domain/documents/purchase"
	"orfebre/internal/domain/documents/sale"
	"orfebre/internal/domain/ledger"
	"orfebre/internal/domain/orders"
	"orfebre/internal/domain/reports"
	"orfebre/internal/infrastructure/http/v1/handlers"
	"orfebre/internal/infrastructure/http/v1/middleware"
	"orfebre/pkg/config"
	"orfebre/pkg/logger"
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	Pool   *pgxpool.Pool
	Logger *logger.Logger
	JWT    config.JWTConfig

	Products  *product.Service
	Codes     *codes.Generator
	Suppliers *supplier.Service
	Customers *customer.Service

	Productions *production.Service
	Purchases   *purchase.Service
	Sales       *sale.Service
	Orders      *orders.Service

	Ledger  *ledger.Service
	Reports *reports.Service
	Audit   audit.Recorder
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no identity required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	router.GET("/health", healthHandler.Ready)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	api := router.Group("/api/v1")
	api.Use(middleware.Identity(cfg.JWT))

	baseHandler := handlers.NewBaseHandler()

	// Catalogs
	handlers.NewProductHandler(baseHandler, cfg.Products, cfg.Codes).
		RegisterRoutes(api.Group("/products"))
	handlers.NewSupplierHandler(baseHandler, cfg.Suppliers).
		RegisterRoutes(api.Group("/suppliers"))
	handlers.NewCustomerHandler(baseHandler, cfg.Customers, cfg.Orders).
		RegisterRoutes(api.Group("/customers"))

	// Documents
	handlers.NewProductionHandler(baseHandler, cfg.Productions).
		RegisterRoutes(api.Group("/productions"))
	handlers.NewPurchaseHandler(baseHandler, cfg.Purchases).
		RegisterRoutes(api.Group("/purchases"))
	handlers.NewSaleHandler(baseHandler, cfg.Sales).
		RegisterRoutes(api.Group("/sales"))
	handlers.NewOrderHandler(baseHandler, cfg.Orders).
		RegisterRoutes(api.Group("/orders"))

	// Stock ledger
	handlers.NewStockHandler(baseHandler, cfg.Ledger).
		RegisterRoutes(api.Group("/stock"))

	// Reports
	handlers.NewReportsHandler(baseHandler, cfg.Reports).
		RegisterRoutes(api.Group("/reports"))

	// Audit history
	if cfg.Audit != nil {
		handlers.NewAuditHandler(baseHandler, cfg.Audit).
			RegisterRoutes(api.Group("/audit"))
	}

	return router
}
