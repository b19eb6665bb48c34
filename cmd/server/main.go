// Server entrypoint. Wires configuration, storage, domain services and the
// HTTP API together, then runs until interrupted.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orfebre/internal/core/types"
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
	v1 "orfebre/internal/infrastructure/http/v1"
	"orfebre/internal/infrastructure/storage/postgres"
	"orfebre/internal/infrastructure/storage/postgres/catalog_repo"
	"orfebre/internal/infrastructure/storage/postgres/document_repo"
	"orfebre/internal/infrastructure/storage/postgres/ledger_repo"
	"orfebre/internal/infrastructure/storage/postgres/report_repo"
	"orfebre/internal/infrastructure/webhook"
	"orfebre/pkg/config"
	"orfebre/pkg/logger"
	"orfebre/pkg/numerator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Default().Fatalw("failed to load config", "error", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.Env == "development",
	})
	if err != nil {
		logger.Default().Fatalw("failed to create logger", "error", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logger.WithLogger(ctx, log)

	if err := run(ctx, cfg, log); err != nil {
		log.Fatalw("server failed", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.ConnectionString())
	if cfg.DB.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.DB.MaxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Infow("database connected", "host", cfg.DB.Host, "db", cfg.DB.DBName)

	txManager := postgres.NewTxManager(pool)
	numbering := numerator.New(pool)

	auditRecorder, err := postgres.NewAuditRecorder(txManager)
	if err != nil {
		return err
	}

	// Ledger and catalogs
	ledgerSvc := ledger.NewService(ledger_repo.NewStockRepo(txManager), txManager)
	codeGen := codes.NewGenerator(postgres.NewSequenceStore(txManager))

	productSvc := product.NewService(catalog_repo.NewProductRepo(txManager), txManager, codeGen, ledgerSvc)
	supplierSvc := supplier.NewService(catalog_repo.NewSupplierRepo(txManager), txManager)
	customerSvc := customer.NewService(catalog_repo.NewCustomerRepo(txManager), txManager)

	// Documents
	productionSvc := production.NewService(
		document_repo.NewProductionRepo(txManager),
		productSvc, txManager, ledgerSvc, numbering, auditRecorder,
		types.MustMoney(cfg.Costing.DefaultHourlyRate),
	)
	purchaseSvc := purchase.NewService(
		document_repo.NewPurchaseRepo(txManager),
		supplierSvc, txManager, ledgerSvc, numbering, auditRecorder,
	)

	var saleSink sale.Sink
	if sink := webhook.NewSaleSink(cfg.Webhook); sink != nil {
		saleSink = sink
		log.Infow("sale webhook enabled", "url", cfg.Webhook.SaleURL)
	}
	saleSvc := sale.NewService(
		document_repo.NewSaleRepo(txManager),
		customerSvc, txManager, ledgerSvc, numbering, auditRecorder, saleSink,
	)

	orderSvc := orders.NewService(
		document_repo.NewOrderRepo(txManager),
		customerSvc, txManager, numbering, auditRecorder,
	)

	reportLoc, err := time.LoadLocation(cfg.Report.TimeZone)
	if err != nil {
		log.Warnw("invalid report timezone, falling back to UTC",
			"timezone", cfg.Report.TimeZone, "error", err)
		reportLoc = time.UTC
	}
	reportSvc := reports.NewService(report_repo.NewReportRepo(txManager), reportLoc)

	router := v1.NewRouter(v1.RouterConfig{
		Pool:   pool.Unwrap(),
		Logger: log,
		JWT:    cfg.JWT,

		Products:  productSvc,
		Codes:     codeGen,
		Suppliers: supplierSvc,
		Customers: customerSvc,

		Productions: productionSvc,
		Purchases:   purchaseSvc,
		Sales:       saleSvc,
		Orders:      orderSvc,

		Ledger:  ledgerSvc,
		Reports: reportSvc,
		Audit:   auditRecorder,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return logger.WithLogger(context.Background(), log)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("http server listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Infow("shutting down", "timeout", cfg.HTTP.ShutdownTimeout.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Infow("server stopped")
	return nil
}
