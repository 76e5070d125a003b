// Package main is the entry point for the stockpilot API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockpilot/internal/config"
	"stockpilot/internal/domain/ledger"
	"stockpilot/internal/domain/reconciliation"
	"stockpilot/internal/domain/reports"
	v1 "stockpilot/internal/infrastructure/http/v1"
	"stockpilot/internal/infrastructure/storage/postgres"
	"stockpilot/internal/infrastructure/storage/postgres/ledger_repo"
	"stockpilot/internal/infrastructure/storage/postgres/product_repo"
	"stockpilot/internal/infrastructure/storage/postgres/reconciliation_repo"
	"stockpilot/internal/infrastructure/storage/postgres/report_repo"
	"stockpilot/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting stockpilot server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.ConnectionString())
	poolCfg.MaxConns = cfg.DB.MaxConns
	poolCfg.MinConns = cfg.DB.MinConns
	poolCfg.MaxConnLifetime = cfg.DB.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.DB.MaxConnIdleTime

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	auditRepo, err := postgres.NewAuditRepo(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit repository", "error", err)
	}
	productRepo := product_repo.NewProductRepo(txManager)
	movementRepo := ledger_repo.NewMovementRepo(txManager)
	reconciliationRepo := reconciliation_repo.NewReconciliationRepo(txManager)
	reportRepo := report_repo.NewReportRepo(txManager)

	// --- Services ---
	ledgerService := ledger.NewService(productRepo, movementRepo, auditRepo, txManager)
	reconciliationService := reconciliation.NewService(reconciliationRepo, productRepo, ledgerService, auditRepo, txManager)
	reportsService := reports.NewService(reportRepo, txManager)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:                  pool,
		Logger:                log,
		Development:           cfg.App.IsDevelopment(),
		LedgerService:         ledgerService,
		ReconciliationService: reconciliationService,
		ReportsService:        reportsService,
		AuditTrail:            auditRepo,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", cfg.HTTP.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
