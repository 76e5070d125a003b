// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockpilot/internal/domain/ledger"
	"stockpilot/internal/domain/reconciliation"
	"stockpilot/internal/domain/reports"
	"stockpilot/internal/infrastructure/http/v1/handlers"
	"stockpilot/internal/infrastructure/http/v1/middleware"
	"stockpilot/internal/infrastructure/storage/postgres"
	"stockpilot/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// Development enables gin debug mode
	Development bool

	LedgerService         *ledger.Service
	ReconciliationService *reconciliation.Service
	ReportsService        *reports.Service
	AuditTrail            handlers.AuditTrail
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no caller identity required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	api := router.Group("/api/v1")
	api.Use(middleware.UserContext())

	baseHandler := handlers.NewBaseHandler()

	// Stock ledger operations. Mutations require an attributable caller.
	{
		handler := handlers.NewStockHandler(baseHandler, cfg.LedgerService)
		products := api.Group("/products")
		products.Use(middleware.RequireUser())
		handler.RegisterRoutes(products)
	}

	// Reconciliation workflow.
	{
		handler := handlers.NewReconciliationHandler(baseHandler, cfg.ReconciliationService)
		reconciliations := api.Group("/reconciliations")
		reconciliations.Use(middleware.RequireUser())
		handler.RegisterRoutes(reconciliations)
	}

	// Read-only reports.
	{
		handler := handlers.NewReportsHandler(baseHandler, cfg.ReportsService, cfg.AuditTrail)
		handler.RegisterRoutes(api.Group("/reports"))
	}

	return router
}
