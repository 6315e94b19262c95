// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"pharmos/internal/domain/orders"
	"pharmos/internal/infrastructure/http/v1/handlers"
	"pharmos/internal/infrastructure/http/v1/middleware"
	"pharmos/internal/infrastructure/storage/postgres"
	"pharmos/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// OrderService drives order creation and number generation
	OrderService *orders.Service

	// Audit exposes the allocation trail; nil disables the history endpoint
	Audit *postgres.AllocationAudit
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()
	numberHandler := handlers.NewNumberHandler(base, cfg.OrderService)
	orderHandler := handlers.NewOrderHandler(base, cfg.OrderService)

	// API v1
	api := router.Group("/api/v1")
	{
		api.POST("/orders", orderHandler.Create)
		api.GET("/orders/:type/by-number/:number", orderHandler.GetByNumber)

		api.POST("/orders/:type/number", numberHandler.Generate)
		api.POST("/orders/:type/number/unique", numberHandler.GenerateUnique)
		api.GET("/orders/:type/number/check", numberHandler.Check)

		if cfg.Audit != nil {
			auditHandler := handlers.NewAuditHandler(base, cfg.Audit)
			api.GET("/orders/:type/number/history", auditHandler.History)
		}
	}

	return router
}
