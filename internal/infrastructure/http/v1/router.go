// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"almox/internal/domain/auth"
	"almox/internal/domain/movement"
	"almox/internal/domain/product"
	"almox/internal/domain/reports"
	"almox/internal/domain/supplier"
	"almox/internal/infrastructure/http/v1/handlers"
	"almox/internal/infrastructure/http/v1/middleware"
	"almox/internal/infrastructure/storage/postgres"
	"almox/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Pool *postgres.Pool

	Logger *logger.Logger

	JWTValidator middleware.JWTValidator

	AuthService     *auth.Service
	MovementEngine  *movement.Engine
	ProductService  *product.Service
	SupplierService *supplier.Service
	ReportService   *reports.Service
	AuditStore      *postgres.AuditStore

	// MetricsEnabled exposes /metrics
	MetricsEnabled bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	base := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/auth/login", authHandler.Login)
		apiV1.POST("/auth/register", authHandler.Register)

		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		protected.GET("/auth/me", authHandler.Me)

		movementHandler := handlers.NewMovementHandler(base, cfg.MovementEngine, cfg.AuditStore)
		movementHandler.RegisterRoutes(protected.Group("/movements"))

		productHandler := handlers.NewProductHandler(base, cfg.ProductService)
		productHandler.RegisterRoutes(protected.Group("/products"))

		supplierHandler := handlers.NewSupplierHandler(base, cfg.SupplierService)
		supplierHandler.RegisterRoutes(protected.Group("/suppliers"))

		reportHandler := handlers.NewReportHandler(base, cfg.ReportService)
		reportHandler.RegisterRoutes(protected.Group("/reports"))
	}

	return router
}
