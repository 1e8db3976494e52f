// Package main is the entry point for the almox API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"almox/internal/core/clock"
	"almox/internal/domain/auth"
	"almox/internal/domain/movement"
	"almox/internal/domain/product"
	"almox/internal/domain/reports"
	"almox/internal/domain/supplier"
	v1 "almox/internal/infrastructure/http/v1"
	"almox/internal/infrastructure/storage/postgres"
	"almox/pkg/config"
	"almox/pkg/logger"
)

func main() {
	cfg, err := config.Load(getEnv("ALMOX_CONFIG", "config.yaml"))
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.App.Env == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting almox server")

	if cfg.Postgres.DSN == "" {
		log.Fatal("postgres DSN is required (ALMOX_POSTGRES_DSN or DATABASE_URL)")
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT secret is required (ALMOX_JWT_SECRET or JWT_SECRET)")
	}

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Postgres.DSN)
	if cfg.Postgres.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolCfg.MinConns = cfg.Postgres.MinConns
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	migrationsDir := getEnv("ALMOX_MIGRATIONS_DIR", "migrations")
	if err := postgres.Migrate(ctx, cfg.Postgres.DSN, migrationsDir); err != nil {
		log.Fatalw("failed to apply migrations", "error", err)
	}

	// --- Repositories ---
	txManager := postgres.NewTxManager(pool)
	productRepo := postgres.NewProductRepo(txManager)
	movementRepo := postgres.NewMovementRepo(txManager)
	supplierRepo := postgres.NewSupplierRepo(txManager)
	userRepo := postgres.NewUserRepo(txManager)
	reportRepo := postgres.NewReportRepo(txManager)

	auditStore, err := postgres.NewAuditStore(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit store", "error", err)
	}

	// --- Services ---
	jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
	jwtConfig.Issuer = cfg.JWT.Issuer
	jwtConfig.AccessTokenTTL = cfg.JWT.AccessTokenTTL
	jwtService := auth.NewJWTService(jwtConfig)

	authService := auth.NewService(userRepo, jwtService, auth.DefaultServiceConfig())
	productService := product.NewService(productRepo, txManager)
	supplierService := supplier.NewService(supplierRepo)
	reportService := reports.NewService(reportRepo, clock.System{})
	movementEngine := movement.NewEngine(movementRepo, productRepo, auditStore, txManager, clock.System{})

	// --- Router / HTTP server ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:            pool,
		Logger:          log,
		JWTValidator:    jwtService,
		AuthService:     authService,
		MovementEngine:  movementEngine,
		ProductService:  productService,
		SupplierService: supplierService,
		ReportService:   reportService,
		AuditStore:      auditStore,
		MetricsEnabled:  cfg.Metrics.Enabled,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
