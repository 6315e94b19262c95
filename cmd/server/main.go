// Package main is the entry point for the Pharmos order API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pharmos/internal/core/numbering"
	"pharmos/internal/domain/orders"
	v1 "pharmos/internal/infrastructure/http/v1"
	"pharmos/internal/infrastructure/storage/postgres"
	"pharmos/internal/infrastructure/storage/postgres/order_repo"
	"pharmos/pkg/logger"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting pharmos server")

	// --- Database connection ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	// Periodic pool stats logging
	if interval := getEnvDuration("DB_STATS_INTERVAL", 5*time.Minute); interval > 0 {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for range ticker.C {
				postgres.LogPoolStats(ctx, pool.Unwrap())
			}
		}()
	}

	txManager := postgres.NewTxManager(pool)

	// --- Number allocation ---
	store := postgres.NewOrderStore(txManager)

	numberOpts := numbering.DefaultRouterOptions()
	if getEnv("NUMBERING_STRATEGY", "counter") == "scan" {
		numberOpts.Strategy = numbering.StrategyScan
	}
	if attempts := getEnvInt("NUMBERING_MAX_UNIQUE_ATTEMPTS", 0); attempts > 0 {
		numberOpts.MaxUniqueAttempts = attempts
	}

	numberRouter, err := numbering.NewRouter(store, numberOpts)
	if err != nil {
		log.Fatalw("failed to initialize number router", "error", err)
	}

	// --- Allocation audit trail ---
	var audit *postgres.AllocationAudit
	var recorder orders.AllocationRecorder
	if getEnv("NUMBER_AUDIT_ENABLED", "true") == "true" {
		audit, err = postgres.NewAllocationAudit(txManager)
		if err != nil {
			log.Fatalw("failed to initialize allocation audit", "error", err)
		}
		recorder = audit
	}

	// --- Order service ---
	orderRepo := order_repo.NewOrderRepo(txManager)
	orderService := orders.NewService(orderRepo, numberRouter, recorder, txManager)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:         pool,
		Logger:       log,
		OrderService: orderService,
		Audit:        audit,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
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

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
