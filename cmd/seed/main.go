// Package main provides a CLI tool for preparing the database: it applies
// the schema, optionally loads demo orders, and aligns the day-counters
// with any records that already exist.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"pharmos/internal/core/id"
	"pharmos/internal/core/numbering"
	"pharmos/internal/core/types"
	"pharmos/internal/infrastructure/storage/postgres"
	"pharmos/pkg/logger"
)

var orderTypes = []numbering.OrderType{
	numbering.OrderTypePurchase,
	numbering.OrderTypeShipping,
	numbering.OrderTypeSale,
}

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := applySchema(ctx, pool); err != nil {
		log.Fatalw("failed to apply schema", "error", err)
	}
	log.Info("schema applied")

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoOrders(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo orders", "error", err)
		}
	}

	if err := seedCounters(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed counters", "error", err)
	}

	log.Info("seeding completed successfully")
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS purchase_orders (
		id UUID PRIMARY KEY,
		poid TEXT NOT NULL UNIQUE,
		counterparty TEXT NOT NULL,
		order_date DATE NOT NULL,
		total NUMERIC(18,2) NOT NULL DEFAULT 0,
		note TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS shipping_orders (
		id UUID PRIMARY KEY,
		soid TEXT NOT NULL UNIQUE,
		counterparty TEXT NOT NULL,
		order_date DATE NOT NULL,
		total NUMERIC(18,2) NOT NULL DEFAULT 0,
		note TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id UUID PRIMARY KEY,
		sale_number TEXT NOT NULL UNIQUE,
		counterparty TEXT NOT NULL,
		order_date DATE NOT NULL,
		total NUMERIC(18,2) NOT NULL DEFAULT 0,
		note TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_counters (
		key TEXT PRIMARY KEY,
		current_val BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS number_audit (
		id UUID PRIMARY KEY,
		order_type TEXT NOT NULL,
		number TEXT NOT NULL,
		source TEXT NOT NULL,
		order_id UUID,
		payload JSONB,
		payload_compressed BYTEA,
		compression_algo TEXT NOT NULL DEFAULT 'none',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_number_audit_order_type
		ON number_audit (order_type, created_at DESC)`,
}

func applySchema(ctx context.Context, pool *postgres.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("exec schema statement: %w", err)
		}
	}
	return nil
}

func seedDemoOrders(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	today := time.Now().UTC()

	for _, t := range orderTypes {
		cfg := t.DefaultConfig()
		prefix := numbering.DatePrefix(today, cfg)

		for i := 0; i < 3; i++ {
			number := prefix + numbering.FormatSequence(cfg.Start+i, cfg.Digits)

			sql := fmt.Sprintf(`
				INSERT INTO %s (id, %s, counterparty, order_date, total, note)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (%s) DO NOTHING
			`, t.Table(), t.Field(), t.Field())

			_, err := pool.Pool.Exec(ctx, sql,
				id.New(),
				number,
				fmt.Sprintf("Demo Counterparty %d", i+1),
				today,
				types.MustMoney("100.00"),
				"seeded demo order",
			)
			if err != nil {
				return fmt.Errorf("insert demo %s order: %w", t, err)
			}
		}

		log.Infow("demo orders seeded", "order_type", t.String(), "count", 3)
	}

	return nil
}

// seedCounters aligns the atomic day-counters with whatever records exist,
// so the counter strategy continues exactly where scan-based numbering
// left off.
func seedCounters(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	txManager := postgres.NewTxManager(pool)
	store := postgres.NewOrderStore(txManager)

	router, err := numbering.NewRouter(store, nil)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, t := range orderTypes {
		if err := router.SeedCounter(ctx, t, now); err != nil {
			return fmt.Errorf("seed counter for %s: %w", t, err)
		}
		log.Infow("counter seeded", "order_type", t.String())
	}

	return nil
}
