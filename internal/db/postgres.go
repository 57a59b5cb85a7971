package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"sadhna-backend/internal/config"
	"sadhna-backend/internal/logger"
)

// Connect opens the pool and verifies it with a ping. Failure is fatal.
func Connect(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		logger.Default().Fatalf("[DB] invalid connection settings: %v", err)
	}
	poolCfg.MaxConns = 10

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Default().Fatalf("[DB] connect failed: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Default().Fatalf("[DB] ping failed: %v", err)
	}

	logger.Default().Infof("[DB] Connected to %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
	return pool
}
