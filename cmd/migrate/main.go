package main

import (
	"context"
	"log"

	"github.com/fieldops/scheduler/internal/app"
	"github.com/fieldops/scheduler/internal/config"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx := context.Background()

	pool, err := app.NewPool(ctx, cfg.DBDSN, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	version, err := migrator.Version(ctx)
	if err != nil {
		logger.Fatal("Failed to read migration version", zap.Error(err))
	}

	logger.Info("Database schema up to date", zap.Int64("version", version))
}
