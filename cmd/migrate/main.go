package main

import (
	"context"
	"log"

	"github.com/bengobox/blog-seeder/internal/config"
	"github.com/bengobox/blog-seeder/internal/database"
	"github.com/bengobox/blog-seeder/internal/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zapLogger, err := logger.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck // best effort

	ctx := context.Background()
	drv, err := database.Open(ctx, cfg.Database)
	if err != nil {
		zapLogger.Fatal("db", logger.ZapError(err))
	}
	defer drv.Close()

	if err := database.Migrate(ctx, drv); err != nil {
		zapLogger.Fatal("migrate", logger.ZapError(err))
	}
	version, err := database.Version(ctx, drv)
	if err != nil {
		zapLogger.Fatal("schema version", logger.ZapError(err))
	}
	zapLogger.Info("migrations completed", zap.String("driver", cfg.Database.Driver), zap.Int("version", version))
}
