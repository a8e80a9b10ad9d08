package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/bengobox/blog-seeder/internal/app"
	"github.com/bengobox/blog-seeder/internal/config"
	"github.com/bengobox/blog-seeder/internal/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// blog-seed populates the content schema with sample categories, tags, an
// admin user and generated posts. Safe to run repeatedly.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck // best effort

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to bootstrap application", logger.ZapError(err))
	}

	summary, err := application.Run(ctx)
	_ = application.Close()
	if err != nil {
		zapLogger.Fatal("seeding failed", zap.String("run_id", summary.RunID.String()), logger.ZapError(err))
	}

	zapLogger.Info("✅ seeded posts with categories, tags, and related posts",
		zap.String("run_id", summary.RunID.String()),
		zap.Int("categories", summary.Categories),
		zap.Int("tags", summary.Tags),
		zap.Int("users_created", summary.UsersCreated),
		zap.Int("posts_requested", summary.PostsRequested),
		zap.Int("posts_created", summary.PostsCreated),
		zap.Int("related_links", summary.RelatedLinks),
	)
}
