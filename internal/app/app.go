package app

import (
	"context"
	"errors"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/bengobox/blog-seeder/internal/audit"
	"github.com/bengobox/blog-seeder/internal/cache"
	"github.com/bengobox/blog-seeder/internal/config"
	"github.com/bengobox/blog-seeder/internal/database"
	"github.com/bengobox/blog-seeder/internal/generator"
	"github.com/bengobox/blog-seeder/internal/lock"
	"github.com/bengobox/blog-seeder/internal/password"
	"github.com/bengobox/blog-seeder/internal/seeding"
	"github.com/bengobox/blog-seeder/internal/store"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App wires core dependencies and exposes the seeding lifecycle.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	driver *entsql.Driver
	redis  *redis.Client
	seeder *seeding.Seeder
}

// New constructs the application. The Redis run lock is only used when
// SEED_REDIS_ADDR is set.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	drv, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if cfg.Database.RunMigrations {
		if err := database.Migrate(ctx, drv); err != nil {
			_ = drv.Close()
			return nil, err
		}
		logger.Info("migrations completed")
	}

	a := &App{cfg: cfg, logger: logger, driver: drv}

	var locker lock.Locker = lock.Noop{}
	if cfg.Redis.Addr != "" {
		a.redis, err = cache.New(ctx, cfg.Redis)
		if err != nil {
			_ = drv.Close()
			return nil, err
		}
		locker = lock.NewRedis(a.redis, cfg.Redis.Namespace, cfg.Redis.LockTTL)
	}

	if cfg.Admin.Password == config.DefaultAdminPassword {
		logger.Warn("using default admin password - set SEED_ADMIN_PASSWORD in production")
	}

	st := store.New(drv)
	a.seeder = seeding.New(seeding.Dependencies{
		Store:     st,
		Hasher:    password.NewHasher(cfg.Security),
		Generator: generator.New(cfg.Content.RandomSeed),
		Locker:    locker,
		Auditor:   audit.New(st, logger),
		Logger:    logger,
		Admin:     cfg.Admin,
		Content:   cfg.Content,
	})
	return a, nil
}

// Run executes one seeding run.
func (a *App) Run(ctx context.Context) (seeding.Summary, error) {
	return a.seeder.Run(ctx)
}

// Close releases the database and Redis connections.
func (a *App) Close() error {
	var errs []error
	if err := a.driver.Close(); err != nil {
		a.logger.Warn("failed to close database", zap.Error(err))
		errs = append(errs, err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis client", zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
