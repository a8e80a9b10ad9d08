package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultAdminPassword is used when SEED_ADMIN_PASSWORD is unset. Development only.
const DefaultAdminPassword = "password123"

// Config aggregates all runtime settings.
type Config struct {
	App      AppConfig      `envPrefix:"SEED_"`
	Database DatabaseConfig `envPrefix:"SEED_DB_"`
	Redis    RedisConfig    `envPrefix:"SEED_REDIS_"`
	Security SecurityConfig `envPrefix:"SEED_SECURITY_"`
	Admin    AdminConfig    `envPrefix:"SEED_ADMIN_"`
	Content  ContentConfig  `envPrefix:"SEED_CONTENT_"`
}

// AppConfig holds process-level settings.
type AppConfig struct {
	Environment string `env:"ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"blog-seeder"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// DatabaseConfig selects the driver and tunes the connection pool.
type DatabaseConfig struct {
	Driver          string        `env:"DRIVER" envDefault:"sqlite"`
	URL             string        `env:"URL"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"2"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"30m"`
	RunMigrations   bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
}

// RedisConfig configures the optional run lock. An empty Addr disables it.
type RedisConfig struct {
	Addr      string        `env:"ADDR"`
	Password  string        `env:"PASSWORD"`
	DB        int           `env:"DB" envDefault:"0"`
	EnableTLS bool          `env:"ENABLE_TLS" envDefault:"false"`
	Namespace string        `env:"NAMESPACE" envDefault:"blog-seeder"`
	LockTTL   time.Duration `env:"LOCK_TTL" envDefault:"10m"`
}

// SecurityConfig holds the Argon2id parameters for the admin password.
type SecurityConfig struct {
	Argon2Time      uint32 `env:"ARGON2_TIME" envDefault:"3"`
	Argon2Memory    uint32 `env:"ARGON2_MEMORY" envDefault:"65536"`
	Argon2Threads   uint8  `env:"ARGON2_THREADS" envDefault:"2"`
	Argon2KeyLength uint32 `env:"ARGON2_KEY_LENGTH" envDefault:"32"`
	Argon2SaltLen   uint32 `env:"ARGON2_SALT_LENGTH" envDefault:"16"`
}

// AdminConfig describes the single user created by the seeder.
type AdminConfig struct {
	Username string `env:"USERNAME" envDefault:"admin"`
	Email    string `env:"EMAIL" envDefault:"admin@example.com"`
	Password string `env:"PASSWORD" envDefault:"password123"`
	RoleType string `env:"ROLE_TYPE" envDefault:"authenticated"`
	RoleName string `env:"ROLE_NAME" envDefault:"Authenticated"`
}

// ContentConfig controls the generated posts. A zero RandomSeed picks a
// random seed per run. Publish sets published_at on created posts.
type ContentConfig struct {
	Posts         int    `env:"POSTS" envDefault:"20"`
	RandomSeed    uint64 `env:"RANDOM_SEED" envDefault:"0"`
	MinCategories int    `env:"MIN_CATEGORIES" envDefault:"1"`
	MaxCategories int    `env:"MAX_CATEGORIES" envDefault:"2"`
	MinTags       int    `env:"MIN_TAGS" envDefault:"1"`
	MaxTags       int    `env:"MAX_TAGS" envDefault:"3"`
	MinRelated    int    `env:"MIN_RELATED" envDefault:"1"`
	MaxRelated    int    `env:"MAX_RELATED" envDefault:"3"`
	Publish       bool   `env:"PUBLISH" envDefault:"false"`
}

// Load parses environment variables into Config and performs validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints and fills driver-specific defaults.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("SEED_DB_URL is required for the postgres driver")
		}
	case DriverSQLite:
		if c.Database.URL == "" {
			c.Database.URL = "blog.db"
		}
	default:
		return fmt.Errorf("unsupported SEED_DB_DRIVER %q (want %s or %s)", c.Database.Driver, DriverPostgres, DriverSQLite)
	}

	if c.Admin.Email == "" || c.Admin.Username == "" {
		return errors.New("SEED_ADMIN_EMAIL and SEED_ADMIN_USERNAME must not be empty")
	}
	if c.Admin.RoleType == "" {
		return errors.New("SEED_ADMIN_ROLE_TYPE must not be empty")
	}
	if c.Content.Posts <= 0 {
		return fmt.Errorf("SEED_CONTENT_POSTS must be positive, got %d", c.Content.Posts)
	}

	ranges := []struct {
		name   string
		lo, hi int
	}{
		{"CATEGORIES", c.Content.MinCategories, c.Content.MaxCategories},
		{"TAGS", c.Content.MinTags, c.Content.MaxTags},
		{"RELATED", c.Content.MinRelated, c.Content.MaxRelated},
	}
	for _, r := range ranges {
		if r.lo < 0 || r.lo > r.hi {
			return fmt.Errorf("SEED_CONTENT_MIN_%s/MAX_%s: invalid range [%d, %d]", r.name, r.name, r.lo, r.hi)
		}
	}

	if c.Redis.Addr != "" && c.Redis.LockTTL <= 0 {
		return errors.New("SEED_REDIS_LOCK_TTL must be positive when SEED_REDIS_ADDR is set")
	}
	return nil
}
