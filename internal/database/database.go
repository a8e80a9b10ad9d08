package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/bengobox/blog-seeder/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	_ "modernc.org/sqlite"             // register sqlite driver
)

// Open connects to the configured database and wraps it in an Ent SQL
// driver so callers build dialect-correct queries.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*entsql.Driver, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg)
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig) (*entsql.Driver, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return entsql.OpenDB(dialect.Postgres, db), nil
}

// OpenSQLite opens a SQLite database at dsn with foreign keys enforced,
// WAL journaling and a 5s busy timeout. ":memory:" is accepted.
func OpenSQLite(ctx context.Context, dsn string) (*entsql.Driver, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One connection: in-memory databases are per connection, and SQLite
	// serialises writers anyway.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}
	return entsql.OpenDB(dialect.SQLite, db), nil
}

// Migrate applies pending schema migrations for the driver's dialect. Each
// version runs in its own transaction and is recorded in schema_migrations.
func Migrate(ctx context.Context, drv *entsql.Driver) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	steps, ok := migrations[drv.Dialect()]
	if !ok {
		return fmt.Errorf("no migrations for dialect %q", drv.Dialect())
	}
	db := drv.DB()

	if _, err := db.ExecContext(ctx, createMigrationsTable[drv.Dialect()]); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	b := entsql.Dialect(drv.Dialect())
	for i, stmts := range steps {
		version := i + 1

		query, args := b.Select(entsql.Count("*")).
			From(entsql.Table("schema_migrations")).
			Where(entsql.EQ("version", version)).
			Query()
		var exists int
		if err := db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
			return fmt.Errorf("check migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", version, err)
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d: %w", version, err)
			}
		}

		query, args = b.Insert("schema_migrations").
			Columns("version", "applied_at").
			Values(version, time.Now().UTC()).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", version, err)
		}
	}
	return nil
}

// Version reports the highest applied migration, or 0 on a fresh database.
func Version(ctx context.Context, drv *entsql.Driver) (int, error) {
	query, args := entsql.Dialect(drv.Dialect()).
		Select("COALESCE(MAX(version), 0)").
		From(entsql.Table("schema_migrations")).
		Query()
	var v int
	if err := drv.DB().QueryRowContext(ctx, query, args...).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}
