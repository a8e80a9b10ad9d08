package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// duplicateDatabase is the Postgres SQLSTATE for CREATE DATABASE on an
// existing name.
const duplicateDatabase = "42P04"

func main() {
	_ = godotenv.Load()

	dbURL := os.Getenv("SEED_DB_URL")
	if dbURL == "" {
		log.Fatal("SEED_DB_URL is required")
	}

	parsed, err := url.Parse(dbURL)
	if err != nil {
		log.Fatalf("failed to parse DB URL: %v", err)
	}

	dbName, err := url.PathUnescape(strings.TrimPrefix(parsed.Path, "/"))
	if err != nil {
		log.Fatalf("failed to unescape database name: %v", err)
	}
	if dbName == "" {
		log.Fatal("no database name in URL")
	}

	// Same server and credentials, maintenance database.
	admin := *parsed
	admin.Path = "/postgres"
	db, err := sql.Open("pgx", admin.String())
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping postgres: %v", err)
	}

	query := "CREATE DATABASE " + pgx.Identifier{dbName}.Sanitize()
	if _, err := db.ExecContext(ctx, query); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == duplicateDatabase {
			fmt.Printf("✓ Database '%s' already exists\n", dbName)
			return
		}
		log.Fatalf("failed to create database: %v", err)
	}

	fmt.Printf("✓ Database '%s' created successfully\n", dbName)
}
