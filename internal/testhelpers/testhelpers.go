package testhelpers

import (
	"context"
	"testing"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/bengobox/blog-seeder/internal/database"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// NewTestDB returns an in-memory SQLite database configured the same way as
// production. The database is automatically closed when the test completes.
func NewTestDB(t *testing.T) *entsql.Driver {
	t.Helper()

	drv, err := database.OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	t.Cleanup(func() {
		_ = drv.Close()
	})

	return drv
}

// NewMigratedDB is NewTestDB with all migrations applied.
func NewMigratedDB(t *testing.T) *entsql.Driver {
	t.Helper()

	drv := NewTestDB(t)
	if err := database.Migrate(context.Background(), drv); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return drv
}

// NewLogger returns a logger that writes through t.Log.
func NewLogger(t *testing.T) *zap.Logger {
	t.Helper()
	return zaptest.NewLogger(t)
}
