package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bengobox/blog-seeder/internal/app"
	"github.com/bengobox/blog-seeder/internal/config"
	"github.com/bengobox/blog-seeder/internal/testhelpers"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("SEED_DB_URL", filepath.Join(t.TempDir(), "blog.db"))
	t.Setenv("SEED_CONTENT_POSTS", "4")
	t.Setenv("SEED_CONTENT_RANDOM_SEED", "7")
	// Keep hashing cheap in tests.
	t.Setenv("SEED_SECURITY_ARGON2_MEMORY", "1024")
	t.Setenv("SEED_SECURITY_ARGON2_TIME", "1")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func TestRunAgainstSQLiteFile(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := app.New(ctx, cfg, testhelpers.NewLogger(t))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	sum, err := a.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Categories != 3 || sum.Tags != 5 || sum.UsersCreated != 1 || sum.PostsCreated != 4 {
		t.Errorf("unexpected summary: %+v", sum)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopen the same file: same seed, nothing new.
	a, err = app.New(ctx, cfg, testhelpers.NewLogger(t))
	if err != nil {
		t.Fatalf("reopen app: %v", err)
	}
	defer a.Close()
	sum, err = a.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if sum.UsersCreated != 0 || sum.PostsCreated != 0 || sum.RelatedLinks != 0 {
		t.Errorf("second run created rows: %+v", sum)
	}
}
