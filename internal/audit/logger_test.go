package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bengobox/blog-seeder/internal/audit"
	"github.com/bengobox/blog-seeder/internal/store"
	"github.com/bengobox/blog-seeder/internal/testhelpers"
	"github.com/google/uuid"
)

func TestRecordAndListRecent(t *testing.T) {
	ctx := context.Background()
	st := store.New(testhelpers.NewMigratedDB(t))
	l := audit.New(st, testhelpers.NewLogger(t))

	start := time.Now().UTC().Add(-time.Minute)
	ok := uuid.New()
	l.Record(ctx, audit.Entry{RunID: ok, PostsCreated: 20, StartedAt: start, FinishedAt: start.Add(time.Second)})
	bad := uuid.New()
	l.Record(ctx, audit.Entry{RunID: bad, Err: errors.New("boom"), StartedAt: start.Add(time.Second)})

	runs, err := l.ListRecent(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != bad || runs[0].Status != audit.StatusFailed || runs[0].Error != "boom" {
		t.Errorf("latest run = %+v", runs[0])
	}
	if runs[1].ID != ok || runs[1].Status != audit.StatusSucceeded || runs[1].PostsCreated != 20 {
		t.Errorf("older run = %+v", runs[1])
	}
}

func TestRecordSkipsEntriesWithoutRunID(t *testing.T) {
	ctx := context.Background()
	st := store.New(testhelpers.NewMigratedDB(t))
	l := audit.New(st, testhelpers.NewLogger(t))

	l.Record(ctx, audit.Entry{Status: audit.StatusSucceeded})

	runs, err := l.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("got %d runs, want 0", len(runs))
	}
}

type brokenRecorder struct{}

func (brokenRecorder) InsertSeedRun(context.Context, store.SeedRun) error {
	return errors.New("db down")
}

func (brokenRecorder) ListSeedRuns(context.Context, int) ([]store.SeedRun, error) {
	return nil, nil
}

func TestRecordSwallowsStoreErrors(t *testing.T) {
	l := audit.New(brokenRecorder{}, testhelpers.NewLogger(t))
	// Must not panic or block.
	l.Record(context.Background(), audit.Entry{RunID: uuid.New()})
}
