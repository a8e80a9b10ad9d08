package audit

import (
	"context"
	"time"

	"github.com/bengobox/blog-seeder/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Run statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Entry is the outcome of one seeding run.
type Entry struct {
	RunID          uuid.UUID
	Status         string
	Err            error
	Categories     int
	Tags           int
	UsersCreated   int
	PostsRequested int
	PostsCreated   int
	RelatedLinks   int
	StartedAt      time.Time
	FinishedAt     time.Time
}

// Recorder persists run history.
type Recorder interface {
	InsertSeedRun(ctx context.Context, run store.SeedRun) error
	ListSeedRuns(ctx context.Context, limit int) ([]store.SeedRun, error)
}

// Logger writes run entries into the database.
type Logger struct {
	runs   Recorder
	logger *zap.Logger
}

// New constructs a Logger.
func New(runs Recorder, logger *zap.Logger) *Logger {
	return &Logger{runs: runs, logger: logger}
}

// Record persists an entry, logging failures but not interrupting the run.
func (l *Logger) Record(ctx context.Context, entry Entry) {
	if entry.RunID == uuid.Nil {
		return
	}
	status := entry.Status
	if status == "" {
		status = StatusSucceeded
		if entry.Err != nil {
			status = StatusFailed
		}
	}
	var msg string
	if entry.Err != nil {
		msg = entry.Err.Error()
	}

	run := store.SeedRun{
		ID:             entry.RunID,
		Status:         status,
		Error:          msg,
		Categories:     entry.Categories,
		Tags:           entry.Tags,
		UsersCreated:   entry.UsersCreated,
		PostsRequested: entry.PostsRequested,
		PostsCreated:   entry.PostsCreated,
		RelatedLinks:   entry.RelatedLinks,
		StartedAt:      timeOrDefault(entry.StartedAt),
		FinishedAt:     timeOrDefault(entry.FinishedAt),
	}
	if err := l.runs.InsertSeedRun(ctx, run); err != nil {
		l.logger.Warn("failed to persist seed run", zap.String("run_id", entry.RunID.String()), zap.Error(err))
	}
}

// ListRecent retrieves most recent runs for debugging/ops.
func (l *Logger) ListRecent(ctx context.Context, limit int) ([]store.SeedRun, error) {
	if limit <= 0 {
		limit = 50
	}
	return l.runs.ListSeedRuns(ctx, limit)
}

func timeOrDefault(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
