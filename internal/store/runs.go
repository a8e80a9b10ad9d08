package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// SeedRun is one row of run history.
type SeedRun struct {
	ID             uuid.UUID
	Status         string
	Error          string
	Categories     int
	Tags           int
	UsersCreated   int
	PostsRequested int
	PostsCreated   int
	RelatedLinks   int
	StartedAt      time.Time
	FinishedAt     time.Time
}

// InsertSeedRun stores the outcome of one run.
func (s *Store) InsertSeedRun(ctx context.Context, run SeedRun) error {
	ib := s.builder().Insert(tableSeedRuns).
		Columns("id", "status", "error", "categories", "tags", "users_created",
			"posts_requested", "posts_created", "related_links", "started_at", "finished_at").
		Values(run.ID, run.Status, run.Error, run.Categories, run.Tags, run.UsersCreated,
			run.PostsRequested, run.PostsCreated, run.RelatedLinks, run.StartedAt.UTC(), run.FinishedAt.UTC())
	if err := s.exec(ctx, s.db, ib); err != nil {
		return fmt.Errorf("insert seed run %s: %w", run.ID, err)
	}
	return nil
}

// ListSeedRuns returns up to limit runs, most recent first.
func (s *Store) ListSeedRuns(ctx context.Context, limit int) ([]SeedRun, error) {
	query, args := s.builder().
		Select("id", "status", "error", "categories", "tags", "users_created",
			"posts_requested", "posts_created", "related_links", "started_at", "finished_at").
		From(entsql.Table(tableSeedRuns)).
		OrderBy(entsql.Desc("started_at")).
		Limit(limit).
		Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list seed runs: %w", err)
	}
	defer rows.Close()

	var out []SeedRun
	for rows.Next() {
		var r SeedRun
		if err := rows.Scan(&r.ID, &r.Status, &r.Error, &r.Categories, &r.Tags, &r.UsersCreated,
			&r.PostsRequested, &r.PostsCreated, &r.RelatedLinks, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan seed run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
