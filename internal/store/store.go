// Package store is the query layer over the content tables: find by natural
// key, create, update, and a few read helpers for verification.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// ErrNotFound is returned when a lookup by natural key matches no row.
var ErrNotFound = errors.New("record not found")

// Table names.
const (
	tableCategories   = "categories"
	tableTags         = "tags"
	tableRoles        = "up_roles"
	tableUsers        = "up_users"
	tablePosts        = "posts"
	tablePostCategory = "posts_categories_lnk"
	tablePostTag      = "posts_tags_lnk"
	tablePostRelated  = "posts_related_posts_lnk"
	tableSeedRuns     = "seed_runs"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store issues dialect-aware queries against the content schema.
type Store struct {
	db      *sql.DB
	dialect string
	now     func() time.Time
}

// New wraps an Ent SQL driver.
func New(drv *entsql.Driver) *Store {
	return &Store{
		db:      drv.DB(),
		dialect: drv.Dialect(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.dialect)
}

// insert executes ib and returns the generated id. Postgres has no
// LastInsertId, so it goes through RETURNING.
func (s *Store) insert(ctx context.Context, q querier, ib *entsql.InsertBuilder) (int64, error) {
	if s.dialect == dialect.Postgres {
		query, args := ib.Returning("id").Query()
		var id int64
		if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	query, args := ib.Query()
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) exec(ctx context.Context, q querier, b entsql.Querier) error {
	query, args := b.Query()
	_, err := q.ExecContext(ctx, query, args...)
	return err
}

// withTx runs fn inside a transaction, rolling back on error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) count(ctx context.Context, table string) (int, error) {
	query, args := s.builder().Select(entsql.Count("*")).From(entsql.Table(table)).Query()
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// Counts holds row totals for the seeded collections.
type Counts struct {
	Categories int
	Tags       int
	Users      int
	Posts      int
}

// Counts returns row totals for categories, tags, users and posts.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var (
		c   Counts
		err error
	)
	if c.Categories, err = s.count(ctx, tableCategories); err != nil {
		return Counts{}, err
	}
	if c.Tags, err = s.count(ctx, tableTags); err != nil {
		return Counts{}, err
	}
	if c.Users, err = s.count(ctx, tableUsers); err != nil {
		return Counts{}, err
	}
	if c.Posts, err = s.count(ctx, tablePosts); err != nil {
		return Counts{}, err
	}
	return c, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
