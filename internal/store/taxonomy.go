package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// Category is a post category, unique by Slug.
type Category struct {
	ID          int64
	DocumentID  uuid.UUID
	Name        string
	Slug        string
	Description string
}

// CategoryInput is the staging shape for a new category.
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
}

// Tag is a post tag, unique by Slug.
type Tag struct {
	ID         int64
	DocumentID uuid.UUID
	Name       string
	Slug       string
}

// TagInput is the staging shape for a new tag.
type TagInput struct {
	Name string
	Slug string
}

var categoryColumns = []string{"id", "document_id", "name", "slug", "description"}

func scanCategory(row interface{ Scan(...any) error }) (*Category, error) {
	var c Category
	if err := row.Scan(&c.ID, &c.DocumentID, &c.Name, &c.Slug, &c.Description); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindCategoryBySlug returns ErrNotFound when no category has slug.
func (s *Store) FindCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	query, args := s.builder().Select(categoryColumns...).
		From(entsql.Table(tableCategories)).
		Where(entsql.EQ("slug", slug)).
		Limit(1).
		Query()
	c, err := scanCategory(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("find category %q: %w", slug, notFound(err))
	}
	return c, nil
}

// CreateCategory inserts a category. A duplicate slug fails on the unique index.
func (s *Store) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	now := s.now()
	docID := uuid.New()
	id, err := s.insert(ctx, s.db, s.builder().Insert(tableCategories).
		Columns("document_id", "name", "slug", "description", "created_at", "updated_at").
		Values(docID, in.Name, in.Slug, in.Description, now, now))
	if err != nil {
		return nil, fmt.Errorf("create category %q: %w", in.Slug, err)
	}
	return &Category{ID: id, DocumentID: docID, Name: in.Name, Slug: in.Slug, Description: in.Description}, nil
}

// ListCategories returns every category ordered by id.
func (s *Store) ListCategories(ctx context.Context) ([]*Category, error) {
	query, args := s.builder().Select(categoryColumns...).
		From(entsql.Table(tableCategories)).
		OrderBy("id").
		Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []*Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var tagColumns = []string{"id", "document_id", "name", "slug"}

func scanTag(row interface{ Scan(...any) error }) (*Tag, error) {
	var t Tag
	if err := row.Scan(&t.ID, &t.DocumentID, &t.Name, &t.Slug); err != nil {
		return nil, err
	}
	return &t, nil
}

// FindTagBySlug returns ErrNotFound when no tag has slug.
func (s *Store) FindTagBySlug(ctx context.Context, slug string) (*Tag, error) {
	query, args := s.builder().Select(tagColumns...).
		From(entsql.Table(tableTags)).
		Where(entsql.EQ("slug", slug)).
		Limit(1).
		Query()
	t, err := scanTag(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("find tag %q: %w", slug, notFound(err))
	}
	return t, nil
}

// CreateTag inserts a tag with a fresh document id.
func (s *Store) CreateTag(ctx context.Context, in TagInput) (*Tag, error) {
	now := s.now()
	docID := uuid.New()
	id, err := s.insert(ctx, s.db, s.builder().Insert(tableTags).
		Columns("document_id", "name", "slug", "created_at", "updated_at").
		Values(docID, in.Name, in.Slug, now, now))
	if err != nil {
		return nil, fmt.Errorf("create tag %q: %w", in.Slug, err)
	}
	return &Tag{ID: id, DocumentID: docID, Name: in.Name, Slug: in.Slug}, nil
}

// ListTags returns every tag ordered by id.
func (s *Store) ListTags(ctx context.Context) ([]*Tag, error) {
	query, args := s.builder().Select(tagColumns...).
		From(entsql.Table(tableTags)).
		OrderBy("id").
		Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var out []*Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
