package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// Post is a blog post, unique by Slug.
type Post struct {
	ID          int64
	DocumentID  uuid.UUID
	Title       string
	Slug        string
	Content     string
	Excerpt     string
	CategoryIDs []int64
	TagIDs      []int64
}

// PostInput is the staging shape for a new post and its taxonomy links.
type PostInput struct {
	Title       string
	Slug        string
	Content     string
	Excerpt     string
	CategoryIDs []int64
	TagIDs      []int64
	PublishedAt *time.Time
}

// PostLinks are the relation ids attached to one post.
type PostLinks struct {
	CategoryIDs []int64
	TagIDs      []int64
	RelatedIDs  []int64
}

var postColumns = []string{"id", "document_id", "title", "slug", "content", "excerpt"}

func scanPost(row interface{ Scan(...any) error }) (*Post, error) {
	var p Post
	if err := row.Scan(&p.ID, &p.DocumentID, &p.Title, &p.Slug, &p.Content, &p.Excerpt); err != nil {
		return nil, err
	}
	return &p, nil
}

// FindPostBySlug returns ErrNotFound when no post has slug. Links are not loaded.
func (s *Store) FindPostBySlug(ctx context.Context, slug string) (*Post, error) {
	query, args := s.builder().Select(postColumns...).
		From(entsql.Table(tablePosts)).
		Where(entsql.EQ("slug", slug)).
		Limit(1).
		Query()
	p, err := scanPost(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("find post %q: %w", slug, notFound(err))
	}
	return p, nil
}

// CreatePost inserts the post and its category and tag links in one
// transaction.
func (s *Store) CreatePost(ctx context.Context, in PostInput) (*Post, error) {
	now := s.now()
	docID := uuid.New()
	var publishedAt any
	if in.PublishedAt != nil {
		publishedAt = in.PublishedAt.UTC()
	}

	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.insert(ctx, tx, s.builder().Insert(tablePosts).
			Columns("document_id", "title", "slug", "content", "excerpt", "published_at", "created_at", "updated_at").
			Values(docID, in.Title, in.Slug, in.Content, in.Excerpt, publishedAt, now, now))
		if err != nil {
			return err
		}
		if err := s.link(ctx, tx, tablePostCategory, "category_id", id, in.CategoryIDs); err != nil {
			return fmt.Errorf("link categories: %w", err)
		}
		if err := s.link(ctx, tx, tablePostTag, "tag_id", id, in.TagIDs); err != nil {
			return fmt.Errorf("link tags: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create post %q: %w", in.Slug, err)
	}

	return &Post{
		ID:          id,
		DocumentID:  docID,
		Title:       in.Title,
		Slug:        in.Slug,
		Content:     in.Content,
		Excerpt:     in.Excerpt,
		CategoryIDs: append([]int64(nil), in.CategoryIDs...),
		TagIDs:      append([]int64(nil), in.TagIDs...),
	}, nil
}

func (s *Store) link(ctx context.Context, q querier, table, column string, postID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	ib := s.builder().Insert(table).Columns("post_id", column)
	for _, id := range ids {
		ib.Values(postID, id)
	}
	return s.exec(ctx, q, ib)
}

// SetRelatedPosts replaces the related-post set of postID with related, in
// the given order.
func (s *Store) SetRelatedPosts(ctx context.Context, postID int64, related []int64) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.exec(ctx, tx, s.builder().Delete(tablePostRelated).Where(entsql.EQ("post_id", postID))); err != nil {
			return err
		}
		if len(related) == 0 {
			return s.touchPost(ctx, tx, postID)
		}
		ib := s.builder().Insert(tablePostRelated).Columns("post_id", "related_post_id", "position")
		for i, id := range related {
			ib.Values(postID, id, i)
		}
		if err := s.exec(ctx, tx, ib); err != nil {
			return err
		}
		return s.touchPost(ctx, tx, postID)
	})
	if err != nil {
		return fmt.Errorf("set related posts of %d: %w", postID, err)
	}
	return nil
}

func (s *Store) touchPost(ctx context.Context, q querier, postID int64) error {
	ub := s.builder().Update(tablePosts).Set("updated_at", s.now()).Where(entsql.EQ("id", postID))
	if err := s.exec(ctx, q, ub); err != nil {
		return fmt.Errorf("touch post %d: %w", postID, err)
	}
	return nil
}

// ListPosts returns every post ordered by id, without links. The seeder
// does not read posts back; this is for verifying a seeded database.
func (s *Store) ListPosts(ctx context.Context) ([]*Post, error) {
	query, args := s.builder().Select(postColumns...).
		From(entsql.Table(tablePosts)).
		OrderBy("id").
		Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var out []*Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListPostLinks returns the category, tag and related-post ids of every post
// that has at least one link, keyed by post id.
func (s *Store) ListPostLinks(ctx context.Context) (map[int64]*PostLinks, error) {
	out := make(map[int64]*PostLinks)
	get := func(id int64) *PostLinks {
		l, ok := out[id]
		if !ok {
			l = &PostLinks{}
			out[id] = l
		}
		return l
	}

	sources := []struct {
		table, column, order string
		add                  func(l *PostLinks, id int64)
	}{
		{tablePostCategory, "category_id", "category_id", func(l *PostLinks, id int64) { l.CategoryIDs = append(l.CategoryIDs, id) }},
		{tablePostTag, "tag_id", "tag_id", func(l *PostLinks, id int64) { l.TagIDs = append(l.TagIDs, id) }},
		{tablePostRelated, "related_post_id", "position", func(l *PostLinks, id int64) { l.RelatedIDs = append(l.RelatedIDs, id) }},
	}
	for _, src := range sources {
		if err := s.scanLinks(ctx, src.table, src.column, src.order, func(postID, id int64) {
			src.add(get(postID), id)
		}); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) scanLinks(ctx context.Context, table, column, order string, fn func(postID, id int64)) error {
	query, args := s.builder().Select("post_id", column).
		From(entsql.Table(table)).
		OrderBy("post_id", order).
		Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID, id int64
		if err := rows.Scan(&postID, &id); err != nil {
			return fmt.Errorf("scan %s: %w", table, err)
		}
		fn(postID, id)
	}
	return rows.Err()
}
