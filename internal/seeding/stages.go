package seeding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bengobox/blog-seeder/internal/store"
	"go.uber.org/zap"
)

// ErrSlugExhausted is returned when the generator keeps producing slugs that
// are already in the batch.
var ErrSlugExhausted = errors.New("could not generate a unique post slug")

const maxSlugAttempts = 20

// DefaultCategories are the categories every run ensures.
var DefaultCategories = []store.CategoryInput{
	{Name: "Tech", Slug: "tech", Description: "Technology articles"},
	{Name: "Lifestyle", Slug: "lifestyle", Description: "Lifestyle posts"},
	{Name: "Tutorial", Slug: "tutorial", Description: "Tutorials and guides"},
}

// DefaultTags are the tag names every run ensures. The slug is the
// lowercased name, punctuation included.
var DefaultTags = []string{"JavaScript", "Next.js", "Productivity", "React", "Node.js"}

// TagSlug derives a tag's natural key from its name.
func TagSlug(name string) string {
	return strings.ToLower(name)
}

// SeedCategories ensures DefaultCategories exist and returns every category
// in the store, seeded or not.
func (s *Seeder) SeedCategories(ctx context.Context) ([]*store.Category, error) {
	for _, in := range DefaultCategories {
		c, created, err := findOrCreate(ctx,
			func(ctx context.Context) (*store.Category, error) { return s.store.FindCategoryBySlug(ctx, in.Slug) },
			func(ctx context.Context) (*store.Category, error) { return s.store.CreateCategory(ctx, in) },
		)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("category ensured", zap.String("slug", c.Slug), zap.Int64("id", c.ID), zap.Bool("created", created))
	}
	return s.store.ListCategories(ctx)
}

// SeedTags ensures DefaultTags exist and returns every tag in the store.
func (s *Seeder) SeedTags(ctx context.Context) ([]*store.Tag, error) {
	for _, name := range DefaultTags {
		in := store.TagInput{Name: name, Slug: TagSlug(name)}
		t, created, err := findOrCreate(ctx,
			func(ctx context.Context) (*store.Tag, error) { return s.store.FindTagBySlug(ctx, in.Slug) },
			func(ctx context.Context) (*store.Tag, error) { return s.store.CreateTag(ctx, in) },
		)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("tag ensured", zap.String("slug", t.Slug), zap.Int64("id", t.ID), zap.Bool("created", created))
	}
	return s.store.ListTags(ctx)
}

// SeedUsers ensures the admin role and user exist. The role is matched by
// type, the user by email. It returns the number of users created.
func (s *Seeder) SeedUsers(ctx context.Context) (int, error) {
	role, _, err := findOrCreate(ctx,
		func(ctx context.Context) (*store.Role, error) { return s.store.FindRoleByType(ctx, s.admin.RoleType) },
		func(ctx context.Context) (*store.Role, error) {
			return s.store.CreateRole(ctx, store.RoleInput{
				Name:        s.admin.RoleName,
				Description: "Default role given to seeded users.",
				Type:        s.admin.RoleType,
			})
		},
	)
	if err != nil {
		return 0, err
	}

	u, created, err := findOrCreate(ctx,
		func(ctx context.Context) (*store.User, error) { return s.store.FindUserByEmail(ctx, s.admin.Email) },
		func(ctx context.Context) (*store.User, error) {
			hash, err := s.hasher.Hash(s.admin.Password)
			if err != nil {
				return nil, fmt.Errorf("hash password: %w", err)
			}
			return s.store.CreateUser(ctx, store.UserInput{
				Username:     s.admin.Username,
				Email:        s.admin.Email,
				Provider:     "local",
				PasswordHash: hash,
				Confirmed:    true,
				RoleID:       role.ID,
			})
		},
	)
	if err != nil {
		return 0, err
	}
	s.logger.Debug("user ensured", zap.String("email", u.Email), zap.Int64("role_id", role.ID), zap.Bool("created", created))
	if created {
		return 1, nil
	}
	return 0, nil
}

// SeedPosts generates the configured number of posts, each linked to a
// random subset of categories and tags, and creates those whose slug is not
// taken yet. Only the posts created by this call are returned.
func (s *Seeder) SeedPosts(ctx context.Context, categories []*store.Category, tags []*store.Tag) ([]*store.Post, error) {
	staged, err := s.stagePosts(categoryIDs(categories), tagIDs(tags))
	if err != nil {
		return nil, err
	}

	var created []*store.Post
	for _, in := range staged {
		p, ok, err := findOrCreate(ctx,
			func(ctx context.Context) (*store.Post, error) { return s.store.FindPostBySlug(ctx, in.Slug) },
			func(ctx context.Context) (*store.Post, error) { return s.store.CreatePost(ctx, in) },
		)
		if err != nil {
			return nil, err
		}
		if ok {
			created = append(created, p)
		}
	}
	return created, nil
}

func (s *Seeder) stagePosts(categoryIDs, tagIDs []int64) ([]store.PostInput, error) {
	var publishedAt *time.Time
	if s.content.Publish {
		now := s.now()
		publishedAt = &now
	}

	staged := make([]store.PostInput, 0, s.content.Posts)
	seen := make(map[string]bool, s.content.Posts)
	for len(staged) < s.content.Posts {
		pc := s.gen.Post()
		for attempt := 1; pc.Slug == "" || seen[pc.Slug]; attempt++ {
			if attempt == maxSlugAttempts {
				return nil, fmt.Errorf("%w after %d attempts", ErrSlugExhausted, attempt)
			}
			pc = s.gen.Post()
		}
		seen[pc.Slug] = true

		staged = append(staged, store.PostInput{
			Title:       pc.Title,
			Slug:        pc.Slug,
			Content:     pc.Content,
			Excerpt:     pc.Excerpt,
			CategoryIDs: s.gen.Pick(categoryIDs, s.gen.Between(s.content.MinCategories, s.content.MaxCategories)),
			TagIDs:      s.gen.Pick(tagIDs, s.gen.Between(s.content.MinTags, s.content.MaxTags)),
			PublishedAt: publishedAt,
		})
	}
	return staged, nil
}

// SeedRelatedPosts gives each post in posts a random set of other posts from
// the same slice as related posts, replacing any previous set. A post is
// never related to itself. It returns the number of links written.
func (s *Seeder) SeedRelatedPosts(ctx context.Context, posts []*store.Post) (int, error) {
	links := 0
	for _, p := range posts {
		others := make([]int64, 0, len(posts)-1)
		for _, o := range posts {
			if o.ID != p.ID {
				others = append(others, o.ID)
			}
		}
		related := s.gen.Pick(others, s.gen.Between(s.content.MinRelated, s.content.MaxRelated))
		if err := s.store.SetRelatedPosts(ctx, p.ID, related); err != nil {
			return links, err
		}
		links += len(related)
	}
	return links, nil
}

func categoryIDs(cs []*store.Category) []int64 {
	ids := make([]int64, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return ids
}

func tagIDs(ts []*store.Tag) []int64 {
	ids := make([]int64, len(ts))
	for i, t := range ts {
		ids[i] = t.ID
	}
	return ids
}
