// Package seeding populates the content schema with sample categories, tags,
// an admin user, generated posts and related-post links. Every stage is a
// find-or-create on a natural key, so re-running is safe.
package seeding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bengobox/blog-seeder/internal/audit"
	"github.com/bengobox/blog-seeder/internal/config"
	"github.com/bengobox/blog-seeder/internal/generator"
	"github.com/bengobox/blog-seeder/internal/lock"
	"github.com/bengobox/blog-seeder/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the data layer the stages write through.
type Store interface {
	FindCategoryBySlug(ctx context.Context, slug string) (*store.Category, error)
	CreateCategory(ctx context.Context, in store.CategoryInput) (*store.Category, error)
	ListCategories(ctx context.Context) ([]*store.Category, error)

	FindTagBySlug(ctx context.Context, slug string) (*store.Tag, error)
	CreateTag(ctx context.Context, in store.TagInput) (*store.Tag, error)
	ListTags(ctx context.Context) ([]*store.Tag, error)

	FindRoleByType(ctx context.Context, roleType string) (*store.Role, error)
	CreateRole(ctx context.Context, in store.RoleInput) (*store.Role, error)
	FindUserByEmail(ctx context.Context, email string) (*store.User, error)
	CreateUser(ctx context.Context, in store.UserInput) (*store.User, error)

	FindPostBySlug(ctx context.Context, slug string) (*store.Post, error)
	CreatePost(ctx context.Context, in store.PostInput) (*store.Post, error)
	SetRelatedPosts(ctx context.Context, postID int64, related []int64) error
}

// Hasher hashes the admin password before it is stored.
type Hasher interface {
	Hash(password string) (string, error)
}

// Generator supplies post content and the random choices made per post.
type Generator interface {
	Post() generator.PostContent
	Between(lo, hi int) int
	Pick(ids []int64, n int) []int64
}

// Auditor records the outcome of a run.
type Auditor interface {
	Record(ctx context.Context, entry audit.Entry)
}

// Dependencies aggregates constructor inputs. Generator, Locker and Auditor
// are optional.
type Dependencies struct {
	Store     Store
	Hasher    Hasher
	Generator Generator
	Locker    lock.Locker
	Auditor   Auditor
	Logger    *zap.Logger
	Admin     config.AdminConfig
	Content   config.ContentConfig
}

// Summary reports what a run did.
type Summary struct {
	RunID          uuid.UUID
	Categories     int
	Tags           int
	UsersCreated   int
	PostsRequested int
	PostsCreated   int
	RelatedLinks   int
}

// Seeder runs the seeding stages in order.
type Seeder struct {
	store   Store
	hasher  Hasher
	gen     Generator
	locker  lock.Locker
	auditor Auditor
	logger  *zap.Logger
	admin   config.AdminConfig
	content config.ContentConfig
	now     func() time.Time
}

// New initialises a Seeder.
func New(deps Dependencies) *Seeder {
	s := &Seeder{
		store:   deps.Store,
		hasher:  deps.Hasher,
		gen:     deps.Generator,
		locker:  deps.Locker,
		auditor: deps.Auditor,
		logger:  deps.Logger,
		admin:   deps.Admin,
		content: deps.Content,
		now:     func() time.Time { return time.Now().UTC() },
	}
	if s.gen == nil {
		s.gen = generator.New(deps.Content.RandomSeed)
	}
	if s.locker == nil {
		s.locker = lock.Noop{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Run takes the run lock, executes the five stages in fixed order and
// records the outcome. The first failing stage aborts the run; rows written
// by earlier stages stay.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	release, err := s.locker.Acquire(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("acquire run lock: %w", err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("failed to release run lock", zap.Error(err))
		}
	}()

	summary := Summary{RunID: uuid.New(), PostsRequested: s.content.Posts}
	started := s.now()
	log := s.logger.With(zap.String("run_id", summary.RunID.String()))
	log.Info("🟢 starting seeding", zap.Int("posts", s.content.Posts))

	err = s.run(ctx, log, &summary)

	if s.auditor != nil {
		s.auditor.Record(context.WithoutCancel(ctx), audit.Entry{
			RunID:          summary.RunID,
			Err:            err,
			Categories:     summary.Categories,
			Tags:           summary.Tags,
			UsersCreated:   summary.UsersCreated,
			PostsRequested: summary.PostsRequested,
			PostsCreated:   summary.PostsCreated,
			RelatedLinks:   summary.RelatedLinks,
			StartedAt:      started,
			FinishedAt:     s.now(),
		})
	}
	return summary, err
}

func (s *Seeder) run(ctx context.Context, log *zap.Logger, sum *Summary) error {
	categories, err := s.SeedCategories(ctx)
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	sum.Categories = len(categories)
	log.Info("categories seeded", zap.Int("total", sum.Categories))

	tags, err := s.SeedTags(ctx)
	if err != nil {
		return fmt.Errorf("seed tags: %w", err)
	}
	sum.Tags = len(tags)
	log.Info("tags seeded", zap.Int("total", sum.Tags))

	if sum.UsersCreated, err = s.SeedUsers(ctx); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	log.Info("users seeded", zap.Int("created", sum.UsersCreated))

	posts, err := s.SeedPosts(ctx, categories, tags)
	if err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}
	sum.PostsCreated = len(posts)
	log.Info("posts seeded", zap.Int("created", sum.PostsCreated), zap.Int("requested", sum.PostsRequested))

	if sum.RelatedLinks, err = s.SeedRelatedPosts(ctx, posts); err != nil {
		return fmt.Errorf("seed related posts: %w", err)
	}
	log.Info("related posts linked", zap.Int("links", sum.RelatedLinks))
	return nil
}

// findOrCreate returns the record found by find, or the one made by create
// when find reports store.ErrNotFound. created reports which happened.
func findOrCreate[T any](ctx context.Context, find, create func(context.Context) (T, error)) (v T, created bool, err error) {
	v, err = find(ctx)
	if err == nil {
		return v, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return v, false, err
	}
	v, err = create(ctx)
	if err != nil {
		return v, false, err
	}
	return v, true, nil
}
