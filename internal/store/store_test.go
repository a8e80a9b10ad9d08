package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bengobox/blog-seeder/internal/store"
	"github.com/bengobox/blog-seeder/internal/testhelpers"
	"github.com/google/uuid"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(testhelpers.NewMigratedDB(t))
}

func TestCategoryFindCreate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	if _, err := s.FindCategoryBySlug(ctx, "tech"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("find missing: got %v, want ErrNotFound", err)
	}

	created, err := s.CreateCategory(ctx, store.CategoryInput{Name: "Tech", Slug: "tech", Description: "Technology articles"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 || created.DocumentID == uuid.Nil {
		t.Errorf("created category missing ids: %+v", created)
	}

	found, err := s.FindCategoryBySlug(ctx, "tech")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if *found != *created {
		t.Errorf("found %+v, want %+v", found, created)
	}

	if _, err := s.CreateCategory(ctx, store.CategoryInput{Name: "Tech 2", Slug: "tech"}); err == nil {
		t.Error("duplicate slug accepted")
	}
}

func TestListCategoriesOrdered(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for _, slug := range []string{"b", "a", "c"} {
		if _, err := s.CreateCategory(ctx, store.CategoryInput{Name: slug, Slug: slug}); err != nil {
			t.Fatalf("create %s: %v", slug, err)
		}
	}
	cats, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) != 3 || cats[0].Slug != "b" || cats[1].Slug != "a" || cats[2].Slug != "c" {
		t.Errorf("unexpected order: %v %v %v", cats[0].Slug, cats[1].Slug, cats[2].Slug)
	}
}

func TestTagFindCreateList(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	if _, err := s.CreateTag(ctx, store.TagInput{Name: "Next.js", Slug: "next.js"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	tag, err := s.FindTagBySlug(ctx, "next.js")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if tag.Name != "Next.js" {
		t.Errorf("name = %q", tag.Name)
	}
	if _, err := s.FindTagBySlug(ctx, "nextjs"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("find other slug: got %v, want ErrNotFound", err)
	}

	tags, err := s.ListTags(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tags) != 1 {
		t.Errorf("got %d tags, want 1", len(tags))
	}
}

func TestUserWithRole(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	role, err := s.CreateRole(ctx, store.RoleInput{Name: "Authenticated", Type: "authenticated"})
	if err != nil {
		t.Fatalf("create role: %v", err)
	}
	found, err := s.FindRoleByType(ctx, "authenticated")
	if err != nil {
		t.Fatalf("find role: %v", err)
	}
	if found.ID != role.ID {
		t.Errorf("role id = %d, want %d", found.ID, role.ID)
	}

	if _, err := s.CreateUser(ctx, store.UserInput{
		Username: "admin", Email: "admin@example.com", PasswordHash: "h", Confirmed: true, RoleID: role.ID,
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	u, err := s.FindUserByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if u.RoleID != role.ID || !u.Confirmed || u.Blocked || u.Provider != "local" || u.PasswordHash != "h" {
		t.Errorf("unexpected user: %+v", u)
	}

	if _, err := s.CreateUser(ctx, store.UserInput{Username: "other", Email: "admin@example.com"}); err == nil {
		t.Error("duplicate email accepted")
	}
}

func TestUserWithoutRole(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	if _, err := s.CreateUser(ctx, store.UserInput{Username: "u", Email: "u@example.com"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	u, err := s.FindUserByEmail(ctx, "u@example.com")
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if u.RoleID != 0 {
		t.Errorf("role id = %d, want 0", u.RoleID)
	}
}

func TestCreatePostWithLinks(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	c1, _ := s.CreateCategory(ctx, store.CategoryInput{Name: "A", Slug: "a"})
	c2, _ := s.CreateCategory(ctx, store.CategoryInput{Name: "B", Slug: "b"})
	tag, _ := s.CreateTag(ctx, store.TagInput{Name: "T", Slug: "t"})

	p, err := s.CreatePost(ctx, store.PostInput{
		Title:       "Hello.",
		Slug:        "hello",
		Content:     "body",
		Excerpt:     "short",
		CategoryIDs: []int64{c1.ID, c2.ID},
		TagIDs:      []int64{tag.ID},
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	found, err := s.FindPostBySlug(ctx, "hello")
	if err != nil {
		t.Fatalf("find post: %v", err)
	}
	if found.ID != p.ID || found.Content != "body" || found.Excerpt != "short" {
		t.Errorf("unexpected post: %+v", found)
	}

	links, err := s.ListPostLinks(ctx)
	if err != nil {
		t.Fatalf("list links: %v", err)
	}
	l := links[p.ID]
	if l == nil || len(l.CategoryIDs) != 2 || len(l.TagIDs) != 1 || len(l.RelatedIDs) != 0 {
		t.Errorf("unexpected links: %+v", l)
	}
}

func TestCreatePostRollsBackOnBadLink(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.CreatePost(ctx, store.PostInput{Title: "X.", Slug: "x", CategoryIDs: []int64{999}})
	if err == nil {
		t.Fatal("link to missing category accepted")
	}
	if _, err := s.FindPostBySlug(ctx, "x"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("post survived failed transaction: %v", err)
	}
}

func TestSetRelatedPostsReplaces(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	var ids []int64
	for _, slug := range []string{"p1", "p2", "p3", "p4"} {
		p, err := s.CreatePost(ctx, store.PostInput{Title: slug, Slug: slug})
		if err != nil {
			t.Fatalf("create %s: %v", slug, err)
		}
		ids = append(ids, p.ID)
	}

	if err := s.SetRelatedPosts(ctx, ids[0], []int64{ids[3], ids[1]}); err != nil {
		t.Fatalf("set related: %v", err)
	}
	if err := s.SetRelatedPosts(ctx, ids[0], []int64{ids[2]}); err != nil {
		t.Fatalf("replace related: %v", err)
	}

	links, err := s.ListPostLinks(ctx)
	if err != nil {
		t.Fatalf("list links: %v", err)
	}
	got := links[ids[0]].RelatedIDs
	if len(got) != 1 || got[0] != ids[2] {
		t.Errorf("related = %v, want [%d]", got, ids[2])
	}

	if err := s.SetRelatedPosts(ctx, ids[1], []int64{ids[1]}); err == nil {
		t.Error("self-reference accepted")
	}
}

func TestSetRelatedPostsKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	var ids []int64
	for _, slug := range []string{"a", "b", "c", "d"} {
		p, err := s.CreatePost(ctx, store.PostInput{Title: slug, Slug: slug})
		if err != nil {
			t.Fatalf("create %s: %v", slug, err)
		}
		ids = append(ids, p.ID)
	}
	want := []int64{ids[3], ids[1], ids[2]}
	if err := s.SetRelatedPosts(ctx, ids[0], want); err != nil {
		t.Fatalf("set related: %v", err)
	}

	links, err := s.ListPostLinks(ctx)
	if err != nil {
		t.Fatalf("list links: %v", err)
	}
	got := links[ids[0]].RelatedIDs
	if len(got) != len(want) {
		t.Fatalf("related = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("related[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestCounts(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, _ = s.CreateCategory(ctx, store.CategoryInput{Name: "A", Slug: "a"})
	_, _ = s.CreateTag(ctx, store.TagInput{Name: "T", Slug: "t"})
	_, _ = s.CreateTag(ctx, store.TagInput{Name: "U", Slug: "u"})
	_, _ = s.CreatePost(ctx, store.PostInput{Title: "P", Slug: "p"})

	c, err := s.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	want := store.Counts{Categories: 1, Tags: 2, Users: 0, Posts: 1}
	if c != want {
		t.Errorf("counts = %+v, want %+v", c, want)
	}
}

func TestSeedRuns(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	older := store.SeedRun{ID: uuid.New(), Status: "succeeded", PostsCreated: 20, StartedAt: base, FinishedAt: base.Add(time.Second)}
	newer := store.SeedRun{ID: uuid.New(), Status: "failed", Error: "boom", StartedAt: base.Add(time.Hour), FinishedAt: base.Add(time.Hour + time.Second)}
	for _, r := range []store.SeedRun{older, newer} {
		if err := s.InsertSeedRun(ctx, r); err != nil {
			t.Fatalf("insert run: %v", err)
		}
	}

	runs, err := s.ListSeedRuns(ctx, 10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != newer.ID || runs[0].Error != "boom" || runs[1].ID != older.ID || runs[1].PostsCreated != 20 {
		t.Errorf("unexpected runs: %+v", runs)
	}
	if !runs[1].StartedAt.Equal(base) {
		t.Errorf("started_at = %v, want %v", runs[1].StartedAt, base)
	}
}

func TestSetRelatedPostsRollsBackWhenTouchFails(t *testing.T) {
	ctx := context.Background()
	drv := testhelpers.NewMigratedDB(t)
	s := store.New(drv)

	var ids []int64
	for _, slug := range []string{"a", "b", "c"} {
		p, err := s.CreatePost(ctx, store.PostInput{Title: slug, Slug: slug})
		if err != nil {
			t.Fatalf("create %s: %v", slug, err)
		}
		ids = append(ids, p.ID)
	}
	if err := s.SetRelatedPosts(ctx, ids[0], []int64{ids[1]}); err != nil {
		t.Fatalf("set related: %v", err)
	}

	if _, err := drv.DB().ExecContext(ctx, `CREATE TRIGGER posts_frozen BEFORE UPDATE ON posts
		BEGIN SELECT RAISE(ABORT, 'posts are frozen'); END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}
	if err := s.SetRelatedPosts(ctx, ids[0], []int64{ids[2]}); err == nil {
		t.Fatal("expected error when updated_at cannot be written")
	}

	links, err := s.ListPostLinks(ctx)
	if err != nil {
		t.Fatalf("list links: %v", err)
	}
	got := links[ids[0]].RelatedIDs
	if len(got) != 1 || got[0] != ids[1] {
		t.Errorf("related = %v, want [%d]", got, ids[1])
	}
}
