package generator_test

import (
	"strings"
	"testing"

	"github.com/bengobox/blog-seeder/internal/generator"
)

func TestPostIsDeterministicForSeed(t *testing.T) {
	a := generator.New(42)
	b := generator.New(42)

	for i := 0; i < 5; i++ {
		pa, pb := a.Post(), b.Post()
		if pa != pb {
			t.Fatalf("post %d differs for the same seed:\n%+v\n%+v", i, pa, pb)
		}
	}
}

func TestPostShape(t *testing.T) {
	g := generator.New(7)
	p := g.Post()

	if p.Title == "" || !strings.HasSuffix(p.Title, ".") {
		t.Errorf("title = %q, want a sentence ending in a period", p.Title)
	}
	if p.Slug != generator.Slugify(p.Title) {
		t.Errorf("slug = %q, want %q", p.Slug, generator.Slugify(p.Title))
	}
	if got := strings.Count(p.Content, "\n\n"); got != 2 {
		t.Errorf("content has %d paragraph breaks, want 2", got)
	}
	if p.Excerpt == "" {
		t.Error("excerpt is empty")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Lorem ipsum dolor sit.", "lorem-ipsum-dolor-sit"},
		{"  Hello,   World!  ", "hello-world"},
		{"Next.js Tips", "next-js-tips"},
	}
	for _, tt := range tests {
		if got := generator.Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBetween(t *testing.T) {
	g := generator.New(1)
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		n := g.Between(1, 3)
		if n < 1 || n > 3 {
			t.Fatalf("Between(1, 3) = %d", n)
		}
		seen[n] = true
	}
	if len(seen) != 3 {
		t.Errorf("Between(1, 3) covered %v, want all of 1..3", seen)
	}
	if got := g.Between(2, 2); got != 2 {
		t.Errorf("Between(2, 2) = %d, want 2", got)
	}
}

func TestPickDistinctAndClamped(t *testing.T) {
	g := generator.New(3)
	ids := []int64{10, 20, 30, 40, 50}

	for i := 0; i < 100; i++ {
		got := g.Pick(ids, 3)
		if len(got) != 3 {
			t.Fatalf("Pick returned %d ids, want 3", len(got))
		}
		seen := map[int64]bool{}
		for _, id := range got {
			if seen[id] {
				t.Fatalf("Pick returned duplicate id %d in %v", id, got)
			}
			seen[id] = true
		}
	}

	if got := g.Pick(ids, 10); len(got) != len(ids) {
		t.Errorf("Pick(n > len) returned %d ids, want %d", len(got), len(ids))
	}
	if got := g.Pick(nil, 2); len(got) != 0 {
		t.Errorf("Pick(nil) = %v, want empty", got)
	}
	if got := g.Pick(ids, 0); len(got) != 0 {
		t.Errorf("Pick(n=0) = %v, want empty", got)
	}
	if ids[0] != 10 || ids[4] != 50 {
		t.Errorf("Pick modified its input: %v", ids)
	}
}
