// Package generator produces lorem-ipsum post content and random picks for
// the seeder. A fixed seed makes the output reproducible.
package generator

import (
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gosimple/slug"
)

// PostContent is the generated text of one post.
type PostContent struct {
	Title   string
	Slug    string
	Content string
	Excerpt string
}

// Generator produces sample post content from a seeded source.
type Generator struct {
	faker *gofakeit.Faker
}

// New returns a Generator. seed 0 draws a random seed.
func New(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Title returns a capitalised lorem sentence of 3 to 10 words ending in a period.
func (g *Generator) Title() string {
	return g.faker.LoremIpsumSentence(g.faker.Number(3, 10))
}

// Paragraphs returns n lorem paragraphs separated by blank lines.
func (g *Generator) Paragraphs(n int) string {
	return g.faker.LoremIpsumParagraph(n, g.faker.Number(3, 6), g.faker.Number(6, 12), "\n\n")
}

// Sentences returns n lorem sentences as one string.
func (g *Generator) Sentences(n int) string {
	s := make([]string, n)
	for i := range s {
		s[i] = g.faker.LoremIpsumSentence(g.faker.Number(6, 12))
	}
	return strings.Join(s, " ")
}

// Post returns a title with its slug, three paragraphs of content and a
// two-sentence excerpt.
func (g *Generator) Post() PostContent {
	title := g.Title()
	return PostContent{
		Title:   title,
		Slug:    Slugify(title),
		Content: g.Paragraphs(3),
		Excerpt: g.Sentences(2),
	}
}

// Between returns a uniform integer in [lo, hi].
func (g *Generator) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return g.faker.Number(lo, hi)
}

// Pick returns n distinct elements of ids in random order. n is clamped to
// [0, len(ids)]. ids is not modified.
func (g *Generator) Pick(ids []int64, n int) []int64 {
	if n > len(ids) {
		n = len(ids)
	}
	if n <= 0 {
		return nil
	}
	pool := append([]int64(nil), ids...)
	// Partial Fisher-Yates: the first n slots end up a uniform sample.
	for i := 0; i < n; i++ {
		j := g.faker.Number(i, len(pool)-1)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

// Slugify lowercases s and reduces it to URL-safe words joined by hyphens.
func Slugify(s string) string {
	return slug.Make(strings.ToLower(s))
}
