// Package seed creates demo posts for development databases.
package seed

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"portfolio/internal/models"
	"portfolio/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gopkg.in/yaml.v3"
)

// SeedOptions controls generated content.
type SeedOptions struct {
	// MaxDays spreads created_at over the given number of past days.
	MaxDays int
	// Seed makes generation deterministic when non-zero.
	Seed int64
}

// Factory builds fake posts and persists them through a PostRepository.
type Factory struct {
	repo  repository.PostRepository
	opts  SeedOptions
	faker *gofakeit.Faker
	rng   *rand.Rand
	now   func() time.Time
}

// NewFactory creates a Factory bound to repo.
func NewFactory(repo repository.PostRepository, opts SeedOptions) *Factory {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{
		repo:  repo,
		opts:  opts,
		faker: gofakeit.New(seed),
		rng:   rand.New(rand.NewSource(seed)),
		now:   time.Now,
	}
}

// BuildPost constructs a post without persisting it.
func (f *Factory) BuildPost(overrides ...func(*models.Post)) *models.Post {
	title := f.faker.AppName()
	post := &models.Post{
		Title:            title,
		ShortDescription: f.faker.Sentence(8),
		LongDescription:  f.faker.Paragraph(2, 4, 12, "\n\n"),
		Link:             f.faker.URL(),
		LinkText:         "View " + title,
		PictureURI:       fmt.Sprintf("https://picsum.photos/seed/%s/800/600", f.faker.UUID()),
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	post.CreatedAt = f.now().Add(-back).UTC().Truncate(time.Second)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePosts builds and stores n posts.
func (f *Factory) CreatePosts(ctx context.Context, n int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		post := f.BuildPost()
		if err := f.repo.Create(ctx, post); err != nil {
			return posts, fmt.Errorf("create post %d: %w", i+1, err)
		}
		posts = append(posts, post)
	}
	log.Printf("seeded %d posts", len(posts))
	return posts, nil
}

// Fixture is one post in a YAML fixture file.
type Fixture struct {
	Title            string    `yaml:"title"`
	ShortDescription string    `yaml:"short_description"`
	LongDescription  string    `yaml:"long_description"`
	Link             string    `yaml:"link"`
	LinkText         string    `yaml:"link_text"`
	PictureURI       string    `yaml:"picture_uri"`
	CreatedAt        time.Time `yaml:"created_at"`
}

type fixtureFile struct {
	Posts []Fixture `yaml:"posts"`
}

// ParseFixtures reads a document of the form `posts: [...]`.
func ParseFixtures(r io.Reader) ([]Fixture, error) {
	var doc fixtureFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	for i, fx := range doc.Posts {
		if fx.Title == "" {
			return nil, fmt.Errorf("fixture %d: title is required", i+1)
		}
	}
	return doc.Posts, nil
}

// LoadFixtures stores every fixture in path. Fixtures without created_at get the current time.
func (f *Factory) LoadFixtures(ctx context.Context, path string) ([]*models.Post, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	fixtures, err := ParseFixtures(file)
	if err != nil {
		return nil, err
	}

	posts := make([]*models.Post, 0, len(fixtures))
	for _, fx := range fixtures {
		post := &models.Post{
			Title:            fx.Title,
			ShortDescription: fx.ShortDescription,
			LongDescription:  fx.LongDescription,
			Link:             fx.Link,
			LinkText:         fx.LinkText,
			PictureURI:       fx.PictureURI,
			CreatedAt:        fx.CreatedAt.UTC(),
		}
		if fx.CreatedAt.IsZero() {
			post.CreatedAt = f.now().UTC()
		}
		if err := f.repo.Create(ctx, post); err != nil {
			return posts, fmt.Errorf("create fixture %q: %w", fx.Title, err)
		}
		posts = append(posts, post)
	}
	log.Printf("loaded %d fixture posts from %s", len(posts), path)
	return posts, nil
}
