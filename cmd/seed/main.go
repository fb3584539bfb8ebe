// Command seed fills the configured store with demo posts.
package main

import (
	"context"
	"flag"
	"log"

	"portfolio/internal/bootstrap"
	"portfolio/internal/config"
	"portfolio/internal/seed"
)

func main() {
	numPosts := flag.Int("n", 10, "Number of fake posts to create")
	fixtures := flag.String("file", "", "YAML fixture file to load instead of fake posts")
	seedValue := flag.Int64("seed", 0, "Random seed for reproducible content (0 = time based)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production store")
	}
	bootstrap.ConfigureLogging(cfg)

	ctx := context.Background()
	repo, err := bootstrap.OpenPostRepository(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() { _ = repo.Close(ctx) }()

	f := seed.NewFactory(repo, seed.SeedOptions{Seed: *seedValue})
	if *fixtures != "" {
		if _, err := f.LoadFixtures(ctx, *fixtures); err != nil {
			log.Fatalf("Fixture seeding failed: %v", err)
		}
		return
	}
	if _, err := f.CreatePosts(ctx, *numPosts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
