// Command migrate runs schema operations for the configured store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"portfolio/internal/config"
	"portfolio/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <auto|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	cmd := strings.ToLower(strings.TrimSpace(flag.Arg(0)))

	if !cfg.IsRelational() {
		return migrateMongo(ctx, cfg, cmd)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	switch cmd {
	case "auto":
		if err := database.Migrate(ctx, db, cfg); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		log.Printf("automigrations applied to %s", database.PostTable(cfg))
	case "status":
		status, err := database.GetSchemaStatus(ctx, db, cfg)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		log.Printf("driver=%s env=%s table=%s exists=%t migrate_on_start=%t",
			status.Driver, status.Environment, status.Table, status.TableExists, status.WillMigrate)
		if len(status.Columns) > 0 {
			log.Printf("columns: %s", strings.Join(status.Columns, ", "))
		}
	default:
		return usage()
	}
	return nil
}

func migrateMongo(ctx context.Context, cfg *config.Config, cmd string) error {
	client, err := database.ConnectMongo(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	coll := database.PostCollection(client, cfg)
	switch cmd {
	case "auto":
		if err := database.EnsureMongoIndexes(ctx, coll); err != nil {
			return fmt.Errorf("index setup failed: %w", err)
		}
		log.Printf("indexes ensured on %s.%s", coll.Database().Name(), coll.Name())
	case "status":
		n, err := coll.EstimatedDocumentCount(ctx)
		if err != nil {
			return fmt.Errorf("collection status failed: %w", err)
		}
		log.Printf("driver=%s collection=%s.%s documents=%d", cfg.StoreDriver, coll.Database().Name(), coll.Name(), n)
	default:
		return usage()
	}
	return nil
}
