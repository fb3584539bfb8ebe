package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/middleware"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// PostCollectionName is the document collection holding posts.
const PostCollectionName = "portfolio_posts"

// ConnectMongo opens a document store client and verifies it with a ping.
func ConnectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.DatabaseURL).
		SetAppName("portfolio").
		SetServerSelectionTimeout(10 * time.Second)
	if cfg.DBMaxOpenConns > 0 {
		opts.SetMaxPoolSize(uint64(cfg.DBMaxOpenConns))
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	middleware.Logger.Info("Mongo connected successfully",
		slog.String("database", cfg.MongoDatabase),
		slog.String("collection", PostCollectionName),
	)
	return client, nil
}

// PostCollection returns the posts collection of the configured database.
func PostCollection(client *mongo.Client, cfg *config.Config) *mongo.Collection {
	return client.Database(cfg.MongoDatabase).Collection(PostCollectionName)
}

// EnsureMongoIndexes creates the created_at index used for listing.
func EnsureMongoIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: 1}},
		Options: options.Index().SetName("created_at_1"),
	})
	if err != nil {
		return fmt.Errorf("create created_at index: %w", err)
	}
	return nil
}
