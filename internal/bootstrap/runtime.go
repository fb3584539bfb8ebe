// Package bootstrap wires configuration into live dependencies for the commands.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"portfolio/internal/auth"
	"portfolio/internal/cache"
	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/featureflags"
	"portfolio/internal/middleware"
	"portfolio/internal/observability"
	"portfolio/internal/repository"
	"portfolio/internal/storage"

	"github.com/redis/go-redis/v9"
)

// ServiceName identifies the service in traces and request metrics.
const ServiceName = "portfolio-api"

// Version is reported by the readiness probe and traces.
var Version = "1.0.0"

// Runtime holds the dependencies shared by every request.
type Runtime struct {
	Repo     repository.PostRepository
	Redis    *redis.Client
	Verifier auth.Verifier
	Uploader storage.Uploader
	Flags    *featureflags.Manager

	shutdownTracing func(context.Context) error
}

// ConfigureLogging applies the configured environment and level to the shared loggers.
func ConfigureLogging(cfg *config.Config) {
	middleware.ConfigureLogger(cfg.Env, cfg.LogLevel, os.Stdout)
	observability.SetLogger(middleware.Logger)
}

// InitRuntime connects the store and redis and builds the verifier, uploader and flags.
func InitRuntime(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	ConfigureLogging(cfg)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    ServiceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   1.0,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing setup failed: %w", err)
	}

	repo, err := OpenPostRepository(ctx, cfg)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, err
	}

	rdb := cache.InitRedis(cfg.RedisURL)

	rt := &Runtime{
		Repo:            repo,
		Redis:           rdb,
		Verifier:        auth.NewVerifier(cfg, rdb),
		Flags:           NewFlags(cfg),
		shutdownTracing: shutdownTracing,
	}

	uploader, err := storage.NewS3Uploader(ctx, cfg)
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		log.Println("object storage is not configured; image uploads are disabled")
	case err != nil:
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("object storage setup failed: %w", err)
	default:
		rt.Uploader = uploader
	}

	return rt, nil
}

// NewFlags builds the feature-flag manager. Uploads default on when object storage
// credentials are present; the API document is hidden in production unless enabled.
func NewFlags(cfg *config.Config) *featureflags.Manager {
	return featureflags.NewManager(cfg.FeatureFlags, map[string]bool{
		featureflags.Uploads: cfg.UploadsConfigured(),
		featureflags.Swagger: !cfg.IsProduction(),
	})
}

// OpenPostRepository connects to the configured store and prepares its schema.
func OpenPostRepository(ctx context.Context, cfg *config.Config) (repository.PostRepository, error) {
	if !cfg.IsRelational() {
		client, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("mongo connection failed: %w", err)
		}
		coll := database.PostCollection(client, cfg)
		if err := database.EnsureMongoIndexes(ctx, coll); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("mongo index setup failed: %w", err)
		}
		return repository.NewMongoPostRepository(client, coll), nil
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := database.ApplySchema(ctx, db, cfg); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("schema setup failed: %w", err)
	}
	return repository.NewSQLPostRepository(db, database.PostTable(cfg)), nil
}

// Close releases the store, redis and the tracer provider.
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error
	if r.Repo != nil {
		errs = append(errs, r.Repo.Close(ctx))
	}
	if r.Redis != nil {
		errs = append(errs, r.Redis.Close())
	}
	if r.shutdownTracing != nil {
		errs = append(errs, r.shutdownTracing(ctx))
	}
	return errors.Join(errs...)
}
