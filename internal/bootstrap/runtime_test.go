package bootstrap

import (
	"context"
	"testing"

	"portfolio/internal/auth"
	"portfolio/internal/config"
	"portfolio/internal/featureflags"
	"portfolio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig() *config.Config {
	return &config.Config{
		Port:            "6002",
		Env:             "development",
		StoreDriver:     config.DriverSQLite,
		DatabaseURL:     "file::memory:",
		DBSchema:        "dev",
		UploadMaxMB:     10,
		TracingExporter: "none",
		LogLevel:        "error",
	}
}

func TestInitRuntime_SQLite(t *testing.T) {
	ctx := context.Background()
	rt, err := InitRuntime(ctx, sqliteConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close(ctx) })

	assert.Nil(t, rt.Redis)
	assert.Nil(t, rt.Uploader)
	assert.Equal(t, auth.Deny, rt.Verifier)
	assert.False(t, rt.Flags.Enabled(featureflags.Uploads, ""))
	assert.True(t, rt.Flags.Enabled(featureflags.Swagger, ""))

	title := "Seeded"
	post := &models.Post{}
	models.PostFields{Title: &title}.Apply(post)
	require.NoError(t, rt.Repo.Create(ctx, post))
	assert.NotEmpty(t, post.ID)
	assert.NoError(t, rt.Repo.Ping(ctx))
}

func TestInitRuntime_UnknownTracingExporter(t *testing.T) {
	cfg := sqliteConfig()
	cfg.TracingExporter = "zipkin"

	_, err := InitRuntime(context.Background(), cfg)
	assert.ErrorContains(t, err, "tracing")
}

func TestNewFlags(t *testing.T) {
	cfg := sqliteConfig()
	cfg.SpacesKey, cfg.SpacesSecret, cfg.SpacesBucket = "k", "s", "b"
	cfg.Env = "production"

	flags := NewFlags(cfg)
	assert.True(t, flags.Enabled(featureflags.Uploads, ""))
	assert.False(t, flags.Enabled(featureflags.Swagger, ""))

	cfg.FeatureFlags = "uploads=off,swagger=on"
	flags = NewFlags(cfg)
	assert.False(t, flags.Enabled(featureflags.Uploads, ""))
	assert.True(t, flags.Enabled(featureflags.Swagger, ""))
}
