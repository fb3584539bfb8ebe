package repository

import (
	"context"
	"testing"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// setupSQLiteRepo returns a repository over a freshly migrated in-memory database.
func setupSQLiteRepo(t *testing.T) PostRepository {
	t.Helper()
	cfg := &config.Config{
		Env:         "test",
		StoreDriver: config.DriverSQLite,
		DatabaseURL: "file::memory:",
		DBSchema:    "dev",
	}
	db, err := database.Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db, cfg))

	repo := NewSQLPostRepository(db, database.PostTable(cfg))
	t.Cleanup(func() { _ = repo.Close(context.Background()) })
	return repo
}

func strPtr(s string) *string { return &s }

// exercisePostRepository runs the behaviour every PostRepository implementation shares.
func exercisePostRepository(t *testing.T, repo PostRepository, unknownID string) {
	ctx := context.Background()

	before, err := repo.List(ctx)
	require.NoError(t, err)

	created := time.Now().UTC().Truncate(time.Second)
	first := &models.Post{
		Title:            "Weather station",
		ShortDescription: "ESP32 + LoRa",
		LongDescription:  "Solar powered station reporting every five minutes.",
		Link:             "https://github.com/example/weather",
		LinkText:         "GitHub",
		PictureURI:       "https://bucket.example.com/portfolio_thumbnails/a1b2_2024_station.png",
		CreatedAt:        created,
	}
	require.NoError(t, repo.Create(ctx, first))
	require.NotEmpty(t, first.ID)

	second := &models.Post{Title: "Compiler", CreatedAt: created}
	require.NoError(t, repo.Create(ctx, second))
	require.NotEqual(t, first.ID, second.ID)

	t.Run("get returns stored fields", func(t *testing.T) {
		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
		assert.Equal(t, first.Title, got.Title)
		assert.Equal(t, first.ShortDescription, got.ShortDescription)
		assert.Equal(t, first.LongDescription, got.LongDescription)
		assert.Equal(t, first.Link, got.Link)
		assert.Equal(t, first.LinkText, got.LinkText)
		assert.Equal(t, first.PictureURI, got.PictureURI)
		assert.WithinDuration(t, created, got.CreatedAt, time.Second)
		assert.Nil(t, got.ModifiedAt)
	})

	t.Run("list includes every insert", func(t *testing.T) {
		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, len(before)+2)
	})

	t.Run("update merges supplied fields", func(t *testing.T) {
		modified := created.Add(time.Minute)
		err := repo.Update(ctx, first.ID, models.PostFields{Title: strPtr("Weather station v2"), Link: strPtr("")}, modified)
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Weather station v2", got.Title)
		assert.Equal(t, "", got.Link)
		assert.Equal(t, first.ShortDescription, got.ShortDescription, "unsupplied fields are kept")
		assert.WithinDuration(t, created, got.CreatedAt, time.Second, "created_at never changes")
		require.NotNil(t, got.ModifiedAt)
		assert.WithinDuration(t, modified, *got.ModifiedAt, time.Second)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, unknownID)
		assert.ErrorIs(t, err, ErrPostNotFound)
		assert.ErrorIs(t, repo.Update(ctx, unknownID, models.PostFields{Title: strPtr("x")}, time.Now()), ErrPostNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "not-an-id")
		assert.ErrorIs(t, err, ErrPostNotFound)
		assert.ErrorIs(t, repo.Update(ctx, "not-an-id", models.PostFields{}, time.Now()), ErrPostNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, repo.Ping(ctx))
	})
}
