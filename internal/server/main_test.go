package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portfolio/internal/auth"
	"portfolio/internal/bootstrap"
	"portfolio/internal/config"
	"portfolio/internal/featureflags"
	"portfolio/internal/models"
	"portfolio/internal/repository"
	"portfolio/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const validToken = "valid-token"

func testConfig() *config.Config {
	return &config.Config{
		Port:           "0",
		Env:            "test",
		StoreDriver:    config.DriverSQLite,
		DBSchema:       "dev",
		UploadPrefix:   "portfolio_thumbnails",
		UploadMaxMB:    1,
		AllowedOrigins: "*",
	}
}

func tokenVerifier() auth.Verifier {
	return auth.VerifierFunc(func(_ context.Context, token string) (bool, error) {
		return token == validToken, nil
	})
}

type testEnv struct {
	app      *fiber.App
	repo     *testutil.PostRepoStub
	uploader *testutil.UploaderStub
}

func newTestEnv(t *testing.T, flags string) testEnv {
	t.Helper()
	repo := testutil.NewPostRepoStub()
	uploader := &testutil.UploaderStub{}
	rt := &bootstrap.Runtime{
		Repo:     repo,
		Verifier: tokenVerifier(),
		Uploader: uploader,
		Flags: featureflags.NewManager(flags, map[string]bool{
			featureflags.Uploads: true,
			featureflags.Swagger: true,
		}),
	}
	s := NewServerWithDeps(testConfig(), rt)
	return testEnv{app: s.NewApp(), repo: repo, uploader: uploader}
}

func newServerWithRepo(repo repository.PostRepository) *fiber.App {
	rt := &bootstrap.Runtime{
		Repo:     repo,
		Verifier: tokenVerifier(),
		Flags:    featureflags.NewManager("", nil),
	}
	return NewServerWithDeps(testConfig(), rt).NewApp()
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, int((5 * time.Second).Milliseconds()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) models.Response {
	t.Helper()
	var out models.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func strPtr(s string) *string { return &s }

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) List(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Update(ctx context.Context, id string, fields models.PostFields, modifiedAt time.Time) error {
	args := m.Called(ctx, id, fields, modifiedAt)
	return args.Error(0)
}

func (m *MockPostRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPostRepository) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
