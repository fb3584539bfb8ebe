package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfolio/internal/models"
	"portfolio/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func samplePost() models.PostFields {
	return models.PostFields{
		Title:            strPtr("Ray tracer"),
		ShortDescription: strPtr("A weekend ray tracer"),
		LongDescription:  strPtr("Spheres, planes and soft shadows."),
		Link:             strPtr("https://example.com/rt"),
		LinkText:         strPtr("Source"),
		PictureURI:       strPtr("https://cdn.example.com/rt.png"),
	}
}

func TestRoot(t *testing.T) {
	env := newTestEnv(t, "")

	resp := doJSON(t, env.app, http.MethodGet, "/", nil)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Portfolio MicroService API is running", string(body))
}

func TestRoot_IgnoresStoreState(t *testing.T) {
	repo := new(MockPostRepository)
	app := newServerWithRepo(repo)

	resp := doJSON(t, app, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	repo.AssertNotCalled(t, "Ping", mock.Anything)
}

func TestCreatePost_ThenGet(t *testing.T) {
	env := newTestEnv(t, "")
	start := time.Now().UTC()

	resp := doJSON(t, env.app, http.MethodPost, "/post", map[string]any{
		"token": validToken,
		"post":  samplePost(),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.SuccessResponse(), decodeResponse(t, resp))

	resp = doJSON(t, env.app, http.MethodGet, "/posts", nil)
	var posts []models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	require.Len(t, posts, 1)

	resp = doJSON(t, env.app, http.MethodGet, "/post/"+posts[0].ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

	want := samplePost()
	assert.Equal(t, *want.Title, got.Title)
	assert.Equal(t, *want.ShortDescription, got.ShortDescription)
	assert.Equal(t, *want.LongDescription, got.LongDescription)
	assert.Equal(t, *want.Link, got.Link)
	assert.Equal(t, *want.LinkText, got.LinkText)
	assert.Equal(t, *want.PictureURI, got.PictureURI)
	assert.False(t, got.CreatedAt.Before(start))
	assert.Nil(t, got.ModifiedAt)
}

func TestGetPosts_EmptyIsArray(t *testing.T) {
	env := newTestEnv(t, "")

	resp := doJSON(t, env.app, http.MethodGet, "/posts", nil)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(body)))
}

func TestGetPost_NotFoundIsNull(t *testing.T) {
	env := newTestEnv(t, "")

	for _, id := range []string{"42", "not-an-id"} {
		resp := doJSON(t, env.app, http.MethodGet, "/post/"+id, nil)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "null", strings.TrimSpace(string(body)), "id %q", id)
	}
}

func TestWrites_RejectBadToken(t *testing.T) {
	env := newTestEnv(t, "")
	seed := doJSON(t, env.app, http.MethodPost, "/post", map[string]any{"token": validToken, "post": samplePost()})
	require.Equal(t, models.CodeSuccess, decodeResponse(t, seed).Code)

	tests := []struct {
		name   string
		method string
		path   string
		body   map[string]any
	}{
		{"create without token", http.MethodPost, "/post", map[string]any{"post": samplePost()}},
		{"create with invalid token", http.MethodPost, "/post", map[string]any{"token": "nope", "post": samplePost()}},
		{"upload with invalid token", http.MethodPost, "/post", map[string]any{
			"token": "nope", "post": samplePost(), "data": testutil.PNGBase64(), "filename": "a.png",
		}},
		{"edit without token", http.MethodPut, "/post/1", map[string]any{"post": map[string]string{"title": "x"}}},
		{"edit with invalid token", http.MethodPut, "/post/1", map[string]any{"token": "nope", "post": map[string]string{"title": "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, env.app, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, models.NotAuthenticatedResponse(), decodeResponse(t, resp))
		})
	}

	assert.Equal(t, 1, env.repo.Len())
	assert.Zero(t, env.repo.Updates)
	assert.Empty(t, env.uploader.Objects)
}

func TestUpdatePost(t *testing.T) {
	env := newTestEnv(t, "")
	resp := doJSON(t, env.app, http.MethodPost, "/post", map[string]any{"token": validToken, "post": samplePost()})
	require.Equal(t, models.CodeSuccess, decodeResponse(t, resp).Code)

	resp = doJSON(t, env.app, http.MethodPut, "/post/1", map[string]any{
		"token": validToken,
		"post":  map[string]string{"title": "Path tracer", "link_text": "Code"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.SuccessResponse(), decodeResponse(t, resp))

	resp = doJSON(t, env.app, http.MethodGet, "/post/1", nil)
	var got models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "Path tracer", got.Title)
	assert.Equal(t, "Code", got.LinkText)
	assert.Equal(t, "A weekend ray tracer", got.ShortDescription)
	require.NotNil(t, got.ModifiedAt)
	assert.False(t, got.ModifiedAt.Before(got.CreatedAt))
}

func TestUpdatePost_UnknownIDLooksUnauthenticated(t *testing.T) {
	env := newTestEnv(t, "")

	resp := doJSON(t, env.app, http.MethodPut, "/post/999", map[string]any{
		"token": validToken,
		"post":  map[string]string{"title": "Ghost"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.NotAuthenticatedResponse(), decodeResponse(t, resp))
	assert.Zero(t, env.repo.Updates)
}

func TestWrites_BlankLinkAndPicture(t *testing.T) {
	env := newTestEnv(t, "")

	resp := doJSON(t, env.app, http.MethodPost, "/post", map[string]any{
		"token": validToken,
		"post":  map[string]string{"title": "No links", "link": "", "picture_uri": ""},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.SuccessResponse(), decodeResponse(t, resp))

	resp = doJSON(t, env.app, http.MethodPost, "/post", map[string]any{"token": validToken, "post": samplePost()})
	require.Equal(t, models.CodeSuccess, decodeResponse(t, resp).Code)

	resp = doJSON(t, env.app, http.MethodPut, "/post/2", map[string]any{
		"token": validToken,
		"post":  map[string]string{"link": ""},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.SuccessResponse(), decodeResponse(t, resp))

	resp = doJSON(t, env.app, http.MethodGet, "/post/2", nil)
	var got models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Empty(t, got.Link)
	assert.Equal(t, "Source", got.LinkText)
	assert.Equal(t, "https://cdn.example.com/rt.png", got.PictureURI)
}

func TestWrites_BadRequest(t *testing.T) {
	env := newTestEnv(t, "")

	tests := []struct {
		name   string
		method string
		path   string
		body   map[string]any
	}{
		{"missing title", http.MethodPost, "/post", map[string]any{"token": validToken, "post": map[string]string{"link_text": "x"}}},
		{"invalid link", http.MethodPost, "/post", map[string]any{"token": validToken, "post": map[string]string{"title": "x", "link": "nope"}}},
		{"blank title on edit", http.MethodPut, "/post/1", map[string]any{"token": validToken, "post": map[string]string{"title": " "}}},
		{"edit without fields", http.MethodPut, "/post/1", map[string]any{"token": validToken, "post": map[string]string{}}},
		{"image without filename", http.MethodPost, "/post", map[string]any{"token": validToken, "post": samplePost(), "data": testutil.PNGBase64()}},
		{"image that is not an image", http.MethodPost, "/post", map[string]any{
			"token": validToken, "post": samplePost(), "data": "aGVsbG8=", "filename": "a.png",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, env.app, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			out := decodeResponse(t, resp)
			assert.Equal(t, models.CodeBadRequest, out.Code)
			assert.Equal(t, models.MessageBadRequest, out.Message)
			assert.NotEmpty(t, out.Details)
		})
	}
	assert.Zero(t, env.repo.Len())
}

func TestCreatePost_MalformedJSON(t *testing.T) {
	env := newTestEnv(t, "")

	req := httptest.NewRequest(http.MethodPost, "/post", strings.NewReader(`{"token":`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreatePost_Upload(t *testing.T) {
	env := newTestEnv(t, "")

	upload := func(data, filename string) {
		resp := doJSON(t, env.app, http.MethodPost, "/post", map[string]any{
			"token":    validToken,
			"post":     map[string]string{"title": "Screenshot"},
			"data":     data,
			"filename": filename,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, models.SuccessResponse(), decodeResponse(t, resp))
	}

	upload(testutil.PNGBase64(), "shot.png")
	upload(testutil.PNGBase64(), "shot.png")
	upload(testutil.JPEGDataURI(), "photo.jpeg")

	require.Len(t, env.uploader.Objects, 3)
	assert.Equal(t, "image/png", env.uploader.Objects[0].ContentType)
	assert.Equal(t, "image/jpeg", env.uploader.Objects[2].ContentType)
	assert.NotEqual(t, env.uploader.Objects[0].Key, env.uploader.Objects[1].Key)
	for _, obj := range env.uploader.Objects {
		assert.True(t, strings.HasPrefix(obj.Key, "portfolio_thumbnails/"), obj.Key)
	}

	resp := doJSON(t, env.app, http.MethodGet, "/post/1", nil)
	var got models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "https://bucket.example.test/"+env.uploader.Objects[0].Key, got.PictureURI)
}

func TestCreatePost_UploadFailure(t *testing.T) {
	env := newTestEnv(t, "")
	env.uploader.Err = testutil.ErrUploadRejected

	resp := doJSON(t, env.app, http.MethodPost, "/post", map[string]any{
		"token":    validToken,
		"post":     map[string]string{"title": "Screenshot"},
		"data":     testutil.PNGBase64(),
		"filename": "shot.png",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.InternalErrorResponse(), decodeResponse(t, resp))
	assert.Zero(t, env.repo.Len())
}

func TestCreatePost_UploadsFlagOff(t *testing.T) {
	env := newTestEnv(t, "uploads=off")

	resp := doJSON(t, env.app, http.MethodPost, "/post", map[string]any{
		"token":    validToken,
		"post":     map[string]string{"title": "Screenshot"},
		"data":     testutil.PNGBase64(),
		"filename": "shot.png",
	})
	assert.Equal(t, models.InternalErrorResponse(), decodeResponse(t, resp))
	assert.Empty(t, env.uploader.Objects)
	assert.Zero(t, env.repo.Len())
}

func TestPosts_StoreFailure(t *testing.T) {
	storeErr := errors.New("dial tcp 10.0.0.5:3306: connection refused")
	repo := new(MockPostRepository)
	repo.On("List", mock.Anything).Return(nil, storeErr)
	repo.On("GetByID", mock.Anything, "7").Return(nil, storeErr)
	repo.On("Create", mock.Anything, mock.Anything).Return(storeErr)
	app := newServerWithRepo(repo)

	tests := []struct {
		name   string
		method string
		path   string
		body   map[string]any
	}{
		{"list", http.MethodGet, "/posts", nil},
		{"get", http.MethodGet, "/post/7", nil},
		{"create", http.MethodPost, "/post", map[string]any{"token": validToken, "post": samplePost()}},
		{"edit", http.MethodPut, "/post/7", map[string]any{"token": validToken, "post": map[string]string{"title": "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			out := decodeResponse(t, resp)
			assert.Equal(t, models.InternalErrorResponse(), out)
		})
	}
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetPosts_CountsInsertsInOrder(t *testing.T) {
	env := newTestEnv(t, "")

	titles := []string{"First", "Second", "Third"}
	for _, title := range titles {
		resp := doJSON(t, env.app, http.MethodPost, "/post", map[string]any{
			"token": validToken,
			"post":  map[string]string{"title": title},
		})
		require.Equal(t, models.SuccessResponse(), decodeResponse(t, resp))
	}
	// A rejected write must not show up in the listing.
	doJSON(t, env.app, http.MethodPost, "/post", map[string]any{"token": "nope", "post": map[string]string{"title": "Ghost"}})

	resp := doJSON(t, env.app, http.MethodGet, "/posts", nil)
	var posts []models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	require.Len(t, posts, len(titles))
	for i, p := range posts {
		assert.Equal(t, titles[i], p.Title)
	}
}
