package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"portfolio/internal/auth"
	"portfolio/internal/featureflags"
	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/repository"
	"portfolio/internal/storage"
	"portfolio/internal/validation"
)

const defaultUploadPrefix = "portfolio_thumbnails"

// PostService coordinates token checks, uploads and store writes for posts.
type PostService struct {
	repo           repository.PostRepository
	verifier       auth.Verifier
	uploader       storage.Uploader
	flags          *featureflags.Manager
	uploadPrefix   string
	maxUploadBytes int64
	now            func() time.Time
}

// PostServiceOptions configures uploads. A nil Uploader disables them.
type PostServiceOptions struct {
	Uploader       storage.Uploader
	Flags          *featureflags.Manager
	UploadPrefix   string
	MaxUploadBytes int64
	Now            func() time.Time
}

// CreatePostInput is a create request. ImageData and Filename select the upload variant.
type CreatePostInput struct {
	Token     string
	Fields    models.PostFields
	ImageData string
	Filename  string
	// Subject identifies the caller for percentage feature rollouts.
	Subject string
}

// UpdatePostInput is a partial edit of an existing post.
type UpdatePostInput struct {
	Token  string
	PostID string
	Fields models.PostFields
}

// NewPostService creates a PostService.
func NewPostService(repo repository.PostRepository, verifier auth.Verifier, opts PostServiceOptions) *PostService {
	if verifier == nil {
		verifier = auth.Deny
	}
	prefix := opts.UploadPrefix
	if prefix == "" {
		prefix = defaultUploadPrefix
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &PostService{
		repo:           repo,
		verifier:       verifier,
		uploader:       opts.Uploader,
		flags:          opts.Flags,
		uploadPrefix:   prefix,
		maxUploadBytes: opts.MaxUploadBytes,
		now:            now,
	}
}

// ListPosts returns every post in store order.
func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// GetPost returns the post with id, or nil when there is none.
func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrPostNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// IsUpload reports whether in is the image-upload variant of create.
func (in CreatePostInput) IsUpload() bool {
	return in.ImageData != "" || in.Filename != ""
}

// CreatePost verifies the token, uploads the image when one is supplied and inserts
// the post with a server-side created_at.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if !auth.Authenticated(ctx, s.verifier, in.Token) {
		return nil, ErrNotAuthenticated
	}
	if err := validation.ValidatePostCreate(in.Fields); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	fields := in.Fields
	if in.IsUpload() {
		location, err := s.uploadImage(ctx, in)
		if err != nil {
			return nil, err
		}
		fields.PictureURI = &location
	}

	post := &models.Post{CreatedAt: s.now().UTC()}
	fields.Apply(post)
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

func (s *PostService) uploadImage(ctx context.Context, in CreatePostInput) (string, error) {
	if err := validation.ValidateUpload(in.ImageData, in.Filename); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	if s.uploader == nil || !s.flags.Enabled(featureflags.Uploads, in.Subject) {
		middleware.Logger.WarnContext(ctx, "image upload requested but uploads are disabled")
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, storage.ErrNotConfigured)
	}

	body, err := storage.DecodeImage(in.ImageData, s.maxUploadBytes)
	if err != nil {
		return "", models.NewValidationError(err.Error())
	}

	key, err := storage.BuildKey(s.uploadPrefix, in.Filename, s.now())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	location, err := s.uploader.Upload(ctx, storage.Object{
		Key:         key,
		Body:        body,
		ContentType: storage.ContentTypeFor(in.Filename),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	middleware.Logger.DebugContext(ctx, "post image stored", slog.String("key", key))
	return location, nil
}

// UpdatePost verifies the token and applies the supplied fields to an existing
// post, stamping modified_at. An unknown id yields repository.ErrPostNotFound.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) error {
	if !auth.Authenticated(ctx, s.verifier, in.Token) {
		return ErrNotAuthenticated
	}
	if err := validation.ValidatePostUpdate(in.Fields); err != nil {
		return models.NewValidationError(err.Error())
	}

	if _, err := s.repo.GetByID(ctx, in.PostID); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return err
		}
		return models.NewInternalError(err)
	}

	if err := s.repo.Update(ctx, in.PostID, in.Fields, s.now().UTC()); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return err
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Ping checks the backing store.
func (s *PostService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
