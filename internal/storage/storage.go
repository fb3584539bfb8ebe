// Package storage uploads post images to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/middleware"
	"portfolio/internal/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ErrNotConfigured is returned by uploads when no object store credentials are set.
var ErrNotConfigured = errors.New("object storage is not configured")

// Object is a single file to upload.
type Object struct {
	Key         string
	Body        []byte
	ContentType string
}

// Uploader pushes an object and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, obj Object) (string, error)
}

// S3Uploader uploads publicly readable objects to one bucket.
type S3Uploader struct {
	uploader *manager.Uploader
	bucket    string
	endpoint  string
	pathStyle bool
	timeout   time.Duration
}

// NewS3Uploader builds an uploader from the SPACES_* settings. The endpoint may be a
// bare host (https is assumed) or a full URL.
func NewS3Uploader(ctx context.Context, cfg *config.Config) (*S3Uploader, error) {
	if !cfg.UploadsConfigured() {
		return nil, ErrNotConfigured
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.SpacesRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.SpacesKey, cfg.SpacesSecret, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load object storage config: %w", err)
	}

	endpoint := endpointURL(cfg.SpacesEndpoint)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = cfg.SpacesPathStyle
		// S3-compatible stores reject the newer default checksum headers.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	timeout := cfg.UploadTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &S3Uploader{
		uploader: manager.NewUploader(client),
		bucket:    cfg.SpacesBucket,
		endpoint:  endpoint,
		pathStyle: cfg.SpacesPathStyle,
		timeout:   timeout,
	}, nil
}

func endpointURL(endpoint string) string {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if strings.Contains(endpoint, "://") {
		return endpoint
	}
	return "https://" + endpoint
}

// PublicURL returns the URL of key, path-style when the uploader addresses the
// bucket by path and virtual-hosted otherwise.
func (u *S3Uploader) PublicURL(key string) string {
	if u.pathStyle {
		return fmt.Sprintf("%s/%s/%s", u.endpoint, u.bucket, key)
	}
	scheme, host, _ := strings.Cut(u.endpoint, "://")
	return fmt.Sprintf("%s://%s.%s/%s", scheme, u.bucket, host, key)
}

// Upload stores obj with a public-read ACL and returns the URL reported by the store.
func (u *S3Uploader) Upload(ctx context.Context, obj Object) (location string, err error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	ctx, span := observability.StartClientSpan(ctx, "object-storage", "PutObject")
	defer func() { observability.EndSpan(span, err) }()

	out, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(obj.Key),
		Body:        bytes.NewReader(obj.Body),
		ContentType: aws.String(obj.ContentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		observability.RecordUpload("failure")
		middleware.Logger.ErrorContext(ctx, "image upload failed",
			slog.String("bucket", u.bucket),
			slog.String("key", obj.Key),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("upload %s: %w", obj.Key, err)
	}

	observability.RecordUpload("success")
	location = out.Location
	if location == "" {
		location = u.PublicURL(obj.Key)
	}
	middleware.Logger.InfoContext(ctx, "image uploaded",
		slog.String("key", obj.Key),
		slog.Int("bytes", len(obj.Body)),
		slog.String("location", location),
	)
	return location, nil
}
