// Package service implements the post operations behind the HTTP routes.
package service

import (
	"errors"

	"portfolio/internal/models"
)

var (
	// ErrNotAuthenticated is returned when the request token is missing or rejected.
	ErrNotAuthenticated = models.NewUnauthorizedError(models.MessageNotAuthenticated)
	// ErrUploadFailed is returned when the image could not be stored. No post is written.
	ErrUploadFailed = errors.New("image upload failed")
)
