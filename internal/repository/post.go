// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"portfolio/internal/models"
)

// ErrPostNotFound is returned when no post matches an identifier. Identifiers that
// cannot belong to the store (for example non-numeric ids on a SQL store) also yield it.
var ErrPostNotFound = errors.New("post not found")

// PostRepository defines the interface for post data operations
type PostRepository interface {
	// List returns every post in the store's natural order.
	List(ctx context.Context) ([]models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// Create inserts post and sets its ID to the store-assigned identifier.
	Create(ctx context.Context, post *models.Post) error
	// Update applies the non-nil fields and modifiedAt to an existing post.
	Update(ctx context.Context, id string, fields models.PostFields, modifiedAt time.Time) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
