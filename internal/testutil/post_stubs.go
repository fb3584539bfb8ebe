package testutil

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"portfolio/internal/models"
	"portfolio/internal/repository"
	"portfolio/internal/storage"
)

// PostRepoStub is an in-memory PostRepository that keeps insertion order.
type PostRepoStub struct {
	mu     sync.Mutex
	order  []string
	items  map[string]*models.Post
	nextID int

	// Err, when set, is returned by every call.
	Err     error
	Updates int
}

var _ repository.PostRepository = (*PostRepoStub)(nil)

// NewPostRepoStub creates an empty in-memory post repository.
func NewPostRepoStub() *PostRepoStub {
	return &PostRepoStub{items: make(map[string]*models.Post), nextID: 1}
}

// List returns copies of all posts in insertion order.
func (s *PostRepoStub) List(_ context.Context) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]models.Post, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.items[id])
	}
	return out, nil
}

// GetByID returns a copy of the post or repository.ErrPostNotFound.
func (s *PostRepoStub) GetByID(_ context.Context, id string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.items[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

// Create stores a copy of post and assigns a sequential ID.
func (s *PostRepoStub) Create(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	post.ID = strconv.Itoa(s.nextID)
	s.nextID++
	cp := *post
	s.items[post.ID] = &cp
	s.order = append(s.order, post.ID)
	return nil
}

// Update merges fields into the stored post.
func (s *PostRepoStub) Update(_ context.Context, id string, fields models.PostFields, modifiedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	p, ok := s.items[id]
	if !ok {
		return repository.ErrPostNotFound
	}
	fields.Apply(p)
	m := modifiedAt.UTC()
	p.ModifiedAt = &m
	s.Updates++
	return nil
}

// Ping returns Err.
func (s *PostRepoStub) Ping(_ context.Context) error { return s.Err }

// Close is a no-op.
func (s *PostRepoStub) Close(_ context.Context) error { return nil }

// Len returns the number of stored posts.
func (s *PostRepoStub) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// UploaderStub records uploads in memory.
type UploaderStub struct {
	mu      sync.Mutex
	Objects []storage.Object
	Err     error
}

var _ storage.Uploader = (*UploaderStub)(nil)

// ErrUploadRejected is a ready-made failure for UploaderStub.Err.
var ErrUploadRejected = errors.New("upload rejected")

// Upload records obj and returns a fake public URL.
func (u *UploaderStub) Upload(_ context.Context, obj storage.Object) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return "", u.Err
	}
	u.Objects = append(u.Objects, obj)
	return "https://bucket.example.test/" + obj.Key, nil
}
