package server

import (
	"errors"

	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/repository"
	"portfolio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postRequest is the body of POST /post and PUT /post/:postId. Data and Filename
// are only read on create.
type postRequest struct {
	Token    string            `json:"token"`
	Post     models.PostFields `json:"post"`
	Data     string            `json:"data,omitempty"`
	Filename string            `json:"filename,omitempty"`
}

// Root handles GET /
// @Summary Liveness banner
// @Tags meta
// @Produce plain
// @Success 200 {string} string
// @Router / [get]
func (s *Server) Root(c *fiber.Ctx) error {
	return c.SendString(rootMessage)
}

// GetPosts handles GET /posts
// @Summary List posts
// @Description Returns every post in store order.
// @Tags posts
// @Produce json
// @Success 200 {array} models.Post
// @Failure 500 {object} models.Response
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "failed to list posts", "error", err)
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return c.JSON(posts)
}

// GetPost handles GET /post/:postId
// @Summary Get a post
// @Description Returns the post, or null when no post has the id.
// @Tags posts
// @Produce json
// @Param postId path string true "Post ID"
// @Success 200 {object} models.Post
// @Failure 500 {object} models.Response
// @Router /post/{postId} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.UserContext(), c.Params("postId"))
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "failed to load post", "error", err)
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if post == nil {
		return c.JSON(nil)
	}
	return c.JSON(post)
}

// CreatePost handles POST /post
// @Summary Create a post
// @Description Supplying data (base64 image) and filename uploads the image first and stores its public URL as picture_uri.
// @Tags posts
// @Accept json
// @Produce json
// @Param request body postRequest true "Token, post fields and optional image"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /post [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}

	_, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		Token:     req.Token,
		Fields:    req.Post,
		ImageData: req.Data,
		Filename:  req.Filename,
		Subject:   c.IP(),
	})
	if err != nil {
		return respondWriteError(c, err)
	}
	return c.JSON(models.SuccessResponse())
}

// UpdatePost handles PUT /post/:postId
// @Summary Edit a post
// @Description Merges the supplied fields into the post and sets modified_at. An unknown id answers like a rejected token.
// @Tags posts
// @Accept json
// @Produce json
// @Param postId path string true "Post ID"
// @Param request body postRequest true "Token and the fields to change"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /post/{postId} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}

	err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		Token:  req.Token,
		PostID: c.Params("postId"),
		Fields: req.Post,
	})
	if err != nil {
		return respondWriteError(c, err)
	}
	return c.JSON(models.SuccessResponse())
}

// respondWriteError maps a write failure onto the domain envelope. Rejected tokens
// and unknown posts share code 301, and a failed upload reports code 500 in a 200
// response; only malformed input and store failures change the HTTP status.
func respondWriteError(c *fiber.Ctx, err error) error {
	ctx := c.UserContext()
	switch {
	case errors.Is(err, service.ErrNotAuthenticated), errors.Is(err, repository.ErrPostNotFound):
		return c.JSON(models.NotAuthenticatedResponse())
	case models.IsValidationError(err):
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	case errors.Is(err, service.ErrUploadFailed):
		middleware.Logger.ErrorContext(ctx, "post image upload failed", "error", err)
		return c.JSON(models.InternalErrorResponse())
	default:
		middleware.Logger.ErrorContext(ctx, "post write failed", "error", err)
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
}
