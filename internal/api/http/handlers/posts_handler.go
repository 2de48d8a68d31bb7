package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trend-blog/internal/api/dto"
	"github.com/spec-kit/trend-blog/internal/domain"
	"github.com/spec-kit/trend-blog/internal/repository"
	"github.com/spec-kit/trend-blog/internal/service"
	apperrors "github.com/spec-kit/trend-blog/pkg/util"
)

// PostsHandler exposes the unauthenticated blog endpoints.
type PostsHandler struct {
	posts *service.PostService
}

// NewPostsHandler constructs handler.
func NewPostsHandler(postService *service.PostService) *PostsHandler {
	return &PostsHandler{posts: postService}
}

// ListPosts handles GET /api/getBlogPosts.
func (h *PostsHandler) ListPosts(c *fiber.Ctx) error {
	filter := repository.PostFilter{
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}
	if tag := c.Query("tag"); tag != "" {
		filter.Tag = &tag
	}

	posts, err := h.posts.ListPosts(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"posts":   dto.NewPostResponses(posts),
	})
}

// GetPost handles GET /api/getBlogPost.
func (h *PostsHandler) GetPost(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return apperrors.NewValidationError("필수 항목이 누락되었습니다.")
	}

	post, err := h.posts.GetPost(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"post":    dto.NewPostResponse(post),
	})
}

// SavePost handles POST /api/saveBlogPost.
func (h *PostsHandler) SavePost(c *fiber.Ctx) error {
	var req dto.SavePostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("요청 형식이 올바르지 않습니다.")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	post := &domain.BlogPost{
		ID:      req.ID,
		Title:   req.Title,
		Content: req.Content,
		Excerpt: req.Excerpt,
		Author:  req.Author,
		Tags:    req.Tags,
	}
	saved, created, err := h.posts.SavePost(c.Context(), post)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"postId":  saved.ID,
	})
}
