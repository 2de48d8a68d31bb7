package dto

import (
	"time"

	"github.com/spec-kit/trend-blog/internal/domain"
)

// SavePostRequest creates a post, or updates one when id is present.
type SavePostRequest struct {
	ID      string   `json:"id"`
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content" validate:"required"`
	Excerpt string   `json:"excerpt"`
	Author  string   `json:"author"`
	Tags    []string `json:"tags"`
}

// PostResponse is the client-visible post shape.
type PostResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Excerpt   string    `json:"excerpt"`
	Author    string    `json:"author"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPostResponse maps the domain record.
func NewPostResponse(post *domain.BlogPost) PostResponse {
	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		Excerpt:   post.Excerpt,
		Author:    post.Author,
		Tags:      tags,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

// NewPostResponses maps a slice of domain records.
func NewPostResponses(posts []domain.BlogPost) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, NewPostResponse(&posts[i]))
	}
	return out
}
