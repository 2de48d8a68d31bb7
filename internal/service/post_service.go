package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/trend-blog/internal/domain"
	"github.com/spec-kit/trend-blog/internal/events"
	"github.com/spec-kit/trend-blog/internal/repository"
	apperrors "github.com/spec-kit/trend-blog/pkg/util"
)

const MsgPostNotFound = "게시글을 찾을 수 없습니다."

// PostService handles blog post reads and writes.
type PostService struct {
	posts      repository.PostRepository
	dispatcher events.Dispatcher
}

// NewPostService builds the service.
func NewPostService(posts repository.PostRepository, dispatcher events.Dispatcher) *PostService {
	return &PostService{posts: posts, dispatcher: dispatcher}
}

// SavePost inserts a new post or updates an existing one when an id is
// supplied. Tags round-trip in the order given.
func (s *PostService) SavePost(ctx context.Context, post *domain.BlogPost) (*domain.BlogPost, bool, error) {
	created := post.ID == ""

	if created {
		if err := s.posts.Create(ctx, post); err != nil {
			return nil, false, apperrors.MapError(err)
		}
	} else {
		if err := s.posts.Update(ctx, post); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, false, apperrors.NewNotFound(MsgPostNotFound)
			}
			return nil, false, apperrors.MapError(err)
		}
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPostSaved,
			Timestamp: time.Now(),
			Payload: events.PostSavedPayload{
				PostID: post.ID,
				Title:  post.Title,
				Tags:   post.Tags,
			},
		})
	}
	return post, created, nil
}

// GetPost fetches a single post by id.
func (s *PostService) GetPost(ctx context.Context, id string) (*domain.BlogPost, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(MsgPostNotFound)
		}
		return nil, apperrors.MapError(err)
	}
	return post, nil
}

// ListPosts returns posts, most recent first.
func (s *PostService) ListPosts(ctx context.Context, filter repository.PostFilter) ([]domain.BlogPost, error) {
	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return posts, nil
}
