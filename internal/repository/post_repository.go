package repository

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/trend-blog/internal/domain"
)

// PostFilter captures listing parameters.
type PostFilter struct {
	Tag    *string
	Limit  int
	Offset int
}

// PostRepository encapsulates blog post persistence.
type PostRepository interface {
	Create(ctx context.Context, post *domain.BlogPost) error
	Update(ctx context.Context, post *domain.BlogPost) error
	GetByID(ctx context.Context, id string) (*domain.BlogPost, error)
	List(ctx context.Context, filter PostFilter) ([]domain.BlogPost, error)
}

type postRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository instantiates repository.
func NewPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postRepository{pool: pool}
}

func (r *postRepository) Create(ctx context.Context, post *domain.BlogPost) error {
	const query = `
        INSERT INTO blog_posts (title, content, excerpt, author, tags)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	tags, err := encodeTags(post.Tags)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, query,
		post.Title,
		post.Content,
		post.Excerpt,
		post.Author,
		tags,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
}

func (r *postRepository) Update(ctx context.Context, post *domain.BlogPost) error {
	const query = `
        UPDATE blog_posts SET title=$1, content=$2, excerpt=$3, author=$4, tags=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`

	tags, err := encodeTags(post.Tags)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, query,
		post.Title,
		post.Content,
		post.Excerpt,
		post.Author,
		tags,
		post.ID,
	).Scan(&post.UpdatedAt)
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*domain.BlogPost, error) {
	const query = `
        SELECT id, title, content, excerpt, author, tags, created_at, updated_at
        FROM blog_posts WHERE id=$1`
	return scanPost(r.pool.QueryRow(ctx, query, id))
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]domain.BlogPost, error) {
	query := `
        SELECT id, title, content, excerpt, author, tags, created_at, updated_at
        FROM blog_posts`
	args := []any{}
	if filter.Tag != nil {
		// jsonb containment keeps the tag filter on the stored JSON array.
		query += ` WHERE tags @> $1`
		tag, err := encodeTags([]string{*filter.Tag})
		if err != nil {
			return nil, err
		}
		args = append(args, tag)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]domain.BlogPost, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func scanPost(row pgx.Row) (*domain.BlogPost, error) {
	var post domain.BlogPost
	var tags []byte
	if err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Excerpt,
		&post.Author,
		&tags,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &post.Tags); err != nil {
			return nil, err
		}
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	return &post, nil
}

func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}
