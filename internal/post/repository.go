package post

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fkhayef/clubhub/internal/database"
)

// Store is the post persistence. Create and Update return ErrSlugTaken when another post holds the slug.
type Store interface {
	Create(ctx context.Context, p *Post) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	// List returns a page of posts, newest first, and the total matching count
	List(ctx context.Context, publicOnly bool, limit, offset int) ([]*Post, int, error)
	Update(ctx context.Context, p *Post) (*Post, error)
	Delete(ctx context.Context, id string) error
}

// Repository handles post data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new post repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const postColumns = `id, title, slug, content, is_public, author_id, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*Post, error) {
	p := &Post{}
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.IsPublic, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new post
func (r *Repository) Create(ctx context.Context, p *Post) (*Post, error) {
	query := `
		INSERT INTO posts (title, slug, content, is_public, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + postColumns

	created, err := scanPost(r.db.QueryRowContext(ctx, query, p.Title, p.Slug, p.Content, p.IsPublic, p.AuthorID))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return created, nil
}

// GetBySlug retrieves a post by its slug
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE slug = $1`

	p, err := scanPost(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return p, nil
}

// List retrieves posts with pagination
func (r *Repository) List(ctx context.Context, publicOnly bool, limit, offset int) ([]*Post, int, error) {
	where := ``
	if publicOnly {
		where = ` WHERE is_public`
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query := `SELECT ` + postColumns + ` FROM posts` + where + ` ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}

// Update rewrites a post's editable fields
func (r *Repository) Update(ctx context.Context, p *Post) (*Post, error) {
	query := `
		UPDATE posts
		SET title = $2, slug = $3, content = $4, is_public = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + postColumns

	updated, err := scanPost(r.db.QueryRowContext(ctx, query, p.ID, p.Title, p.Slug, p.Content, p.IsPublic))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if database.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return updated, nil
}

// Delete removes a post
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}
