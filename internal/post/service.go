package post

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/fkhayef/clubhub/internal/access"
	"github.com/fkhayef/clubhub/internal/apperr"
	"github.com/fkhayef/clubhub/internal/identity"
)

// Common errors
var (
	ErrPostNotFound = apperr.New(apperr.NotFound, "post not found")
	ErrSlugTaken    = apperr.New(apperr.Conflict, "another post already uses this slug")
	ErrEmptyTitle   = apperr.New(apperr.Invalid, "title is required")
	ErrInvalidSlug  = apperr.New(apperr.Invalid, "slug must contain letters or digits")
)

// AuthorDirectory names post authors
type AuthorDirectory interface {
	FullNames(ctx context.Context, ids []string) (map[string]string, error)
}

// Service handles blog post business logic
type Service struct {
	store   Store
	authors AuthorDirectory
}

// NewService creates a new post service
func NewService(store Store, authors AuthorDirectory) *Service {
	return &Service{store: store, authors: authors}
}

// Create publishes a post authored by the calling member
func (s *Service) Create(ctx context.Context, caller identity.Caller, req *CreatePostRequest) (*Post, error) {
	if err := access.CanWritePosts(caller); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	slug := Slugify(title)
	if strings.TrimSpace(req.Slug) != "" {
		if slug = Slugify(req.Slug); slug == "" {
			return nil, ErrInvalidSlug
		}
	}
	if slug == "" {
		slug = "post-" + uuid.NewString()[:8]
	}

	authorID, _ := caller.MemberID()
	p, err := s.store.Create(ctx, &Post{
		Title:    title,
		Slug:     slug,
		Content:  req.Content,
		IsPublic: req.IsPublic,
		AuthorID: authorID,
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "post created", "post_id", p.ID, "slug", p.Slug, "public", p.IsPublic)
	return p, nil
}

// Get returns the post if caller may see it. Private posts do not exist for non-members.
func (s *Service) Get(ctx context.Context, caller identity.Caller, slug string) (*Post, error) {
	p, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p == nil || (!p.IsPublic && !caller.IsMember()) {
		return nil, ErrPostNotFound
	}
	return p, nil
}

// List returns a page of posts, newest first. Non-members only see public posts.
func (s *Service) List(ctx context.Context, caller identity.Caller, page, perPage int) ([]*Post, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 50 {
		perPage = 10
	}

	offset := (page - 1) * perPage
	return s.store.List(ctx, !caller.IsMember(), perPage, offset)
}

// Update edits a post. Only its author or an admin may do so.
func (s *Service) Update(ctx context.Context, caller identity.Caller, slug string, req *UpdatePostRequest) (*Post, error) {
	p, err := s.owned(ctx, caller, slug)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if p.Title = strings.TrimSpace(*req.Title); p.Title == "" {
			return nil, ErrEmptyTitle
		}
	}
	if req.Slug != nil {
		if p.Slug = Slugify(*req.Slug); p.Slug == "" {
			return nil, ErrInvalidSlug
		}
	}
	if req.Content != nil {
		p.Content = *req.Content
	}
	if req.IsPublic != nil {
		p.IsPublic = *req.IsPublic
	}

	updated, err := s.store.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrPostNotFound
	}
	return updated, nil
}

// Delete removes a post. Only its author or an admin may do so.
func (s *Service) Delete(ctx context.Context, caller identity.Caller, slug string) error {
	p, err := s.owned(ctx, caller, slug)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, p.ID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "post deleted", "post_id", p.ID, "by_admin", caller.IsAdmin)
	return nil
}

// AuthorNames maps the authors of posts to their full names
func (s *Service) AuthorNames(ctx context.Context, posts ...*Post) (map[string]string, error) {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.AuthorID
	}
	return s.authors.FullNames(ctx, ids)
}

func (s *Service) owned(ctx context.Context, caller identity.Caller, slug string) (*Post, error) {
	if err := access.CanWritePosts(caller); err != nil {
		return nil, err
	}
	p, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPostNotFound
	}
	if err := access.CanMutatePost(caller, p.AuthorID); err != nil {
		return nil, err
	}
	return p, nil
}
