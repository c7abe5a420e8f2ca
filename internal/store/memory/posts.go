package memory

import (
	"context"
	"sort"

	"github.com/fkhayef/clubhub/internal/post"
)

// PostStore implements post.Store
type PostStore struct {
	db *DB
}

var _ post.Store = (*PostStore)(nil)

// slugTaken reports whether a post other than id holds slug. Callers hold the lock.
func (s *PostStore) slugTaken(slug, id string) bool {
	for _, p := range s.db.posts {
		if p.Slug == slug && p.ID != id {
			return true
		}
	}
	return false
}

// Create inserts a new post
func (s *PostStore) Create(_ context.Context, p *post.Post) (*post.Post, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.slugTaken(p.Slug, "") {
		return nil, post.ErrSlugTaken
	}
	c := *p
	c.ID = newID()
	c.CreatedAt = s.db.now()
	c.UpdatedAt = c.CreatedAt
	s.db.posts[c.ID] = &c
	out := c
	return &out, nil
}

// GetBySlug retrieves a post by its slug
func (s *PostStore) GetBySlug(_ context.Context, slug string) (*post.Post, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, p := range s.db.posts {
		if p.Slug == slug {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

// List retrieves posts with pagination, newest first
func (s *PostStore) List(_ context.Context, publicOnly bool, limit, offset int) ([]*post.Post, int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var all []*post.Post
	for _, p := range s.db.posts {
		if publicOnly && !p.IsPublic {
			continue
		}
		c := *p
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return page(all, limit, offset), len(all), nil
}

// Update rewrites a post's editable fields
func (s *PostStore) Update(_ context.Context, p *post.Post) (*post.Post, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.posts[p.ID]
	if !ok {
		return nil, nil
	}
	if s.slugTaken(p.Slug, p.ID) {
		return nil, post.ErrSlugTaken
	}
	existing.Title = p.Title
	existing.Slug = p.Slug
	existing.Content = p.Content
	existing.IsPublic = p.IsPublic
	existing.UpdatedAt = s.db.now()
	c := *existing
	return &c, nil
}

// Delete removes a post
func (s *PostStore) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	delete(s.db.posts, id)
	return nil
}
