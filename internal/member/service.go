package member

import (
	"context"

	"github.com/fkhayef/clubhub/internal/apperr"
)

// Common errors
var (
	ErrMemberNotFound = apperr.New(apperr.NotFound, "member not found")
	ErrMembersOnly    = apperr.New(apperr.PermissionDenied, "only members can perform this action")
)

// Service handles member business logic
type Service struct {
	store Store
}

// NewService creates a new member service with store dependency injected
func NewService(store Store) *Service {
	return &Service{store: store}
}

// GetByID retrieves a member by their ID
func (s *Service) GetByID(ctx context.Context, id string) (*Member, error) {
	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

// IsAdmin reports whether the member exists and carries the admin flag
func (s *Service) IsAdmin(ctx context.Context, id string) (bool, error) {
	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return m != nil && m.IsAdmin, nil
}

// FullNames maps member id to full name for the given ids. Unknown ids are absent.
func (s *Service) FullNames(ctx context.Context, ids []string) (map[string]string, error) {
	members, err := s.store.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.FullName
	}
	return names, nil
}

// ListByIDs retrieves the members with the given ids
func (s *Service) ListByIDs(ctx context.Context, ids []string) ([]*Member, error) {
	return s.store.ListByIDs(ctx, ids)
}

// List retrieves all members with pagination
func (s *Service) List(ctx context.Context, page, perPage int) ([]*Member, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.store.List(ctx, perPage, offset)
}
