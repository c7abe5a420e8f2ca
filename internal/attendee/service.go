package attendee

import (
	"context"

	"github.com/fkhayef/clubhub/internal/apperr"
	"github.com/fkhayef/clubhub/internal/identity"
)

// Common errors
var (
	ErrAttendeeNotFound = apperr.New(apperr.NotFound, "attendee not found")
	ErrUnknownAttendee  = apperr.New(apperr.InvalidReference, "attendee does not exist")
)

// Service exposes attendee lookups to other features
type Service struct {
	store Store
}

// NewService creates a new attendee service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// GetByID retrieves an attendee by its ID
func (s *Service) GetByID(ctx context.Context, id string) (*Attendee, error) {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAttendeeNotFound
	}
	return a, nil
}

// ValidateReference fails with InvalidReference when id names no attendee
func (s *Service) ValidateReference(ctx context.Context, id string) error {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return ErrUnknownAttendee
	}
	return nil
}

// ListByIDs retrieves attendees keyed by id
func (s *Service) ListByIDs(ctx context.Context, ids []string) (map[string]*Attendee, error) {
	attendees, err := s.store.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*Attendee, len(attendees))
	for _, a := range attendees {
		byID[a.ID] = a
	}
	return byID, nil
}

// BindingForMember returns the attendee bound to memberID and its chat identity.
// It only looks up; attendees are created by the Resolver.
func (s *Service) BindingForMember(ctx context.Context, memberID string) (*identity.Binding, error) {
	a, err := s.store.GetByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}
	return &identity.Binding{AttendeeID: a.ID, Wxid: a.Wxid}, nil
}

// MembersByWxid maps each chat identity in wxids to its member-bound attendee.
// Identities bound to no attendee, or to a guest attendee, are absent.
func (s *Service) MembersByWxid(ctx context.Context, wxids []string) (map[string]*Attendee, error) {
	attendees, err := s.store.ListByWxids(ctx, wxids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*Attendee, len(attendees))
	for _, a := range attendees {
		if a.Wxid != nil && a.IsMember() {
			out[*a.Wxid] = a
		}
	}
	return out, nil
}
