package memory

import (
	"context"

	"github.com/fkhayef/clubhub/internal/attendee"
)

// AttendeeStore implements attendee.Store
type AttendeeStore struct {
	db *DB
}

var _ attendee.Store = (*AttendeeStore)(nil)

func (s *AttendeeStore) find(match func(*attendee.Attendee) bool) *attendee.Attendee {
	for _, a := range s.db.attendees {
		if match(a) {
			return a
		}
	}
	return nil
}

func (s *AttendeeStore) getOne(match func(*attendee.Attendee) bool) (*attendee.Attendee, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	if a := s.find(match); a != nil {
		return cloneAttendee(a), nil
	}
	return nil, nil
}

// GetByID retrieves an attendee by its ID
func (s *AttendeeStore) GetByID(_ context.Context, id string) (*attendee.Attendee, error) {
	return s.getOne(func(a *attendee.Attendee) bool { return a.ID == id })
}

// GetByMemberID retrieves the attendee bound to a member
func (s *AttendeeStore) GetByMemberID(_ context.Context, memberID string) (*attendee.Attendee, error) {
	return s.getOne(func(a *attendee.Attendee) bool { return a.MemberID != nil && *a.MemberID == memberID })
}

// GetByWxid retrieves the attendee bound to a chat identity
func (s *AttendeeStore) GetByWxid(_ context.Context, wxid string) (*attendee.Attendee, error) {
	return s.getOne(func(a *attendee.Attendee) bool { return a.Wxid != nil && *a.Wxid == wxid })
}

// ListByIDs retrieves the attendees with the given ids
func (s *AttendeeStore) ListByIDs(_ context.Context, ids []string) ([]*attendee.Attendee, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []*attendee.Attendee
	for _, id := range ids {
		if a, ok := s.db.attendees[id]; ok {
			out = append(out, cloneAttendee(a))
		}
	}
	return out, nil
}

// ListByWxids retrieves the attendees bound to the given chat identities
func (s *AttendeeStore) ListByWxids(_ context.Context, wxids []string) ([]*attendee.Attendee, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	want := make(map[string]struct{}, len(wxids))
	for _, w := range wxids {
		want[w] = struct{}{}
	}
	var out []*attendee.Attendee
	for _, a := range s.db.attendees {
		if a.Wxid == nil {
			continue
		}
		if _, ok := want[*a.Wxid]; ok {
			out = append(out, cloneAttendee(a))
		}
	}
	return out, nil
}

// UpsertMember returns the attendee bound to memberID, creating it under the lock if absent
func (s *AttendeeStore) UpsertMember(_ context.Context, memberID, name string) (*attendee.Attendee, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if a := s.find(func(a *attendee.Attendee) bool { return a.MemberID != nil && *a.MemberID == memberID }); a != nil {
		return cloneAttendee(a), nil
	}
	id := memberID
	a := &attendee.Attendee{
		ID:        newID(),
		Name:      name,
		Type:      attendee.TypeMember,
		MemberID:  &id,
		CreatedAt: s.db.now(),
	}
	s.db.attendees[a.ID] = a
	return cloneAttendee(a), nil
}

// UpsertGuest returns the guest attendee with exactly this name, creating it under the lock if absent
func (s *AttendeeStore) UpsertGuest(_ context.Context, name string) (*attendee.Attendee, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if a := s.find(func(a *attendee.Attendee) bool { return a.Type == attendee.TypeGuest && a.Name == name }); a != nil {
		return cloneAttendee(a), nil
	}
	a := &attendee.Attendee{
		ID:        newID(),
		Name:      name,
		Type:      attendee.TypeGuest,
		CreatedAt: s.db.now(),
	}
	s.db.attendees[a.ID] = a
	return cloneAttendee(a), nil
}
