package memory

import (
	"context"
	"sort"

	"github.com/fkhayef/clubhub/internal/checkin"
)

// CheckinStore implements checkin.Store
type CheckinStore struct {
	db *DB
}

var _ checkin.Store = (*CheckinStore)(nil)

func (s *CheckinStore) list(match func(*checkin.Checkin) bool) []*checkin.Checkin {
	var out []*checkin.Checkin
	for _, c := range s.db.checkins {
		if match(c) {
			out = append(out, cloneCheckin(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Replace swaps the checkins of wxid for the meeting under one lock
func (s *CheckinStore) Replace(_ context.Context, meetingID, wxid string, rows []*checkin.Checkin) ([]*checkin.Checkin, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for id, c := range s.db.checkins {
		if c.MeetingID == meetingID && c.Wxid == wxid {
			delete(s.db.checkins, id)
		}
	}

	now := s.db.now()
	created := make([]*checkin.Checkin, 0, len(rows))
	for _, row := range rows {
		c := cloneCheckin(row)
		c.ID = newID()
		c.MeetingID = meetingID
		c.Wxid = wxid
		c.CreatedAt = now
		c.UpdatedAt = now
		s.db.checkins[c.ID] = c
		created = append(created, cloneCheckin(c))
	}
	return created, nil
}

// ListByMeeting retrieves the meeting's checkins, optionally for one wxid
func (s *CheckinStore) ListByMeeting(_ context.Context, meetingID string, wxid *string) ([]*checkin.Checkin, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return s.list(func(c *checkin.Checkin) bool {
		return c.MeetingID == meetingID && (wxid == nil || c.Wxid == *wxid)
	}), nil
}

// ListBySegment retrieves the checkins holding a segment
func (s *CheckinStore) ListBySegment(_ context.Context, meetingID, segmentID string) ([]*checkin.Checkin, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return s.list(func(c *checkin.Checkin) bool {
		return c.MeetingID == meetingID && c.SegmentID != nil && *c.SegmentID == segmentID
	}), nil
}

// CountByWxid counts the checkin rows wxid holds in the meeting
func (s *CheckinStore) CountByWxid(_ context.Context, meetingID, wxid string) (int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	n := 0
	for _, c := range s.db.checkins {
		if c.MeetingID == meetingID && c.Wxid == wxid {
			n++
		}
	}
	return n, nil
}

// Delete removes a checkin
func (s *CheckinStore) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	delete(s.db.checkins, id)
	return nil
}

// ClearSegment turns a role checkin into general attendance
func (s *CheckinStore) ClearSegment(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if c, ok := s.db.checkins[id]; ok {
		c.SegmentID = nil
		c.UpdatedAt = s.db.now()
	}
	return nil
}

// HasRoleCheckin reports whether wxid checked in for a segment of segmentType
func (s *CheckinStore) HasRoleCheckin(_ context.Context, meetingID, wxid, segmentType string) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, c := range s.db.checkins {
		if c.MeetingID != meetingID || c.Wxid != wxid || c.SegmentID == nil {
			continue
		}
		if seg, ok := s.db.segments[*c.SegmentID]; ok && seg.Type == segmentType {
			return true, nil
		}
	}
	return false, nil
}
