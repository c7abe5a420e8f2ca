package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fkhayef/clubhub/internal/meeting"
)

// MeetingStore implements meeting.Store
type MeetingStore struct {
	db *DB
}

var _ meeting.Store = (*MeetingStore)(nil)

const dateKey = "2006-01-02"

func (s *MeetingStore) segmentsOf(meetingID string) []*meeting.Segment {
	var out []*meeting.Segment
	for _, seg := range s.db.segments {
		if seg.MeetingID == meetingID {
			out = append(out, cloneSegment(seg))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *MeetingStore) withSegments(m *meeting.Meeting) *meeting.Meeting {
	c := *m
	c.No = cloneNo(m.No)
	c.ManagerID = cloneString(m.ManagerID)
	c.CreatedBy = cloneString(m.CreatedBy)
	c.Segments = s.segmentsOf(m.ID)
	return &c
}

func cloneNo(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}

// putSegments saves segs for meetingID. A segment id owned by another meeting is rejected
// before anything is written.
func (s *MeetingStore) putSegments(meetingID string, segs []*meeting.Segment) error {
	for _, seg := range segs {
		if existing, ok := s.db.segments[seg.ID]; ok && existing.MeetingID != meetingID {
			return meeting.ErrForeignSegment
		}
	}
	for _, seg := range segs {
		c := cloneSegment(seg)
		c.MeetingID = meetingID
		s.db.segments[c.ID] = c
	}
	return nil
}

// Create inserts a meeting with its segments
func (s *MeetingStore) Create(_ context.Context, m *meeting.Meeting) (*meeting.Meeting, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	stored := *m
	stored.ID = newID()
	stored.CreatedAt = s.db.now()
	stored.Segments = nil
	if err := s.putSegments(stored.ID, m.Segments); err != nil {
		return nil, err
	}
	s.db.meetings[stored.ID] = &stored
	return s.withSegments(&stored), nil
}

// GetByID retrieves a meeting with its segments
func (s *MeetingStore) GetByID(_ context.Context, id string) (*meeting.Meeting, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	m, ok := s.db.meetings[id]
	if !ok {
		return nil, nil
	}
	return s.withSegments(m), nil
}

// List retrieves meetings newest first, optionally filtered by status
func (s *MeetingStore) List(_ context.Context, status *meeting.Status, limit, offset int) ([]*meeting.Meeting, int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var all []*meeting.Meeting
	for _, m := range s.db.meetings {
		if status != nil && m.Status != *status {
			continue
		}
		c := *m
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.After(all[j].Date)
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return page(all, limit, offset), len(all), nil
}

// Update replaces the meeting fields and its segments. Removed segments take their
// checkins and timings with them; feedback on them loses its segment reference.
func (s *MeetingStore) Update(_ context.Context, m *meeting.Meeting) (*meeting.Meeting, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.meetings[m.ID]
	if !ok {
		return nil, nil
	}
	if err := s.putSegmentsReplacing(m.ID, m.Segments); err != nil {
		return nil, err
	}

	stored := *m
	stored.CreatedAt = existing.CreatedAt
	stored.CreatedBy = existing.CreatedBy
	stored.Segments = nil
	s.db.meetings[m.ID] = &stored
	return s.withSegments(&stored), nil
}

func (s *MeetingStore) putSegmentsReplacing(meetingID string, segs []*meeting.Segment) error {
	keep := make(map[string]struct{}, len(segs))
	for _, seg := range segs {
		keep[seg.ID] = struct{}{}
	}
	for _, seg := range segs {
		if existing, ok := s.db.segments[seg.ID]; ok && existing.MeetingID != meetingID {
			return meeting.ErrForeignSegment
		}
	}
	for id, seg := range s.db.segments {
		if seg.MeetingID != meetingID {
			continue
		}
		if _, ok := keep[id]; !ok {
			s.db.dropSegment(id)
		}
	}
	return s.putSegments(meetingID, segs)
}

// UpdateStatus sets the publication status of a meeting
func (s *MeetingStore) UpdateStatus(_ context.Context, id string, status meeting.Status) (*meeting.Meeting, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	m, ok := s.db.meetings[id]
	if !ok {
		return nil, nil
	}
	m.Status = status
	return s.withSegments(m), nil
}

// Delete removes a meeting and everything recorded for it
func (s *MeetingStore) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	delete(s.db.meetings, id)
	for segID, seg := range s.db.segments {
		if seg.MeetingID == id {
			delete(s.db.segments, segID)
		}
	}
	for cid, c := range s.db.checkins {
		if c.MeetingID == id {
			delete(s.db.checkins, cid)
		}
	}
	for fid, f := range s.db.feedbacks {
		if f.MeetingID == id {
			delete(s.db.feedbacks, fid)
		}
	}
	for tid, t := range s.db.timings {
		if t.MeetingID == id {
			delete(s.db.timings, tid)
		}
	}
	for aid, a := range s.db.awards {
		if a.MeetingID == id {
			delete(s.db.awards, aid)
		}
	}
	for cid, c := range s.db.candidates {
		if c.MeetingID == id {
			delete(s.db.candidates, cid)
		}
	}
	delete(s.db.voteStatus, id)
	return nil
}

// ListSegments retrieves a meeting's segments in agenda order
func (s *MeetingStore) ListSegments(_ context.Context, meetingID string) ([]*meeting.Segment, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return s.segmentsOf(meetingID), nil
}

// ListPublishedBetween retrieves published meetings dated within [start, end], oldest first
func (s *MeetingStore) ListPublishedBetween(_ context.Context, start, end time.Time) ([]*meeting.Meeting, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	from, to := start.Format(dateKey), end.Format(dateKey)
	var out []*meeting.Meeting
	for _, m := range s.db.meetings {
		day := m.Date.Format(dateKey)
		if m.Status != meeting.StatusPublished || day < from || day > to {
			continue
		}
		out = append(out, s.withSegments(m))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// dropSegment deletes a segment with the same cascade rules as the relational schema
func (db *DB) dropSegment(id string) {
	delete(db.segments, id)
	for cid, c := range db.checkins {
		if c.SegmentID != nil && *c.SegmentID == id {
			delete(db.checkins, cid)
		}
	}
	for tid, t := range db.timings {
		if t.SegmentID == id {
			delete(db.timings, tid)
		}
	}
	for _, f := range db.feedbacks {
		if f.SegmentID != nil && *f.SegmentID == id {
			f.SegmentID = nil
		}
	}
}
