package memory

import (
	"context"
	"sort"

	"github.com/fkhayef/clubhub/internal/timing"
)

// TimingStore implements timing.Store
type TimingStore struct {
	db *DB
}

var _ timing.Store = (*TimingStore)(nil)

func (s *TimingStore) insert(t *timing.Timing) *timing.Timing {
	c := cloneTiming(t)
	c.ID = newID()
	c.CreatedAt = s.db.now()
	c.UpdatedAt = c.CreatedAt
	s.db.timings[c.ID] = c
	return cloneTiming(c)
}

// Create inserts a new timing
func (s *TimingStore) Create(_ context.Context, t *timing.Timing) (*timing.Timing, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	return s.insert(t), nil
}

// GetByID retrieves a timing by its ID
func (s *TimingStore) GetByID(_ context.Context, id string) (*timing.Timing, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	t, ok := s.db.timings[id]
	if !ok {
		return nil, nil
	}
	return cloneTiming(t), nil
}

// ListByMeeting retrieves the meeting's timings in recording order
func (s *TimingStore) ListByMeeting(_ context.Context, meetingID string) ([]*timing.Timing, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []*timing.Timing
	for _, t := range s.db.timings {
		if t.MeetingID == meetingID {
			out = append(out, cloneTiming(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ActualStartTime.Equal(out[j].ActualStartTime) {
			return out[i].ActualStartTime.Before(out[j].ActualStartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ReplaceSegments swaps the timings of every batch's segment under one lock
func (s *TimingStore) ReplaceSegments(_ context.Context, meetingID string, batches []timing.SegmentBatch) ([]*timing.Timing, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var created []*timing.Timing
	for _, b := range batches {
		for id, t := range s.db.timings {
			if t.MeetingID == meetingID && t.SegmentID == b.SegmentID {
				delete(s.db.timings, id)
			}
		}
		for _, t := range b.Timings {
			created = append(created, s.insert(t))
		}
	}
	return created, nil
}

// Update rewrites a timing's recorded values
func (s *TimingStore) Update(_ context.Context, t *timing.Timing) (*timing.Timing, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.timings[t.ID]
	if !ok {
		return nil, nil
	}
	existing.Name = cloneString(t.Name)
	existing.PlannedDurationMinutes = t.PlannedDurationMinutes
	existing.ActualStartTime = t.ActualStartTime
	existing.ActualEndTime = t.ActualEndTime
	existing.ActualDurationSeconds = t.ActualDurationSeconds
	existing.DotColor = t.DotColor
	existing.UpdatedAt = s.db.now()
	return cloneTiming(existing), nil
}

// Delete removes a timing
func (s *TimingStore) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	delete(s.db.timings, id)
	return nil
}
