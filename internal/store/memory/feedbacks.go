package memory

import (
	"context"
	"sort"

	"github.com/fkhayef/clubhub/internal/access"
	"github.com/fkhayef/clubhub/internal/feedback"
)

// FeedbackStore implements feedback.Store
type FeedbackStore struct {
	db *DB
}

var _ feedback.Store = (*FeedbackStore)(nil)

// insert enforces one experience note per author, type and meeting. Callers hold the write lock.
func (s *FeedbackStore) insert(f *feedback.Feedback) (*feedback.Feedback, error) {
	if f.Type.IsExperience() {
		for _, existing := range s.db.feedbacks {
			if existing.MeetingID == f.MeetingID && existing.FromWxid == f.FromWxid && existing.Type == f.Type {
				return nil, feedback.ErrDuplicateExperience
			}
		}
	}

	c := cloneFeedback(f)
	c.ID = newID()
	c.CreatedAt = s.db.now()
	c.UpdatedAt = c.CreatedAt
	s.db.feedbacks[c.ID] = c
	return cloneFeedback(c), nil
}

// Create inserts a new feedback
func (s *FeedbackStore) Create(_ context.Context, f *feedback.Feedback) (*feedback.Feedback, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	return s.insert(f)
}

// GetByID retrieves a feedback by its ID
func (s *FeedbackStore) GetByID(_ context.Context, id string) (*feedback.Feedback, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	f, ok := s.db.feedbacks[id]
	if !ok {
		return nil, nil
	}
	return cloneFeedback(f), nil
}

// List retrieves the meeting's feedback visible through filter, oldest first
func (s *FeedbackStore) List(_ context.Context, meetingID string, filter access.FeedbackFilter) ([]*feedback.Feedback, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []*feedback.Feedback
	for _, f := range s.db.feedbacks {
		if f.MeetingID == meetingID && filter.Allows(f.FromWxid, f.ToAttendeeID, string(f.Type), f.SegmentID) {
			out = append(out, cloneFeedback(f))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Update rewrites the value and targets of a feedback
func (s *FeedbackStore) Update(_ context.Context, f *feedback.Feedback) (*feedback.Feedback, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.feedbacks[f.ID]
	if !ok {
		return nil, nil
	}
	existing.Value = f.Value
	existing.SegmentID = cloneString(f.SegmentID)
	existing.ToAttendeeID = cloneString(f.ToAttendeeID)
	existing.UpdatedAt = s.db.now()
	return cloneFeedback(existing), nil
}

// Delete removes a feedback
func (s *FeedbackStore) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	delete(s.db.feedbacks, id)
	return nil
}

// ReplaceExperiences swaps the author's experience notes for the meeting under one lock
func (s *FeedbackStore) ReplaceExperiences(_ context.Context, meetingID, fromWxid string, rows []*feedback.Feedback) ([]*feedback.Feedback, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for id, f := range s.db.feedbacks {
		if f.MeetingID == meetingID && f.FromWxid == fromWxid && f.Type.IsExperience() {
			delete(s.db.feedbacks, id)
		}
	}
	created := make([]*feedback.Feedback, 0, len(rows))
	for _, row := range rows {
		f, err := s.insert(row)
		if err != nil {
			return nil, err
		}
		created = append(created, f)
	}
	return created, nil
}
