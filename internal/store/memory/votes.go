package memory

import (
	"context"
	"sort"

	"github.com/fkhayef/clubhub/internal/vote"
)

// VoteStore implements vote.Store
type VoteStore struct {
	db *DB
}

var _ vote.Store = (*VoteStore)(nil)

// ListAwards retrieves the meeting's awards in saved order
func (s *VoteStore) ListAwards(_ context.Context, meetingID string) ([]*vote.Award, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []*vote.Award
	for _, a := range s.db.awards {
		if a.MeetingID == meetingID {
			c := *a
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

// ReplaceAwards swaps the meeting's awards under one lock
func (s *VoteStore) ReplaceAwards(_ context.Context, meetingID string, rows []*vote.Award) ([]*vote.Award, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for id, a := range s.db.awards {
		if a.MeetingID == meetingID {
			delete(s.db.awards, id)
		}
	}
	created := make([]*vote.Award, 0, len(rows))
	for _, row := range rows {
		a := *row
		a.ID = newID()
		a.MeetingID = meetingID
		a.Winner = ""
		a.CreatedAt = s.db.now()
		s.db.awards[a.ID] = &a
		c := a
		created = append(created, &c)
	}
	return created, nil
}

func (s *VoteStore) candidates(meetingID string) []*vote.Candidate {
	var out []*vote.Candidate
	for _, c := range s.db.candidates {
		if c.MeetingID == meetingID {
			out = append(out, cloneCandidate(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

// ListCandidates retrieves the meeting's vote form in form order
func (s *VoteStore) ListCandidates(_ context.Context, meetingID string) ([]*vote.Candidate, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return s.candidates(meetingID), nil
}

// ReplaceCandidates swaps the meeting's vote form, carrying counts over by category and name
func (s *VoteStore) ReplaceCandidates(_ context.Context, meetingID string, rows []*vote.Candidate) ([]*vote.Candidate, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	kept := make(map[vote.Pick]*vote.Candidate)
	for id, c := range s.db.candidates {
		if c.MeetingID == meetingID {
			kept[vote.Pick{Category: c.Category, Name: c.Name}] = c
			delete(s.db.candidates, id)
		}
	}
	saved := make([]*vote.Candidate, 0, len(rows))
	for _, row := range rows {
		c := cloneCandidate(row)
		c.MeetingID = meetingID
		c.ID = newID()
		c.Count = 0
		if prev, ok := kept[vote.Pick{Category: c.Category, Name: c.Name}]; ok {
			c.ID = prev.ID
			c.Count = prev.Count
		}
		s.db.candidates[c.ID] = c
		saved = append(saved, cloneCandidate(c))
	}
	return saved, nil
}

// GetStatus retrieves the meeting's ballot status
func (s *VoteStore) GetStatus(_ context.Context, meetingID string) (*vote.Status, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	st, ok := s.db.voteStatus[meetingID]
	if !ok {
		return nil, nil
	}
	c := *st
	c.UpdatedBy = cloneString(st.UpdatedBy)
	return &c, nil
}

// SetStatus opens or closes the meeting's ballot
func (s *VoteStore) SetStatus(_ context.Context, st *vote.Status) (*vote.Status, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	c := &vote.Status{
		MeetingID: st.MeetingID,
		Open:      st.Open,
		UpdatedBy: cloneString(st.UpdatedBy),
		UpdatedAt: s.db.now(),
	}
	s.db.voteStatus[st.MeetingID] = c
	out := *c
	out.UpdatedBy = cloneString(c.UpdatedBy)
	return &out, nil
}

// Cast increments the named candidates while the ballot is open, under one lock
func (s *VoteStore) Cast(_ context.Context, meetingID string, picks []vote.Pick) ([]*vote.Candidate, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if st, ok := s.db.voteStatus[meetingID]; !ok || !st.Open {
		return nil, nil
	}
	wanted := make(map[vote.Pick]bool, len(picks))
	for _, p := range picks {
		wanted[p] = true
	}

	var counted []*vote.Candidate
	for _, c := range s.db.candidates {
		if c.MeetingID == meetingID && wanted[vote.Pick{Category: c.Category, Name: c.Name}] {
			c.Count++
			counted = append(counted, cloneCandidate(c))
		}
	}
	return counted, nil
}

func cloneCandidate(c *vote.Candidate) *vote.Candidate {
	v := *c
	v.Segment = cloneString(c.Segment)
	return &v
}
