package timing

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fkhayef/clubhub/internal/apperr"
	"github.com/fkhayef/clubhub/internal/identity"
	"github.com/fkhayef/clubhub/internal/meeting"
	"github.com/fkhayef/clubhub/internal/timing/signal"
)

// Common errors
var (
	ErrTimingNotFound   = apperr.New(apperr.NotFound, "timing not found")
	ErrNotTimer         = apperr.New(apperr.PermissionDenied, "only the Timer or an admin can record timings")
	ErrWrongMeeting     = apperr.New(apperr.InvalidReference, "timing does not belong to this meeting")
	ErrNegativeDuration = apperr.New(apperr.Invalid, "actual end time is before the start time")
	ErrMissingSegment   = apperr.New(apperr.Invalid, "segment_id is required")
	ErrInvalidPlanned   = apperr.New(apperr.Invalid, "planned duration must be a positive number of minutes")
)

// MeetingLookup is the part of the meeting service timings depend on
type MeetingLookup interface {
	GetVisible(ctx context.Context, id string, caller identity.Caller) (*meeting.Meeting, error)
	ValidateSegments(ctx context.Context, meetingID string, ids []string) error
}

// Service handles timing business logic
type Service struct {
	store    Store
	meetings MeetingLookup
	gate     *Gate
	signals  *signal.Factory
}

// NewService creates a new timing service
func NewService(store Store, meetings MeetingLookup, gate *Gate) *Service {
	return &Service{
		store:    store,
		meetings: meetings,
		gate:     gate,
		signals:  signal.NewFactory(),
	}
}

// List returns the meeting's timings and whether the caller may record them
func (s *Service) List(ctx context.Context, caller identity.Caller, meetingID string) (bool, []*Timing, error) {
	if _, err := s.meetings.GetVisible(ctx, meetingID, caller); err != nil {
		return false, nil, err
	}
	canControl, err := s.gate.CanControl(ctx, meetingID, caller)
	if err != nil {
		return false, nil, err
	}
	timings, err := s.store.ListByMeeting(ctx, meetingID)
	if err != nil {
		return false, nil, err
	}
	return canControl, timings, nil
}

// Create records a single timing
func (s *Service) Create(ctx context.Context, caller identity.Caller, meetingID string, req *CreateTimingRequest) (*Timing, error) {
	if err := s.authorize(ctx, caller, meetingID); err != nil {
		return nil, err
	}
	if err := s.validateSegments(ctx, meetingID, req.SegmentID); err != nil {
		return nil, err
	}
	t, err := s.build(meetingID, req.SegmentID, req.TimingItem)
	if err != nil {
		return nil, err
	}
	return s.store.Create(ctx, t)
}

// ReplaceSegment replaces every timing of one segment; an empty list clears it
func (s *Service) ReplaceSegment(ctx context.Context, caller identity.Caller, meetingID string, req *BatchRequest) ([]*Timing, error) {
	return s.ReplaceAll(ctx, caller, meetingID, &BatchAllRequest{Segments: []BatchRequest{*req}})
}

// ReplaceAll replaces the timings of several segments in one write
func (s *Service) ReplaceAll(ctx context.Context, caller identity.Caller, meetingID string, req *BatchAllRequest) ([]*Timing, error) {
	if err := s.authorize(ctx, caller, meetingID); err != nil {
		return nil, err
	}

	ids := make([]string, len(req.Segments))
	for i, b := range req.Segments {
		ids[i] = b.SegmentID
	}
	if err := s.validateSegments(ctx, meetingID, ids...); err != nil {
		return nil, err
	}

	batches := make([]SegmentBatch, len(req.Segments))
	for i, b := range req.Segments {
		batches[i].SegmentID = b.SegmentID
		for _, item := range b.Timings {
			t, err := s.build(meetingID, b.SegmentID, item)
			if err != nil {
				return nil, err
			}
			batches[i].Timings = append(batches[i].Timings, t)
		}
	}

	timings, err := s.store.ReplaceSegments(ctx, meetingID, batches)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "timings replaced", "meeting_id", meetingID, "segments", len(batches), "timings", len(timings))
	return timings, nil
}

// Update rewrites a timing and recomputes its derived fields
func (s *Service) Update(ctx context.Context, caller identity.Caller, meetingID, timingID string, req *TimingItem) (*Timing, error) {
	existing, err := s.owned(ctx, caller, meetingID, timingID)
	if err != nil {
		return nil, err
	}
	t, err := s.build(meetingID, existing.SegmentID, *req)
	if err != nil {
		return nil, err
	}
	t.ID = existing.ID

	updated, err := s.store.Update(ctx, t)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrTimingNotFound
	}
	return updated, nil
}

// Delete removes a timing
func (s *Service) Delete(ctx context.Context, caller identity.Caller, meetingID, timingID string) error {
	if _, err := s.owned(ctx, caller, meetingID, timingID); err != nil {
		return err
	}
	return s.store.Delete(ctx, timingID)
}

func (s *Service) authorize(ctx context.Context, caller identity.Caller, meetingID string) error {
	if _, err := s.meetings.GetVisible(ctx, meetingID, caller); err != nil {
		return err
	}
	ok, err := s.gate.CanControl(ctx, meetingID, caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotTimer
	}
	return nil
}

func (s *Service) owned(ctx context.Context, caller identity.Caller, meetingID, timingID string) (*Timing, error) {
	if err := s.authorize(ctx, caller, meetingID); err != nil {
		return nil, err
	}
	t, err := s.store.GetByID(ctx, timingID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTimingNotFound
	}
	if t.MeetingID != meetingID {
		return nil, ErrWrongMeeting
	}
	return t, nil
}

func (s *Service) validateSegments(ctx context.Context, meetingID string, ids ...string) error {
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return ErrMissingSegment
		}
	}
	return s.meetings.ValidateSegments(ctx, meetingID, ids)
}

// build derives the duration and dot color of a timing
func (s *Service) build(meetingID, segmentID string, item TimingItem) (*Timing, error) {
	elapsed := item.ActualEndTime.Sub(item.ActualStartTime)
	if elapsed < 0 {
		return nil, ErrNegativeDuration
	}
	seconds := int(elapsed.Seconds())

	color, err := s.signals.DotColor(item.PlannedDurationMinutes, seconds)
	if err != nil {
		return nil, ErrInvalidPlanned.Wrap(err)
	}

	return &Timing{
		MeetingID:              meetingID,
		SegmentID:              segmentID,
		Name:                   item.Name,
		PlannedDurationMinutes: item.PlannedDurationMinutes,
		ActualStartTime:        item.ActualStartTime,
		ActualEndTime:          item.ActualEndTime,
		ActualDurationSeconds:  seconds,
		DotColor:               color,
	}, nil
}
