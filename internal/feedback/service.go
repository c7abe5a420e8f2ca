package feedback

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fkhayef/clubhub/internal/access"
	"github.com/fkhayef/clubhub/internal/apperr"
	"github.com/fkhayef/clubhub/internal/identity"
	"github.com/fkhayef/clubhub/internal/meeting"
)

// Common errors
var (
	ErrFeedbackNotFound    = apperr.New(apperr.NotFound, "feedback not found")
	ErrDuplicateExperience = apperr.New(apperr.Conflict, "experience feedback of this type already exists for this meeting")
	ErrWrongMeeting        = apperr.New(apperr.InvalidReference, "feedback does not belong to this meeting")
	ErrInvalidType         = apperr.New(apperr.Invalid, "unknown feedback type")
	ErrEmptyValue          = apperr.New(apperr.Invalid, "feedback value is required")
)

// MeetingLookup is the part of the meeting service feedback depends on
type MeetingLookup interface {
	GetVisible(ctx context.Context, id string, caller identity.Caller) (*meeting.Meeting, error)
	ValidateSegments(ctx context.Context, meetingID string, ids []string) error
}

// AttendeeValidator checks that an attendee reference exists
type AttendeeValidator interface {
	ValidateReference(ctx context.Context, id string) error
}

// Service handles feedback business logic
type Service struct {
	store     Store
	meetings  MeetingLookup
	attendees AttendeeValidator
}

// NewService creates a new feedback service
func NewService(store Store, meetings MeetingLookup, attendees AttendeeValidator) *Service {
	return &Service{store: store, meetings: meetings, attendees: attendees}
}

// Create records feedback authored by the caller's own chat identity
func (s *Service) Create(ctx context.Context, caller identity.Caller, meetingID string, req *CreateFeedbackRequest) (*Feedback, error) {
	wxid, err := access.CanWriteFeedback(caller)
	if err != nil {
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, ErrInvalidType
	}
	value := strings.TrimSpace(req.Value)
	if value == "" {
		return nil, ErrEmptyValue
	}
	if _, err := s.meetings.GetVisible(ctx, meetingID, caller); err != nil {
		return nil, err
	}
	if err := s.validateTargets(ctx, meetingID, req.SegmentID, req.ToAttendeeID); err != nil {
		return nil, err
	}

	f, err := s.store.Create(ctx, &Feedback{
		MeetingID:    meetingID,
		SegmentID:    req.SegmentID,
		Type:         req.Type,
		Value:        value,
		FromWxid:     wxid,
		ToAttendeeID: req.ToAttendeeID,
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "feedback created", "meeting_id", meetingID, "feedback_id", f.ID, "type", f.Type)
	return f, nil
}

// List returns the meeting's feedback visible to the caller, narrowed by the optional type and segment
func (s *Service) List(ctx context.Context, caller identity.Caller, meetingID string, feedbackType, segmentID *string) ([]*Feedback, error) {
	filter := access.FeedbackReadFilter(caller, feedbackType, segmentID)
	if filter.Scope == access.ScopeNone {
		return []*Feedback{}, nil
	}
	if _, err := s.meetings.GetVisible(ctx, meetingID, caller); err != nil {
		return nil, err
	}

	feedbacks, err := s.store.List(ctx, meetingID, filter)
	if err != nil {
		return nil, err
	}

	visible := make([]*Feedback, 0, len(feedbacks))
	for _, f := range feedbacks {
		if filter.Allows(f.FromWxid, f.ToAttendeeID, string(f.Type), f.SegmentID) {
			visible = append(visible, f)
		}
	}
	return visible, nil
}

// Update rewrites a feedback. Only its author or an admin may do so.
func (s *Service) Update(ctx context.Context, caller identity.Caller, meetingID, feedbackID string, req *UpdateFeedbackRequest) (*Feedback, error) {
	f, err := s.owned(ctx, caller, meetingID, feedbackID)
	if err != nil {
		return nil, err
	}
	value := strings.TrimSpace(req.Value)
	if value == "" {
		return nil, ErrEmptyValue
	}
	if err := s.validateTargets(ctx, meetingID, req.SegmentID, req.ToAttendeeID); err != nil {
		return nil, err
	}

	f.Value = value
	f.SegmentID = req.SegmentID
	f.ToAttendeeID = req.ToAttendeeID
	updated, err := s.store.Update(ctx, f)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrFeedbackNotFound
	}
	return updated, nil
}

// Delete removes a feedback. Only its author or an admin may do so.
func (s *Service) Delete(ctx context.Context, caller identity.Caller, meetingID, feedbackID string) error {
	if _, err := s.owned(ctx, caller, meetingID, feedbackID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, feedbackID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "feedback deleted", "meeting_id", meetingID, "feedback_id", feedbackID, "by_admin", caller.IsAdmin)
	return nil
}

// ReplaceExperiences sets the caller's experience notes for the meeting to exactly the non-blank entries of req
func (s *Service) ReplaceExperiences(ctx context.Context, caller identity.Caller, meetingID string, req *ExperienceRequest) ([]*Feedback, error) {
	wxid, err := access.CanWriteFeedback(caller)
	if err != nil {
		return nil, err
	}
	if _, err := s.meetings.GetVisible(ctx, meetingID, caller); err != nil {
		return nil, err
	}

	var rows []*Feedback
	for _, t := range []Type{TypeExperienceOpening, TypeExperiencePeak, TypeExperienceValley, TypeExperienceEnding} {
		v := req.entries()[t]
		if v == nil || strings.TrimSpace(*v) == "" {
			continue
		}
		rows = append(rows, &Feedback{
			MeetingID: meetingID,
			Type:      t,
			Value:     strings.TrimSpace(*v),
			FromWxid:  wxid,
		})
	}

	return s.store.ReplaceExperiences(ctx, meetingID, wxid, rows)
}

func (s *Service) owned(ctx context.Context, caller identity.Caller, meetingID, feedbackID string) (*Feedback, error) {
	f, err := s.store.GetByID(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFeedbackNotFound
	}
	if f.MeetingID != meetingID {
		return nil, ErrWrongMeeting
	}
	if err := access.CanMutateFeedback(caller, f.FromWxid); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) validateTargets(ctx context.Context, meetingID string, segmentID, toAttendeeID *string) error {
	if segmentID != nil {
		if err := s.meetings.ValidateSegments(ctx, meetingID, []string{*segmentID}); err != nil {
			return err
		}
	}
	if toAttendeeID != nil {
		if err := s.attendees.ValidateReference(ctx, *toAttendeeID); err != nil {
			return err
		}
	}
	return nil
}
