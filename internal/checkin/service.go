package checkin

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fkhayef/clubhub/internal/access"
	"github.com/fkhayef/clubhub/internal/apperr"
	"github.com/fkhayef/clubhub/internal/identity"
	"github.com/fkhayef/clubhub/internal/meeting"
)

// ErrCheckinNotFound is returned when no checkin holds the segment being reset
var ErrCheckinNotFound = apperr.New(apperr.NotFound, "no checkin found for this segment")

// MeetingLookup is the part of the meeting service checkins depend on
type MeetingLookup interface {
	GetVisible(ctx context.Context, id string, caller identity.Caller) (*meeting.Meeting, error)
	ValidateSegments(ctx context.Context, meetingID string, ids []string) error
}

// Service handles checkin business logic
type Service struct {
	store    Store
	meetings MeetingLookup
}

// NewService creates a new checkin service
func NewService(store Store, meetings MeetingLookup) *Service {
	return &Service{store: store, meetings: meetings}
}

// Create replaces the caller's checkins for the meeting with the requested set.
// The reporting wxid comes from the caller's identity, never from the request.
func (s *Service) Create(ctx context.Context, caller identity.Caller, meetingID string, req *CreateCheckinRequest) ([]*Checkin, error) {
	wxid, err := access.CanWriteCheckin(caller)
	if err != nil {
		return nil, err
	}
	if _, err := s.meetings.GetVisible(ctx, meetingID, caller); err != nil {
		return nil, err
	}

	segmentIDs := dedupe(req.SegmentIDs)
	if err := s.meetings.ValidateSegments(ctx, meetingID, segmentIDs); err != nil {
		return nil, err
	}

	name := trimmed(req.Name)
	referral := trimmed(req.ReferralSource)
	newRow := func(segmentID *string) *Checkin {
		return &Checkin{
			MeetingID:      meetingID,
			Wxid:           wxid,
			SegmentID:      segmentID,
			Name:           name,
			ReferralSource: referral,
			IsMember:       caller.IsMember(),
		}
	}

	var rows []*Checkin
	switch {
	case req.SegmentIDs == nil:
		rows = []*Checkin{newRow(nil)}
	default:
		for _, id := range segmentIDs {
			segmentID := id
			rows = append(rows, newRow(&segmentID))
		}
	}

	created, err := s.store.Replace(ctx, meetingID, wxid, rows)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "checkins replaced", "meeting_id", meetingID, "rows", len(created), "is_member", caller.IsMember())
	return created, nil
}

// List returns the checkins of the meeting visible to caller
func (s *Service) List(ctx context.Context, caller identity.Caller, meetingID string) ([]*Checkin, error) {
	filter := access.CheckinReadFilter(caller)
	if filter.Scope == access.ScopeNone {
		return []*Checkin{}, nil
	}
	if _, err := s.meetings.GetVisible(ctx, meetingID, caller); err != nil {
		return nil, err
	}

	var wxid *string
	if filter.Scope == access.ScopeOwn {
		wxid = &filter.Wxid
	}
	checkins, err := s.store.ListByMeeting(ctx, meetingID, wxid)
	if err != nil {
		return nil, err
	}

	visible := make([]*Checkin, 0, len(checkins))
	for _, c := range checkins {
		if filter.Allows(c.Wxid) {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// Reset releases a segment. A holder with other checkins in the meeting loses this row;
// a holder whose only row it is keeps it as general attendance.
func (s *Service) Reset(ctx context.Context, caller identity.Caller, meetingID, segmentID string) (*ResetResponse, error) {
	if err := access.CanResetCheckin(caller); err != nil {
		return nil, err
	}
	if _, err := s.meetings.GetVisible(ctx, meetingID, caller); err != nil {
		return nil, err
	}

	holders, err := s.store.ListBySegment(ctx, meetingID, segmentID)
	if err != nil {
		return nil, err
	}
	if len(holders) == 0 {
		return nil, ErrCheckinNotFound
	}

	result := &ResetResponse{}
	for _, c := range holders {
		n, err := s.store.CountByWxid(ctx, meetingID, c.Wxid)
		if err != nil {
			return nil, err
		}
		if n > 1 {
			if err := s.store.Delete(ctx, c.ID); err != nil {
				return nil, err
			}
			result.Deleted++
			continue
		}
		if err := s.store.ClearSegment(ctx, c.ID); err != nil {
			return nil, err
		}
		result.Cleared++
	}

	slog.InfoContext(ctx, "segment checkin reset", "meeting_id", meetingID, "segment_id", segmentID,
		"deleted", result.Deleted, "cleared", result.Cleared)
	return result, nil
}

// ForMeeting returns every checkin of the meeting without access filtering.
// Callers must not expose the rows directly.
func (s *Service) ForMeeting(ctx context.Context, meetingID string) ([]*Checkin, error) {
	return s.store.ListByMeeting(ctx, meetingID, nil)
}

// HoldsRole reports whether wxid checked in for a segment of segmentType in the meeting
func (s *Service) HoldsRole(ctx context.Context, meetingID, wxid, segmentType string) (bool, error) {
	return s.store.HasRoleCheckin(ctx, meetingID, wxid, segmentType)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
