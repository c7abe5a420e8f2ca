package meeting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/clubhub/internal/access"
	"github.com/fkhayef/clubhub/internal/apperr"
	"github.com/fkhayef/clubhub/internal/attendee"
	"github.com/fkhayef/clubhub/internal/identity"
)

// Common errors
var (
	ErrMeetingNotFound     = apperr.New(apperr.NotFound, "meeting not found")
	ErrSegmentNotInMeeting = apperr.New(apperr.InvalidReference, "segment does not belong to this meeting")
	ErrForeignSegment      = apperr.New(apperr.InvalidReference, "segment id belongs to another meeting")
	ErrUnknownRelated      = apperr.New(apperr.InvalidReference, "related segment is not part of this agenda")
	ErrInvalidStatus       = apperr.New(apperr.Invalid, "status must be 'draft' or 'published'")
	ErrInvalidDate         = apperr.New(apperr.Invalid, "date must be formatted as YYYY-MM-DD")
	ErrInvalidSegmentID    = apperr.New(apperr.Invalid, "segment id must be a UUID")
	ErrDuplicateSegmentID  = apperr.New(apperr.Invalid, "segment ids must be unique")
)

// AttendeeResolver turns a manager or role-taker reference into an attendee id
type AttendeeResolver interface {
	Resolve(ctx context.Context, reference string) (string, error)
}

// AttendeeDirectory loads attendees for responses
type AttendeeDirectory interface {
	ListByIDs(ctx context.Context, ids []string) (map[string]*attendee.Attendee, error)
}

// Service handles meeting business logic
type Service struct {
	store     Store
	resolver  AttendeeResolver
	attendees AttendeeDirectory
}

// NewService creates a new meeting service
func NewService(store Store, resolver AttendeeResolver, attendees AttendeeDirectory) *Service {
	return &Service{store: store, resolver: resolver, attendees: attendees}
}

// Create builds a meeting from req, resolving every attendee reference. New meetings are drafts.
func (s *Service) Create(ctx context.Context, caller identity.Caller, req *MeetingRequest) (*Meeting, error) {
	if err := access.CanManageMeetings(caller); err != nil {
		return nil, err
	}

	m, err := s.fromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.Status == nil {
		m.Status = StatusDraft
	}
	if memberID, ok := caller.MemberID(); ok {
		m.CreatedBy = &memberID
	}

	return s.store.Create(ctx, m)
}

// GetVisible returns the meeting if caller may see it. Drafts are visible to members only;
// to everyone else they do not exist.
func (s *Service) GetVisible(ctx context.Context, id string, caller identity.Caller) (*Meeting, error) {
	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil || (m.Status != StatusPublished && !caller.IsMember()) {
		return nil, ErrMeetingNotFound
	}
	return m, nil
}

// List returns a page of meetings. Non-members only ever see published meetings.
func (s *Service) List(ctx context.Context, caller identity.Caller, status *Status, page, perPage int) ([]*Meeting, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 50 {
		perPage = 10
	}
	if status != nil && !status.Valid() {
		return nil, 0, ErrInvalidStatus
	}

	if !caller.IsMember() {
		if status != nil && *status != StatusPublished {
			return nil, 0, nil
		}
		published := StatusPublished
		status = &published
	}

	offset := (page - 1) * perPage
	return s.store.List(ctx, status, perPage, offset)
}

// Update replaces a meeting's fields and agenda
func (s *Service) Update(ctx context.Context, caller identity.Caller, id string, req *MeetingRequest) (*Meeting, error) {
	if err := access.CanManageMeetings(caller); err != nil {
		return nil, err
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrMeetingNotFound
	}

	m, err := s.fromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	m.ID = existing.ID
	if req.Status == nil {
		m.Status = existing.Status
	}

	updated, err := s.store.Update(ctx, m)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrMeetingNotFound
	}
	return updated, nil
}

// UpdateStatus publishes or unpublishes a meeting
func (s *Service) UpdateStatus(ctx context.Context, caller identity.Caller, id string, status Status) (*Meeting, error) {
	if err := access.CanManageMeetings(caller); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	m, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMeetingNotFound
	}
	return m, nil
}

// Delete removes a meeting. Only its creator or an admin may delete it.
func (s *Service) Delete(ctx context.Context, caller identity.Caller, id string) error {
	if err := access.CanManageMeetings(caller); err != nil {
		return err
	}

	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrMeetingNotFound
	}
	if err := access.CanDeleteMeeting(caller, m.CreatedBy); err != nil {
		return err
	}

	return s.store.Delete(ctx, id)
}

// Segments returns the agenda of a meeting
func (s *Service) Segments(ctx context.Context, meetingID string) ([]*Segment, error) {
	return s.store.ListSegments(ctx, meetingID)
}

// ValidateSegments fails with InvalidReference unless every id is a segment of the meeting
func (s *Service) ValidateSegments(ctx context.Context, meetingID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	segments, err := s.store.ListSegments(ctx, meetingID)
	if err != nil {
		return err
	}
	owned := make(map[string]struct{}, len(segments))
	for _, seg := range segments {
		owned[seg.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := owned[id]; !ok {
			return ErrSegmentNotInMeeting.Wrap(fmt.Errorf("segment %s", id))
		}
	}
	return nil
}

// PublishedBetween returns the published meetings dated within [start, end]
func (s *Service) PublishedBetween(ctx context.Context, start, end time.Time) ([]*Meeting, error) {
	return s.store.ListPublishedBetween(ctx, start, end)
}

// ToResponse renders m with its manager and role-takers resolved to names
func (s *Service) ToResponse(ctx context.Context, m *Meeting) (*MeetingResponse, error) {
	attendees, err := s.attendees.ListByIDs(ctx, m.AttendeeIDs())
	if err != nil {
		return nil, err
	}
	return m.ToResponse(attendees), nil
}

func (s *Service) fromRequest(ctx context.Context, req *MeetingRequest) (*Meeting, error) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		return nil, ErrInvalidDate
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	m := &Meeting{
		No:           req.No,
		Type:         req.Type,
		Theme:        req.Theme,
		Date:         date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Location:     req.Location,
		Introduction: req.Introduction,
	}
	if m.Type == "" {
		m.Type = "Regular"
	}
	if req.Status != nil {
		m.Status = *req.Status
	}
	if req.Manager != nil {
		managerID, err := s.resolver.Resolve(ctx, req.Manager.Reference())
		if err != nil {
			return nil, err
		}
		m.ManagerID = &managerID
	}

	segments, err := s.segmentsFromRequest(ctx, req.Segments)
	if err != nil {
		return nil, err
	}
	m.Segments = segments
	return m, nil
}

func (s *Service) segmentsFromRequest(ctx context.Context, reqs []SegmentRequest) ([]*Segment, error) {
	segments := make([]*Segment, 0, len(reqs))
	ids := make(map[string]struct{}, len(reqs))

	for i, req := range reqs {
		seg := &Segment{
			ID:                req.ID,
			Type:              req.Type,
			StartTime:         req.StartTime,
			Duration:          req.Duration,
			EndTime:           req.EndTime,
			Title:             req.Title,
			Content:           req.Content,
			RelatedSegmentIDs: req.RelatedSegmentIDs,
			SortOrder:         i,
		}
		if seg.ID == "" {
			seg.ID = uuid.NewString()
		} else if parsed, err := uuid.Parse(seg.ID); err != nil {
			return nil, ErrInvalidSegmentID
		} else {
			seg.ID = parsed.String()
		}
		if _, dup := ids[seg.ID]; dup {
			return nil, ErrDuplicateSegmentID
		}
		ids[seg.ID] = struct{}{}
		if seg.RelatedSegmentIDs == nil {
			seg.RelatedSegmentIDs = []string{}
		}

		if req.RoleTaker != nil {
			roleTakerID, err := s.resolver.Resolve(ctx, req.RoleTaker.Reference())
			if err != nil {
				return nil, err
			}
			seg.RoleTakerID = &roleTakerID
		}
		segments = append(segments, seg)
	}

	for _, seg := range segments {
		for j, related := range seg.RelatedSegmentIDs {
			parsed, err := uuid.Parse(related)
			if err != nil {
				return nil, ErrUnknownRelated.Wrap(fmt.Errorf("segment %q", related))
			}
			if _, ok := ids[parsed.String()]; !ok {
				return nil, ErrUnknownRelated.Wrap(fmt.Errorf("segment %s", related))
			}
			seg.RelatedSegmentIDs[j] = parsed.String()
		}
	}
	return segments, nil
}
