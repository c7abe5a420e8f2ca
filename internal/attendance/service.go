package attendance

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/fkhayef/clubhub/internal/access"
	"github.com/fkhayef/clubhub/internal/apperr"
	"github.com/fkhayef/clubhub/internal/attendee"
	"github.com/fkhayef/clubhub/internal/checkin"
	"github.com/fkhayef/clubhub/internal/identity"
	"github.com/fkhayef/clubhub/internal/meeting"
	"github.com/fkhayef/clubhub/internal/member"
)

const dateLayout = "2006-01-02"

// ErrInvalidRange is returned when the dashboard range ends before it starts
var ErrInvalidRange = apperr.New(apperr.Invalid, "end_date must not be before start_date")

// MeetingReader is the part of the meeting service attendance depends on
type MeetingReader interface {
	GetVisible(ctx context.Context, id string, caller identity.Caller) (*meeting.Meeting, error)
	PublishedBetween(ctx context.Context, start, end time.Time) ([]*meeting.Meeting, error)
}

// CheckinReader returns every checkin of a meeting
type CheckinReader interface {
	ForMeeting(ctx context.Context, meetingID string) ([]*checkin.Checkin, error)
}

// AttendeeDirectory resolves role-takers and chat identities to attendees
type AttendeeDirectory interface {
	ListByIDs(ctx context.Context, ids []string) (map[string]*attendee.Attendee, error)
	MembersByWxid(ctx context.Context, wxids []string) (map[string]*attendee.Attendee, error)
}

// MemberDirectory resolves member ids to members
type MemberDirectory interface {
	ListByIDs(ctx context.Context, ids []string) ([]*member.Member, error)
}

// MergeObserver is told which signal won each merge
type MergeObserver interface {
	ObserveMerge(major string)
}

// Service computes attendance reports. It only reads.
type Service struct {
	meetings  MeetingReader
	checkins  CheckinReader
	attendees AttendeeDirectory
	members   MemberDirectory
	observer  MergeObserver
}

// NewService creates a new attendance service
func NewService(meetings MeetingReader, checkins CheckinReader, attendees AttendeeDirectory, members MemberDirectory, observer MergeObserver) *Service {
	return &Service{
		meetings:  meetings,
		checkins:  checkins,
		attendees: attendees,
		members:   members,
		observer:  observer,
	}
}

// MergeAttendance reconciles the role and checkin attendance of a meeting visible to caller
func (s *Service) MergeAttendance(ctx context.Context, caller identity.Caller, meetingID string) (*Result, error) {
	m, err := s.meetings.GetVisible(ctx, meetingID, caller)
	if err != nil {
		return nil, err
	}

	d, err := s.load(ctx, []*meeting.Meeting{m})
	if err != nil {
		return nil, err
	}
	result := s.merge(d, m)
	return &result, nil
}

// Dashboard returns member role history and per-meeting attendance for published meetings in [start, end]
func (s *Service) Dashboard(ctx context.Context, caller identity.Caller, start, end time.Time) (*DashboardResponse, error) {
	if err := access.CanViewDashboard(caller); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	meetings, err := s.meetings.PublishedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	d, err := s.load(ctx, meetings)
	if err != nil {
		return nil, err
	}

	resp := &DashboardResponse{
		MemberMeetings:    []*MemberMeeting{},
		MeetingAttendance: make([]*MeetingAttendance, 0, len(meetings)),
	}
	for _, m := range meetings {
		date := m.Date.Format(dateLayout)
		for _, seg := range m.Segments {
			a := d.roleTaker(seg)
			if a == nil || !a.IsMember() {
				continue
			}
			mem := d.members[*a.MemberID]
			if mem == nil {
				continue
			}
			resp.MemberMeetings = append(resp.MemberMeetings, &MemberMeeting{
				MemberID:     mem.ID,
				Username:     mem.Username,
				FullName:     mem.FullName,
				MeetingID:    m.ID,
				MeetingNo:    m.No,
				MeetingDate:  date,
				MeetingTheme: m.Theme,
				Role:         seg.Type,
			})
		}

		resp.MeetingAttendance = append(resp.MeetingAttendance, &MeetingAttendance{
			MeetingID:    m.ID,
			MeetingNo:    m.No,
			MeetingDate:  date,
			MeetingTheme: m.Theme,
			Result:       s.merge(d, m),
		})
	}

	slog.DebugContext(ctx, "dashboard computed", "meetings", len(meetings), "member_roles", len(resp.MemberMeetings))
	return resp, nil
}

// directory holds everything needed to merge a set of meetings, read once per request
type directory struct {
	attendees map[string]*attendee.Attendee
	checkins  map[string][]*checkin.Checkin
	bound     map[string]*attendee.Attendee
	members   map[string]*member.Member
}

func (d *directory) roleTaker(seg *meeting.Segment) *attendee.Attendee {
	if seg.RoleTakerID == nil {
		return nil
	}
	return d.attendees[*seg.RoleTakerID]
}

func (d *directory) memberName(a *attendee.Attendee) string {
	if m := d.members[*a.MemberID]; m != nil {
		return m.FullName
	}
	return a.Name
}

func (s *Service) load(ctx context.Context, meetings []*meeting.Meeting) (*directory, error) {
	d := &directory{
		checkins: make(map[string][]*checkin.Checkin, len(meetings)),
		members:  make(map[string]*member.Member),
	}

	var attendeeIDs, wxids []string
	for _, m := range meetings {
		for _, seg := range m.Segments {
			if seg.RoleTakerID != nil {
				attendeeIDs = append(attendeeIDs, *seg.RoleTakerID)
			}
		}
		rows, err := s.checkins.ForMeeting(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		d.checkins[m.ID] = rows
		for _, c := range rows {
			if c.IsMember {
				wxids = append(wxids, c.Wxid)
			}
		}
	}

	var err error
	if d.attendees, err = s.attendees.ListByIDs(ctx, unique(attendeeIDs)); err != nil {
		return nil, err
	}
	if d.bound, err = s.attendees.MembersByWxid(ctx, unique(wxids)); err != nil {
		return nil, err
	}

	var memberIDs []string
	for _, a := range d.attendees {
		if a.IsMember() {
			memberIDs = append(memberIDs, *a.MemberID)
		}
	}
	for _, a := range d.bound {
		memberIDs = append(memberIDs, *a.MemberID)
	}
	members, err := s.members.ListByIDs(ctx, unique(memberIDs))
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		d.members[m.ID] = m
	}
	return d, nil
}

func (s *Service) merge(d *directory, m *meeting.Meeting) Result {
	result := Merge(d.roleParticipants(m), d.checkinParticipants(m.ID))
	if s.observer != nil {
		s.observer.ObserveMerge(string(result.Major))
	}
	return result
}

func (d *directory) roleParticipants(m *meeting.Meeting) []Participant {
	var out []Participant
	for _, seg := range m.Segments {
		a := d.roleTaker(seg)
		if a == nil {
			continue
		}
		if a.IsMember() {
			out = append(out, Participant{MemberID: *a.MemberID, Name: d.memberName(a)})
			continue
		}
		out = append(out, Participant{Name: a.Name})
	}
	return out
}

// checkinParticipants yields one participant per chat identity. A member checkin whose
// identity is bound to no member is dropped; a guest is named by the first valid name
// among its rows in sorted order.
func (d *directory) checkinParticipants(meetingID string) []Participant {
	byWxid := make(map[string][]*checkin.Checkin)
	for _, c := range d.checkins[meetingID] {
		byWxid[c.Wxid] = append(byWxid[c.Wxid], c)
	}

	var out []Participant
	for wxid, rows := range byWxid {
		isMember := false
		var names []string
		for _, c := range rows {
			isMember = isMember || c.IsMember
			if name, ok := attendee.ValidName(c.Name); ok {
				names = append(names, name)
			}
		}

		if isMember {
			a := d.bound[wxid]
			if a == nil {
				continue
			}
			out = append(out, Participant{MemberID: *a.MemberID, Name: d.memberName(a)})
			continue
		}

		sort.Strings(names)
		p := Participant{}
		if len(names) > 0 {
			p.Name = names[0]
		}
		out = append(out, p)
	}
	return out
}

func unique(ids []string) []string {
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
