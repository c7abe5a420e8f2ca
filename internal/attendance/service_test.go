package attendance_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/fkhayef/clubhub/internal/access"
	"github.com/fkhayef/clubhub/internal/attendance"
	"github.com/fkhayef/clubhub/internal/attendee"
	"github.com/fkhayef/clubhub/internal/checkin"
	"github.com/fkhayef/clubhub/internal/identity"
	"github.com/fkhayef/clubhub/internal/meeting"
	"github.com/fkhayef/clubhub/internal/member"
	"github.com/fkhayef/clubhub/internal/store/memory"
)

type recordingObserver struct {
	majors []string
}

func (o *recordingObserver) ObserveMerge(major string) {
	o.majors = append(o.majors, major)
}

type fixture struct {
	db       *memory.DB
	service  *attendance.Service
	meetings *meeting.Service
	checkins *checkin.Service
	observer *recordingObserver
	rui      *member.Member
	ruiCall  identity.Caller
}

func strPtr(s string) *string { return &s }

func guestCaller(wxid string) identity.Caller {
	return identity.Caller{Identity: identity.Guest{Wxid: wxid}, Wxid: strPtr(wxid)}
}

func newFixture() *fixture {
	db := memory.New()
	rui := db.AddMember(member.Member{Username: "rui", FullName: "Rui Zheng"})
	attendees := attendee.NewService(db.Attendees())
	meetings := meeting.NewService(db.Meetings(), attendee.NewResolver(db.Attendees(), db.Members()), attendees)
	checkins := checkin.NewService(db.Checkins(), meetings)
	observer := &recordingObserver{}

	return &fixture{
		db:       db,
		service:  attendance.NewService(meetings, checkins, attendees, member.NewService(db.Members()), observer),
		meetings: meetings,
		checkins: checkins,
		observer: observer,
		rui:      rui,
		ruiCall:  identity.Caller{Identity: identity.Member{MemberID: rui.ID}, Wxid: strPtr("wx-rui")},
	}
}

// clubMeeting publishes a meeting where Rui speaks and the guest Mia evaluates
func (f *fixture) clubMeeting(t *testing.T, date string, status meeting.Status) *meeting.Meeting {
	t.Helper()
	ctx := context.Background()
	m, err := f.meetings.Create(ctx, f.ruiCall, &meeting.MeetingRequest{
		Date:   date,
		Theme:  "Bridges",
		Status: &status,
		Segments: []meeting.SegmentRequest{
			{Type: "Speech", RoleTaker: &meeting.AttendeeRef{MemberID: &f.rui.ID}},
			{Type: "Evaluator", RoleTaker: &meeting.AttendeeRef{Name: "Mia"}},
			{Type: "Timer", RoleTaker: &meeting.AttendeeRef{Name: "TBD"}},
		},
	})
	if err != nil {
		t.Fatalf("failed to create meeting: %v", err)
	}

	a, err := f.db.Attendees().GetByMemberID(ctx, f.rui.ID)
	if err != nil || a == nil {
		t.Fatalf("rui has no attendee: %v", err)
	}
	f.db.BindWxid(a.ID, "wx-rui")
	return m
}

func (f *fixture) checkIn(t *testing.T, caller identity.Caller, meetingID string, name *string) {
	t.Helper()
	if _, err := f.checkins.Create(context.Background(), caller, meetingID, &checkin.CreateCheckinRequest{Name: name}); err != nil {
		t.Fatalf("failed to check in: %v", err)
	}
}

func TestMergeAttendance_ClubScenario(t *testing.T) {
	f := newFixture()
	m := f.clubMeeting(t, "2026-03-14", meeting.StatusPublished)
	f.checkIn(t, f.ruiCall, m.ID, nil)
	f.checkIn(t, guestCaller("wx-mia"), m.ID, strPtr("Mia H."))
	// a member checkin from an identity bound to no member is ignored
	f.checkIn(t, identity.Caller{Identity: identity.Member{MemberID: "ghost"}, Wxid: strPtr("wx-ghost")}, m.ID, nil)

	got, err := f.service.MergeAttendance(context.Background(), identity.AnonymousCaller(), m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &attendance.Result{
		MemberCount: 1,
		GuestCount:  1,
		MemberNames: []string{"Rui Zheng"},
		GuestNames:  []string{"Mia"},
		Major:       attendance.SourceRoles,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if len(f.observer.majors) != 1 || f.observer.majors[0] != "roles" {
		t.Fatalf("expected one observed roles merge, got %v", f.observer.majors)
	}
}

func TestMergeAttendance_GuestNamedByFirstValidName(t *testing.T) {
	f := newFixture()
	m := f.clubMeeting(t, "2026-03-14", meeting.StatusPublished)
	f.checkIn(t, guestCaller("wx-1"), m.ID, strPtr("Zoe"))
	f.checkIn(t, guestCaller("wx-2"), m.ID, strPtr("Yan"))
	f.checkIn(t, guestCaller("wx-3"), m.ID, strPtr("Xia"))
	f.checkIn(t, guestCaller("wx-4"), m.ID, strPtr("N/A"))

	got, err := f.service.MergeAttendance(context.Background(), f.ruiCall, m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Major != attendance.SourceCheckins {
		t.Fatalf("expected checkins to be major, got %s", got.Major)
	}
	wantGuests := []string{"Mia", "Xia", "Yan", "Zoe"}
	if !reflect.DeepEqual(got.GuestNames, wantGuests) {
		t.Fatalf("expected %v, got %v", wantGuests, got.GuestNames)
	}
	if got.MemberCount != 1 {
		t.Fatalf("expected the role-taking member to be merged in, got %+v", got)
	}
}

func TestMergeAttendance_DraftHiddenFromGuests(t *testing.T) {
	f := newFixture()
	m := f.clubMeeting(t, "2026-03-14", meeting.StatusDraft)

	if _, err := f.service.MergeAttendance(context.Background(), guestCaller("wx"), m.ID); !errors.Is(err, meeting.ErrMeetingNotFound) {
		t.Fatalf("expected ErrMeetingNotFound, got %v", err)
	}
}

func TestDashboard(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inRange := f.clubMeeting(t, "2026-03-14", meeting.StatusPublished)
	f.clubMeeting(t, "2026-03-21", meeting.StatusDraft)
	f.clubMeeting(t, "2026-05-01", meeting.StatusPublished)
	f.checkIn(t, guestCaller("wx-mia"), inRange.ID, strPtr("Mia"))

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	stats, err := f.service.Dashboard(ctx, f.ruiCall, start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats.MeetingAttendance) != 1 || stats.MeetingAttendance[0].MeetingID != inRange.ID {
		t.Fatalf("expected the one published meeting in range, got %+v", stats.MeetingAttendance)
	}
	if got := stats.MeetingAttendance[0]; got.MeetingDate != "2026-03-14" || got.GuestCount != 1 || got.MemberCount != 1 {
		t.Fatalf("unexpected attendance: %+v", got)
	}
	if len(stats.MemberMeetings) != 1 {
		t.Fatalf("expected one member role, got %+v", stats.MemberMeetings)
	}
	if mm := stats.MemberMeetings[0]; mm.MemberID != f.rui.ID || mm.Role != "Speech" || mm.Username != "rui" {
		t.Fatalf("unexpected member role: %+v", mm)
	}
}

func TestDashboard_Rejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	if _, err := f.service.Dashboard(ctx, guestCaller("wx"), day, day); !errors.Is(err, access.ErrMembersOnly) {
		t.Fatalf("expected ErrMembersOnly, got %v", err)
	}
	if _, err := f.service.Dashboard(ctx, f.ruiCall, day, day.AddDate(0, 0, -1)); !errors.Is(err, attendance.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}

	stats, err := f.service.Dashboard(ctx, f.ruiCall, day, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.MemberMeetings == nil || stats.MeetingAttendance == nil {
		t.Fatal("empty dashboards must encode as empty arrays")
	}
}
