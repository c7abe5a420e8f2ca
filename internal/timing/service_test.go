package timing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fkhayef/clubhub/internal/attendee"
	"github.com/fkhayef/clubhub/internal/checkin"
	"github.com/fkhayef/clubhub/internal/identity"
	"github.com/fkhayef/clubhub/internal/meeting"
	"github.com/fkhayef/clubhub/internal/member"
	"github.com/fkhayef/clubhub/internal/store/memory"
	"github.com/fkhayef/clubhub/internal/timing"
	"github.com/fkhayef/clubhub/internal/timing/signal"
)

type fixture struct {
	service  *timing.Service
	checkins *checkin.Service
	meeting  *meeting.Meeting
	timer    string
	speech   string
	admin    identity.Caller
}

func strPtr(s string) *string { return &s }

func guestCaller(wxid string) identity.Caller {
	return identity.Caller{Identity: identity.Guest{Wxid: wxid}, Wxid: strPtr(wxid)}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := memory.New()
	root := db.AddMember(member.Member{Username: "root", FullName: "Club Admin", IsAdmin: true})
	admin := identity.Caller{Identity: identity.Member{MemberID: root.ID}, IsAdmin: true}

	meetings := meeting.NewService(db.Meetings(), attendee.NewResolver(db.Attendees(), db.Members()), attendee.NewService(db.Attendees()))
	m, err := meetings.Create(ctx, admin, &meeting.MeetingRequest{
		Date:     "2026-03-14",
		Status:   func() *meeting.Status { s := meeting.StatusPublished; return &s }(),
		Segments: []meeting.SegmentRequest{{Type: "Timer"}, {Type: "Speech"}},
	})
	if err != nil {
		t.Fatalf("failed to create meeting: %v", err)
	}

	checkins := checkin.NewService(db.Checkins(), meetings)
	return &fixture{
		service:  timing.NewService(db.Timings(), meetings, timing.NewGate(checkins, "Timer")),
		checkins: checkins,
		meeting:  m,
		timer:    m.Segments[0].ID,
		speech:   m.Segments[1].ID,
		admin:    admin,
	}
}

func (f *fixture) takeTimerRole(t *testing.T, wxid string) identity.Caller {
	t.Helper()
	caller := guestCaller(wxid)
	if _, err := f.checkins.Create(context.Background(), caller, f.meeting.ID, &checkin.CreateCheckinRequest{SegmentIDs: []string{f.timer}}); err != nil {
		t.Fatalf("failed to check in: %v", err)
	}
	return caller
}

func item(planned int, seconds int) timing.TimingItem {
	start := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	return timing.TimingItem{
		PlannedDurationMinutes: planned,
		ActualStartTime:        start,
		ActualEndTime:          start.Add(time.Duration(seconds) * time.Second),
	}
}

func TestCreate_OnlyTheTimerOrAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.takeTimerRole(t, "wx-m")
	req := &timing.CreateTimingRequest{SegmentID: f.speech, TimingItem: item(7, 7*60)}

	if _, err := f.service.Create(ctx, guestCaller("wx-m2"), f.meeting.ID, req); !errors.Is(err, timing.ErrNotTimer) {
		t.Fatalf("expected ErrNotTimer, got %v", err)
	}

	created, err := f.service.Create(ctx, m, f.meeting.ID, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ActualDurationSeconds != 420 || created.DotColor != signal.ColorRed {
		t.Fatalf("unexpected timing: %+v", created)
	}

	if _, err := f.service.Create(ctx, f.admin, f.meeting.ID, req); err != nil {
		t.Fatalf("admins may always record, got %v", err)
	}
}

func TestCreate_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *timing.CreateTimingRequest
		want error
	}{
		{"missing segment", &timing.CreateTimingRequest{TimingItem: item(5, 60)}, timing.ErrMissingSegment},
		{"foreign segment", &timing.CreateTimingRequest{SegmentID: "00000000-0000-0000-0000-000000000000", TimingItem: item(5, 60)}, meeting.ErrSegmentNotInMeeting},
		{"negative duration", &timing.CreateTimingRequest{SegmentID: f.speech, TimingItem: item(5, -1)}, timing.ErrNegativeDuration},
		{"zero planned", &timing.CreateTimingRequest{SegmentID: f.speech, TimingItem: item(0, 60)}, timing.ErrInvalidPlanned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.service.Create(ctx, f.admin, f.meeting.ID, tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestList_ReportsControl(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.takeTimerRole(t, "wx-m")

	canControl, _, err := f.service.List(ctx, m, f.meeting.ID)
	if err != nil || !canControl {
		t.Fatalf("the timer controls, got %v, %v", canControl, err)
	}
	canControl, timings, err := f.service.List(ctx, identity.AnonymousCaller(), f.meeting.ID)
	if err != nil || canControl {
		t.Fatalf("anonymous callers never control, got %v, %v", canControl, err)
	}
	if len(timings) != 0 {
		t.Fatalf("expected no timings, got %d", len(timings))
	}
}

func TestReplaceAll_ReplacesPerSegment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.ReplaceAll(ctx, f.admin, f.meeting.ID, &timing.BatchAllRequest{Segments: []timing.BatchRequest{
		{SegmentID: f.speech, Timings: []timing.TimingItem{item(7, 300), item(7, 400)}},
		{SegmentID: f.timer, Timings: []timing.TimingItem{item(1, 30)}},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	written, err := f.service.ReplaceSegment(ctx, f.admin, f.meeting.ID, &timing.BatchRequest{
		SegmentID: f.speech,
		Timings:   []timing.TimingItem{item(7, 330)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(written) != 1 || written[0].DotColor != signal.ColorGreen {
		t.Fatalf("unexpected timings: %+v", written)
	}

	_, all, _ := f.service.List(ctx, f.admin, f.meeting.ID)
	if len(all) != 2 {
		t.Fatalf("expected the timer's row and one speech row, got %d", len(all))
	}

	// one invalid item fails the whole batch
	_, err = f.service.ReplaceAll(ctx, f.admin, f.meeting.ID, &timing.BatchAllRequest{Segments: []timing.BatchRequest{
		{SegmentID: f.timer, Timings: nil},
		{SegmentID: f.speech, Timings: []timing.TimingItem{item(7, -5)}},
	}})
	if !errors.Is(err, timing.ErrNegativeDuration) {
		t.Fatalf("expected ErrNegativeDuration, got %v", err)
	}
	if _, all, _ = f.service.List(ctx, f.admin, f.meeting.ID); len(all) != 2 {
		t.Fatalf("a failed batch must write nothing, got %d rows", len(all))
	}
}

func TestUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.service.Create(ctx, f.admin, f.meeting.ID, &timing.CreateTimingRequest{SegmentID: f.speech, TimingItem: item(5, 200)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := f.service.Update(ctx, f.admin, f.meeting.ID, created.ID, &timing.TimingItem{
		Name:                   strPtr("Ann"),
		PlannedDurationMinutes: 5,
		ActualStartTime:        created.ActualStartTime,
		ActualEndTime:          created.ActualStartTime.Add(290 * time.Second),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ActualDurationSeconds != 290 || updated.DotColor != signal.ColorYellow || updated.SegmentID != f.speech {
		t.Fatalf("unexpected timing: %+v", updated)
	}

	if err := f.service.Delete(ctx, guestCaller("wx-m2"), f.meeting.ID, created.ID); !errors.Is(err, timing.ErrNotTimer) {
		t.Fatalf("expected ErrNotTimer, got %v", err)
	}
	if err := f.service.Delete(ctx, f.admin, f.meeting.ID, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.service.Delete(ctx, f.admin, f.meeting.ID, created.ID); !errors.Is(err, timing.ErrTimingNotFound) {
		t.Fatalf("expected ErrTimingNotFound, got %v", err)
	}
}
