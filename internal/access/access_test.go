package access

import (
	"errors"
	"testing"

	"github.com/fkhayef/clubhub/internal/identity"
)

func strPtr(s string) *string { return &s }

func guest(wxid string, attendeeID *string) identity.Caller {
	return identity.Caller{
		Identity:   identity.Guest{Wxid: wxid, AttendeeID: attendeeID},
		Wxid:       strPtr(wxid),
		AttendeeID: attendeeID,
	}
}

func member(id string, wxid, attendeeID *string, admin bool) identity.Caller {
	return identity.Caller{
		Identity:   identity.Member{MemberID: id},
		Wxid:       wxid,
		AttendeeID: attendeeID,
		IsAdmin:    admin,
	}
}

type feedbackRow struct {
	id           string
	fromWxid     string
	toAttendeeID *string
	typ          string
	segmentID    *string
}

func visible(f FeedbackFilter, rows []feedbackRow) []string {
	var ids []string
	for _, r := range rows {
		if f.Allows(r.fromWxid, r.toAttendeeID, r.typ, r.segmentID) {
			ids = append(ids, r.id)
		}
	}
	return ids
}

func TestFeedbackVisibility(t *testing.T) {
	attendeeOfA := strPtr("attendee-of-A")
	rows := []feedbackRow{
		{id: "F1", fromWxid: "A", typ: "experience_peak"},
		{id: "F2", fromWxid: "B", toAttendeeID: attendeeOfA, typ: "attendee"},
		{id: "F3", fromWxid: "B", typ: "segment", segmentID: strPtr("seg-1")},
	}

	tests := []struct {
		name   string
		caller identity.Caller
		want   []string
	}{
		{"author and target", guest("A", attendeeOfA), []string{"F1", "F2"}},
		{"stranger without attendee", guest("C", nil), nil},
		{"anonymous", identity.AnonymousCaller(), nil},
		{"admin sees all", member("m-admin", nil, nil, true), []string{"F1", "F2", "F3"}},
		{"member without binding", member("m-1", nil, nil, false), nil},
		{"member bound as target only", member("m-2", nil, attendeeOfA, false), []string{"F2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := visible(FeedbackReadFilter(tt.caller, nil, nil), rows)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestFeedbackFiltersOnlyNarrow(t *testing.T) {
	rows := []feedbackRow{
		{id: "F1", fromWxid: "A", typ: "experience_peak"},
		{id: "F2", fromWxid: "B", typ: "segment", segmentID: strPtr("seg-1")},
	}

	// a type filter matching someone else's feedback must not widen the visible set
	got := visible(FeedbackReadFilter(guest("A", nil), strPtr("segment"), nil), rows)
	if len(got) != 0 {
		t.Fatalf("expected nothing, got %v", got)
	}

	got = visible(FeedbackReadFilter(member("admin", nil, nil, true), nil, strPtr("seg-1")), rows)
	if len(got) != 1 || got[0] != "F2" {
		t.Fatalf("expected [F2], got %v", got)
	}
}

func TestCheckinReadFilter(t *testing.T) {
	if f := CheckinReadFilter(identity.AnonymousCaller()); f.Allows("A") {
		t.Error("anonymous callers must see no checkins")
	}
	if f := CheckinReadFilter(member("m", nil, nil, false)); !f.Allows("A") || !f.Allows("B") {
		t.Error("members must see every checkin")
	}
	f := CheckinReadFilter(guest("A", nil))
	if !f.Allows("A") || f.Allows("B") {
		t.Error("guests must see only their own checkins")
	}
}

func TestCanWriteCheckin(t *testing.T) {
	if wxid, err := CanWriteCheckin(guest("A", nil)); err != nil || wxid != "A" {
		t.Errorf("expected A, got %q, %v", wxid, err)
	}
	if wxid, err := CanWriteCheckin(member("m", strPtr("wx-m"), nil, false)); err != nil || wxid != "wx-m" {
		t.Errorf("expected wx-m, got %q, %v", wxid, err)
	}
	if _, err := CanWriteCheckin(member("m", nil, nil, true)); !errors.Is(err, ErrNoWxid) {
		t.Errorf("expected ErrNoWxid for unbound member, got %v", err)
	}
	if _, err := CanWriteCheckin(identity.AnonymousCaller()); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestCanResetCheckin(t *testing.T) {
	if err := CanResetCheckin(member("m", nil, nil, false)); err != nil {
		t.Errorf("members may reset, got %v", err)
	}
	if err := CanResetCheckin(guest("A", nil)); !errors.Is(err, ErrMembersOnly) {
		t.Errorf("guests may never reset, got %v", err)
	}
}

func TestCanMutateFeedback(t *testing.T) {
	tests := []struct {
		name   string
		caller identity.Caller
		author string
		want   error
	}{
		{"author", guest("A", nil), "A", nil},
		{"other guest", guest("A", nil), "B", ErrNotAuthor},
		{"admin without wxid", member("admin", nil, nil, true), "B", nil},
		{"member without wxid", member("m", nil, nil, false), "B", ErrNoWxid},
		{"bound member author", member("m", strPtr("B"), nil, false), "B", nil},
		{"anonymous", identity.AnonymousCaller(), "B", ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanMutateFeedback(tt.caller, tt.author)
			if tt.want == nil && err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCanDeleteMeeting(t *testing.T) {
	creator := strPtr("m-1")
	if err := CanDeleteMeeting(member("m-1", nil, nil, false), creator); err != nil {
		t.Errorf("creator may delete, got %v", err)
	}
	if err := CanDeleteMeeting(member("m-2", nil, nil, false), creator); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
	if err := CanDeleteMeeting(member("m-2", nil, nil, true), creator); err != nil {
		t.Errorf("admin may delete, got %v", err)
	}
	if err := CanDeleteMeeting(guest("A", nil), creator); !errors.Is(err, ErrMembersOnly) {
		t.Errorf("expected ErrMembersOnly, got %v", err)
	}
}

func TestCanViewDashboard(t *testing.T) {
	if err := CanViewDashboard(member("m", nil, nil, false)); err != nil {
		t.Errorf("members may view the dashboard, got %v", err)
	}
	if err := CanViewDashboard(guest("A", nil)); !errors.Is(err, ErrMembersOnly) {
		t.Errorf("expected ErrMembersOnly, got %v", err)
	}
	if err := CanViewDashboard(identity.AnonymousCaller()); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestVoteAccess(t *testing.T) {
	if err := CanManageVotes(member("m", nil, nil, false)); err != nil {
		t.Errorf("members may manage votes, got %v", err)
	}
	if err := CanManageVotes(guest("A", nil)); !errors.Is(err, ErrMembersOnly) {
		t.Errorf("expected ErrMembersOnly, got %v", err)
	}
	if err := CanManageVotes(identity.AnonymousCaller()); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}

	if !CanSeeVoteCounts(member("m", nil, nil, false)) {
		t.Error("members see vote counts")
	}
	if CanSeeVoteCounts(guest("A", nil)) || CanSeeVoteCounts(identity.AnonymousCaller()) {
		t.Error("vote counts are hidden from guests and anonymous callers")
	}
}

func TestCanMutatePost(t *testing.T) {
	if err := CanMutatePost(member("author", nil, nil, false), "author"); err != nil {
		t.Errorf("authors may edit their post, got %v", err)
	}
	if err := CanMutatePost(member("root", nil, nil, true), "author"); err != nil {
		t.Errorf("admins may edit any post, got %v", err)
	}
	if err := CanMutatePost(member("other", nil, nil, false), "author"); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
	if err := CanWritePosts(guest("A", nil)); !errors.Is(err, ErrMembersOnly) {
		t.Errorf("expected ErrMembersOnly, got %v", err)
	}
}
