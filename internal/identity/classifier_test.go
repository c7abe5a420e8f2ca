package identity

import (
	"context"
	"errors"
	"testing"
)

type fakeBindings struct {
	byMember map[string]*Binding
	calls    int
	err      error
}

func (f *fakeBindings) BindingForMember(_ context.Context, memberID string) (*Binding, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.byMember[memberID], nil
}

type fakeAdmins map[string]bool

func (f fakeAdmins) IsAdmin(_ context.Context, memberID string) (bool, error) {
	return f[memberID], nil
}

func strPtr(s string) *string { return &s }

func TestClassify_Guest(t *testing.T) {
	bindings := &fakeBindings{}
	c := NewClassifier(bindings, fakeAdmins{})

	caller, err := c.Classify(context.Background(), Guest{Wxid: "wx-a", AttendeeID: strPtr("att-a")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if caller.Wxid == nil || *caller.Wxid != "wx-a" {
		t.Errorf("expected wxid wx-a, got %v", caller.Wxid)
	}
	if caller.AttendeeID == nil || *caller.AttendeeID != "att-a" {
		t.Errorf("expected attendee att-a, got %v", caller.AttendeeID)
	}
	if caller.IsAdmin {
		t.Error("guests are never admin")
	}
	if bindings.calls != 0 {
		t.Errorf("guest classification must not query bindings, got %d calls", bindings.calls)
	}
}

func TestClassify_BoundMember(t *testing.T) {
	bindings := &fakeBindings{byMember: map[string]*Binding{
		"m1": {AttendeeID: "att-1", Wxid: strPtr("wx-1")},
	}}
	c := NewClassifier(bindings, fakeAdmins{"m1": true})

	caller, err := c.Classify(context.Background(), Member{MemberID: "m1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !caller.IsMember() || !caller.IsAdmin {
		t.Errorf("expected admin member, got %+v", caller)
	}
	if caller.Wxid == nil || *caller.Wxid != "wx-1" {
		t.Errorf("expected wxid wx-1, got %v", caller.Wxid)
	}
	if caller.AttendeeID == nil || *caller.AttendeeID != "att-1" {
		t.Errorf("expected attendee att-1, got %v", caller.AttendeeID)
	}
}

func TestClassify_UnboundMember(t *testing.T) {
	c := NewClassifier(&fakeBindings{}, fakeAdmins{})

	caller, err := c.Classify(context.Background(), Member{MemberID: "m2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if caller.Wxid != nil || caller.AttendeeID != nil {
		t.Errorf("expected no binding, got %+v", caller)
	}
	if !caller.IsAuthenticated() {
		t.Error("member should be authenticated")
	}
}

func TestClassify_Anonymous(t *testing.T) {
	c := NewClassifier(&fakeBindings{}, fakeAdmins{})

	caller, err := c.Classify(context.Background(), Anonymous{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if caller.IsAuthenticated() || caller.Wxid != nil || caller.IsAdmin {
		t.Errorf("expected empty anonymous caller, got %+v", caller)
	}
}

func TestClassify_PropagatesLookupFailure(t *testing.T) {
	c := NewClassifier(&fakeBindings{err: errors.New("connection reset")}, fakeAdmins{})

	if _, err := c.Classify(context.Background(), Member{MemberID: "m1"}); err == nil {
		t.Fatal("expected lookup failure to propagate")
	}
}

func TestSingleFacts(t *testing.T) {
	bindings := &fakeBindings{byMember: map[string]*Binding{"m1": {AttendeeID: "att-1"}}}
	c := NewClassifier(bindings, fakeAdmins{"m1": true})
	ctx := context.Background()

	wxid, err := c.Wxid(ctx, Member{MemberID: "m1"})
	if err != nil || wxid != nil {
		t.Errorf("expected bound attendee without wxid, got %v, %v", wxid, err)
	}
	attendeeID, err := c.AttendeeID(ctx, Member{MemberID: "m1"})
	if err != nil || attendeeID == nil || *attendeeID != "att-1" {
		t.Errorf("expected att-1, got %v, %v", attendeeID, err)
	}
	admin, err := c.IsAdmin(ctx, Guest{Wxid: "wx"})
	if err != nil || admin {
		t.Errorf("guest must not be admin, got %v, %v", admin, err)
	}
	if IsMember(Guest{Wxid: "wx"}) || !IsMember(Member{MemberID: "m1"}) {
		t.Error("IsMember misclassified")
	}
}
