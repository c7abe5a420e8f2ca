package attendee_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/fkhayef/clubhub/internal/attendee"
	"github.com/fkhayef/clubhub/internal/member"
	"github.com/fkhayef/clubhub/internal/store/memory"
)

func newResolver() (*memory.DB, *attendee.Resolver) {
	db := memory.New()
	return db, attendee.NewResolver(db.Attendees(), db.Members())
}

func TestResolve_MemberReferenceIsStable(t *testing.T) {
	db, r := newResolver()
	m := db.AddMember(member.Member{Username: "rui", FullName: "Rui Zheng"})
	ctx := context.Background()

	first, err := r.Resolve(ctx, m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Resolve(ctx, "  "+m.ID+" ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("expected one attendee per member, got %s and %s", first, second)
	}

	a, err := db.Attendees().GetByID(ctx, first)
	if err != nil || a == nil {
		t.Fatalf("attendee not stored: %v", err)
	}
	if !a.IsMember() || *a.MemberID != m.ID || a.Name != "Rui Zheng" {
		t.Fatalf("unexpected attendee: %+v", a)
	}
}

func TestResolve_UnknownMember(t *testing.T) {
	_, r := newResolver()
	if _, err := r.Resolve(context.Background(), uuid.NewString()); !errors.Is(err, attendee.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestResolve_GuestNamesMatchExactly(t *testing.T) {
	_, r := newResolver()
	ctx := context.Background()

	a, _ := r.Resolve(ctx, "Mia")
	b, _ := r.Resolve(ctx, "Mia")
	c, _ := r.Resolve(ctx, "mia")
	if a != b {
		t.Fatalf("expected the same guest for the same name, got %s and %s", a, b)
	}
	if a == c {
		t.Fatal("guest names must match case-sensitively")
	}

	tbd, err := r.Resolve(ctx, "TBD")
	if err != nil || tbd == "" {
		t.Fatalf("placeholder names resolve like any other, got %q, %v", tbd, err)
	}
}

func TestResolve_GuestNameIgnoresSurroundingWhitespace(t *testing.T) {
	db, r := newResolver()
	ctx := context.Background()

	plain, err := r.Resolve(ctx, "Mia")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	padded, err := r.Resolve(ctx, " Mia ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plain != padded {
		t.Fatalf("expected \" Mia \" to reuse guest %s, got %s", plain, padded)
	}

	a, err := db.Attendees().GetByID(ctx, padded)
	if err != nil || a == nil {
		t.Fatalf("attendee not stored: %v", err)
	}
	if a.Name != "Mia" {
		t.Fatalf("expected the stored name to be trimmed, got %q", a.Name)
	}

	inner, _ := r.Resolve(ctx, "Mi a")
	if inner == plain {
		t.Fatal("inner whitespace must still distinguish guests")
	}
}

func TestResolve_ConcurrentGuestYieldsOneAttendee(t *testing.T) {
	_, r := newResolver()
	ctx := context.Background()

	const workers = 16
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := r.Resolve(ctx, "Li Wei")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			ids[i] = id
		}(i)
	}
	wg.Wait()

	for _, id := range ids[1:] {
		if id != ids[0] {
			t.Fatalf("expected a single attendee, got %v", ids)
		}
	}
}

func TestResolveOptional(t *testing.T) {
	_, r := newResolver()
	id, err := r.ResolveOptional(context.Background(), nil)
	if err != nil || id != nil {
		t.Fatalf("expected nil, got %v, %v", id, err)
	}
}
