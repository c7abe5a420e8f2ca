package member_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fkhayef/clubhub/internal/member"
	"github.com/fkhayef/clubhub/internal/store/memory"
)

func TestService(t *testing.T) {
	db := memory.New()
	rui := db.AddMember(member.Member{Username: "rui", FullName: "Rui Zheng"})
	root := db.AddMember(member.Member{Username: "root", FullName: "Club Admin", IsAdmin: true})
	svc := member.NewService(db.Members())
	ctx := context.Background()

	if _, err := svc.GetByID(ctx, "missing"); !errors.Is(err, member.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}

	tests := []struct {
		id   string
		want bool
	}{
		{rui.ID, false},
		{root.ID, true},
		{"missing", false},
	}
	for _, tt := range tests {
		if got, err := svc.IsAdmin(ctx, tt.id); err != nil || got != tt.want {
			t.Errorf("IsAdmin(%s) = %v, %v; want %v", tt.id, got, err, tt.want)
		}
	}

	names, err := svc.FullNames(ctx, []string{rui.ID, "missing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 1 || names[rui.ID] != "Rui Zheng" {
		t.Fatalf("unexpected names: %v", names)
	}

	members, total, err := svc.List(ctx, 0, 1)
	if err != nil || total != 2 || len(members) != 1 {
		t.Fatalf("expected one of two members, got %d of %d, %v", len(members), total, err)
	}
}
