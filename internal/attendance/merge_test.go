package attendance

import (
	"math/rand"
	"reflect"
	"testing"
)

func asMember(id, name string) Participant { return Participant{MemberID: id, Name: name} }
func guest(name string) Participant         { return Participant{Name: name} }

func TestMerge_Empty(t *testing.T) {
	got := Merge(nil, nil)
	if got.MemberCount != 0 || got.GuestCount != 0 {
		t.Fatalf("expected zero counts, got %+v", got)
	}
	if len(got.MemberNames) != 0 || len(got.GuestNames) != 0 {
		t.Fatalf("expected empty name lists, got %+v", got)
	}
	if got.GuestNames == nil || got.MemberNames == nil {
		t.Fatal("name lists must encode as empty arrays, not null")
	}
}

func TestMerge_ClubScenario(t *testing.T) {
	roles := []Participant{asMember("m-rui", "Rui Zheng"), guest("Mia")}
	checkins := []Participant{asMember("m-rui", "Rui Zheng"), guest("Mia H.")}

	got := Merge(roles, checkins)

	want := Result{
		MemberCount: 1,
		GuestCount:  1,
		MemberNames: []string{"Rui Zheng"},
		GuestNames:  []string{"Mia"},
		Major:       SourceRoles,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestMerge_TieFavorsRoles(t *testing.T) {
	roles := []Participant{guest("Alice"), guest("Bob")}
	checkins := []Participant{guest("Carol"), guest("Dave")}

	got := Merge(roles, checkins)
	if got.Major != SourceRoles {
		t.Fatalf("expected roles to be major on a tie, got %s", got.Major)
	}
	if got.GuestCount != 4 {
		t.Fatalf("expected 4 distinct guests, got %+v", got)
	}
}

func TestMerge_LargerCheckinGroupWins(t *testing.T) {
	roles := []Participant{guest("Li Wei")}
	checkins := []Participant{guest("li wei (guest)"), guest("Wang Fang")}

	got := Merge(roles, checkins)
	if got.Major != SourceCheckins {
		t.Fatalf("expected checkins to be major, got %s", got.Major)
	}
	want := []string{"Wang Fang", "li wei (guest)"}
	if !reflect.DeepEqual(got.GuestNames, want) {
		t.Fatalf("expected %v, got %v", want, got.GuestNames)
	}
}

func TestMerge_GuestSubstringMatching(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		checkin  string
		expected int
	}{
		{"case only", "Li Wei", "li wei", 1},
		{"suffix", "Li Wei", "li wei (guest)", 1},
		{"contained", "Li Wei", "Wei", 1},
		{"different people", "Li Wei", "Wang Fang", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge([]Participant{guest(tt.role)}, []Participant{guest(tt.checkin)})
			if got.GuestCount != tt.expected {
				t.Fatalf("expected %d guests, got %+v", tt.expected, got)
			}
		})
	}
}

func TestMerge_PlaceholderGuestsIgnored(t *testing.T) {
	roles := []Participant{guest("ALL"), guest("TBD"), guest(""), guest("  "), guest("N/A"), guest("-")}
	got := Merge(roles, nil)
	if got.GuestCount != 0 {
		t.Fatalf("placeholders must not count, got %+v", got)
	}
}

func TestMerge_FilteredGroupYieldsOther(t *testing.T) {
	roles := []Participant{guest("All"), guest("tbd")}
	checkins := []Participant{asMember("m-1", "Zhang San"), guest("Mia")}

	got := Merge(roles, checkins)
	want := Result{
		MemberCount: 1,
		GuestCount:  1,
		MemberNames: []string{"Zhang San"},
		GuestNames:  []string{"Mia"},
		Major:       SourceCheckins,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestMerge_RoleGuestMatchingMemberDropped(t *testing.T) {
	roles := []Participant{asMember("m-rui", "Rui Zheng"), guest("rui zheng"), guest("Rui")}
	got := Merge(roles, nil)
	if got.MemberCount != 1 || got.GuestCount != 0 {
		t.Fatalf("expected the guest entries to collapse into the member, got %+v", got)
	}
}

func TestMerge_CheckinGuestsNotSelfDeduped(t *testing.T) {
	checkins := []Participant{asMember("m-rui", "Rui Zheng"), guest("Rui")}
	got := Merge(nil, checkins)
	if got.MemberCount != 1 || got.GuestCount != 1 {
		t.Fatalf("checkin guests are disambiguated by flag, not name, got %+v", got)
	}
}

func TestMerge_MembersMergeByID(t *testing.T) {
	roles := []Participant{asMember("m-1", "Chen Jing"), asMember("m-2", "Chen Jing")}
	checkins := []Participant{asMember("m-1", "Chen Jing")}

	got := Merge(roles, checkins)
	if got.MemberCount != 2 {
		t.Fatalf("namesakes with different ids are different members, got %+v", got)
	}
}

func TestMerge_IdempotentAndOrderIndependent(t *testing.T) {
	roles := []Participant{
		asMember("m-1", "Rui Zheng"), asMember("m-2", "Zhou Min"), guest("Mia"), guest("Li Wei"), guest("All"),
	}
	checkins := []Participant{
		asMember("m-2", "Zhou Min"), asMember("m-3", "Sun Li"), guest("mia h."), guest("Wei"), guest("Wang Fang"), guest("Olga"),
	}
	want := Merge(roles, checkins)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		r := append([]Participant(nil), roles...)
		c := append([]Participant(nil), checkins...)
		rng.Shuffle(len(r), func(a, b int) { r[a], r[b] = r[b], r[a] })
		rng.Shuffle(len(c), func(a, b int) { c[a], c[b] = c[b], c[a] })

		if got := Merge(r, c); !reflect.DeepEqual(got, want) {
			t.Fatalf("shuffle %d: expected %+v, got %+v", i, want, got)
		}
	}
}
