package attendance

import (
	"sort"

	"github.com/fkhayef/clubhub/internal/attendee"
)

// Source names the attendance signal chosen as the major group
type Source string

const (
	SourceRoles    Source = "roles"
	SourceCheckins Source = "checkins"
)

// Participant is one person seen by an attendance signal. MemberID is empty for guests.
type Participant struct {
	MemberID string
	Name     string
}

// Result is the reconciled attendance of one meeting
type Result struct {
	MemberCount int      `json:"member_count"`
	GuestCount  int      `json:"guest_count"`
	MemberNames []string `json:"member_names"`
	GuestNames  []string `json:"guest_names"`
	Major       Source   `json:"major"`
}

type group struct {
	members map[string]string
	guests  []string
}

func (g group) size() int {
	return len(g.members) + len(g.guests)
}

// newGroup splits participants into members keyed by id and a sorted set of valid guest names.
// When dedupeGuests is set, guest names matching a member's name are dropped.
func newGroup(participants []Participant, dedupeGuests bool) group {
	g := group{members: make(map[string]string)}
	guests := make(map[string]struct{})

	for _, p := range participants {
		if p.MemberID != "" {
			if existing, ok := g.members[p.MemberID]; !ok || preferName(p.Name, existing) {
				g.members[p.MemberID] = p.Name
			}
			continue
		}
		if name, ok := attendee.ValidName(&p.Name); ok {
			guests[name] = struct{}{}
		}
	}

	for name := range guests {
		if dedupeGuests && matchesAny(name, g.members) {
			continue
		}
		g.guests = append(g.guests, name)
	}
	sort.Strings(g.guests)
	return g
}

// preferName picks one display name per member regardless of input order
func preferName(candidate, existing string) bool {
	if existing == "" {
		return candidate != ""
	}
	return candidate != "" && candidate < existing
}

func matchesAny(name string, names map[string]string) bool {
	for _, other := range names {
		if attendee.NamesMatch(name, other) {
			return true
		}
	}
	return false
}

// Merge reconciles role-derived and checkin-derived attendance. The larger group seeds the
// result and ties go to the roles. Members merge by id, guests by case-insensitive substring
// match in either direction. The result depends only on the participant sets, not their order.
func Merge(roles, checkins []Participant) Result {
	roleGroup := newGroup(roles, true)
	checkinGroup := newGroup(checkins, false)

	major, minor, source := roleGroup, checkinGroup, SourceRoles
	if checkinGroup.size() > roleGroup.size() {
		major, minor, source = checkinGroup, roleGroup, SourceCheckins
	}

	members := make(map[string]string, len(major.members)+len(minor.members))
	for id, name := range major.members {
		members[id] = name
	}
	for id, name := range minor.members {
		if existing, ok := members[id]; !ok || existing == "" {
			members[id] = name
		}
	}

	guests := make([]string, 0, len(major.guests)+len(minor.guests))
	guests = append(guests, major.guests...)
	for _, name := range minor.guests {
		duplicate := false
		for _, seen := range guests {
			if attendee.NamesMatch(name, seen) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			guests = append(guests, name)
		}
	}

	memberNames := make([]string, 0, len(members))
	for _, name := range members {
		memberNames = append(memberNames, name)
	}
	sort.Strings(memberNames)
	sort.Strings(guests)

	return Result{
		MemberCount: len(members),
		GuestCount:  len(guests),
		MemberNames: memberNames,
		GuestNames:  guests,
		Major:       source,
	}
}
