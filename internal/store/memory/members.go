package memory

import (
	"context"
	"sort"

	"github.com/fkhayef/clubhub/internal/member"
)

// MemberStore implements member.Store
type MemberStore struct {
	db *DB
}

var _ member.Store = (*MemberStore)(nil)

// GetByID retrieves a member by its ID
func (s *MemberStore) GetByID(_ context.Context, id string) (*member.Member, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	m, ok := s.db.members[id]
	if !ok {
		return nil, nil
	}
	return cloneMember(m), nil
}

// ListByIDs retrieves the members with the given ids, ordered by full name
func (s *MemberStore) ListByIDs(_ context.Context, ids []string) ([]*member.Member, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []*member.Member
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if m, ok := s.db.members[id]; ok {
			out = append(out, cloneMember(m))
		}
	}
	sortMembers(out)
	return out, nil
}

// List retrieves a page of members ordered by full name
func (s *MemberStore) List(_ context.Context, limit, offset int) ([]*member.Member, int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	all := make([]*member.Member, 0, len(s.db.members))
	for _, m := range s.db.members {
		all = append(all, cloneMember(m))
	}
	sortMembers(all)
	return page(all, limit, offset), len(all), nil
}

func sortMembers(ms []*member.Member) {
	sort.Slice(ms, func(i, j int) bool {
		if ms[i].FullName != ms[j].FullName {
			return ms[i].FullName < ms[j].FullName
		}
		return ms[i].ID < ms[j].ID
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
