package attendee

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/fkhayef/clubhub/internal/apperr"
	"github.com/fkhayef/clubhub/internal/member"
)

// ErrMemberNotFound is returned when a member reference names no member
var ErrMemberNotFound = apperr.New(apperr.NotFound, "member not found")

// MemberLookup finds a member by id, returning (nil, nil) when absent
type MemberLookup interface {
	GetByID(ctx context.Context, id string) (*member.Member, error)
}

// Resolver maps a role-taker reference to an attendee id.
// A reference that parses as a UUID is a member id; anything else is a guest name.
type Resolver struct {
	store   Store
	members MemberLookup
}

// NewResolver creates a new attendee resolver
func NewResolver(store Store, members MemberLookup) *Resolver {
	return &Resolver{store: store, members: members}
}

// Resolve returns the attendee id for reference, creating the attendee on first use.
// Surrounding whitespace is dropped, then guest names are reused on exact match only;
// placeholder names such as "TBD" resolve like any other.
func (r *Resolver) Resolve(ctx context.Context, reference string) (string, error) {
	reference = strings.TrimSpace(reference)

	if memberID, err := uuid.Parse(reference); err == nil {
		return r.resolveMember(ctx, memberID.String())
	}

	a, err := r.store.UpsertGuest(ctx, reference)
	if err != nil {
		return "", err
	}
	return a.ID, nil
}

// ResolveOptional resolves reference when present
func (r *Resolver) ResolveOptional(ctx context.Context, reference *string) (*string, error) {
	if reference == nil {
		return nil, nil
	}
	id, err := r.Resolve(ctx, *reference)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (r *Resolver) resolveMember(ctx context.Context, memberID string) (string, error) {
	existing, err := r.store.GetByMemberID(ctx, memberID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}

	m, err := r.members.GetByID(ctx, memberID)
	if err != nil {
		return "", err
	}
	if m == nil {
		return "", ErrMemberNotFound
	}

	a, err := r.store.UpsertMember(ctx, memberID, m.FullName)
	if err != nil {
		return "", err
	}
	slog.DebugContext(ctx, "created member attendee", "member_id", memberID, "attendee_id", a.ID)
	return a.ID, nil
}
