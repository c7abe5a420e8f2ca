package attendee

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/fkhayef/clubhub/internal/database"
)

// Store is the attendee persistence used by the resolver and lookups.
// Getters return (nil, nil) when no row matches.
type Store interface {
	GetByID(ctx context.Context, id string) (*Attendee, error)
	GetByMemberID(ctx context.Context, memberID string) (*Attendee, error)
	GetByWxid(ctx context.Context, wxid string) (*Attendee, error)
	ListByIDs(ctx context.Context, ids []string) ([]*Attendee, error)
	ListByWxids(ctx context.Context, wxids []string) ([]*Attendee, error)
	// UpsertMember returns the attendee bound to memberID, creating it with name if absent
	UpsertMember(ctx context.Context, memberID, name string) (*Attendee, error)
	// UpsertGuest returns the guest attendee with exactly this name, creating it if absent
	UpsertGuest(ctx context.Context, name string) (*Attendee, error)
}

// Repository handles attendee data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new attendee repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const attendeeColumns = `id, name, type, member_id, wxid, created_at`

func scanAttendee(row interface{ Scan(...any) error }) (*Attendee, error) {
	a := &Attendee{}
	if err := row.Scan(&a.ID, &a.Name, &a.Type, &a.MemberID, &a.Wxid, &a.CreatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Repository) getOne(ctx context.Context, where string, arg any) (*Attendee, error) {
	query := `SELECT ` + attendeeColumns + ` FROM attendees WHERE ` + where

	a, err := scanAttendee(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendee: %w", err)
	}
	return a, nil
}

// GetByID retrieves an attendee by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Attendee, error) {
	if !database.IsUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `id = $1`, id)
}

// GetByMemberID retrieves the attendee bound to a member
func (r *Repository) GetByMemberID(ctx context.Context, memberID string) (*Attendee, error) {
	if !database.IsUUID(memberID) {
		return nil, nil
	}
	return r.getOne(ctx, `member_id = $1`, memberID)
}

// GetByWxid retrieves the attendee bound to a chat identity
func (r *Repository) GetByWxid(ctx context.Context, wxid string) (*Attendee, error) {
	return r.getOne(ctx, `wxid = $1`, wxid)
}

// ListByIDs retrieves attendees by id
func (r *Repository) ListByIDs(ctx context.Context, ids []string) ([]*Attendee, error) {
	return r.list(ctx, `id::text = ANY($1)`, ids)
}

// ListByWxids retrieves the attendees bound to any of the chat identities
func (r *Repository) ListByWxids(ctx context.Context, wxids []string) ([]*Attendee, error) {
	return r.list(ctx, `wxid = ANY($1)`, wxids)
}

func (r *Repository) list(ctx context.Context, where string, keys []string) ([]*Attendee, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	query := `SELECT ` + attendeeColumns + ` FROM attendees WHERE ` + where

	rows, err := r.db.QueryContext(ctx, query, pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendees: %w", err)
	}
	defer rows.Close()

	var attendees []*Attendee
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendee: %w", err)
		}
		attendees = append(attendees, a)
	}
	return attendees, rows.Err()
}

// UpsertMember inserts a Member attendee or returns the existing one for memberID
func (r *Repository) UpsertMember(ctx context.Context, memberID, name string) (*Attendee, error) {
	query := `
		INSERT INTO attendees (name, type, member_id)
		VALUES ($1, 'Member', $2)
		ON CONFLICT (member_id) DO UPDATE SET member_id = EXCLUDED.member_id
		RETURNING ` + attendeeColumns

	a, err := scanAttendee(r.db.QueryRowContext(ctx, query, name, memberID))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert member attendee: %w", err)
	}
	return a, nil
}

// UpsertGuest inserts a Guest attendee or returns the existing one with the same name.
// The partial unique index on guest names makes concurrent calls converge on one row.
func (r *Repository) UpsertGuest(ctx context.Context, name string) (*Attendee, error) {
	query := `
		INSERT INTO attendees (name, type)
		VALUES ($1, 'Guest')
		ON CONFLICT (name) WHERE type = 'Guest' DO UPDATE SET name = EXCLUDED.name
		RETURNING ` + attendeeColumns

	a, err := scanAttendee(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert guest attendee: %w", err)
	}
	return a, nil
}
