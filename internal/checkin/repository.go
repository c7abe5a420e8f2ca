package checkin

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fkhayef/clubhub/internal/database"
)

// Store is the checkin persistence
type Store interface {
	// Replace deletes every checkin of wxid for the meeting and inserts rows, atomically
	Replace(ctx context.Context, meetingID, wxid string, rows []*Checkin) ([]*Checkin, error)
	// ListByMeeting returns the meeting's checkins, restricted to wxid when it is set
	ListByMeeting(ctx context.Context, meetingID string, wxid *string) ([]*Checkin, error)
	ListBySegment(ctx context.Context, meetingID, segmentID string) ([]*Checkin, error)
	CountByWxid(ctx context.Context, meetingID, wxid string) (int, error)
	Delete(ctx context.Context, id string) error
	ClearSegment(ctx context.Context, id string) error
	// HasRoleCheckin reports whether wxid holds a checkin on a segment of segmentType in the meeting
	HasRoleCheckin(ctx context.Context, meetingID, wxid, segmentType string) (bool, error)
}

// Repository handles checkin data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new checkin repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const checkinColumns = `id, meeting_id, wxid, segment_id, name, referral_source, is_member, created_at, updated_at`

func scanCheckin(row interface{ Scan(...any) error }) (*Checkin, error) {
	c := &Checkin{}
	err := row.Scan(
		&c.ID,
		&c.MeetingID,
		&c.Wxid,
		&c.SegmentID,
		&c.Name,
		&c.ReferralSource,
		&c.IsMember,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]*Checkin, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkins: %w", err)
	}
	defer rows.Close()

	var checkins []*Checkin
	for rows.Next() {
		c, err := scanCheckin(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checkin: %w", err)
		}
		checkins = append(checkins, c)
	}
	return checkins, rows.Err()
}

// Replace swaps the caller's checkins for the meeting in one transaction
func (r *Repository) Replace(ctx context.Context, meetingID, wxid string, rows []*Checkin) ([]*Checkin, error) {
	created := make([]*Checkin, 0, len(rows))
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM checkins WHERE meeting_id = $1 AND wxid = $2`, meetingID, wxid); err != nil {
			return fmt.Errorf("failed to delete checkins: %w", err)
		}

		query := `
			INSERT INTO checkins (meeting_id, wxid, segment_id, name, referral_source, is_member)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING ` + checkinColumns
		for _, row := range rows {
			c, err := scanCheckin(tx.QueryRowContext(ctx, query,
				meetingID, wxid, row.SegmentID, row.Name, row.ReferralSource, row.IsMember,
			))
			if err != nil {
				return fmt.Errorf("failed to create checkin: %w", err)
			}
			created = append(created, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListByMeeting retrieves the meeting's checkins, optionally for one wxid
func (r *Repository) ListByMeeting(ctx context.Context, meetingID string, wxid *string) ([]*Checkin, error) {
	if !database.IsUUID(meetingID) {
		return nil, nil
	}
	return r.query(ctx, `
		SELECT `+checkinColumns+`
		FROM checkins
		WHERE meeting_id = $1 AND ($2::text IS NULL OR wxid = $2)
		ORDER BY created_at, id
	`, meetingID, wxid)
}

// ListBySegment retrieves the checkins holding a segment
func (r *Repository) ListBySegment(ctx context.Context, meetingID, segmentID string) ([]*Checkin, error) {
	if !database.IsUUID(meetingID) || !database.IsUUID(segmentID) {
		return nil, nil
	}
	return r.query(ctx, `
		SELECT `+checkinColumns+`
		FROM checkins
		WHERE meeting_id = $1 AND segment_id = $2
		ORDER BY created_at, id
	`, meetingID, segmentID)
}

// CountByWxid counts the checkin rows wxid holds in the meeting
func (r *Repository) CountByWxid(ctx context.Context, meetingID, wxid string) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM checkins WHERE meeting_id = $1 AND wxid = $2`
	if err := r.db.QueryRowContext(ctx, query, meetingID, wxid).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count checkins: %w", err)
	}
	return n, nil
}

// Delete removes a checkin
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM checkins WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete checkin: %w", err)
	}
	return nil
}

// ClearSegment turns a role checkin into general attendance
func (r *Repository) ClearSegment(ctx context.Context, id string) error {
	query := `UPDATE checkins SET segment_id = NULL, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to clear checkin segment: %w", err)
	}
	return nil
}

// HasRoleCheckin reports whether wxid checked in for a segment of segmentType
func (r *Repository) HasRoleCheckin(ctx context.Context, meetingID, wxid, segmentType string) (bool, error) {
	if !database.IsUUID(meetingID) {
		return false, nil
	}
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM checkins c
			JOIN segments s ON s.id = c.segment_id
			WHERE c.meeting_id = $1 AND c.wxid = $2 AND s.type = $3
		)
	`
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, meetingID, wxid, segmentType).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check role checkin: %w", err)
	}
	return ok, nil
}
