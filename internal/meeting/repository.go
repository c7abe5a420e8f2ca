package meeting

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/fkhayef/clubhub/internal/database"
)

// Store is the meeting and segment persistence. Getters return (nil, nil) when no row matches.
type Store interface {
	// Create inserts the meeting and its segments atomically and returns it with its id set
	Create(ctx context.Context, m *Meeting) (*Meeting, error)
	GetByID(ctx context.Context, id string) (*Meeting, error)
	List(ctx context.Context, status *Status, limit, offset int) ([]*Meeting, int, error)
	// Update replaces the meeting fields and its segments atomically. Segments absent from
	// m.Segments are deleted together with their checkins and timings.
	Update(ctx context.Context, m *Meeting) (*Meeting, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Meeting, error)
	Delete(ctx context.Context, id string) error
	ListSegments(ctx context.Context, meetingID string) ([]*Segment, error)
	ListPublishedBetween(ctx context.Context, start, end time.Time) ([]*Meeting, error)
}

// Repository handles meeting data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new meeting repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const meetingColumns = `id, no, type, theme, manager_id, date, start_time, end_time, location, introduction, status, created_by, created_at`

const segmentColumns = `id, meeting_id, type, start_time, duration, end_time, attendee_id, title, content, related_segment_ids, sort_order`

func scanMeeting(row interface{ Scan(...any) error }) (*Meeting, error) {
	m := &Meeting{}
	var no sql.NullInt64
	err := row.Scan(
		&m.ID,
		&no,
		&m.Type,
		&m.Theme,
		&m.ManagerID,
		&m.Date,
		&m.StartTime,
		&m.EndTime,
		&m.Location,
		&m.Introduction,
		&m.Status,
		&m.CreatedBy,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if no.Valid {
		n := int(no.Int64)
		m.No = &n
	}
	return m, nil
}

func scanSegment(row interface{ Scan(...any) error }) (*Segment, error) {
	s := &Segment{}
	err := row.Scan(
		&s.ID,
		&s.MeetingID,
		&s.Type,
		&s.StartTime,
		&s.Duration,
		&s.EndTime,
		&s.RoleTakerID,
		&s.Title,
		&s.Content,
		pq.Array(&s.RelatedSegmentIDs),
		&s.SortOrder,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a meeting with its segments in one transaction
func (r *Repository) Create(ctx context.Context, m *Meeting) (*Meeting, error) {
	var created *Meeting
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO meetings (no, type, theme, manager_id, date, start_time, end_time, location, introduction, status, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING ` + meetingColumns

		var err error
		created, err = scanMeeting(tx.QueryRowContext(ctx, query,
			m.No, m.Type, m.Theme, m.ManagerID, m.Date, m.StartTime, m.EndTime,
			m.Location, m.Introduction, m.Status, m.CreatedBy,
		))
		if err != nil {
			return fmt.Errorf("failed to create meeting: %w", err)
		}

		for _, s := range m.Segments {
			s.MeetingID = created.ID
			if err := upsertSegment(ctx, tx, s); err != nil {
				return err
			}
		}
		created.Segments = m.Segments
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func upsertSegment(ctx context.Context, tx *sql.Tx, s *Segment) error {
	query := `
		INSERT INTO segments (` + segmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			type = EXCLUDED.type,
			start_time = EXCLUDED.start_time,
			duration = EXCLUDED.duration,
			end_time = EXCLUDED.end_time,
			attendee_id = EXCLUDED.attendee_id,
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			related_segment_ids = EXCLUDED.related_segment_ids,
			sort_order = EXCLUDED.sort_order
		WHERE segments.meeting_id = EXCLUDED.meeting_id
	`
	res, err := tx.ExecContext(ctx, query,
		s.ID, s.MeetingID, s.Type, s.StartTime, s.Duration, s.EndTime, s.RoleTakerID,
		s.Title, s.Content, pq.Array(s.RelatedSegmentIDs), s.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("failed to save segment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrForeignSegment
	}
	return nil
}

// GetByID retrieves a meeting with its segments
func (r *Repository) GetByID(ctx context.Context, id string) (*Meeting, error) {
	if !database.IsUUID(id) {
		return nil, nil
	}
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1`

	m, err := scanMeeting(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}

	if m.Segments, err = r.ListSegments(ctx, id); err != nil {
		return nil, err
	}
	return m, nil
}

// List retrieves meetings newest first, optionally filtered by status
func (r *Repository) List(ctx context.Context, status *Status, limit, offset int) ([]*Meeting, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM meetings WHERE ($1::text IS NULL OR status = $1)`
	if err := r.db.QueryRowContext(ctx, countQuery, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count meetings: %w", err)
	}

	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY date DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list meetings: %w", err)
	}
	defer rows.Close()

	var meetings []*Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan meeting: %w", err)
		}
		meetings = append(meetings, m)
	}
	return meetings, total, rows.Err()
}

// Update replaces meeting fields and segments in one transaction
func (r *Repository) Update(ctx context.Context, m *Meeting) (*Meeting, error) {
	var updated *Meeting
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			UPDATE meetings
			SET no = $2, type = $3, theme = $4, manager_id = $5, date = $6, start_time = $7,
			    end_time = $8, location = $9, introduction = $10, status = $11
			WHERE id = $1
			RETURNING ` + meetingColumns

		var err error
		updated, err = scanMeeting(tx.QueryRowContext(ctx, query,
			m.ID, m.No, m.Type, m.Theme, m.ManagerID, m.Date, m.StartTime, m.EndTime,
			m.Location, m.Introduction, m.Status,
		))
		if err != nil {
			if err == sql.ErrNoRows {
				updated = nil
				return nil
			}
			return fmt.Errorf("failed to update meeting: %w", err)
		}

		deleteQuery := `DELETE FROM segments WHERE meeting_id = $1 AND NOT (id::text = ANY($2))`
		if _, err := tx.ExecContext(ctx, deleteQuery, m.ID, pq.Array(m.SegmentIDs())); err != nil {
			return fmt.Errorf("failed to delete removed segments: %w", err)
		}
		for _, s := range m.Segments {
			s.MeetingID = m.ID
			if err := upsertSegment(ctx, tx, s); err != nil {
				return err
			}
		}
		updated.Segments = m.Segments
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateStatus sets the publication status of a meeting
func (r *Repository) UpdateStatus(ctx context.Context, id string, status Status) (*Meeting, error) {
	if !database.IsUUID(id) {
		return nil, nil
	}
	query := `UPDATE meetings SET status = $2 WHERE id = $1 RETURNING ` + meetingColumns

	m, err := scanMeeting(r.db.QueryRowContext(ctx, query, id, status))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update meeting status: %w", err)
	}
	if m.Segments, err = r.ListSegments(ctx, id); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes a meeting; segments, checkins, feedback and timings cascade
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM meetings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	return nil
}

// ListSegments retrieves a meeting's segments in agenda order
func (r *Repository) ListSegments(ctx context.Context, meetingID string) ([]*Segment, error) {
	if !database.IsUUID(meetingID) {
		return nil, nil
	}
	query := `SELECT ` + segmentColumns + ` FROM segments WHERE meeting_id = $1 ORDER BY sort_order, id`

	rows, err := r.db.QueryContext(ctx, query, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}
	defer rows.Close()

	var segments []*Segment
	for rows.Next() {
		s, err := scanSegment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}
		segments = append(segments, s)
	}
	return segments, rows.Err()
}

// ListPublishedBetween retrieves published meetings dated within [start, end], with segments
func (r *Repository) ListPublishedBetween(ctx context.Context, start, end time.Time) ([]*Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE status = 'published' AND date BETWEEN $1 AND $2
		ORDER BY date, created_at
	`
	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}

	var meetings []*Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		meetings = append(meetings, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}

	for _, m := range meetings {
		if m.Segments, err = r.ListSegments(ctx, m.ID); err != nil {
			return nil, err
		}
	}
	return meetings, nil
}
