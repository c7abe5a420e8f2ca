package timing

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fkhayef/clubhub/internal/database"
)

// Store is the timing persistence
type Store interface {
	Create(ctx context.Context, t *Timing) (*Timing, error)
	GetByID(ctx context.Context, id string) (*Timing, error)
	ListByMeeting(ctx context.Context, meetingID string) ([]*Timing, error)
	// ReplaceSegments swaps the timings of every batch's segment, atomically across all batches
	ReplaceSegments(ctx context.Context, meetingID string, batches []SegmentBatch) ([]*Timing, error)
	Update(ctx context.Context, t *Timing) (*Timing, error)
	Delete(ctx context.Context, id string) error
}

// Repository handles timing data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new timing repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const timingColumns = `id, meeting_id, segment_id, name, planned_duration_minutes, actual_start_time,
	actual_end_time, actual_duration_seconds, dot_color, created_at, updated_at`

func scanTiming(row interface{ Scan(...any) error }) (*Timing, error) {
	t := &Timing{}
	err := row.Scan(
		&t.ID,
		&t.MeetingID,
		&t.SegmentID,
		&t.Name,
		&t.PlannedDurationMinutes,
		&t.ActualStartTime,
		&t.ActualEndTime,
		&t.ActualDurationSeconds,
		&t.DotColor,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insert(ctx context.Context, q queryer, t *Timing) (*Timing, error) {
	query := `
		INSERT INTO timings (meeting_id, segment_id, name, planned_duration_minutes, actual_start_time,
			actual_end_time, actual_duration_seconds, dot_color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + timingColumns

	created, err := scanTiming(q.QueryRowContext(ctx, query,
		t.MeetingID, t.SegmentID, t.Name, t.PlannedDurationMinutes, t.ActualStartTime,
		t.ActualEndTime, t.ActualDurationSeconds, t.DotColor,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create timing: %w", err)
	}
	return created, nil
}

// Create inserts a new timing
func (r *Repository) Create(ctx context.Context, t *Timing) (*Timing, error) {
	return insert(ctx, r.db, t)
}

// GetByID retrieves a timing by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Timing, error) {
	if !database.IsUUID(id) {
		return nil, nil
	}
	query := `SELECT ` + timingColumns + ` FROM timings WHERE id = $1`

	t, err := scanTiming(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get timing: %w", err)
	}
	return t, nil
}

// ListByMeeting retrieves the meeting's timings in recording order
func (r *Repository) ListByMeeting(ctx context.Context, meetingID string) ([]*Timing, error) {
	if !database.IsUUID(meetingID) {
		return nil, nil
	}
	query := `SELECT ` + timingColumns + ` FROM timings WHERE meeting_id = $1 ORDER BY actual_start_time, id`

	rows, err := r.db.QueryContext(ctx, query, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list timings: %w", err)
	}
	defer rows.Close()

	var timings []*Timing
	for rows.Next() {
		t, err := scanTiming(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timing: %w", err)
		}
		timings = append(timings, t)
	}
	return timings, rows.Err()
}

// ReplaceSegments deletes and reinserts the timings of each batch's segment in one transaction
func (r *Repository) ReplaceSegments(ctx context.Context, meetingID string, batches []SegmentBatch) ([]*Timing, error) {
	var created []*Timing
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, b := range batches {
			query := `DELETE FROM timings WHERE meeting_id = $1 AND segment_id = $2`
			if _, err := tx.ExecContext(ctx, query, meetingID, b.SegmentID); err != nil {
				return fmt.Errorf("failed to clear segment timings: %w", err)
			}
			for _, t := range b.Timings {
				c, err := insert(ctx, tx, t)
				if err != nil {
					return err
				}
				created = append(created, c)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update rewrites a timing's recorded values
func (r *Repository) Update(ctx context.Context, t *Timing) (*Timing, error) {
	query := `
		UPDATE timings
		SET name = $2, planned_duration_minutes = $3, actual_start_time = $4, actual_end_time = $5,
		    actual_duration_seconds = $6, dot_color = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + timingColumns

	updated, err := scanTiming(r.db.QueryRowContext(ctx, query,
		t.ID, t.Name, t.PlannedDurationMinutes, t.ActualStartTime, t.ActualEndTime,
		t.ActualDurationSeconds, t.DotColor,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update timing: %w", err)
	}
	return updated, nil
}

// Delete removes a timing
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM timings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete timing: %w", err)
	}
	return nil
}
