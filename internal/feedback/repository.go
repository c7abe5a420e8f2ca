package feedback

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fkhayef/clubhub/internal/access"
	"github.com/fkhayef/clubhub/internal/database"
)

// Store is the feedback persistence. Create and ReplaceExperiences return ErrDuplicateExperience
// when an author already holds an experience note of the same type for the meeting.
type Store interface {
	Create(ctx context.Context, f *Feedback) (*Feedback, error)
	GetByID(ctx context.Context, id string) (*Feedback, error)
	// List returns the meeting's feedback that passes filter, oldest first
	List(ctx context.Context, meetingID string, filter access.FeedbackFilter) ([]*Feedback, error)
	Update(ctx context.Context, f *Feedback) (*Feedback, error)
	Delete(ctx context.Context, id string) error
	// ReplaceExperiences swaps every experience note of fromWxid for the meeting with rows, atomically
	ReplaceExperiences(ctx context.Context, meetingID, fromWxid string, rows []*Feedback) ([]*Feedback, error)
}

// Repository handles feedback data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new feedback repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const feedbackColumns = `id, meeting_id, segment_id, type, value, from_wxid, to_attendee_id, created_at, updated_at`

func scanFeedback(row interface{ Scan(...any) error }) (*Feedback, error) {
	f := &Feedback{}
	err := row.Scan(
		&f.ID,
		&f.MeetingID,
		&f.SegmentID,
		&f.Type,
		&f.Value,
		&f.FromWxid,
		&f.ToAttendeeID,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insert(ctx context.Context, q queryer, f *Feedback) (*Feedback, error) {
	query := `
		INSERT INTO feedbacks (meeting_id, segment_id, type, value, from_wxid, to_attendee_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + feedbackColumns

	created, err := scanFeedback(q.QueryRowContext(ctx, query,
		f.MeetingID, f.SegmentID, f.Type, f.Value, f.FromWxid, f.ToAttendeeID,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateExperience
		}
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}
	return created, nil
}

// Create inserts a new feedback
func (r *Repository) Create(ctx context.Context, f *Feedback) (*Feedback, error) {
	return insert(ctx, r.db, f)
}

// GetByID retrieves a feedback by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Feedback, error) {
	if !database.IsUUID(id) {
		return nil, nil
	}
	query := `SELECT ` + feedbackColumns + ` FROM feedbacks WHERE id = $1`

	f, err := scanFeedback(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return f, nil
}

// List retrieves the meeting's feedback visible through filter
func (r *Repository) List(ctx context.Context, meetingID string, filter access.FeedbackFilter) ([]*Feedback, error) {
	if filter.Scope == access.ScopeNone || !database.IsUUID(meetingID) {
		return nil, nil
	}

	conds := []string{"meeting_id = $1"}
	args := []any{meetingID}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Type != nil {
		conds = append(conds, "type = "+arg(*filter.Type))
	}
	if filter.SegmentID != nil {
		conds = append(conds, "segment_id::text = "+arg(*filter.SegmentID))
	}
	if filter.Scope == access.ScopeOwn {
		var own []string
		if filter.FromWxid != nil {
			own = append(own, "from_wxid = "+arg(*filter.FromWxid))
		}
		if filter.ToAttendeeID != nil {
			own = append(own, "to_attendee_id::text = "+arg(*filter.ToAttendeeID))
		}
		if len(own) == 0 {
			return nil, nil
		}
		conds = append(conds, "("+strings.Join(own, " OR ")+")")
	}

	query := `SELECT ` + feedbackColumns + ` FROM feedbacks WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedbacks: %w", err)
	}
	defer rows.Close()

	var feedbacks []*Feedback
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		feedbacks = append(feedbacks, f)
	}
	return feedbacks, rows.Err()
}

// Update rewrites the value and targets of a feedback
func (r *Repository) Update(ctx context.Context, f *Feedback) (*Feedback, error) {
	query := `
		UPDATE feedbacks
		SET value = $2, segment_id = $3, to_attendee_id = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + feedbackColumns

	updated, err := scanFeedback(r.db.QueryRowContext(ctx, query, f.ID, f.Value, f.SegmentID, f.ToAttendeeID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update feedback: %w", err)
	}
	return updated, nil
}

// Delete removes a feedback
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM feedbacks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}
	return nil
}

// ReplaceExperiences deletes the author's experience notes for the meeting and inserts rows in one transaction
func (r *Repository) ReplaceExperiences(ctx context.Context, meetingID, fromWxid string, rows []*Feedback) ([]*Feedback, error) {
	created := make([]*Feedback, 0, len(rows))
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `DELETE FROM feedbacks WHERE meeting_id = $1 AND from_wxid = $2 AND type LIKE 'experience\_%'`
		if _, err := tx.ExecContext(ctx, query, meetingID, fromWxid); err != nil {
			return fmt.Errorf("failed to delete experience feedbacks: %w", err)
		}
		for _, f := range rows {
			c, err := insert(ctx, tx, f)
			if err != nil {
				return err
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
