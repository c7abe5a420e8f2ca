package vote

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/fkhayef/clubhub/internal/database"
)

// Store is the awards and voting persistence
type Store interface {
	// ListAwards returns the meeting's awards in the order they were saved
	ListAwards(ctx context.Context, meetingID string) ([]*Award, error)
	// ReplaceAwards swaps every award of the meeting for rows, atomically
	ReplaceAwards(ctx context.Context, meetingID string, rows []*Award) ([]*Award, error)
	// ListCandidates returns the meeting's vote form in form order
	ListCandidates(ctx context.Context, meetingID string) ([]*Candidate, error)
	// ReplaceCandidates swaps the meeting's vote form for rows, atomically. A candidate kept
	// under the same category and name keeps its count; every other count starts at zero.
	ReplaceCandidates(ctx context.Context, meetingID string, rows []*Candidate) ([]*Candidate, error)
	// GetStatus returns nil when the meeting's ballot was never opened or closed
	GetStatus(ctx context.Context, meetingID string) (*Status, error)
	SetStatus(ctx context.Context, s *Status) (*Status, error)
	// Cast adds one vote to each candidate named by picks, only while the ballot is open.
	// Picks naming no candidate are ignored. It returns the candidates that were counted.
	Cast(ctx context.Context, meetingID string, picks []Pick) ([]*Candidate, error)
}

// Repository handles awards and voting data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new vote repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const (
	awardColumns     = `id, meeting_id, category, attendee_id, sort_order, created_at`
	candidateColumns = `id, meeting_id, category, name, segment, count, sort_order`
)

func scanAward(row interface{ Scan(...any) error }) (*Award, error) {
	a := &Award{}
	if err := row.Scan(&a.ID, &a.MeetingID, &a.Category, &a.AttendeeID, &a.SortOrder, &a.CreatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

func scanCandidate(row interface{ Scan(...any) error }) (*Candidate, error) {
	c := &Candidate{}
	if err := row.Scan(&c.ID, &c.MeetingID, &c.Category, &c.Name, &c.Segment, &c.Count, &c.SortOrder); err != nil {
		return nil, err
	}
	return c, nil
}

func collectCandidates(rows *sql.Rows) ([]*Candidate, error) {
	defer rows.Close()

	var candidates []*Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// ListAwards retrieves the meeting's awards
func (r *Repository) ListAwards(ctx context.Context, meetingID string) ([]*Award, error) {
	if !database.IsUUID(meetingID) {
		return nil, nil
	}
	query := `SELECT ` + awardColumns + ` FROM awards WHERE meeting_id = $1 ORDER BY sort_order, id`

	rows, err := r.db.QueryContext(ctx, query, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list awards: %w", err)
	}
	defer rows.Close()

	var awards []*Award
	for rows.Next() {
		a, err := scanAward(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan award: %w", err)
		}
		awards = append(awards, a)
	}
	return awards, rows.Err()
}

// ReplaceAwards deletes the meeting's awards and inserts rows in one transaction
func (r *Repository) ReplaceAwards(ctx context.Context, meetingID string, rows []*Award) ([]*Award, error) {
	created := make([]*Award, 0, len(rows))
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM awards WHERE meeting_id = $1`, meetingID); err != nil {
			return fmt.Errorf("failed to delete awards: %w", err)
		}
		query := `
			INSERT INTO awards (meeting_id, category, attendee_id, sort_order)
			VALUES ($1, $2, $3, $4)
			RETURNING ` + awardColumns
		for _, a := range rows {
			c, err := scanAward(tx.QueryRowContext(ctx, query, meetingID, a.Category, a.AttendeeID, a.SortOrder))
			if err != nil {
				return fmt.Errorf("failed to create award: %w", err)
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

// ListCandidates retrieves the meeting's vote form
func (r *Repository) ListCandidates(ctx context.Context, meetingID string) ([]*Candidate, error) {
	if !database.IsUUID(meetingID) {
		return nil, nil
	}
	query := `SELECT ` + candidateColumns + ` FROM votes WHERE meeting_id = $1 ORDER BY sort_order, id`

	rows, err := r.db.QueryContext(ctx, query, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	return collectCandidates(rows)
}

// ReplaceCandidates drops the candidates missing from rows and upserts the rest, keeping their counts
func (r *Repository) ReplaceCandidates(ctx context.Context, meetingID string, rows []*Candidate) ([]*Candidate, error) {
	categories := make([]string, len(rows))
	names := make([]string, len(rows))
	for i, c := range rows {
		categories[i] = c.Category
		names[i] = c.Name
	}

	saved := make([]*Candidate, 0, len(rows))
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			DELETE FROM votes
			WHERE meeting_id = $1
			  AND (category, name) NOT IN (SELECT * FROM unnest($2::text[], $3::text[]))`
		if _, err := tx.ExecContext(ctx, query, meetingID, pq.Array(categories), pq.Array(names)); err != nil {
			return fmt.Errorf("failed to delete votes: %w", err)
		}

		query = `
			INSERT INTO votes (meeting_id, category, name, segment, sort_order)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (meeting_id, category, name)
			DO UPDATE SET segment = EXCLUDED.segment, sort_order = EXCLUDED.sort_order
			RETURNING ` + candidateColumns
		for _, c := range rows {
			s, err := scanCandidate(tx.QueryRowContext(ctx, query, meetingID, c.Category, c.Name, c.Segment, c.SortOrder))
			if err != nil {
				return fmt.Errorf("failed to save vote: %w", err)
			}
			saved = append(saved, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// GetStatus retrieves the meeting's ballot status
func (r *Repository) GetStatus(ctx context.Context, meetingID string) (*Status, error) {
	if !database.IsUUID(meetingID) {
		return nil, nil
	}
	query := `SELECT meeting_id, open, updated_by, updated_at FROM vote_status WHERE meeting_id = $1`

	s := &Status{}
	err := r.db.QueryRowContext(ctx, query, meetingID).Scan(&s.MeetingID, &s.Open, &s.UpdatedBy, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vote status: %w", err)
	}
	return s, nil
}

// SetStatus opens or closes the meeting's ballot
func (r *Repository) SetStatus(ctx context.Context, s *Status) (*Status, error) {
	query := `
		INSERT INTO vote_status (meeting_id, open, updated_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (meeting_id)
		DO UPDATE SET open = EXCLUDED.open, updated_by = EXCLUDED.updated_by, updated_at = NOW()
		RETURNING meeting_id, open, updated_by, updated_at`

	saved := &Status{}
	err := r.db.QueryRowContext(ctx, query, s.MeetingID, s.Open, s.UpdatedBy).
		Scan(&saved.MeetingID, &saved.Open, &saved.UpdatedBy, &saved.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to set vote status: %w", err)
	}
	return saved, nil
}

// Cast increments the named candidates in one statement guarded by the ballot status
func (r *Repository) Cast(ctx context.Context, meetingID string, picks []Pick) ([]*Candidate, error) {
	if len(picks) == 0 || !database.IsUUID(meetingID) {
		return nil, nil
	}
	categories := make([]string, len(picks))
	names := make([]string, len(picks))
	for i, p := range picks {
		categories[i] = p.Category
		names[i] = p.Name
	}

	query := `
		UPDATE votes v
		SET count = v.count + 1
		FROM unnest($2::text[], $3::text[]) AS p(category, name)
		WHERE v.meeting_id = $1
		  AND v.category = p.category
		  AND v.name = p.name
		  AND EXISTS (SELECT 1 FROM vote_status s WHERE s.meeting_id = $1 AND s.open)
		RETURNING v.id, v.meeting_id, v.category, v.name, v.segment, v.count, v.sort_order`

	rows, err := r.db.QueryContext(ctx, query, meetingID, pq.Array(categories), pq.Array(names))
	if err != nil {
		return nil, fmt.Errorf("failed to cast votes: %w", err)
	}
	return collectCandidates(rows)
}
