package member

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/fkhayef/clubhub/internal/database"
)

// Store is the member persistence the service depends on
type Store interface {
	GetByID(ctx context.Context, id string) (*Member, error)
	ListByIDs(ctx context.Context, ids []string) ([]*Member, error)
	List(ctx context.Context, limit, offset int) ([]*Member, int, error)
}

// Repository handles member data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new member repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const memberColumns = `id, username, full_name, is_admin, created_at`

func scanMember(row interface{ Scan(...any) error }) (*Member, error) {
	m := &Member{}
	if err := row.Scan(&m.ID, &m.Username, &m.FullName, &m.IsAdmin, &m.CreatedAt); err != nil {
		return nil, err
	}
	return m, nil
}

// GetByID retrieves a member by their ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Member, error) {
	if !database.IsUUID(id) {
		return nil, nil
	}
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	m, err := scanMember(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// ListByIDs retrieves the members whose ids are in ids
func (r *Repository) ListByIDs(ctx context.Context, ids []string) ([]*Member, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + memberColumns + ` FROM members WHERE id::text = ANY($1) ORDER BY full_name`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// List retrieves members with pagination, ordered by full name
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*Member, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM members`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count members: %w", err)
	}

	query := `SELECT ` + memberColumns + ` FROM members ORDER BY full_name, id LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, total, rows.Err()
}
