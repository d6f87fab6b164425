package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// MembershipTypeStore implements store.MembershipTypeStore using PostgreSQL.
type MembershipTypeStore struct {
	pool *pgxpool.Pool
}

// NewMembershipTypeStore creates a new PostgreSQL-backed membership type store.
func NewMembershipTypeStore(pool *pgxpool.Pool) *MembershipTypeStore {
	return &MembershipTypeStore{pool: pool}
}

const typeColumns = `id, name, name_ci, description, created_at, updated_at`

func scanMembershipType(row pgx.Row) (*models.MembershipType, error) {
	var t models.MembershipType
	err := row.Scan(&t.ID, &t.Name, &t.NameCI, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrTypeNotFound
		}
		return nil, fmt.Errorf("failed to scan membership type: %w", err)
	}
	return &t, nil
}

// Create inserts the membership type.
func (s *MembershipTypeStore) Create(ctx context.Context, t *models.MembershipType) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO membership_types (id, name, name_ci, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.ID, t.Name, t.NameCI, t.Description, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "membership_types_name_ci_key") {
			return store.ErrTypeNameInUse
		}
		return fmt.Errorf("failed to create membership type: %w", err)
	}
	return nil
}

// Get retrieves a membership type by ID.
func (s *MembershipTypeStore) Get(ctx context.Context, id uuid.UUID) (*models.MembershipType, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+typeColumns+` FROM membership_types WHERE id = $1`, id)
	return scanMembershipType(row)
}

// Update rewrites the membership type.
func (s *MembershipTypeStore) Update(ctx context.Context, t *models.MembershipType) error {
	t.UpdatedAt = time.Now()
	result, err := s.pool.Exec(ctx, `
		UPDATE membership_types SET name = $2, name_ci = $3, description = $4, updated_at = $5
		WHERE id = $1
	`, t.ID, t.Name, t.NameCI, t.Description, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "membership_types_name_ci_key") {
			return store.ErrTypeNameInUse
		}
		return fmt.Errorf("failed to update membership type: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrTypeNotFound
	}
	return nil
}

// Delete removes the membership type. Assignments block the delete.
func (s *MembershipTypeStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM membership_types WHERE id = $1`, id)
	if err != nil {
		if _, ok := fkConstraint(err); ok {
			return store.ErrTypeReferenced
		}
		return fmt.Errorf("failed to delete membership type: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrTypeNotFound
	}
	return nil
}

// List returns all membership types ordered by name.
func (s *MembershipTypeStore) List(ctx context.Context) ([]*models.MembershipType, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+typeColumns+` FROM membership_types ORDER BY name_ci`)
	if err != nil {
		return nil, fmt.Errorf("failed to list membership types: %w", err)
	}
	defer rows.Close()

	var types []*models.MembershipType
	for rows.Next() {
		t, err := scanMembershipType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read membership types: %w", err)
	}

	return types, nil
}

// Assign records a membership window. The exclusion constraint rejects
// overlapping windows for the same member and type.
func (s *MembershipTypeStore) Assign(ctx context.Context, a *models.MembershipAssignment) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO membership_assignments (id, member_id, type_id, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.MemberID, a.TypeID, a.StartDate, a.EndDate, a.CreatedAt)
	if err != nil {
		if isExclusionViolation(err) {
			return store.ErrAssignmentOverlap
		}
		if c, ok := fkConstraint(err); ok {
			switch c {
			case "membership_assignments_member_id_fkey":
				return store.ErrMemberNotFound
			case "membership_assignments_type_id_fkey":
				return store.ErrTypeNotFound
			}
		}
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

// EndAssignment closes an open assignment at the given date.
func (s *MembershipTypeStore) EndAssignment(ctx context.Context, id uuid.UUID, end time.Time) error {
	result, err := s.pool.Exec(ctx, `
		UPDATE membership_assignments SET end_date = $2
		WHERE id = $1 AND end_date IS NULL AND start_date <= $2
	`, id, end)
	if err != nil {
		return fmt.Errorf("failed to end assignment: %w", err)
	}
	if result.RowsAffected() == 0 {
		var startDate time.Time
		err := s.pool.QueryRow(ctx,
			`SELECT start_date FROM membership_assignments WHERE id = $1`, id,
		).Scan(&startDate)
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrAssignmentNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check assignment: %w", err)
		}
		if end.Before(startDate) {
			return store.ErrAssignmentEndsBeforeStart
		}
		// Already ended; treat as settled.
	}
	return nil
}

// ListAssignments returns a member's assignment history, newest first.
func (s *MembershipTypeStore) ListAssignments(ctx context.Context, memberID uuid.UUID) ([]*models.MembershipAssignment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, member_id, type_id, start_date, end_date, created_at
		FROM membership_assignments
		WHERE member_id = $1
		ORDER BY start_date DESC
	`, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var out []*models.MembershipAssignment
	for rows.Next() {
		var a models.MembershipAssignment
		if err := rows.Scan(&a.ID, &a.MemberID, &a.TypeID, &a.StartDate, &a.EndDate, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read assignments: %w", err)
	}

	return out, nil
}
