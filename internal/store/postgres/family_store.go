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

// FamilyStore implements store.FamilyStore using PostgreSQL.
type FamilyStore struct {
	pool *pgxpool.Pool
}

// NewFamilyStore creates a new PostgreSQL-backed family store.
func NewFamilyStore(pool *pgxpool.Pool) *FamilyStore {
	return &FamilyStore{pool: pool}
}

const familyColumns = `
	id, name, name_ci, address, head_member_id, created_at, updated_at
`

func scanFamily(row pgx.Row) (*models.Family, error) {
	var f models.Family
	err := row.Scan(
		&f.ID, &f.Name, &f.NameCI, &f.Address, &f.HeadMemberID,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrFamilyNotFound
		}
		return nil, fmt.Errorf("failed to scan family: %w", err)
	}
	return &f, nil
}

// Create inserts the family.
func (s *FamilyStore) Create(ctx context.Context, f *models.Family) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO families (id, name, name_ci, address, head_member_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, f.ID, f.Name, f.NameCI, f.Address, f.HeadMemberID, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create family: %w", err)
	}
	return nil
}

// Get retrieves a family by ID.
func (s *FamilyStore) Get(ctx context.Context, id uuid.UUID) (*models.Family, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+familyColumns+` FROM families WHERE id = $1`, id)
	return scanFamily(row)
}

// Update rewrites the family's name and address. The head is changed
// through SetHead so the membership check is never skipped.
func (s *FamilyStore) Update(ctx context.Context, f *models.Family) error {
	f.UpdatedAt = time.Now()
	result, err := s.pool.Exec(ctx, `
		UPDATE families SET name = $2, name_ci = $3, address = $4, updated_at = $5
		WHERE id = $1
	`, f.ID, f.Name, f.NameCI, f.Address, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update family: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrFamilyNotFound
	}
	return nil
}

// SetHead assigns the family head. The new head must belong to the
// family; a nil head is only allowed for an empty family.
func (s *FamilyStore) SetHead(ctx context.Context, familyID uuid.UUID, head *uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := lockFamily(ctx, tx, familyID); err != nil {
		return err
	}

	var memberCount int
	err = tx.QueryRow(ctx,
		`SELECT count(*) FROM members WHERE family_id = $1`, familyID,
	).Scan(&memberCount)
	if err != nil {
		return fmt.Errorf("failed to count family members: %w", err)
	}

	if head == nil {
		if memberCount > 0 {
			return store.ErrFamilyNeedsHead
		}
	} else {
		var inFamily bool
		err = tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM members WHERE id = $1 AND family_id = $2)`,
			*head, familyID,
		).Scan(&inFamily)
		if err != nil {
			return fmt.Errorf("failed to check head membership: %w", err)
		}
		if !inFamily {
			return store.ErrHeadNotInFamily
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE families SET head_member_id = $2, updated_at = now()
		WHERE id = $1
	`, familyID, head)
	if err != nil {
		return fmt.Errorf("failed to set family head: %w", err)
	}

	return tx.Commit(ctx)
}

// Delete removes the family. Families with members are rejected.
func (s *FamilyStore) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := lockFamily(ctx, tx, id); err != nil {
		return err
	}

	var memberCount int
	err = tx.QueryRow(ctx,
		`SELECT count(*) FROM members WHERE family_id = $1`, id,
	).Scan(&memberCount)
	if err != nil {
		return fmt.Errorf("failed to count family members: %w", err)
	}
	if memberCount > 0 {
		return store.ErrFamilyReferenced
	}

	_, err = tx.Exec(ctx, `DELETE FROM families WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete family: %w", err)
	}

	return tx.Commit(ctx)
}

// List returns one page of families plus the total matching count.
func (s *FamilyStore) List(ctx context.Context, f store.FamilyFilter) ([]*models.Family, int, error) {
	where := "TRUE"
	args := []any{}

	if f.Search != "" {
		args = append(args, searchPattern(f.Search))
		where += fmt.Sprintf(" AND name_ci LIKE $%d", len(args))
	}

	var total int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM families WHERE `+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count families: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(
		`SELECT %s FROM families WHERE %s ORDER BY name_ci LIMIT $%d OFFSET $%d`,
		familyColumns, where, len(args)-1, len(args),
	)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list families: %w", err)
	}
	defer rows.Close()

	var families []*models.Family
	for rows.Next() {
		fam, err := scanFamily(rows)
		if err != nil {
			return nil, 0, err
		}
		families = append(families, fam)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read families: %w", err)
	}

	return families, total, nil
}
