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

// MemberStore implements store.MemberStore using PostgreSQL.
type MemberStore struct {
	pool *pgxpool.Pool
}

// NewMemberStore creates a new PostgreSQL-backed member store.
func NewMemberStore(pool *pgxpool.Pool) *MemberStore {
	return &MemberStore{pool: pool}
}

const memberColumns = `
	id, first_name, last_name, full_name_ci, email, phone, address,
	family_id, joined_at, status, created_at, updated_at
`

func scanMember(row pgx.Row) (*models.Member, error) {
	var m models.Member
	err := row.Scan(
		&m.ID, &m.FirstName, &m.LastName, &m.FullNameCI, &m.Email,
		&m.Phone, &m.Address, &m.FamilyID, &m.JoinedAt, &m.Status,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to scan member: %w", err)
	}
	return &m, nil
}

// Create inserts the member. Joining a family with no head makes the new
// member the head inside the same transaction.
func (s *MemberStore) Create(ctx context.Context, m *models.Member) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if m.FamilyID != nil {
		if err := lockFamily(ctx, tx, *m.FamilyID); err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO members (
			id, first_name, last_name, full_name_ci, email, phone,
			address, family_id, joined_at, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		m.ID, m.FirstName, m.LastName, m.FullNameCI, m.Email, m.Phone,
		m.Address, m.FamilyID, m.JoinedAt, m.Status, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "members_email_key") {
			return store.ErrMemberEmailInUse
		}
		return fmt.Errorf("failed to create member: %w", err)
	}

	if m.FamilyID != nil {
		_, err = tx.Exec(ctx, `
			UPDATE families SET head_member_id = $2, updated_at = now()
			WHERE id = $1 AND head_member_id IS NULL
		`, *m.FamilyID, m.ID)
		if err != nil {
			return fmt.Errorf("failed to set family head: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Get retrieves a member by ID.
func (s *MemberStore) Get(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
	return scanMember(row)
}

// Update rewrites the member, maintaining the family-head invariant when
// the member changes families.
func (s *MemberStore) Update(ctx context.Context, m *models.Member) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var oldFamily *uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT family_id FROM members WHERE id = $1 FOR UPDATE`, m.ID,
	).Scan(&oldFamily)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrMemberNotFound
		}
		return fmt.Errorf("failed to lock member: %w", err)
	}

	sameFamily := (oldFamily == nil && m.FamilyID == nil) ||
		(oldFamily != nil && m.FamilyID != nil && *oldFamily == *m.FamilyID)

	if !sameFamily {
		if oldFamily != nil {
			if err := releaseFamilyHead(ctx, tx, *oldFamily, m.ID); err != nil {
				return err
			}
		}
		if m.FamilyID != nil {
			if err := lockFamily(ctx, tx, *m.FamilyID); err != nil {
				return err
			}
		}
	}

	m.UpdatedAt = time.Now()
	_, err = tx.Exec(ctx, `
		UPDATE members SET
			first_name = $2, last_name = $3, full_name_ci = $4, email = $5,
			phone = $6, address = $7, family_id = $8, joined_at = $9,
			status = $10, updated_at = $11
		WHERE id = $1
	`,
		m.ID, m.FirstName, m.LastName, m.FullNameCI, m.Email, m.Phone,
		m.Address, m.FamilyID, m.JoinedAt, m.Status, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "members_email_key") {
			return store.ErrMemberEmailInUse
		}
		return fmt.Errorf("failed to update member: %w", err)
	}

	if !sameFamily && m.FamilyID != nil {
		_, err = tx.Exec(ctx, `
			UPDATE families SET head_member_id = $2, updated_at = now()
			WHERE id = $1 AND head_member_id IS NULL
		`, *m.FamilyID, m.ID)
		if err != nil {
			return fmt.Errorf("failed to set family head: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Delete removes the member. Contributions and volunteer assignments
// block the delete via FK constraints; the family-head slot is released
// first when the member is the last one in the family.
func (s *MemberStore) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var family *uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT family_id FROM members WHERE id = $1 FOR UPDATE`, id,
	).Scan(&family)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrMemberNotFound
		}
		return fmt.Errorf("failed to lock member: %w", err)
	}

	if family != nil {
		if err := releaseFamilyHead(ctx, tx, *family, id); err != nil {
			return err
		}
	}

	result, err := tx.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		if c, ok := fkConstraint(err); ok {
			switch c {
			case "contributions_member_id_fkey", "event_volunteers_member_id_fkey":
				return store.ErrMemberReferenced
			}
		}
		return fmt.Errorf("failed to delete member: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrMemberNotFound
	}

	return tx.Commit(ctx)
}

// lockFamily takes a row lock on the family, verifying it exists.
func lockFamily(ctx context.Context, tx pgx.Tx, familyID uuid.UUID) error {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT true FROM families WHERE id = $1 FOR UPDATE`, familyID,
	).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrFamilyNotFound
		}
		return fmt.Errorf("failed to lock family: %w", err)
	}
	return nil
}

// releaseFamilyHead clears the head slot when the departing member heads
// the family and nobody else remains; with other members present the
// departure is rejected so the family is never left headless.
func releaseFamilyHead(ctx context.Context, tx pgx.Tx, familyID, memberID uuid.UUID) error {
	var head *uuid.UUID
	err := tx.QueryRow(ctx,
		`SELECT head_member_id FROM families WHERE id = $1 FOR UPDATE`,
		familyID,
	).Scan(&head)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrFamilyNotFound
		}
		return fmt.Errorf("failed to lock family: %w", err)
	}
	if head == nil || *head != memberID {
		return nil
	}

	var others int
	err = tx.QueryRow(ctx,
		`SELECT count(*) FROM members WHERE family_id = $1 AND id <> $2`,
		familyID, memberID,
	).Scan(&others)
	if err != nil {
		return fmt.Errorf("failed to count family members: %w", err)
	}
	if others > 0 {
		return store.ErrMemberIsFamilyHead
	}

	_, err = tx.Exec(ctx, `
		UPDATE families SET head_member_id = NULL, updated_at = now()
		WHERE id = $1
	`, familyID)
	if err != nil {
		return fmt.Errorf("failed to clear family head: %w", err)
	}
	return nil
}

// List returns one page of members plus the total matching count.
func (s *MemberStore) List(ctx context.Context, f store.MemberFilter) ([]*models.Member, int, error) {
	where := "TRUE"
	args := []any{}

	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.FamilyID != nil {
		args = append(args, *f.FamilyID)
		where += fmt.Sprintf(" AND family_id = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, searchPattern(f.Search))
		where += fmt.Sprintf(" AND (full_name_ci LIKE $%d OR lower(email) LIKE $%d)", len(args), len(args))
	}

	var total int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM members WHERE `+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count members: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(
		`SELECT %s FROM members WHERE %s ORDER BY full_name_ci LIMIT $%d OFFSET $%d`,
		memberColumns, where, len(args)-1, len(args),
	)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, err
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read members: %w", err)
	}

	return members, total, nil
}
