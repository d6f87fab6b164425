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

// GroupStore implements store.GroupStore using PostgreSQL.
type GroupStore struct {
	pool *pgxpool.Pool
}

// NewGroupStore creates a new PostgreSQL-backed group store.
func NewGroupStore(pool *pgxpool.Pool) *GroupStore {
	return &GroupStore{pool: pool}
}

const groupColumns = `id, name, name_ci, description, created_at, updated_at`

func scanGroup(row pgx.Row) (*models.Group, error) {
	var g models.Group
	err := row.Scan(&g.ID, &g.Name, &g.NameCI, &g.Description, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to scan group: %w", err)
	}
	return &g, nil
}

// Create inserts the group.
func (s *GroupStore) Create(ctx context.Context, g *models.Group) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO groups (id, name, name_ci, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, g.ID, g.Name, g.NameCI, g.Description, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "groups_name_ci_key") {
			return store.ErrGroupNameInUse
		}
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

// Get retrieves a group by ID.
func (s *GroupStore) Get(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE id = $1`, id)
	return scanGroup(row)
}

// Update rewrites the group.
func (s *GroupStore) Update(ctx context.Context, g *models.Group) error {
	g.UpdatedAt = time.Now()
	result, err := s.pool.Exec(ctx, `
		UPDATE groups SET name = $2, name_ci = $3, description = $4, updated_at = $5
		WHERE id = $1
	`, g.ID, g.Name, g.NameCI, g.Description, g.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "groups_name_ci_key") {
			return store.ErrGroupNameInUse
		}
		return fmt.Errorf("failed to update group: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrGroupNotFound
	}
	return nil
}

// Delete removes the group; membership rows go with it via cascade.
func (s *GroupStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrGroupNotFound
	}
	return nil
}

// List returns one page of groups plus the total matching count.
func (s *GroupStore) List(ctx context.Context, f store.GroupFilter) ([]*models.Group, int, error) {
	where := "TRUE"
	args := []any{}

	if f.Search != "" {
		args = append(args, searchPattern(f.Search))
		where += fmt.Sprintf(" AND name_ci LIKE $%d", len(args))
	}

	var total int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM groups WHERE `+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count groups: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(
		`SELECT %s FROM groups WHERE %s ORDER BY name_ci LIMIT $%d OFFSET $%d`,
		groupColumns, where, len(args)-1, len(args),
	)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, 0, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read groups: %w", err)
	}

	return groups, total, nil
}

// AddMember adds a membership row with the given role.
func (s *GroupStore) AddMember(ctx context.Context, groupID, memberID uuid.UUID, role string) (*models.GroupMember, error) {
	gm := &models.GroupMember{
		ID:        uuid.New(),
		GroupID:   groupID,
		MemberID:  memberID,
		Role:      role,
		CreatedAt: time.Now(),
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO group_members (id, group_id, member_id, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, gm.ID, gm.GroupID, gm.MemberID, gm.Role, gm.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "group_members_group_member_key") {
			return nil, store.ErrAlreadyInGroup
		}
		if c, ok := fkConstraint(err); ok {
			switch c {
			case "group_members_group_id_fkey":
				return nil, store.ErrGroupNotFound
			case "group_members_member_id_fkey":
				return nil, store.ErrMemberNotFound
			}
		}
		return nil, fmt.Errorf("failed to add group member: %w", err)
	}
	return gm, nil
}

// RemoveMember removes the membership row. Leaders must be demoted first.
func (s *GroupStore) RemoveMember(ctx context.Context, groupID, memberID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var role string
	err = tx.QueryRow(ctx, `
		SELECT role FROM group_members
		WHERE group_id = $1 AND member_id = $2 FOR UPDATE
	`, groupID, memberID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrNotInGroup
		}
		return fmt.Errorf("failed to lock group membership: %w", err)
	}
	if role == models.GroupRoleLeader {
		return store.ErrLeaderMembership
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM group_members WHERE group_id = $1 AND member_id = $2
	`, groupID, memberID)
	if err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}

	return tx.Commit(ctx)
}

// SetMemberRole promotes or demotes a membership row.
func (s *GroupStore) SetMemberRole(ctx context.Context, groupID, memberID uuid.UUID, role string) error {
	result, err := s.pool.Exec(ctx, `
		UPDATE group_members SET role = $3
		WHERE group_id = $1 AND member_id = $2
	`, groupID, memberID, role)
	if err != nil {
		return fmt.Errorf("failed to set group role: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotInGroup
	}
	return nil
}

// ListMembers returns all membership rows of a group, leaders first.
func (s *GroupStore) ListMembers(ctx context.Context, groupID uuid.UUID) ([]*models.GroupMember, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM groups WHERE id = $1)`, groupID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check group: %w", err)
	}
	if !exists {
		return nil, store.ErrGroupNotFound
	}

	rows, err := s.pool.Query(ctx, `
		SELECT gm.id, gm.group_id, gm.member_id, gm.role, gm.created_at
		FROM group_members gm
		JOIN members m ON m.id = gm.member_id
		WHERE gm.group_id = $1
		ORDER BY gm.role, m.full_name_ci
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer rows.Close()

	var out []*models.GroupMember
	for rows.Next() {
		var gm models.GroupMember
		if err := rows.Scan(&gm.ID, &gm.GroupID, &gm.MemberID, &gm.Role, &gm.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		out = append(out, &gm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read group members: %w", err)
	}

	return out, nil
}
