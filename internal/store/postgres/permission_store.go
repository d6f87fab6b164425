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

// PermissionStore implements store.PermissionStore using PostgreSQL.
// The catalogue itself is seeded by migrations.
type PermissionStore struct {
	pool *pgxpool.Pool
}

// NewPermissionStore creates a new PostgreSQL-backed permission store.
func NewPermissionStore(pool *pgxpool.Pool) *PermissionStore {
	return &PermissionStore{pool: pool}
}

func scanPermission(row pgx.Row) (*models.Permission, error) {
	var p models.Permission
	err := row.Scan(&p.ID, &p.Code, &p.Description, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrPermissionNotFound
		}
		return nil, fmt.Errorf("failed to scan permission: %w", err)
	}
	return &p, nil
}

// List returns the whole permission catalogue ordered by code.
func (s *PermissionStore) List(ctx context.Context) ([]*models.Permission, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, code, description, created_at FROM permissions ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	defer rows.Close()
	return collectPermissions(rows)
}

// GetByCode returns one catalogue entry.
func (s *PermissionStore) GetByCode(ctx context.Context, code string) (*models.Permission, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, code, description, created_at FROM permissions WHERE code = $1`, code)
	return scanPermission(row)
}

// Grant gives a role a permission.
func (s *PermissionStore) Grant(ctx context.Context, role string, permissionID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO role_permissions (id, role, permission_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.New(), role, permissionID, time.Now())
	if err != nil {
		if isUniqueViolation(err, "role_permissions_role_perm_key") {
			return store.ErrAlreadyGranted
		}
		if c, ok := fkConstraint(err); ok && c == "role_permissions_permission_id_fkey" {
			return store.ErrPermissionNotFound
		}
		return fmt.Errorf("failed to grant permission: %w", err)
	}
	return nil
}

// Revoke removes a grant.
func (s *PermissionStore) Revoke(ctx context.Context, role string, permissionID uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `
		DELETE FROM role_permissions WHERE role = $1 AND permission_id = $2
	`, role, permissionID)
	if err != nil {
		return fmt.Errorf("failed to revoke permission: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrGrantNotFound
	}
	return nil
}

// RoleGrants returns the permissions granted to a role.
func (s *PermissionStore) RoleGrants(ctx context.Context, role string) ([]*models.Permission, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.code, p.description, p.created_at
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role = $1
		ORDER BY p.code
	`, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list role grants: %w", err)
	}
	defer rows.Close()
	return collectPermissions(rows)
}

// RoleHas reports whether the role holds the permission code.
func (s *PermissionStore) RoleHas(ctx context.Context, role, code string) (bool, error) {
	var has bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM role_permissions rp
			JOIN permissions p ON p.id = rp.permission_id
			WHERE rp.role = $1 AND p.code = $2
		)
	`, role, code).Scan(&has)
	if err != nil {
		return false, fmt.Errorf("failed to check role permission: %w", err)
	}
	return has, nil
}

func collectPermissions(rows pgx.Rows) ([]*models.Permission, error) {
	var out []*models.Permission
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read permissions: %w", err)
	}
	return out, nil
}
