package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/openparish/steward/internal/domain/models"
)

// Sentinel errors for permission operations.
var (
	ErrPermissionNotFound = errors.New("permission not found")
	ErrAlreadyGranted     = errors.New("permission already granted to role")
	ErrGrantNotFound      = errors.New("grant not found")
)

// PermissionStore persists the permission catalogue and role grants.
// The catalogue is seeded by migrations; this interface only reads it.
type PermissionStore interface {
	// List returns the whole permission catalogue.
	List(ctx context.Context) ([]*models.Permission, error)

	// GetByCode returns one catalogue entry, or ErrPermissionNotFound.
	GetByCode(ctx context.Context, code string) (*models.Permission, error)

	// Grant gives a role a permission. Returns ErrAlreadyGranted or
	// ErrPermissionNotFound.
	Grant(ctx context.Context, role string, permissionID uuid.UUID) error

	// Revoke removes a grant. Returns ErrGrantNotFound.
	Revoke(ctx context.Context, role string, permissionID uuid.UUID) error

	// RoleGrants returns the permissions granted to a role.
	RoleGrants(ctx context.Context, role string) ([]*models.Permission, error)

	// RoleHas reports whether the role holds the permission code.
	RoleHas(ctx context.Context, role, code string) (bool, error)
}
