package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// PermissionStore implements store.PermissionStore in memory. The
// catalogue is seeded by NewDB.
type PermissionStore struct {
	db *DB
}

func clonePermission(p *models.Permission) *models.Permission {
	c := *p
	return &c
}

// List returns the whole permission catalogue ordered by code.
func (s *PermissionStore) List(ctx context.Context) ([]*models.Permission, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []*models.Permission
	for _, p := range s.db.permissions {
		out = append(out, clonePermission(p))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Code < out[j].Code
	})
	return out, nil
}

// GetByCode returns one catalogue entry.
func (s *PermissionStore) GetByCode(ctx context.Context, code string) (*models.Permission, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, p := range s.db.permissions {
		if p.Code == code {
			return clonePermission(p), nil
		}
	}
	return nil, store.ErrPermissionNotFound
}

// Grant gives a role a permission.
func (s *PermissionStore) Grant(ctx context.Context, role string, permissionID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.permissions[permissionID]; !ok {
		return store.ErrPermissionNotFound
	}
	for _, g := range s.db.grants {
		if g.Role == role && g.PermissionID == permissionID {
			return store.ErrAlreadyGranted
		}
	}

	g := &models.RolePermission{
		ID:           uuid.New(),
		Role:         role,
		PermissionID: permissionID,
		CreatedAt:    time.Now(),
	}
	s.db.grants[g.ID] = g
	return nil
}

// Revoke removes a grant.
func (s *PermissionStore) Revoke(ctx context.Context, role string, permissionID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for id, g := range s.db.grants {
		if g.Role == role && g.PermissionID == permissionID {
			delete(s.db.grants, id)
			return nil
		}
	}
	return store.ErrGrantNotFound
}

// RoleGrants returns the permissions granted to a role.
func (s *PermissionStore) RoleGrants(ctx context.Context, role string) ([]*models.Permission, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []*models.Permission
	for _, g := range s.db.grants {
		if g.Role != role {
			continue
		}
		if p, ok := s.db.permissions[g.PermissionID]; ok {
			out = append(out, clonePermission(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Code < out[j].Code
	})
	return out, nil
}

// RoleHas reports whether the role holds the permission code.
func (s *PermissionStore) RoleHas(ctx context.Context, role, code string) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, g := range s.db.grants {
		if g.Role != role {
			continue
		}
		if p, ok := s.db.permissions[g.PermissionID]; ok && p.Code == code {
			return true, nil
		}
	}
	return false, nil
}
