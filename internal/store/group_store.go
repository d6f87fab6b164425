package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/openparish/steward/internal/domain/models"
)

// Sentinel errors for group operations.
var (
	ErrGroupNotFound   = errors.New("group not found")
	ErrGroupNameInUse  = errors.New("group name already in use")
	ErrAlreadyInGroup  = errors.New("member already in group")
	ErrNotInGroup      = errors.New("member not in group")

	// ErrLeaderMembership blocks removing a leader's membership row;
	// the leader must be demoted to a plain member first.
	ErrLeaderMembership = errors.New("member leads this group; demote before removing")
)

// GroupFilter narrows List results.
type GroupFilter struct {
	Search string
	Page
}

// GroupStore persists groups and their membership rows.
type GroupStore interface {
	// Create stores a new group. Returns ErrGroupNameInUse.
	Create(ctx context.Context, g *models.Group) error

	// Get returns the group, or ErrGroupNotFound.
	Get(ctx context.Context, id uuid.UUID) (*models.Group, error)

	// Update rewrites the group. Returns ErrGroupNotFound or
	// ErrGroupNameInUse.
	Update(ctx context.Context, g *models.Group) error

	// Delete removes the group and all of its membership rows in one
	// transaction.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns one page of groups plus the total matching count.
	List(ctx context.Context, f GroupFilter) ([]*models.Group, int, error)

	// AddMember adds a membership row with the given role.
	// Returns ErrAlreadyInGroup, ErrGroupNotFound, or ErrMemberNotFound.
	AddMember(ctx context.Context, groupID, memberID uuid.UUID, role string) (*models.GroupMember, error)

	// RemoveMember removes the membership row. A leader's row is
	// protected by ErrLeaderMembership until SetMemberRole demotes them.
	RemoveMember(ctx context.Context, groupID, memberID uuid.UUID) error

	// SetMemberRole promotes or demotes a membership row.
	SetMemberRole(ctx context.Context, groupID, memberID uuid.UUID, role string) error

	// ListMembers returns all membership rows of a group.
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]*models.GroupMember, error)
}
