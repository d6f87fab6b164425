package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/openparish/steward/internal/domain/models"
)

// Sentinel errors for member operations.
var (
	ErrMemberNotFound   = errors.New("member not found")
	ErrMemberEmailInUse = errors.New("member email already in use")

	// ErrMemberReferenced blocks deletion while contributions or
	// volunteer assignments still reference the member.
	ErrMemberReferenced = errors.New("member is referenced by other records")

	// ErrMemberIsFamilyHead blocks deleting or re-homing a member who
	// heads a family that still has other members.
	ErrMemberIsFamilyHead = errors.New("member is head of a family with other members")
)

// MemberFilter narrows List results. Search matches against the
// case-folded full name and the email.
type MemberFilter struct {
	Status   string
	FamilyID *uuid.UUID
	Search   string
	Page
}

// MemberStore persists congregation members.
type MemberStore interface {
	// Create stores a new member. If the member joins a family that has
	// no head yet, they become the head in the same transaction.
	// Returns ErrMemberEmailInUse or ErrFamilyNotFound.
	Create(ctx context.Context, m *models.Member) error

	// Get returns the member, or ErrMemberNotFound.
	Get(ctx context.Context, id uuid.UUID) (*models.Member, error)

	// Update rewrites the member. Moving a family head out of a family
	// that still has other members returns ErrMemberIsFamilyHead.
	Update(ctx context.Context, m *models.Member) error

	// Delete removes the member. Returns ErrMemberReferenced while
	// contributions or volunteer assignments exist, and
	// ErrMemberIsFamilyHead while the member heads a family with other
	// members. A sole family member's head slot is cleared atomically.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns one page of members plus the total matching count.
	List(ctx context.Context, f MemberFilter) ([]*models.Member, int, error)
}
