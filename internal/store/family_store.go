package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/openparish/steward/internal/domain/models"
)

// Sentinel errors for family operations.
var (
	ErrFamilyNotFound   = errors.New("family not found")
	ErrFamilyReferenced = errors.New("family still has members")

	// ErrHeadNotInFamily is returned when the proposed head does not
	// belong to the family.
	ErrHeadNotInFamily = errors.New("head member does not belong to family")

	// ErrFamilyNeedsHead is returned when clearing the head of a family
	// that still has members.
	ErrFamilyNeedsHead = errors.New("family with members must have a head")
)

// FamilyFilter narrows List results.
type FamilyFilter struct {
	Search string
	Page
}

// FamilyStore persists families. The exactly-one-head invariant is
// maintained here: SetHead validates membership, and clearing the head
// is only allowed once the family is empty.
type FamilyStore interface {
	// Create stores a new family.
	Create(ctx context.Context, f *models.Family) error

	// Get returns the family, or ErrFamilyNotFound.
	Get(ctx context.Context, id uuid.UUID) (*models.Family, error)

	// Update rewrites name/address. The head is changed via SetHead only.
	Update(ctx context.Context, f *models.Family) error

	// SetHead makes the given member the family head. The member must
	// already belong to the family (ErrHeadNotInFamily). Passing nil
	// clears the head and is rejected with ErrFamilyNeedsHead while
	// members remain.
	SetHead(ctx context.Context, familyID uuid.UUID, head *uuid.UUID) error

	// Delete removes the family. Returns ErrFamilyReferenced while
	// members still belong to it.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns one page of families plus the total matching count.
	List(ctx context.Context, f FamilyFilter) ([]*models.Family, int, error)
}
