package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/openparish/steward/internal/domain/models"
)

// Sentinel errors for membership-type operations.
var (
	ErrTypeNotFound       = errors.New("membership type not found")
	ErrTypeNameInUse      = errors.New("membership type name already in use")
	ErrTypeReferenced     = errors.New("membership type has assignments")
	ErrAssignmentNotFound = errors.New("membership assignment not found")

	// ErrAssignmentOverlap is returned when a new assignment window
	// overlaps an existing window for the same member and type.
	ErrAssignmentOverlap = errors.New("assignment window overlaps an existing assignment")

	// ErrAssignmentEndsBeforeStart is returned when an end date would
	// produce an inverted window.
	ErrAssignmentEndsBeforeStart = errors.New("assignment end date precedes its start date")
)

// MembershipTypeStore persists the type catalogue and member assignments.
type MembershipTypeStore interface {
	// Create stores a new type. Returns ErrTypeNameInUse.
	Create(ctx context.Context, t *models.MembershipType) error

	// Get returns the type, or ErrTypeNotFound.
	Get(ctx context.Context, id uuid.UUID) (*models.MembershipType, error)

	// Update rewrites the type.
	Update(ctx context.Context, t *models.MembershipType) error

	// Delete removes the type. Returns ErrTypeReferenced while
	// assignments reference it.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns all types.
	List(ctx context.Context) ([]*models.MembershipType, error)

	// Assign records a membership window for a member.
	// Returns ErrAssignmentOverlap if the window overlaps an existing
	// assignment of the same type, ErrMemberNotFound, or ErrTypeNotFound.
	Assign(ctx context.Context, a *models.MembershipAssignment) error

	// EndAssignment closes an open assignment at the given date.
	// Returns ErrAssignmentEndsBeforeStart when end precedes the
	// window's start; ending an already-ended assignment is a no-op.
	EndAssignment(ctx context.Context, id uuid.UUID, end time.Time) error

	// ListAssignments returns a member's assignment history, newest first.
	ListAssignments(ctx context.Context, memberID uuid.UUID) ([]*models.MembershipAssignment, error)
}
