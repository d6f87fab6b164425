package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/openparish/steward/internal/domain/models"
)

// Sentinel errors for event and volunteer operations.
var (
	ErrEventNotFound     = errors.New("event not found")
	ErrAlreadyAssigned   = errors.New("member already assigned to this task")
	ErrVolunteerNotFound = errors.New("volunteer assignment not found")
)

// EventFilter narrows List results.
type EventFilter struct {
	Search string
	Page
}

// EventStore persists events and their volunteer assignments.
type EventStore interface {
	// Create stores a new event.
	Create(ctx context.Context, e *models.Event) error

	// Get returns the event, or ErrEventNotFound.
	Get(ctx context.Context, id uuid.UUID) (*models.Event, error)

	// Update rewrites the event.
	Update(ctx context.Context, e *models.Event) error

	// Delete removes the event and its assignments in one transaction.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns one page of events plus the total matching count.
	List(ctx context.Context, f EventFilter) ([]*models.Event, int, error)

	// Assign adds a volunteer assignment. Returns ErrAlreadyAssigned for
	// a duplicate (event, member, task), ErrEventNotFound, or
	// ErrMemberNotFound.
	Assign(ctx context.Context, a *models.VolunteerAssignment) error

	// Unassign removes an assignment by ID.
	Unassign(ctx context.Context, id uuid.UUID) error

	// Roster returns an event's assignments.
	Roster(ctx context.Context, eventID uuid.UUID) ([]*models.VolunteerAssignment, error)

	// MemberAssignments returns all assignments of one member.
	MemberAssignments(ctx context.Context, memberID uuid.UUID) ([]*models.VolunteerAssignment, error)
}
