// internal/domain/models/event.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is a scheduled church event that volunteers staff.
type Event struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	NameCI   string    `json:"-"`
	StartsAt time.Time `json:"starts_at"`
	Location string    `json:"location,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VolunteerAssignment ties a member to an event task.
// (event, member, task) is unique.
type VolunteerAssignment struct {
	ID       uuid.UUID `json:"id"`
	EventID  uuid.UUID `json:"event_id"`
	MemberID uuid.UUID `json:"member_id"`
	Task     string    `json:"task"` // e.g. "greeter", "sound desk"

	CreatedAt time.Time `json:"created_at"`
}
