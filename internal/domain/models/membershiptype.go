// internal/domain/models/membershiptype.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// MembershipType classifies members (full member, associate, visitor, ...).
type MembershipType struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	NameCI      string    `json:"-"`
	Description string    `json:"description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MembershipAssignment records that a member held a membership type over a
// date window. Windows for the same member and type must not overlap; an
// open assignment has a nil EndDate.
type MembershipAssignment struct {
	ID        uuid.UUID  `json:"id"`
	MemberID  uuid.UUID  `json:"member_id"`
	TypeID    uuid.UUID  `json:"type_id"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
