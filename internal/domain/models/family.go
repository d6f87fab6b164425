// internal/domain/models/family.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Family groups members of one household.
//
// A family has exactly one head at all times. HeadMemberID may be nil only
// while the family has no members at all; as soon as members exist one of
// them must be the head, and the head must belong to the family.
type Family struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	NameCI       string     `json:"-"`
	Address      string     `json:"address,omitempty"`
	HeadMemberID *uuid.UUID `json:"head_member_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
