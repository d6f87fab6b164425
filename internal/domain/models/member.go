// internal/domain/models/member.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Member represents one congregation member.
//
// NOTE:
//   - Group membership is not embedded here; it lives in group_members.
//   - Membership-type history lives in membership_assignments.
//   - FamilyID is optional: not every member belongs to a family record.
type Member struct {
	ID         uuid.UUID  `json:"id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	FullNameCI string     `json:"-"` // lowercase "first last", for search
	Email      string     `json:"email,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Address    string     `json:"address,omitempty"`
	FamilyID   *uuid.UUID `json:"family_id,omitempty"`
	JoinedAt   time.Time  `json:"joined_at"`
	Status     string     `json:"status"` // active | inactive

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
