// internal/domain/models/group.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Group membership roles.
const (
	GroupRoleMember = "member"
	GroupRoleLeader = "leader"
)

// Group represents a ministry group (choir, ushers, youth, ...).
//
// NOTE:
//   - Member/leader lists are not embedded on Group.
//     All membership is stored in the group_members table.
type Group struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	NameCI      string    `json:"-"`
	Description string    `json:"description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GroupMember is one member's membership row in a group.
// A leader is a member with Role == GroupRoleLeader; leadership is a role
// on the membership row, never a separate record.
type GroupMember struct {
	ID       uuid.UUID `json:"id"`
	GroupID  uuid.UUID `json:"group_id"`
	MemberID uuid.UUID `json:"member_id"`
	Role     string    `json:"role"` // member | leader

	CreatedAt time.Time `json:"created_at"`
}
