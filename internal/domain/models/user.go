// internal/domain/models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Staff roles, from most to least privileged.
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleTreasurer  = "treasurer"
	RoleClerk      = "clerk"
)

// User represents a back-office staff account (not a congregation member).
//
// NOTE:
//   - Congregation records live in the members table; a staff user may or
//     may not correspond to a member.
//   - Fine-grained permissions are resolved through role_permissions, not
//     embedded here.
type User struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`   // superadmin | admin | treasurer | clerk
	Status       string    `json:"status"` // active | disabled

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
