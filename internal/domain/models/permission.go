// internal/domain/models/permission.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Permission codes known to the system. Grants beyond these can be added
// through the catalogue without a code change.
const (
	PermManageMembers  = "manage_members"
	PermManageFinance  = "manage_finance"
	PermManageGroups   = "manage_groups"
	PermManageEvents   = "manage_events"
	PermViewReports    = "view_reports"
	PermViewAuditLog   = "view_audit_log"
	PermManageAccounts = "manage_accounts"
)

// Permission is one entry in the permission catalogue.
type Permission struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// RolePermission grants a permission to a staff role.
// Superadmins bypass grants entirely.
type RolePermission struct {
	ID           uuid.UUID `json:"id"`
	Role         string    `json:"role"`
	PermissionID uuid.UUID `json:"permission_id"`

	CreatedAt time.Time `json:"created_at"`
}
