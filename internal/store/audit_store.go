package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Audit event categories.
const (
	AuditCategoryAuth  = "auth"
	AuditCategoryAdmin = "admin"
)

// Auth event types.
const (
	EventLoginSuccess             = "login_success"
	EventLoginFailedUserNotFound  = "login_failed_user_not_found"
	EventLoginFailedWrongPassword = "login_failed_wrong_password"
	EventLoginFailedUserDisabled  = "login_failed_user_disabled"
	EventLoginFailedRateLimit     = "login_failed_rate_limit"
	EventLogout                   = "logout"
)

// Admin event types.
const (
	EventMemberCreated       = "member_created"
	EventMemberUpdated       = "member_updated"
	EventMemberDeleted       = "member_deleted"
	EventFamilyCreated       = "family_created"
	EventFamilyUpdated       = "family_updated"
	EventFamilyDeleted       = "family_deleted"
	EventFamilyHeadChanged   = "family_head_changed"
	EventGroupCreated        = "group_created"
	EventGroupUpdated        = "group_updated"
	EventGroupDeleted        = "group_deleted"
	EventGroupMemberAdded    = "group_member_added"
	EventGroupMemberRemoved  = "group_member_removed"
	EventGroupRoleChanged    = "group_role_changed"
	EventTypeCreated         = "membership_type_created"
	EventTypeUpdated         = "membership_type_updated"
	EventTypeDeleted         = "membership_type_deleted"
	EventTypeAssigned        = "membership_type_assigned"
	EventTypeAssignmentEnded = "membership_type_assignment_ended"
	EventFiscalYearCreated   = "fiscal_year_created"
	EventFiscalYearClosed    = "fiscal_year_closed"
	EventBudgetCreated       = "budget_created"
	EventBudgetUpdated       = "budget_updated"
	EventBudgetDeleted       = "budget_deleted"
	EventContributionAdded   = "contribution_added"
	EventContributionUpdated = "contribution_updated"
	EventContributionVoided  = "contribution_voided"
	EventEventCreated        = "event_created"
	EventEventUpdated        = "event_updated"
	EventEventDeleted        = "event_deleted"
	EventVolunteerAssigned   = "volunteer_assigned"
	EventVolunteerUnassigned = "volunteer_unassigned"
	EventPermissionGranted   = "permission_granted"
	EventPermissionRevoked   = "permission_revoked"
	EventUserCreated         = "user_created"
	EventUserUpdated         = "user_updated"
)

// AuditEvent is a denormalized audit record.
type AuditEvent struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	// Event classification
	Category  string `json:"category"`
	EventType string `json:"event_type"`

	// Who: the acting staff user and the affected record.
	ActorID  *uuid.UUID `json:"actor_id,omitempty"`
	TargetID *uuid.UUID `json:"target_id,omitempty"`

	// Context
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent,omitempty"`

	// Outcome
	Success       bool   `json:"success"`
	FailureReason string `json:"failure_reason,omitempty"`

	// Additional details (varies by event type)
	Details map[string]string `json:"details,omitempty"`
}

// AuditFilter narrows Query results.
type AuditFilter struct {
	Category  string
	EventType string
	ActorID   *uuid.UUID
	From      *time.Time
	To        *time.Time
	Page
}

// AuditStore persists audit events.
type AuditStore interface {
	// Log appends one event.
	Log(ctx context.Context, e AuditEvent) error

	// Query returns one page, newest first, plus the total matching count.
	Query(ctx context.Context, f AuditFilter) ([]*AuditEvent, int, error)
}
