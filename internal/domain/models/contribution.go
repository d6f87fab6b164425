// internal/domain/models/contribution.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Contribution payment methods.
const (
	MethodCash     = "cash"
	MethodCheck    = "check"
	MethodCard     = "card"
	MethodTransfer = "transfer"
)

// Contribution is one gift from a member toward a budget.
// The fiscal year is carried by the referenced budget. Voided
// contributions stay in the table for the audit trail but are excluded
// from listings and report totals.
type Contribution struct {
	ID          uuid.UUID `json:"id"`
	MemberID    uuid.UUID `json:"member_id"`
	BudgetID    uuid.UUID `json:"budget_id"`
	AmountCents int64     `json:"amount_cents"`
	GivenAt     time.Time `json:"given_at"`
	Method      string    `json:"method"` // cash | check | card | transfer
	CheckNumber string    `json:"check_number,omitempty"`
	Note        string    `json:"note,omitempty"`
	Voided      bool      `json:"voided,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
