// internal/domain/models/budget.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Budget is a named allocation inside one fiscal year.
// AmountCents must be positive; (name, fiscal year) is unique.
// Actual giving against the budget is derived from contributions, never
// stored here.
type Budget struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	NameCI       string    `json:"-"`
	FiscalYearID uuid.UUID `json:"fiscal_year_id"`
	AmountCents  int64     `json:"amount_cents"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
