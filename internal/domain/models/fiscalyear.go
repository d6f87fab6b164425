// internal/domain/models/fiscalyear.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// FiscalYear is the accounting period budgets and contributions are
// scoped to. Once closed, no budget or contribution writes are accepted
// for it.
type FiscalYear struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"` // e.g. "FY2026"
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Closed    bool      `json:"closed"`

	CreatedAt time.Time `json:"created_at"`
}
