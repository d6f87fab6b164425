package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/openparish/steward/internal/domain/models"
)

// Sentinel errors for contribution operations.
var (
	ErrContributionNotFound = errors.New("contribution not found")
	ErrContributionVoided   = errors.New("contribution is voided")
)

// ContributionFilter narrows List results. Voided rows are always
// excluded.
type ContributionFilter struct {
	MemberID     *uuid.UUID
	BudgetID     *uuid.UUID
	FiscalYearID *uuid.UUID
	From         *time.Time
	To           *time.Time
	Page
}

// ContributionPage is one page of contributions. Total counts every row
// matching the filter and SumCents sums their amounts, so report totals
// always agree with the filtered row set.
type ContributionPage struct {
	Items    []*models.Contribution
	Total    int
	SumCents int64
}

// BudgetActual pairs a budget with the contributions recorded against it.
type BudgetActual struct {
	BudgetID    uuid.UUID
	ActualCents int64
}

// ContributionStore persists contributions. Writes verify the member and
// budget exist and that the budget's fiscal year is open.
type ContributionStore interface {
	// Create records a contribution.
	Create(ctx context.Context, c *models.Contribution) error

	// Get returns the contribution, or ErrContributionNotFound.
	Get(ctx context.Context, id uuid.UUID) (*models.Contribution, error)

	// Update rewrites a non-voided contribution.
	// Returns ErrContributionVoided for voided rows.
	Update(ctx context.Context, c *models.Contribution) error

	// Void soft-deletes the contribution; the row remains for the audit
	// trail. Voiding twice is a no-op.
	Void(ctx context.Context, id uuid.UUID) error

	// List returns one page plus the full filtered count and sum.
	List(ctx context.Context, f ContributionFilter) (*ContributionPage, error)

	// SumByBudget sums non-voided contributions per budget in a fiscal
	// year, for budget-vs-actual reporting.
	SumByBudget(ctx context.Context, fiscalYearID uuid.UUID) ([]BudgetActual, error)
}
