package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/openparish/steward/internal/domain/models"
)

// Sentinel errors for budget operations.
var (
	ErrBudgetNotFound   = errors.New("budget not found")
	ErrBudgetNameInUse  = errors.New("budget name already in use for fiscal year")
	ErrBudgetReferenced = errors.New("budget has contributions")
)

// BudgetFilter narrows List results.
type BudgetFilter struct {
	FiscalYearID *uuid.UUID
	Page
}

// BudgetStore persists budgets. Creation and updates verify the target
// fiscal year exists and is open (ErrFiscalYearNotFound,
// ErrFiscalYearClosed).
type BudgetStore interface {
	// Create stores a new budget. Returns ErrBudgetNameInUse.
	Create(ctx context.Context, b *models.Budget) error

	// Get returns the budget, or ErrBudgetNotFound.
	Get(ctx context.Context, id uuid.UUID) (*models.Budget, error)

	// Update rewrites the budget.
	Update(ctx context.Context, b *models.Budget) error

	// Delete removes the budget. Returns ErrBudgetReferenced while
	// contributions reference it.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns one page of budgets plus the total matching count.
	List(ctx context.Context, f BudgetFilter) ([]*models.Budget, int, error)
}
