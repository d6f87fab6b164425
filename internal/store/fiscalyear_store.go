package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/openparish/steward/internal/domain/models"
)

// Sentinel errors for fiscal-year operations.
var (
	ErrFiscalYearNotFound   = errors.New("fiscal year not found")
	ErrFiscalYearLabelInUse = errors.New("fiscal year label already in use")

	// ErrFiscalYearClosed rejects budget/contribution writes into a
	// closed accounting period.
	ErrFiscalYearClosed = errors.New("fiscal year is closed")
)

// FiscalYearStore persists accounting periods.
type FiscalYearStore interface {
	// Create stores a new fiscal year. Returns ErrFiscalYearLabelInUse.
	Create(ctx context.Context, fy *models.FiscalYear) error

	// Get returns the fiscal year, or ErrFiscalYearNotFound.
	Get(ctx context.Context, id uuid.UUID) (*models.FiscalYear, error)

	// List returns all fiscal years, newest start date first.
	List(ctx context.Context) ([]*models.FiscalYear, error)

	// Close marks the fiscal year closed. Closing twice is a no-op.
	Close(ctx context.Context, id uuid.UUID) error
}
