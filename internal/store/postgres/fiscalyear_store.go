package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// FiscalYearStore implements store.FiscalYearStore using PostgreSQL.
type FiscalYearStore struct {
	pool *pgxpool.Pool
}

// NewFiscalYearStore creates a new PostgreSQL-backed fiscal year store.
func NewFiscalYearStore(pool *pgxpool.Pool) *FiscalYearStore {
	return &FiscalYearStore{pool: pool}
}

const fiscalYearColumns = `id, label, start_date, end_date, closed, created_at`

func scanFiscalYear(row pgx.Row) (*models.FiscalYear, error) {
	var fy models.FiscalYear
	err := row.Scan(&fy.ID, &fy.Label, &fy.StartDate, &fy.EndDate, &fy.Closed, &fy.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrFiscalYearNotFound
		}
		return nil, fmt.Errorf("failed to scan fiscal year: %w", err)
	}
	return &fy, nil
}

// Create inserts the fiscal year.
func (s *FiscalYearStore) Create(ctx context.Context, fy *models.FiscalYear) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO fiscal_years (id, label, start_date, end_date, closed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, fy.ID, fy.Label, fy.StartDate, fy.EndDate, fy.Closed, fy.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "fiscal_years_label_key") {
			return store.ErrFiscalYearLabelInUse
		}
		return fmt.Errorf("failed to create fiscal year: %w", err)
	}
	return nil
}

// Get retrieves a fiscal year by ID.
func (s *FiscalYearStore) Get(ctx context.Context, id uuid.UUID) (*models.FiscalYear, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+fiscalYearColumns+` FROM fiscal_years WHERE id = $1`, id)
	return scanFiscalYear(row)
}

// List returns all fiscal years, newest start date first.
func (s *FiscalYearStore) List(ctx context.Context) ([]*models.FiscalYear, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+fiscalYearColumns+` FROM fiscal_years ORDER BY start_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list fiscal years: %w", err)
	}
	defer rows.Close()

	var years []*models.FiscalYear
	for rows.Next() {
		fy, err := scanFiscalYear(rows)
		if err != nil {
			return nil, err
		}
		years = append(years, fy)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fiscal years: %w", err)
	}

	return years, nil
}

// Close marks the fiscal year closed. Closing twice is a no-op.
func (s *FiscalYearStore) Close(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx,
		`UPDATE fiscal_years SET closed = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to close fiscal year: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrFiscalYearNotFound
	}
	return nil
}
