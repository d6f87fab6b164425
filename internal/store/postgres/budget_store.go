package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// BudgetStore implements store.BudgetStore using PostgreSQL.
type BudgetStore struct {
	pool *pgxpool.Pool
}

// NewBudgetStore creates a new PostgreSQL-backed budget store.
func NewBudgetStore(pool *pgxpool.Pool) *BudgetStore {
	return &BudgetStore{pool: pool}
}

const budgetColumns = `id, name, name_ci, fiscal_year_id, amount_cents, created_at, updated_at`

func scanBudget(row pgx.Row) (*models.Budget, error) {
	var b models.Budget
	err := row.Scan(&b.ID, &b.Name, &b.NameCI, &b.FiscalYearID, &b.AmountCents, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to scan budget: %w", err)
	}
	return &b, nil
}

// rowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// requireOpenFiscalYear rejects writes into a missing or closed period.
func requireOpenFiscalYear(ctx context.Context, q rowQuerier, fiscalYearID uuid.UUID) error {
	var closed bool
	err := q.QueryRow(ctx,
		`SELECT closed FROM fiscal_years WHERE id = $1`, fiscalYearID,
	).Scan(&closed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrFiscalYearNotFound
		}
		return fmt.Errorf("failed to check fiscal year: %w", err)
	}
	if closed {
		return store.ErrFiscalYearClosed
	}
	return nil
}

// Create inserts the budget after verifying the fiscal year is open.
func (s *BudgetStore) Create(ctx context.Context, b *models.Budget) error {
	if err := requireOpenFiscalYear(ctx, s.pool, b.FiscalYearID); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO budgets (id, name, name_ci, fiscal_year_id, amount_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, b.ID, b.Name, b.NameCI, b.FiscalYearID, b.AmountCents, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "budgets_name_fy_key") {
			return store.ErrBudgetNameInUse
		}
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

// Get retrieves a budget by ID.
func (s *BudgetStore) Get(ctx context.Context, id uuid.UUID) (*models.Budget, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = $1`, id)
	return scanBudget(row)
}

// Update rewrites the budget after verifying the fiscal year is open.
func (s *BudgetStore) Update(ctx context.Context, b *models.Budget) error {
	if err := requireOpenFiscalYear(ctx, s.pool, b.FiscalYearID); err != nil {
		return err
	}
	b.UpdatedAt = time.Now()
	result, err := s.pool.Exec(ctx, `
		UPDATE budgets SET name = $2, name_ci = $3, fiscal_year_id = $4,
			amount_cents = $5, updated_at = $6
		WHERE id = $1
	`, b.ID, b.Name, b.NameCI, b.FiscalYearID, b.AmountCents, b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "budgets_name_fy_key") {
			return store.ErrBudgetNameInUse
		}
		return fmt.Errorf("failed to update budget: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrBudgetNotFound
	}
	return nil
}

// Delete removes the budget. Contributions block the delete, voided ones
// included, so the financial trail stays intact.
func (s *BudgetStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		if c, ok := fkConstraint(err); ok && c == "contributions_budget_id_fkey" {
			return store.ErrBudgetReferenced
		}
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrBudgetNotFound
	}
	return nil
}

// List returns one page of budgets plus the total matching count.
func (s *BudgetStore) List(ctx context.Context, f store.BudgetFilter) ([]*models.Budget, int, error) {
	where := "TRUE"
	args := []any{}

	if f.FiscalYearID != nil {
		args = append(args, *f.FiscalYearID)
		where += fmt.Sprintf(" AND fiscal_year_id = $%d", len(args))
	}

	var total int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM budgets WHERE `+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count budgets: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(
		`SELECT %s FROM budgets WHERE %s ORDER BY name_ci LIMIT $%d OFFSET $%d`,
		budgetColumns, where, len(args)-1, len(args),
	)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*models.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, 0, err
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read budgets: %w", err)
	}

	return budgets, total, nil
}
