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

// ContributionStore implements store.ContributionStore using PostgreSQL.
type ContributionStore struct {
	pool *pgxpool.Pool
}

// NewContributionStore creates a new PostgreSQL-backed contribution store.
func NewContributionStore(pool *pgxpool.Pool) *ContributionStore {
	return &ContributionStore{pool: pool}
}

const contributionColumns = `
	id, member_id, budget_id, amount_cents, given_at, method,
	check_number, note, voided, created_at, updated_at
`

func scanContribution(row pgx.Row) (*models.Contribution, error) {
	var c models.Contribution
	err := row.Scan(
		&c.ID, &c.MemberID, &c.BudgetID, &c.AmountCents, &c.GivenAt,
		&c.Method, &c.CheckNumber, &c.Note, &c.Voided, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrContributionNotFound
		}
		return nil, fmt.Errorf("failed to scan contribution: %w", err)
	}
	return &c, nil
}

// budgetFiscalYear resolves the fiscal year a budget belongs to.
func budgetFiscalYear(ctx context.Context, q rowQuerier, budgetID uuid.UUID) (uuid.UUID, error) {
	var fy uuid.UUID
	err := q.QueryRow(ctx,
		`SELECT fiscal_year_id FROM budgets WHERE id = $1`, budgetID,
	).Scan(&fy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, store.ErrBudgetNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to resolve budget: %w", err)
	}
	return fy, nil
}

// Create records a contribution into an open fiscal year.
func (s *ContributionStore) Create(ctx context.Context, c *models.Contribution) error {
	fy, err := budgetFiscalYear(ctx, s.pool, c.BudgetID)
	if err != nil {
		return err
	}
	if err := requireOpenFiscalYear(ctx, s.pool, fy); err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO contributions (
			id, member_id, budget_id, amount_cents, given_at, method,
			check_number, note, voided, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		c.ID, c.MemberID, c.BudgetID, c.AmountCents, c.GivenAt, c.Method,
		c.CheckNumber, c.Note, c.Voided, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if fk, ok := fkConstraint(err); ok {
			switch fk {
			case "contributions_member_id_fkey":
				return store.ErrMemberNotFound
			case "contributions_budget_id_fkey":
				return store.ErrBudgetNotFound
			}
		}
		return fmt.Errorf("failed to create contribution: %w", err)
	}
	return nil
}

// Get retrieves a contribution by ID, voided or not.
func (s *ContributionStore) Get(ctx context.Context, id uuid.UUID) (*models.Contribution, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+contributionColumns+` FROM contributions WHERE id = $1`, id)
	return scanContribution(row)
}

// Update rewrites a non-voided contribution. The target budget's fiscal
// year must be open.
func (s *ContributionStore) Update(ctx context.Context, c *models.Contribution) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var voided bool
	err = tx.QueryRow(ctx,
		`SELECT voided FROM contributions WHERE id = $1 FOR UPDATE`, c.ID,
	).Scan(&voided)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrContributionNotFound
		}
		return fmt.Errorf("failed to lock contribution: %w", err)
	}
	if voided {
		return store.ErrContributionVoided
	}

	fy, err := budgetFiscalYear(ctx, tx, c.BudgetID)
	if err != nil {
		return err
	}
	if err := requireOpenFiscalYear(ctx, tx, fy); err != nil {
		return err
	}

	c.UpdatedAt = time.Now()
	_, err = tx.Exec(ctx, `
		UPDATE contributions SET member_id = $2, budget_id = $3,
			amount_cents = $4, given_at = $5, method = $6,
			check_number = $7, note = $8, updated_at = $9
		WHERE id = $1
	`,
		c.ID, c.MemberID, c.BudgetID, c.AmountCents, c.GivenAt, c.Method,
		c.CheckNumber, c.Note, c.UpdatedAt,
	)
	if err != nil {
		if fk, ok := fkConstraint(err); ok {
			switch fk {
			case "contributions_member_id_fkey":
				return store.ErrMemberNotFound
			case "contributions_budget_id_fkey":
				return store.ErrBudgetNotFound
			}
		}
		return fmt.Errorf("failed to update contribution: %w", err)
	}

	return tx.Commit(ctx)
}

// Void soft-deletes the contribution. Voiding twice is a no-op.
func (s *ContributionStore) Void(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `
		UPDATE contributions SET voided = TRUE, updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to void contribution: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrContributionNotFound
	}
	return nil
}

// List returns one page of non-voided contributions plus the filtered
// total count and amount sum.
func (s *ContributionStore) List(ctx context.Context, f store.ContributionFilter) (*store.ContributionPage, error) {
	where := "c.voided = FALSE"
	args := []any{}

	if f.MemberID != nil {
		args = append(args, *f.MemberID)
		where += fmt.Sprintf(" AND c.member_id = $%d", len(args))
	}
	if f.BudgetID != nil {
		args = append(args, *f.BudgetID)
		where += fmt.Sprintf(" AND c.budget_id = $%d", len(args))
	}
	if f.FiscalYearID != nil {
		args = append(args, *f.FiscalYearID)
		where += fmt.Sprintf(" AND b.fiscal_year_id = $%d", len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where += fmt.Sprintf(" AND c.given_at >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where += fmt.Sprintf(" AND c.given_at <= $%d", len(args))
	}

	page := &store.ContributionPage{}
	err := s.pool.QueryRow(ctx, `
		SELECT count(*), COALESCE(sum(c.amount_cents), 0)
		FROM contributions c
		JOIN budgets b ON b.id = c.budget_id
		WHERE `+where, args...,
	).Scan(&page.Total, &page.SumCents)
	if err != nil {
		return nil, fmt.Errorf("failed to count contributions: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`
		SELECT c.id, c.member_id, c.budget_id, c.amount_cents, c.given_at,
			c.method, c.check_number, c.note, c.voided, c.created_at, c.updated_at
		FROM contributions c
		JOIN budgets b ON b.id = c.budget_id
		WHERE %s
		ORDER BY c.given_at DESC, c.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, err
		}
		page.Items = append(page.Items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read contributions: %w", err)
	}

	return page, nil
}

// SumByBudget sums non-voided contributions per budget in a fiscal year.
// Budgets with no contributions are included with a zero actual.
func (s *ContributionStore) SumByBudget(ctx context.Context, fiscalYearID uuid.UUID) ([]store.BudgetActual, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT b.id, COALESCE(sum(c.amount_cents) FILTER (WHERE NOT c.voided), 0)
		FROM budgets b
		LEFT JOIN contributions c ON c.budget_id = b.id
		WHERE b.fiscal_year_id = $1
		GROUP BY b.id, b.name_ci
		ORDER BY b.name_ci
	`, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum contributions: %w", err)
	}
	defer rows.Close()

	var out []store.BudgetActual
	for rows.Next() {
		var ba store.BudgetActual
		if err := rows.Scan(&ba.BudgetID, &ba.ActualCents); err != nil {
			return nil, fmt.Errorf("failed to scan budget actual: %w", err)
		}
		out = append(out, ba)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read budget actuals: %w", err)
	}

	return out, nil
}
