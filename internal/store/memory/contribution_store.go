package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// ContributionStore implements store.ContributionStore in memory.
type ContributionStore struct {
	db *DB
}

func cloneContribution(c *models.Contribution) *models.Contribution {
	cp := *c
	return &cp
}

// Create records a contribution into an open fiscal year.
func (s *ContributionStore) Create(ctx context.Context, c *models.Contribution) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.members[c.MemberID]; !ok {
		return store.ErrMemberNotFound
	}
	b, ok := s.db.budgets[c.BudgetID]
	if !ok {
		return store.ErrBudgetNotFound
	}
	if err := s.db.requireOpenFiscalYear(b.FiscalYearID); err != nil {
		return err
	}

	s.db.contributions[c.ID] = cloneContribution(c)
	return nil
}

// Get retrieves a contribution by ID, voided or not.
func (s *ContributionStore) Get(ctx context.Context, id uuid.UUID) (*models.Contribution, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	c, ok := s.db.contributions[id]
	if !ok {
		return nil, store.ErrContributionNotFound
	}
	return cloneContribution(c), nil
}

// Update rewrites a non-voided contribution.
func (s *ContributionStore) Update(ctx context.Context, c *models.Contribution) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	cur, ok := s.db.contributions[c.ID]
	if !ok {
		return store.ErrContributionNotFound
	}
	if cur.Voided {
		return store.ErrContributionVoided
	}
	if _, ok := s.db.members[c.MemberID]; !ok {
		return store.ErrMemberNotFound
	}
	b, ok := s.db.budgets[c.BudgetID]
	if !ok {
		return store.ErrBudgetNotFound
	}
	if err := s.db.requireOpenFiscalYear(b.FiscalYearID); err != nil {
		return err
	}

	c.Voided = false
	c.UpdatedAt = time.Now()
	s.db.contributions[c.ID] = cloneContribution(c)
	return nil
}

// Void soft-deletes the contribution. Voiding twice is a no-op.
func (s *ContributionStore) Void(ctx context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	c, ok := s.db.contributions[id]
	if !ok {
		return store.ErrContributionNotFound
	}
	c.Voided = true
	c.UpdatedAt = time.Now()
	return nil
}

// List returns one page of non-voided contributions plus the filtered
// total count and amount sum.
func (s *ContributionStore) List(ctx context.Context, f store.ContributionFilter) (*store.ContributionPage, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var matched []*models.Contribution
	page := &store.ContributionPage{}
	for _, c := range s.db.contributions {
		if c.Voided {
			continue
		}
		if f.MemberID != nil && c.MemberID != *f.MemberID {
			continue
		}
		if f.BudgetID != nil && c.BudgetID != *f.BudgetID {
			continue
		}
		if f.FiscalYearID != nil {
			b, ok := s.db.budgets[c.BudgetID]
			if !ok || b.FiscalYearID != *f.FiscalYearID {
				continue
			}
		}
		if f.From != nil && c.GivenAt.Before(*f.From) {
			continue
		}
		if f.To != nil && c.GivenAt.After(*f.To) {
			continue
		}
		matched = append(matched, c)
		page.SumCents += c.AmountCents
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].GivenAt.Equal(matched[j].GivenAt) {
			return matched[i].GivenAt.After(matched[j].GivenAt)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	page.Total = len(matched)
	for _, c := range paginate(matched, f.Page) {
		page.Items = append(page.Items, cloneContribution(c))
	}
	return page, nil
}

// SumByBudget sums non-voided contributions per budget in a fiscal year.
func (s *ContributionStore) SumByBudget(ctx context.Context, fiscalYearID uuid.UUID) ([]store.BudgetActual, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var budgets []*models.Budget
	for _, b := range s.db.budgets {
		if b.FiscalYearID == fiscalYearID {
			budgets = append(budgets, b)
		}
	}
	sort.Slice(budgets, func(i, j int) bool {
		return budgets[i].NameCI < budgets[j].NameCI
	})

	out := make([]store.BudgetActual, 0, len(budgets))
	for _, b := range budgets {
		ba := store.BudgetActual{BudgetID: b.ID}
		for _, c := range s.db.contributions {
			if c.BudgetID == b.ID && !c.Voided {
				ba.ActualCents += c.AmountCents
			}
		}
		out = append(out, ba)
	}
	return out, nil
}
