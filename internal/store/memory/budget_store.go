package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// BudgetStore implements store.BudgetStore in memory.
type BudgetStore struct {
	db *DB
}

func cloneBudget(b *models.Budget) *models.Budget {
	c := *b
	return &c
}

func (db *DB) requireOpenFiscalYear(id uuid.UUID) error {
	fy, ok := db.fiscalYears[id]
	if !ok {
		return store.ErrFiscalYearNotFound
	}
	if fy.Closed {
		return store.ErrFiscalYearClosed
	}
	return nil
}

func (db *DB) budgetNameTaken(nameCI string, fiscalYearID, exclude uuid.UUID) bool {
	for _, b := range db.budgets {
		if b.ID != exclude && b.NameCI == nameCI && b.FiscalYearID == fiscalYearID {
			return true
		}
	}
	return false
}

// Create inserts the budget after verifying the fiscal year is open.
func (s *BudgetStore) Create(ctx context.Context, b *models.Budget) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := s.db.requireOpenFiscalYear(b.FiscalYearID); err != nil {
		return err
	}
	if s.db.budgetNameTaken(b.NameCI, b.FiscalYearID, b.ID) {
		return store.ErrBudgetNameInUse
	}
	s.db.budgets[b.ID] = cloneBudget(b)
	return nil
}

// Get retrieves a budget by ID.
func (s *BudgetStore) Get(ctx context.Context, id uuid.UUID) (*models.Budget, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	b, ok := s.db.budgets[id]
	if !ok {
		return nil, store.ErrBudgetNotFound
	}
	return cloneBudget(b), nil
}

// Update rewrites the budget after verifying the fiscal year is open.
func (s *BudgetStore) Update(ctx context.Context, b *models.Budget) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.budgets[b.ID]; !ok {
		return store.ErrBudgetNotFound
	}
	if err := s.db.requireOpenFiscalYear(b.FiscalYearID); err != nil {
		return err
	}
	if s.db.budgetNameTaken(b.NameCI, b.FiscalYearID, b.ID) {
		return store.ErrBudgetNameInUse
	}
	b.UpdatedAt = time.Now()
	s.db.budgets[b.ID] = cloneBudget(b)
	return nil
}

// Delete removes the budget. Contributions block the delete, voided
// ones included.
func (s *BudgetStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.budgets[id]; !ok {
		return store.ErrBudgetNotFound
	}
	for _, c := range s.db.contributions {
		if c.BudgetID == id {
			return store.ErrBudgetReferenced
		}
	}
	delete(s.db.budgets, id)
	return nil
}

// List returns one page of budgets plus the total matching count.
func (s *BudgetStore) List(ctx context.Context, f store.BudgetFilter) ([]*models.Budget, int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var matched []*models.Budget
	for _, b := range s.db.budgets {
		if f.FiscalYearID != nil && b.FiscalYearID != *f.FiscalYearID {
			continue
		}
		matched = append(matched, b)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].NameCI < matched[j].NameCI
	})

	total := len(matched)
	out := make([]*models.Budget, 0, len(matched))
	for _, b := range paginate(matched, f.Page) {
		out = append(out, cloneBudget(b))
	}
	return out, total, nil
}
