package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// FiscalYearStore implements store.FiscalYearStore in memory.
type FiscalYearStore struct {
	db *DB
}

func cloneFiscalYear(fy *models.FiscalYear) *models.FiscalYear {
	c := *fy
	return &c
}

// Create inserts the fiscal year.
func (s *FiscalYearStore) Create(ctx context.Context, fy *models.FiscalYear) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, existing := range s.db.fiscalYears {
		if existing.Label == fy.Label {
			return store.ErrFiscalYearLabelInUse
		}
	}
	s.db.fiscalYears[fy.ID] = cloneFiscalYear(fy)
	return nil
}

// Get retrieves a fiscal year by ID.
func (s *FiscalYearStore) Get(ctx context.Context, id uuid.UUID) (*models.FiscalYear, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	fy, ok := s.db.fiscalYears[id]
	if !ok {
		return nil, store.ErrFiscalYearNotFound
	}
	return cloneFiscalYear(fy), nil
}

// List returns all fiscal years, newest start date first.
func (s *FiscalYearStore) List(ctx context.Context) ([]*models.FiscalYear, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []*models.FiscalYear
	for _, fy := range s.db.fiscalYears {
		out = append(out, cloneFiscalYear(fy))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartDate.After(out[j].StartDate)
	})
	return out, nil
}

// Close marks the fiscal year closed. Closing twice is a no-op.
func (s *FiscalYearStore) Close(ctx context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	fy, ok := s.db.fiscalYears[id]
	if !ok {
		return store.ErrFiscalYearNotFound
	}
	fy.Closed = true
	return nil
}
