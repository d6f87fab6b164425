package memory

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// Seed helpers shared by the store tests. Each creates a minimal valid
// record through the public store API so the invariants under test are
// the only moving parts.

func seedFamily(t *testing.T, s store.FamilyStore, name string) *models.Family {
	t.Helper()
	f := &models.Family{
		ID:     uuid.New(),
		Name:   name,
		NameCI: strings.ToLower(name),
	}
	if err := s.Create(context.Background(), f); err != nil {
		t.Fatalf("seed family %s: %v", name, err)
	}
	return f
}

func seedMember(t *testing.T, s store.MemberStore, name string, familyID *uuid.UUID) *models.Member {
	t.Helper()
	first, last, _ := strings.Cut(name, " ")
	m := &models.Member{
		ID:         uuid.New(),
		FirstName:  first,
		LastName:   last,
		FullNameCI: strings.ToLower(name),
		Email:      strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		FamilyID:   familyID,
		JoinedAt:   time.Now(),
		Status:     "active",
	}
	if err := s.Create(context.Background(), m); err != nil {
		t.Fatalf("seed member %s: %v", name, err)
	}
	return m
}

func seedFiscalYear(t *testing.T, s store.FiscalYearStore, label string) *models.FiscalYear {
	t.Helper()
	fy := &models.FiscalYear{
		ID:        uuid.New(),
		Label:     label,
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	if err := s.Create(context.Background(), fy); err != nil {
		t.Fatalf("seed fiscal year %s: %v", label, err)
	}
	return fy
}

func seedBudget(t *testing.T, s store.BudgetStore, name string, fiscalYearID uuid.UUID) *models.Budget {
	t.Helper()
	b := &models.Budget{
		ID:           uuid.New(),
		Name:         name,
		NameCI:       strings.ToLower(name),
		FiscalYearID: fiscalYearID,
		AmountCents:  100_000,
	}
	if err := s.Create(context.Background(), b); err != nil {
		t.Fatalf("seed budget %s: %v", name, err)
	}
	return b
}

func seedContribution(t *testing.T, s store.ContributionStore, memberID, budgetID uuid.UUID, cents int64) *models.Contribution {
	t.Helper()
	c := &models.Contribution{
		ID:          uuid.New(),
		MemberID:    memberID,
		BudgetID:    budgetID,
		AmountCents: cents,
		GivenAt:     time.Now(),
		Method:      models.MethodCash,
	}
	if err := s.Create(context.Background(), c); err != nil {
		t.Fatalf("seed contribution: %v", err)
	}
	return c
}
