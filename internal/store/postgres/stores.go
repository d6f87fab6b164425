package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openparish/steward/internal/store"
)

// NewStores bundles one of each store over a shared pool.
func NewStores(pool *pgxpool.Pool) store.Stores {
	return store.Stores{
		Users:           NewUserStore(pool),
		Members:         NewMemberStore(pool),
		Families:        NewFamilyStore(pool),
		Groups:          NewGroupStore(pool),
		MembershipTypes: NewMembershipTypeStore(pool),
		FiscalYears:     NewFiscalYearStore(pool),
		Budgets:         NewBudgetStore(pool),
		Contributions:   NewContributionStore(pool),
		Events:          NewEventStore(pool),
		Permissions:     NewPermissionStore(pool),
		Audit:           NewAuditStore(pool),
	}
}
