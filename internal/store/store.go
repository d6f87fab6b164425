// Package store defines the storage interfaces the HTTP features depend
// on, together with the sentinel errors implementations must return.
//
// Two implementations exist:
//   - store/postgres: pgx-backed, used in production
//   - store/memory: map-backed, used by handler and unit tests
//
// Cross-entity business rules that must hold atomically (delete blocking,
// family-head maintenance, assignment-window overlap) are enforced inside
// the stores so both implementations agree on behavior.
package store

// Page holds the offset pagination parameters shared by list filters.
// A zero Limit means "use the default page size" (applied by callers).
type Page struct {
	Limit  int
	Offset int
}

// Stores bundles every store so bootstrap can hand handlers one value.
type Stores struct {
	Users           UserStore
	Members         MemberStore
	Families        FamilyStore
	Groups          GroupStore
	MembershipTypes MembershipTypeStore
	FiscalYears     FiscalYearStore
	Budgets         BudgetStore
	Contributions   ContributionStore
	Events          EventStore
	Permissions     PermissionStore
	Audit           AuditStore
}
