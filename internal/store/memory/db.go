// Package memory provides an in-memory store implementation with the
// same semantics as the PostgreSQL stores. It backs handler tests and
// local development without a database.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// DB holds all entities behind one mutex so cross-entity invariants
// (family heads, delete blocking, overlap windows) can be checked
// atomically, the way the SQL constraints do.
type DB struct {
	mu sync.RWMutex

	users         map[uuid.UUID]*models.User
	members       map[uuid.UUID]*models.Member
	families      map[uuid.UUID]*models.Family
	groups        map[uuid.UUID]*models.Group
	groupMembers  map[uuid.UUID]*models.GroupMember
	types         map[uuid.UUID]*models.MembershipType
	assignments   map[uuid.UUID]*models.MembershipAssignment
	fiscalYears   map[uuid.UUID]*models.FiscalYear
	budgets       map[uuid.UUID]*models.Budget
	contributions map[uuid.UUID]*models.Contribution
	events        map[uuid.UUID]*models.Event
	volunteers    map[uuid.UUID]*models.VolunteerAssignment
	permissions   map[uuid.UUID]*models.Permission
	grants        map[uuid.UUID]*models.RolePermission
	audit         []*store.AuditEvent
}

// NewDB creates an empty in-memory database with the permission
// catalogue and default role grants seeded, matching the migrations.
func NewDB() *DB {
	db := &DB{
		users:         make(map[uuid.UUID]*models.User),
		members:       make(map[uuid.UUID]*models.Member),
		families:      make(map[uuid.UUID]*models.Family),
		groups:        make(map[uuid.UUID]*models.Group),
		groupMembers:  make(map[uuid.UUID]*models.GroupMember),
		types:         make(map[uuid.UUID]*models.MembershipType),
		assignments:   make(map[uuid.UUID]*models.MembershipAssignment),
		fiscalYears:   make(map[uuid.UUID]*models.FiscalYear),
		budgets:       make(map[uuid.UUID]*models.Budget),
		contributions: make(map[uuid.UUID]*models.Contribution),
		events:        make(map[uuid.UUID]*models.Event),
		volunteers:    make(map[uuid.UUID]*models.VolunteerAssignment),
		permissions:   make(map[uuid.UUID]*models.Permission),
		grants:        make(map[uuid.UUID]*models.RolePermission),
	}
	db.seedPermissions()
	return db
}

// Stores returns the full store bundle bound to this database.
func (db *DB) Stores() store.Stores {
	return store.Stores{
		Users:           &UserStore{db: db},
		Members:         &MemberStore{db: db},
		Families:        &FamilyStore{db: db},
		Groups:          &GroupStore{db: db},
		MembershipTypes: &MembershipTypeStore{db: db},
		FiscalYears:     &FiscalYearStore{db: db},
		Budgets:         &BudgetStore{db: db},
		Contributions:   &ContributionStore{db: db},
		Events:          &EventStore{db: db},
		Permissions:     &PermissionStore{db: db},
		Audit:           &AuditStore{db: db},
	}
}

func (db *DB) seedPermissions() {
	catalogue := []struct {
		code, desc string
	}{
		{models.PermManageMembers, "Create, update, and delete members and families"},
		{models.PermManageFinance, "Record budgets and contributions"},
		{models.PermManageGroups, "Manage groups and membership types"},
		{models.PermManageEvents, "Manage events and volunteer assignments"},
		{models.PermViewReports, "View finance reports"},
		{models.PermViewAuditLog, "View the audit log"},
		{models.PermManageAccounts, "Manage staff accounts and permissions"},
	}

	defaultGrants := map[string][]string{
		models.RoleAdmin: {
			models.PermManageMembers, models.PermManageFinance,
			models.PermManageGroups, models.PermManageEvents,
			models.PermViewReports, models.PermViewAuditLog,
		},
		models.RoleTreasurer: {
			models.PermManageFinance, models.PermViewReports,
		},
		models.RoleClerk: {
			models.PermManageMembers, models.PermManageGroups,
			models.PermManageEvents,
		},
	}

	now := time.Now()
	byCode := make(map[string]uuid.UUID)
	for _, c := range catalogue {
		p := &models.Permission{
			ID:          uuid.New(),
			Code:        c.code,
			Description: c.desc,
			CreatedAt:   now,
		}
		db.permissions[p.ID] = p
		byCode[c.code] = p.ID
	}
	for role, codes := range defaultGrants {
		for _, code := range codes {
			g := &models.RolePermission{
				ID:           uuid.New(),
				Role:         role,
				PermissionID: byCode[code],
				CreatedAt:    now,
			}
			db.grants[g.ID] = g
		}
	}
}

// paginate slices one page out of an already-sorted result set.
func paginate[T any](items []T, p store.Page) []T {
	if p.Offset >= len(items) {
		return nil
	}
	items = items[p.Offset:]
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}
