package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// MembershipTypeStore implements store.MembershipTypeStore in memory.
type MembershipTypeStore struct {
	db *DB
}

func cloneType(t *models.MembershipType) *models.MembershipType {
	c := *t
	return &c
}

func cloneAssignment(a *models.MembershipAssignment) *models.MembershipAssignment {
	c := *a
	if a.EndDate != nil {
		d := *a.EndDate
		c.EndDate = &d
	}
	return &c
}

func (db *DB) typeNameTaken(nameCI string, exclude uuid.UUID) bool {
	for _, t := range db.types {
		if t.ID != exclude && t.NameCI == nameCI {
			return true
		}
	}
	return false
}

// Create inserts the membership type.
func (s *MembershipTypeStore) Create(ctx context.Context, t *models.MembershipType) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.db.typeNameTaken(t.NameCI, t.ID) {
		return store.ErrTypeNameInUse
	}
	s.db.types[t.ID] = cloneType(t)
	return nil
}

// Get retrieves a membership type by ID.
func (s *MembershipTypeStore) Get(ctx context.Context, id uuid.UUID) (*models.MembershipType, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	t, ok := s.db.types[id]
	if !ok {
		return nil, store.ErrTypeNotFound
	}
	return cloneType(t), nil
}

// Update rewrites the membership type.
func (s *MembershipTypeStore) Update(ctx context.Context, t *models.MembershipType) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.types[t.ID]; !ok {
		return store.ErrTypeNotFound
	}
	if s.db.typeNameTaken(t.NameCI, t.ID) {
		return store.ErrTypeNameInUse
	}
	t.UpdatedAt = time.Now()
	s.db.types[t.ID] = cloneType(t)
	return nil
}

// Delete removes the membership type. Assignments block the delete.
func (s *MembershipTypeStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.types[id]; !ok {
		return store.ErrTypeNotFound
	}
	for _, a := range s.db.assignments {
		if a.TypeID == id {
			return store.ErrTypeReferenced
		}
	}
	delete(s.db.types, id)
	return nil
}

// List returns all membership types ordered by name.
func (s *MembershipTypeStore) List(ctx context.Context) ([]*models.MembershipType, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []*models.MembershipType
	for _, t := range s.db.types {
		out = append(out, cloneType(t))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].NameCI < out[j].NameCI
	})
	return out, nil
}

// windowsOverlap treats a nil end date as open-ended, matching the
// daterange exclusion constraint in PostgreSQL.
func windowsOverlap(aStart time.Time, aEnd *time.Time, bStart time.Time, bEnd *time.Time) bool {
	if aEnd != nil && aEnd.Before(bStart) {
		return false
	}
	if bEnd != nil && bEnd.Before(aStart) {
		return false
	}
	return true
}

// Assign records a membership window, rejecting overlaps for the same
// member and type.
func (s *MembershipTypeStore) Assign(ctx context.Context, a *models.MembershipAssignment) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.members[a.MemberID]; !ok {
		return store.ErrMemberNotFound
	}
	if _, ok := s.db.types[a.TypeID]; !ok {
		return store.ErrTypeNotFound
	}
	for _, existing := range s.db.assignments {
		if existing.MemberID != a.MemberID || existing.TypeID != a.TypeID {
			continue
		}
		if windowsOverlap(existing.StartDate, existing.EndDate, a.StartDate, a.EndDate) {
			return store.ErrAssignmentOverlap
		}
	}

	s.db.assignments[a.ID] = cloneAssignment(a)
	return nil
}

// EndAssignment closes an open assignment at the given date.
func (s *MembershipTypeStore) EndAssignment(ctx context.Context, id uuid.UUID, end time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	a, ok := s.db.assignments[id]
	if !ok {
		return store.ErrAssignmentNotFound
	}
	if end.Before(a.StartDate) {
		return store.ErrAssignmentEndsBeforeStart
	}
	if a.EndDate == nil {
		d := end
		a.EndDate = &d
	}
	return nil
}

// ListAssignments returns a member's assignment history, newest first.
func (s *MembershipTypeStore) ListAssignments(ctx context.Context, memberID uuid.UUID) ([]*models.MembershipAssignment, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []*models.MembershipAssignment
	for _, a := range s.db.assignments {
		if a.MemberID == memberID {
			out = append(out, cloneAssignment(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartDate.After(out[j].StartDate)
	})
	return out, nil
}
