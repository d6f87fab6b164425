package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

// FamilyStore implements store.FamilyStore in memory.
type FamilyStore struct {
	db *DB
}

func cloneFamily(f *models.Family) *models.Family {
	c := *f
	if f.HeadMemberID != nil {
		id := *f.HeadMemberID
		c.HeadMemberID = &id
	}
	return &c
}

// Create inserts the family.
func (s *FamilyStore) Create(ctx context.Context, f *models.Family) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.families[f.ID] = cloneFamily(f)
	return nil
}

// Get retrieves a family by ID.
func (s *FamilyStore) Get(ctx context.Context, id uuid.UUID) (*models.Family, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	f, ok := s.db.families[id]
	if !ok {
		return nil, store.ErrFamilyNotFound
	}
	return cloneFamily(f), nil
}

// Update rewrites the family's name and address.
func (s *FamilyStore) Update(ctx context.Context, f *models.Family) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	cur, ok := s.db.families[f.ID]
	if !ok {
		return store.ErrFamilyNotFound
	}
	cur.Name = f.Name
	cur.NameCI = f.NameCI
	cur.Address = f.Address
	cur.UpdatedAt = time.Now()
	f.UpdatedAt = cur.UpdatedAt
	return nil
}

// SetHead assigns the family head.
func (s *FamilyStore) SetHead(ctx context.Context, familyID uuid.UUID, head *uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	fam, ok := s.db.families[familyID]
	if !ok {
		return store.ErrFamilyNotFound
	}

	memberCount := 0
	for _, m := range s.db.members {
		if m.FamilyID != nil && *m.FamilyID == familyID {
			memberCount++
		}
	}

	if head == nil {
		if memberCount > 0 {
			return store.ErrFamilyNeedsHead
		}
		fam.HeadMemberID = nil
	} else {
		m, ok := s.db.members[*head]
		if !ok || m.FamilyID == nil || *m.FamilyID != familyID {
			return store.ErrHeadNotInFamily
		}
		id := *head
		fam.HeadMemberID = &id
	}
	fam.UpdatedAt = time.Now()
	return nil
}

// Delete removes the family. Families with members are rejected.
func (s *FamilyStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.families[id]; !ok {
		return store.ErrFamilyNotFound
	}
	for _, m := range s.db.members {
		if m.FamilyID != nil && *m.FamilyID == id {
			return store.ErrFamilyReferenced
		}
	}
	delete(s.db.families, id)
	return nil
}

// List returns one page of families plus the total matching count.
func (s *FamilyStore) List(ctx context.Context, f store.FamilyFilter) ([]*models.Family, int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var matched []*models.Family
	for _, fam := range s.db.families {
		if f.Search != "" && !strings.Contains(fam.NameCI, strings.ToLower(f.Search)) {
			continue
		}
		matched = append(matched, fam)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].NameCI < matched[j].NameCI
	})

	total := len(matched)
	out := make([]*models.Family, 0, len(matched))
	for _, fam := range paginate(matched, f.Page) {
		out = append(out, cloneFamily(fam))
	}
	return out, total, nil
}
