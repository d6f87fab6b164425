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

// MemberStore implements store.MemberStore in memory.
type MemberStore struct {
	db *DB
}

func cloneMember(m *models.Member) *models.Member {
	c := *m
	if m.FamilyID != nil {
		fid := *m.FamilyID
		c.FamilyID = &fid
	}
	return &c
}

func (db *DB) memberEmailTaken(email string, exclude uuid.UUID) bool {
	if email == "" {
		return false
	}
	for _, m := range db.members {
		if m.ID != exclude && m.Email == email {
			return true
		}
	}
	return false
}

// releaseFamilyHead applies the departure rules for a member leaving
// familyID. Mirrors the PostgreSQL store exactly.
func (db *DB) releaseFamilyHead(familyID, memberID uuid.UUID) error {
	fam, ok := db.families[familyID]
	if !ok {
		return store.ErrFamilyNotFound
	}
	if fam.HeadMemberID == nil || *fam.HeadMemberID != memberID {
		return nil
	}
	for _, m := range db.members {
		if m.FamilyID != nil && *m.FamilyID == familyID && m.ID != memberID {
			return store.ErrMemberIsFamilyHead
		}
	}
	fam.HeadMemberID = nil
	fam.UpdatedAt = time.Now()
	return nil
}

// claimFamilyHead makes the member head if the family has none.
func (db *DB) claimFamilyHead(familyID, memberID uuid.UUID) {
	fam := db.families[familyID]
	if fam.HeadMemberID == nil {
		id := memberID
		fam.HeadMemberID = &id
		fam.UpdatedAt = time.Now()
	}
}

// Create inserts the member, claiming the family head slot if empty.
func (s *MemberStore) Create(ctx context.Context, m *models.Member) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if m.FamilyID != nil {
		if _, ok := s.db.families[*m.FamilyID]; !ok {
			return store.ErrFamilyNotFound
		}
	}
	if s.db.memberEmailTaken(m.Email, m.ID) {
		return store.ErrMemberEmailInUse
	}

	s.db.members[m.ID] = cloneMember(m)
	if m.FamilyID != nil {
		s.db.claimFamilyHead(*m.FamilyID, m.ID)
	}
	return nil
}

// Get retrieves a member by ID.
func (s *MemberStore) Get(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	m, ok := s.db.members[id]
	if !ok {
		return nil, store.ErrMemberNotFound
	}
	return cloneMember(m), nil
}

// Update rewrites the member, maintaining the family-head invariant on
// family changes.
func (s *MemberStore) Update(ctx context.Context, m *models.Member) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	old, ok := s.db.members[m.ID]
	if !ok {
		return store.ErrMemberNotFound
	}
	if s.db.memberEmailTaken(m.Email, m.ID) {
		return store.ErrMemberEmailInUse
	}

	sameFamily := (old.FamilyID == nil && m.FamilyID == nil) ||
		(old.FamilyID != nil && m.FamilyID != nil && *old.FamilyID == *m.FamilyID)

	if !sameFamily {
		if m.FamilyID != nil {
			if _, ok := s.db.families[*m.FamilyID]; !ok {
				return store.ErrFamilyNotFound
			}
		}
		if old.FamilyID != nil {
			if err := s.db.releaseFamilyHead(*old.FamilyID, m.ID); err != nil {
				return err
			}
		}
	}

	m.UpdatedAt = time.Now()
	s.db.members[m.ID] = cloneMember(m)
	if !sameFamily && m.FamilyID != nil {
		s.db.claimFamilyHead(*m.FamilyID, m.ID)
	}
	return nil
}

// Delete removes the member unless contributions or volunteer
// assignments reference them.
func (s *MemberStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	m, ok := s.db.members[id]
	if !ok {
		return store.ErrMemberNotFound
	}

	for _, c := range s.db.contributions {
		if c.MemberID == id {
			return store.ErrMemberReferenced
		}
	}
	for _, v := range s.db.volunteers {
		if v.MemberID == id {
			return store.ErrMemberReferenced
		}
	}

	if m.FamilyID != nil {
		if err := s.db.releaseFamilyHead(*m.FamilyID, id); err != nil {
			return err
		}
	}

	// Group memberships and assignment history cascade with the member.
	for gmID, gm := range s.db.groupMembers {
		if gm.MemberID == id {
			delete(s.db.groupMembers, gmID)
		}
	}
	for aID, a := range s.db.assignments {
		if a.MemberID == id {
			delete(s.db.assignments, aID)
		}
	}

	delete(s.db.members, id)
	return nil
}

// List returns one page of members plus the total matching count.
func (s *MemberStore) List(ctx context.Context, f store.MemberFilter) ([]*models.Member, int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var matched []*models.Member
	for _, m := range s.db.members {
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		if f.FamilyID != nil && (m.FamilyID == nil || *m.FamilyID != *f.FamilyID) {
			continue
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			if !strings.Contains(m.FullNameCI, needle) && !strings.Contains(strings.ToLower(m.Email), needle) {
				continue
			}
		}
		matched = append(matched, m)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].FullNameCI < matched[j].FullNameCI
	})

	total := len(matched)
	out := make([]*models.Member, 0, len(matched))
	for _, m := range paginate(matched, f.Page) {
		out = append(out, cloneMember(m))
	}
	return out, total, nil
}
