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

// GroupStore implements store.GroupStore in memory.
type GroupStore struct {
	db *DB
}

func cloneGroup(g *models.Group) *models.Group {
	c := *g
	return &c
}

func (db *DB) groupNameTaken(nameCI string, exclude uuid.UUID) bool {
	for _, g := range db.groups {
		if g.ID != exclude && g.NameCI == nameCI {
			return true
		}
	}
	return false
}

func (db *DB) findGroupMember(groupID, memberID uuid.UUID) (*models.GroupMember, bool) {
	for _, gm := range db.groupMembers {
		if gm.GroupID == groupID && gm.MemberID == memberID {
			return gm, true
		}
	}
	return nil, false
}

// Create inserts the group.
func (s *GroupStore) Create(ctx context.Context, g *models.Group) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.db.groupNameTaken(g.NameCI, g.ID) {
		return store.ErrGroupNameInUse
	}
	s.db.groups[g.ID] = cloneGroup(g)
	return nil
}

// Get retrieves a group by ID.
func (s *GroupStore) Get(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	g, ok := s.db.groups[id]
	if !ok {
		return nil, store.ErrGroupNotFound
	}
	return cloneGroup(g), nil
}

// Update rewrites the group.
func (s *GroupStore) Update(ctx context.Context, g *models.Group) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.groups[g.ID]; !ok {
		return store.ErrGroupNotFound
	}
	if s.db.groupNameTaken(g.NameCI, g.ID) {
		return store.ErrGroupNameInUse
	}
	g.UpdatedAt = time.Now()
	s.db.groups[g.ID] = cloneGroup(g)
	return nil
}

// Delete removes the group and its membership rows.
func (s *GroupStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.groups[id]; !ok {
		return store.ErrGroupNotFound
	}
	for gmID, gm := range s.db.groupMembers {
		if gm.GroupID == id {
			delete(s.db.groupMembers, gmID)
		}
	}
	delete(s.db.groups, id)
	return nil
}

// List returns one page of groups plus the total matching count.
func (s *GroupStore) List(ctx context.Context, f store.GroupFilter) ([]*models.Group, int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var matched []*models.Group
	for _, g := range s.db.groups {
		if f.Search != "" && !strings.Contains(g.NameCI, strings.ToLower(f.Search)) {
			continue
		}
		matched = append(matched, g)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].NameCI < matched[j].NameCI
	})

	total := len(matched)
	out := make([]*models.Group, 0, len(matched))
	for _, g := range paginate(matched, f.Page) {
		out = append(out, cloneGroup(g))
	}
	return out, total, nil
}

// AddMember adds a membership row with the given role.
func (s *GroupStore) AddMember(ctx context.Context, groupID, memberID uuid.UUID, role string) (*models.GroupMember, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.groups[groupID]; !ok {
		return nil, store.ErrGroupNotFound
	}
	if _, ok := s.db.members[memberID]; !ok {
		return nil, store.ErrMemberNotFound
	}
	if _, ok := s.db.findGroupMember(groupID, memberID); ok {
		return nil, store.ErrAlreadyInGroup
	}

	gm := &models.GroupMember{
		ID:        uuid.New(),
		GroupID:   groupID,
		MemberID:  memberID,
		Role:      role,
		CreatedAt: time.Now(),
	}
	s.db.groupMembers[gm.ID] = gm

	c := *gm
	return &c, nil
}

// RemoveMember removes the membership row. Leaders must be demoted first.
func (s *GroupStore) RemoveMember(ctx context.Context, groupID, memberID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	gm, ok := s.db.findGroupMember(groupID, memberID)
	if !ok {
		return store.ErrNotInGroup
	}
	if gm.Role == models.GroupRoleLeader {
		return store.ErrLeaderMembership
	}
	delete(s.db.groupMembers, gm.ID)
	return nil
}

// SetMemberRole promotes or demotes a membership row.
func (s *GroupStore) SetMemberRole(ctx context.Context, groupID, memberID uuid.UUID, role string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	gm, ok := s.db.findGroupMember(groupID, memberID)
	if !ok {
		return store.ErrNotInGroup
	}
	gm.Role = role
	return nil
}

// ListMembers returns all membership rows of a group, leaders first.
func (s *GroupStore) ListMembers(ctx context.Context, groupID uuid.UUID) ([]*models.GroupMember, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	if _, ok := s.db.groups[groupID]; !ok {
		return nil, store.ErrGroupNotFound
	}

	var out []*models.GroupMember
	for _, gm := range s.db.groupMembers {
		if gm.GroupID == groupID {
			c := *gm
			out = append(out, &c)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role < out[j].Role
		}
		ni, nj := "", ""
		if m, ok := s.db.members[out[i].MemberID]; ok {
			ni = m.FullNameCI
		}
		if m, ok := s.db.members[out[j].MemberID]; ok {
			nj = m.FullNameCI
		}
		return ni < nj
	})

	return out, nil
}
