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

// EventStore implements store.EventStore in memory.
type EventStore struct {
	db *DB
}

func cloneEvent(e *models.Event) *models.Event {
	c := *e
	return &c
}

func cloneVolunteer(v *models.VolunteerAssignment) *models.VolunteerAssignment {
	c := *v
	return &c
}

// Create inserts the event.
func (s *EventStore) Create(ctx context.Context, e *models.Event) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.events[e.ID] = cloneEvent(e)
	return nil
}

// Get retrieves an event by ID.
func (s *EventStore) Get(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	e, ok := s.db.events[id]
	if !ok {
		return nil, store.ErrEventNotFound
	}
	return cloneEvent(e), nil
}

// Update rewrites the event.
func (s *EventStore) Update(ctx context.Context, e *models.Event) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.events[e.ID]; !ok {
		return store.ErrEventNotFound
	}
	e.UpdatedAt = time.Now()
	s.db.events[e.ID] = cloneEvent(e)
	return nil
}

// Delete removes the event and its volunteer assignments.
func (s *EventStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.events[id]; !ok {
		return store.ErrEventNotFound
	}
	for vID, v := range s.db.volunteers {
		if v.EventID == id {
			delete(s.db.volunteers, vID)
		}
	}
	delete(s.db.events, id)
	return nil
}

// List returns one page of events plus the total matching count.
func (s *EventStore) List(ctx context.Context, f store.EventFilter) ([]*models.Event, int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var matched []*models.Event
	for _, e := range s.db.events {
		if f.Search != "" && !strings.Contains(e.NameCI, strings.ToLower(f.Search)) {
			continue
		}
		matched = append(matched, e)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].StartsAt.Before(matched[j].StartsAt)
	})

	total := len(matched)
	out := make([]*models.Event, 0, len(matched))
	for _, e := range paginate(matched, f.Page) {
		out = append(out, cloneEvent(e))
	}
	return out, total, nil
}

// Assign adds a volunteer assignment.
func (s *EventStore) Assign(ctx context.Context, a *models.VolunteerAssignment) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.events[a.EventID]; !ok {
		return store.ErrEventNotFound
	}
	if _, ok := s.db.members[a.MemberID]; !ok {
		return store.ErrMemberNotFound
	}
	for _, existing := range s.db.volunteers {
		if existing.EventID == a.EventID && existing.MemberID == a.MemberID && existing.Task == a.Task {
			return store.ErrAlreadyAssigned
		}
	}

	s.db.volunteers[a.ID] = cloneVolunteer(a)
	return nil
}

// Unassign removes an assignment by ID.
func (s *EventStore) Unassign(ctx context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.volunteers[id]; !ok {
		return store.ErrVolunteerNotFound
	}
	delete(s.db.volunteers, id)
	return nil
}

// Roster returns an event's assignments grouped by task.
func (s *EventStore) Roster(ctx context.Context, eventID uuid.UUID) ([]*models.VolunteerAssignment, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	if _, ok := s.db.events[eventID]; !ok {
		return nil, store.ErrEventNotFound
	}

	var out []*models.VolunteerAssignment
	for _, v := range s.db.volunteers {
		if v.EventID == eventID {
			out = append(out, cloneVolunteer(v))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Task != out[j].Task {
			return out[i].Task < out[j].Task
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

// MemberAssignments returns all assignments of one member, soonest event
// first.
func (s *EventStore) MemberAssignments(ctx context.Context, memberID uuid.UUID) ([]*models.VolunteerAssignment, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []*models.VolunteerAssignment
	for _, v := range s.db.volunteers {
		if v.MemberID == memberID {
			out = append(out, cloneVolunteer(v))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		var ti, tj time.Time
		if e, ok := s.db.events[out[i].EventID]; ok {
			ti = e.StartsAt
		}
		if e, ok := s.db.events[out[j].EventID]; ok {
			tj = e.StartsAt
		}
		return ti.Before(tj)
	})
	return out, nil
}
