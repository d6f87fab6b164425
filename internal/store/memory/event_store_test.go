package memory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
)

func seedEvent(t *testing.T, s store.EventStore, name string) *models.Event {
	t.Helper()
	e := &models.Event{
		ID:       uuid.New(),
		Name:     name,
		NameCI:   strings.ToLower(name),
		StartsAt: date(2025, 3, 9),
	}
	if err := s.Create(context.Background(), e); err != nil {
		t.Fatalf("seed event %s: %v", name, err)
	}
	return e
}

func TestEventAssign(t *testing.T) {
	stores := NewDB().Stores()
	ctx := context.Background()

	e := seedEvent(t, stores.Events, "Sunday Service")
	m := seedMember(t, stores.Members, "Jane Smith", nil)

	a := &models.VolunteerAssignment{
		ID:       uuid.New(),
		EventID:  e.ID,
		MemberID: m.ID,
		Task:     "greeter",
	}
	if err := stores.Events.Assign(ctx, a); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	t.Run("duplicate task rejected", func(t *testing.T) {
		err := stores.Events.Assign(ctx, &models.VolunteerAssignment{
			ID:       uuid.New(),
			EventID:  e.ID,
			MemberID: m.ID,
			Task:     "greeter",
		})
		if !errors.Is(err, store.ErrAlreadyAssigned) {
			t.Errorf("err = %v, want ErrAlreadyAssigned", err)
		}
	})

	t.Run("second task allowed", func(t *testing.T) {
		err := stores.Events.Assign(ctx, &models.VolunteerAssignment{
			ID:       uuid.New(),
			EventID:  e.ID,
			MemberID: m.ID,
			Task:     "sound desk",
		})
		if err != nil {
			t.Errorf("Assign(other task): %v", err)
		}
	})

	t.Run("unknown event rejected", func(t *testing.T) {
		err := stores.Events.Assign(ctx, &models.VolunteerAssignment{
			ID:       uuid.New(),
			EventID:  uuid.New(),
			MemberID: m.ID,
			Task:     "greeter",
		})
		if !errors.Is(err, store.ErrEventNotFound) {
			t.Errorf("err = %v, want ErrEventNotFound", err)
		}
	})
}

func TestEventRoster_OrderedByTask(t *testing.T) {
	stores := NewDB().Stores()
	ctx := context.Background()

	e := seedEvent(t, stores.Events, "Sunday Service")
	amy := seedMember(t, stores.Members, "Amy Jones", nil)
	zoe := seedMember(t, stores.Members, "Zoe Young", nil)

	for _, a := range []*models.VolunteerAssignment{
		{ID: uuid.New(), EventID: e.ID, MemberID: zoe.ID, Task: "greeter"},
		{ID: uuid.New(), EventID: e.ID, MemberID: amy.ID, Task: "sound desk"},
		{ID: uuid.New(), EventID: e.ID, MemberID: amy.ID, Task: "greeter"},
	} {
		if err := stores.Events.Assign(ctx, a); err != nil {
			t.Fatalf("Assign: %v", err)
		}
	}

	roster, err := stores.Events.Roster(ctx, e.ID)
	if err != nil {
		t.Fatalf("Roster: %v", err)
	}
	if len(roster) != 3 {
		t.Fatalf("got %d rows, want 3", len(roster))
	}
	// greeters first (Amy before Zoe), then sound desk
	if roster[0].Task != "greeter" || roster[0].MemberID != amy.ID {
		t.Errorf("roster[0] = %s/%v, want greeter/Amy", roster[0].Task, roster[0].MemberID)
	}
	if roster[2].Task != "sound desk" {
		t.Errorf("roster[2].Task = %q, want sound desk", roster[2].Task)
	}
}

func TestEventDelete_CascadesAssignments(t *testing.T) {
	stores := NewDB().Stores()
	ctx := context.Background()

	e := seedEvent(t, stores.Events, "Sunday Service")
	m := seedMember(t, stores.Members, "Jane Smith", nil)
	if err := stores.Events.Assign(ctx, &models.VolunteerAssignment{
		ID:       uuid.New(),
		EventID:  e.ID,
		MemberID: m.ID,
		Task:     "greeter",
	}); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	if err := stores.Events.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := stores.Events.MemberAssignments(ctx, m.ID)
	if err != nil {
		t.Fatalf("MemberAssignments: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("member still has %d assignments after event delete", len(got))
	}

	// With no assignments left the member can be deleted.
	if err := stores.Members.Delete(ctx, m.ID); err != nil {
		t.Errorf("member delete after event delete: %v", err)
	}
}

func TestMemberDelete_BlockedByVolunteerAssignment(t *testing.T) {
	stores := NewDB().Stores()
	ctx := context.Background()

	e := seedEvent(t, stores.Events, "Sunday Service")
	m := seedMember(t, stores.Members, "Jane Smith", nil)
	if err := stores.Events.Assign(ctx, &models.VolunteerAssignment{
		ID:       uuid.New(),
		EventID:  e.ID,
		MemberID: m.ID,
		Task:     "greeter",
	}); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	err := stores.Members.Delete(ctx, m.ID)
	if !errors.Is(err, store.ErrMemberReferenced) {
		t.Errorf("err = %v, want ErrMemberReferenced", err)
	}
}
