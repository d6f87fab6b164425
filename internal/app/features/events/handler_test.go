package events

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openparish/steward/internal/app/system/auditlog"
	"github.com/openparish/steward/internal/app/system/auth"
	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/app/system/mailer"
	"github.com/openparish/steward/internal/app/system/smsgateway"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
	"github.com/openparish/steward/internal/store/memory"
)

func newTestServer(t *testing.T) (http.Handler, store.Stores) {
	t.Helper()
	stores := memory.NewDB().Stores()
	logger := zap.NewNop()
	m, err := mailer.New(mailer.Config{DryRun: true}, logger)
	if err != nil {
		t.Fatalf("mailer: %v", err)
	}
	sms, err := smsgateway.New(smsgateway.Config{DryRun: true}, logger)
	if err != nil {
		t.Fatalf("smsgateway: %v", err)
	}
	h := NewHandler(
		stores.Events, stores.Members, m, sms,
		auditlog.New(stores.Audit, logger, auditlog.Config{Admin: "off"}),
		logger, "Test Parish",
	)
	checker := authz.NewChecker(stores.Permissions, logger)
	return Routes(h, checker), stores
}

func doJSON(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req = auth.WithTestUser(req, &auth.SessionUser{ID: uuid.New(), Name: "Test Clerk", Role: "clerk"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func seedEvent(t *testing.T, stores store.Stores, name string) *models.Event {
	t.Helper()
	e := &models.Event{
		ID:       uuid.New(),
		Name:     name,
		NameCI:   name,
		StartsAt: time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC),
	}
	if err := stores.Events.Create(context.Background(), e); err != nil {
		t.Fatalf("seed event %s: %v", name, err)
	}
	return e
}

func seedMember(t *testing.T, stores store.Stores, name string) *models.Member {
	t.Helper()
	m := &models.Member{ID: uuid.New(), FirstName: name, LastName: "Test", FullNameCI: name + " test", Status: "active"}
	if err := stores.Members.Create(context.Background(), m); err != nil {
		t.Fatalf("seed member %s: %v", name, err)
	}
	return m
}

func TestCreateEvent(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/", map[string]any{
		"name":      "Sunday Service",
		"starts_at": "2026-03-08T09:00:00Z",
		"location":  "Main hall",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPost, "/", map[string]any{
		"name":      "Bad clock",
		"starts_at": "next sunday",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad timestamp = %d, want 400", rec.Code)
	}
}

func TestAssignVolunteer(t *testing.T) {
	h, stores := newTestServer(t)
	e := seedEvent(t, stores, "sunday service")
	m := seedMember(t, stores, "alice")

	base := "/" + e.ID.String() + "/volunteers"

	rec := doJSON(t, h, http.MethodPost, base, map[string]any{"member_id": m.ID.String(), "task": "greeter"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("assign = %d, body %s", rec.Code, rec.Body.String())
	}

	// Same task twice is rejected; a second task is fine.
	rec = doJSON(t, h, http.MethodPost, base, map[string]any{"member_id": m.ID.String(), "task": "greeter"})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate task = %d, want 409", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPost, base, map[string]any{"member_id": m.ID.String(), "task": "sound desk"})
	if rec.Code != http.StatusCreated {
		t.Errorf("second task = %d, want 201", rec.Code)
	}
}

func TestRosterAndUnassign(t *testing.T) {
	h, stores := newTestServer(t)
	ctx := context.Background()
	e := seedEvent(t, stores, "sunday service")
	m := seedMember(t, stores, "alice")

	a := &models.VolunteerAssignment{ID: uuid.New(), EventID: e.ID, MemberID: m.ID, Task: "greeter"}
	if err := stores.Events.Assign(ctx, a); err != nil {
		t.Fatalf("assign: %v", err)
	}

	rec := doJSON(t, h, http.MethodGet, "/"+e.ID.String()+"/volunteers", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("roster = %d", rec.Code)
	}
	var resp struct {
		Items []*models.VolunteerAssignment `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("roster size = %d, want 1", len(resp.Items))
	}

	rec = doJSON(t, h, http.MethodDelete, "/volunteers/"+a.ID.String(), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unassign = %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodDelete, "/volunteers/"+a.ID.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("double unassign = %d, want 404", rec.Code)
	}
}

func TestDeleteEvent_CascadesAssignments(t *testing.T) {
	h, stores := newTestServer(t)
	ctx := context.Background()
	e := seedEvent(t, stores, "sunday service")
	m := seedMember(t, stores, "alice")

	a := &models.VolunteerAssignment{ID: uuid.New(), EventID: e.ID, MemberID: m.ID, Task: "greeter"}
	if err := stores.Events.Assign(ctx, a); err != nil {
		t.Fatalf("assign: %v", err)
	}

	rec := doJSON(t, h, http.MethodDelete, "/"+e.ID.String(), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete event = %d", rec.Code)
	}

	got, err := stores.Events.MemberAssignments(ctx, m.ID)
	if err != nil {
		t.Fatalf("member assignments: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("assignments after event delete = %d, want 0", len(got))
	}
}
