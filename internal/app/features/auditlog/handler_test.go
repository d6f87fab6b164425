package auditlog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openparish/steward/internal/app/system/auth"
	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/domain/models"
	"github.com/openparish/steward/internal/store"
	"github.com/openparish/steward/internal/store/memory"
)

func newTestServer(t *testing.T) (http.Handler, store.Stores) {
	t.Helper()
	stores := memory.NewDB().Stores()
	logger := zap.NewNop()
	h := NewHandler(stores.Audit, logger)
	checker := authz.NewChecker(stores.Permissions, logger)
	return Routes(h, checker), stores
}

func get(t *testing.T, h http.Handler, role, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: uuid.New(), Name: "Test User", Role: role})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func seedEvent(t *testing.T, audit store.AuditStore, category, eventType string, actorID *uuid.UUID, ts time.Time) {
	t.Helper()
	err := audit.Log(context.Background(), store.AuditEvent{
		ID:        uuid.New(),
		Timestamp: ts,
		Category:  category,
		EventType: eventType,
		ActorID:   actorID,
		Success:   true,
	})
	if err != nil {
		t.Fatalf("seed audit event: %v", err)
	}
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) ([]*store.AuditEvent, int) {
	t.Helper()
	var resp struct {
		Items []*store.AuditEvent `json:"items"`
		Total int                 `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.Items, resp.Total
}

func TestList_NewestFirstAndFilters(t *testing.T) {
	h, stores := newTestServer(t)

	actor := uuid.New()
	other := uuid.New()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	seedEvent(t, stores.Audit, store.AuditCategoryAuth, store.EventLoginSuccess, &actor, base)
	seedEvent(t, stores.Audit, store.AuditCategoryAdmin, store.EventMemberCreated, &actor, base.Add(time.Hour))
	seedEvent(t, stores.Audit, store.AuditCategoryAdmin, store.EventBudgetCreated, &other, base.Add(2*time.Hour))

	rec := get(t, h, models.RoleAdmin, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	items, total := decodeList(t, rec)
	if total != 3 || len(items) != 3 {
		t.Fatalf("total = %d items = %d, want 3", total, len(items))
	}
	if items[0].EventType != store.EventBudgetCreated {
		t.Errorf("first item = %s, want newest (%s)", items[0].EventType, store.EventBudgetCreated)
	}

	rec = get(t, h, models.RoleAdmin, "/?category=auth")
	items, total = decodeList(t, rec)
	if total != 1 || items[0].EventType != store.EventLoginSuccess {
		t.Errorf("category filter: total = %d", total)
	}

	rec = get(t, h, models.RoleAdmin, "/?actor_id="+actor.String())
	_, total = decodeList(t, rec)
	if total != 2 {
		t.Errorf("actor filter total = %d, want 2", total)
	}

	rec = get(t, h, models.RoleAdmin, "/?event_type=member_created")
	_, total = decodeList(t, rec)
	if total != 1 {
		t.Errorf("event_type filter total = %d, want 1", total)
	}
}

func TestList_DateRange(t *testing.T) {
	h, stores := newTestServer(t)

	seedEvent(t, stores.Audit, store.AuditCategoryAdmin, store.EventMemberCreated, nil,
		time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))
	seedEvent(t, stores.Audit, store.AuditCategoryAdmin, store.EventMemberUpdated, nil,
		time.Date(2026, 5, 2, 23, 30, 0, 0, time.UTC))
	seedEvent(t, stores.Audit, store.AuditCategoryAdmin, store.EventMemberDeleted, nil,
		time.Date(2026, 5, 3, 9, 0, 0, 0, time.UTC))

	rec := get(t, h, models.RoleAdmin, "/?from=2026-05-02&to=2026-05-02")
	items, total := decodeList(t, rec)
	if total != 1 || items[0].EventType != store.EventMemberUpdated {
		t.Errorf("date range total = %d, want the late 05-02 event only", total)
	}

	rec = get(t, h, models.RoleAdmin, "/?from=not-a-date")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad from date status = %d, want 400", rec.Code)
	}
}

func TestList_Paging(t *testing.T) {
	h, stores := newTestServer(t)

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedEvent(t, stores.Audit, store.AuditCategoryAdmin, store.EventMemberCreated, nil,
			base.Add(time.Duration(i)*time.Minute))
	}

	rec := get(t, h, models.RoleAdmin, "/?limit=2&offset=2")
	items, total := decodeList(t, rec)
	if total != 5 || len(items) != 2 {
		t.Errorf("paging: total = %d items = %d, want 5 and 2", total, len(items))
	}
}

func TestList_RequiresGrant(t *testing.T) {
	h, _ := newTestServer(t)

	rec := get(t, h, models.RoleClerk, "/")
	if rec.Code != http.StatusForbidden {
		t.Errorf("clerk status = %d, want 403", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rec2.Code)
	}
}
