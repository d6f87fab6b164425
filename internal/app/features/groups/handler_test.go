package groups

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openparish/steward/internal/app/system/auditlog"
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
	h := NewHandler(stores.Groups, auditlog.New(stores.Audit, logger, auditlog.Config{Admin: "off"}), logger)
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

func seedGroup(t *testing.T, stores store.Stores, name string) *models.Group {
	t.Helper()
	g := &models.Group{ID: uuid.New(), Name: name, NameCI: name}
	if err := stores.Groups.Create(context.Background(), g); err != nil {
		t.Fatalf("seed group %s: %v", name, err)
	}
	return g
}

func seedMember(t *testing.T, stores store.Stores, name string) *models.Member {
	t.Helper()
	m := &models.Member{ID: uuid.New(), FirstName: name, LastName: "Test", FullNameCI: name + " test", Status: "active"}
	if err := stores.Members.Create(context.Background(), m); err != nil {
		t.Fatalf("seed member %s: %v", name, err)
	}
	return m
}

func TestCreateGroup(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/", map[string]any{"name": "Choir", "description": "Sunday choir"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPost, "/", map[string]any{"name": "Choir"})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate name = %d, want 409", rec.Code)
	}
}

func TestCreateGroup_DescriptionStripsMarkup(t *testing.T) {
	h, stores := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/", map[string]any{
		"name":        "Choir",
		"description": "<script>alert(1)</script>Sunday choir",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var g models.Group
	if err := json.Unmarshal(rec.Body.Bytes(), &g); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if g.Description != "Sunday choir" {
		t.Errorf("description = %q, want script markup stripped", g.Description)
	}

	// Update sanitizes too.
	rec = doJSON(t, h, http.MethodPut, "/"+g.ID.String(), map[string]any{
		"name":        "Choir",
		"description": "<script>alert(2)</script>rehearses Thursdays",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	stored, err := stores.Groups.Get(context.Background(), g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Description != "rehearses Thursdays" {
		t.Errorf("stored description = %q, want script markup stripped", stored.Description)
	}
}

func TestGroupMembershipLifecycle(t *testing.T) {
	h, stores := newTestServer(t)

	g := seedGroup(t, stores, "ushers")
	alice := seedMember(t, stores, "alice")

	base := "/" + g.ID.String() + "/members"

	rec := doJSON(t, h, http.MethodPost, base, map[string]any{"member_id": alice.ID.String(), "role": "leader"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPost, base, map[string]any{"member_id": alice.ID.String()})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate add = %d, want 409", rec.Code)
	}

	// A leader cannot be removed outright.
	rec = doJSON(t, h, http.MethodDelete, base+"/"+alice.ID.String(), nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("remove leader = %d, want 409", rec.Code)
	}

	// Demote, then remove.
	rec = doJSON(t, h, http.MethodPut, base+"/"+alice.ID.String(), map[string]any{"role": "member"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("demote = %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodDelete, base+"/"+alice.ID.String(), nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("remove after demote = %d, want 204", rec.Code)
	}
}

func TestAddMember_Validation(t *testing.T) {
	h, stores := newTestServer(t)
	g := seedGroup(t, stores, "ushers")
	alice := seedMember(t, stores, "alice")
	base := "/" + g.ID.String() + "/members"

	rec := doJSON(t, h, http.MethodPost, base, map[string]any{"member_id": "nope"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad member id = %d, want 400", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, base, map[string]any{"member_id": alice.ID.String(), "role": "chair"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad role = %d, want 400", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, base, map[string]any{"member_id": uuid.NewString()})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown member = %d, want 400", rec.Code)
	}
}

func TestListGroupMembers_LeadersFirst(t *testing.T) {
	h, stores := newTestServer(t)
	ctx := context.Background()

	g := seedGroup(t, stores, "ushers")
	alice := seedMember(t, stores, "alice")
	bob := seedMember(t, stores, "bob")

	if _, err := stores.Groups.AddMember(ctx, g.ID, alice.ID, models.GroupRoleMember); err != nil {
		t.Fatalf("add alice: %v", err)
	}
	if _, err := stores.Groups.AddMember(ctx, g.ID, bob.ID, models.GroupRoleLeader); err != nil {
		t.Fatalf("add bob: %v", err)
	}

	rec := doJSON(t, h, http.MethodGet, "/"+g.ID.String()+"/members", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Items []*models.GroupMember `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(resp.Items))
	}
	if resp.Items[0].Role != models.GroupRoleLeader {
		t.Errorf("first row role = %s, want leader", resp.Items[0].Role)
	}
}

func TestDeleteGroup_CascadesMembership(t *testing.T) {
	h, stores := newTestServer(t)
	ctx := context.Background()

	g := seedGroup(t, stores, "ushers")
	alice := seedMember(t, stores, "alice")
	if _, err := stores.Groups.AddMember(ctx, g.ID, alice.ID, models.GroupRoleMember); err != nil {
		t.Fatalf("add: %v", err)
	}

	rec := doJSON(t, h, http.MethodDelete, "/"+g.ID.String(), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rec.Code)
	}
	if _, err := stores.Members.Get(ctx, alice.ID); err != nil {
		t.Errorf("member should survive group delete: %v", err)
	}
}
