package members

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
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
	h := NewHandler(stores.Members, auditlog.New(stores.Audit, logger, auditlog.Config{Admin: "off"}), logger)
	checker := authz.NewChecker(stores.Permissions, logger)
	return Routes(h, checker), stores
}

func asClerk(r *http.Request) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:   uuid.New(),
		Name: "Test Clerk",
		Role: "clerk",
	})
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
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, asClerk(req))
	return rec
}

func TestCreateMember(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/", map[string]any{
		"first_name": "Ruth",
		"last_name":  "Boaz",
		"email":      "Ruth@Example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var m models.Member
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.ID == uuid.Nil {
		t.Error("expected assigned id")
	}
	if m.Email != "ruth@example.com" {
		t.Errorf("email not normalized: %q", m.Email)
	}
	if m.Status != "active" {
		t.Errorf("status = %q, want default active", m.Status)
	}
}

func TestCreateMember_Validation(t *testing.T) {
	h, _ := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing first name", map[string]any{"last_name": "Boaz"}},
		{"bad email", map[string]any{"first_name": "Ruth", "last_name": "Boaz", "email": "not-an-email"}},
		{"bad status", map[string]any{"first_name": "Ruth", "last_name": "Boaz", "status": "retired"}},
		{"bad joined date", map[string]any{"first_name": "Ruth", "last_name": "Boaz", "joined_at": "01/02/2024"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreateMember_DuplicateEmail(t *testing.T) {
	h, _ := newTestServer(t)

	body := map[string]any{"first_name": "Ruth", "last_name": "Boaz", "email": "ruth@example.com"}
	if rec := doJSON(t, h, http.MethodPost, "/", body); rec.Code != http.StatusCreated {
		t.Fatalf("first create: %d", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodPost, "/", body); rec.Code != http.StatusConflict {
		t.Errorf("duplicate create = %d, want 409", rec.Code)
	}
}

func TestGetMember(t *testing.T) {
	h, stores := newTestServer(t)

	m := &models.Member{ID: uuid.New(), FirstName: "Lydia", LastName: "Thyatira", FullNameCI: "lydia thyatira", Status: "active"}
	if err := stores.Members.Create(context.Background(), m); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := doJSON(t, h, http.MethodGet, "/"+m.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing member = %d, want 404", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id = %d, want 400", rec.Code)
	}
}

func TestUpdateMember(t *testing.T) {
	h, stores := newTestServer(t)

	m := &models.Member{ID: uuid.New(), FirstName: "Lydia", LastName: "Thyatira", FullNameCI: "lydia thyatira", Status: "active"}
	if err := stores.Members.Create(context.Background(), m); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := doJSON(t, h, http.MethodPut, "/"+m.ID.String(), map[string]any{
		"first_name": "Lydia",
		"last_name":  "Philippi",
		"status":     "inactive",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	got, err := stores.Members.Get(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.LastName != "Philippi" || got.Status != "inactive" {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestUpdateMember_HeadCannotLeaveFamily(t *testing.T) {
	h, stores := newTestServer(t)
	ctx := context.Background()

	fam := &models.Family{ID: uuid.New(), Name: "Boaz"}
	if err := stores.Families.Create(ctx, fam); err != nil {
		t.Fatalf("seed family: %v", err)
	}
	famID := fam.ID.String()

	head := &models.Member{ID: uuid.New(), FirstName: "Boaz", LastName: "Bethlehem", FullNameCI: "boaz bethlehem", FamilyID: &fam.ID, Status: "active"}
	if err := stores.Members.Create(ctx, head); err != nil {
		t.Fatalf("seed head: %v", err)
	}
	other := &models.Member{ID: uuid.New(), FirstName: "Ruth", LastName: "Bethlehem", FullNameCI: "ruth bethlehem", FamilyID: &fam.ID, Status: "active"}
	if err := stores.Members.Create(ctx, other); err != nil {
		t.Fatalf("seed other: %v", err)
	}

	rec := doJSON(t, h, http.MethodPut, "/"+head.ID.String(), map[string]any{
		"first_name": "Boaz",
		"last_name":  "Bethlehem",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("head leaving family = %d, want 409; body %s", rec.Code, rec.Body.String())
	}

	// Keeping the family is fine.
	rec = doJSON(t, h, http.MethodPut, "/"+head.ID.String(), map[string]any{
		"first_name": "Boaz",
		"last_name":  "Bethlehem",
		"family_id":  famID,
	})
	if rec.Code != http.StatusOK {
		t.Errorf("no-op family update = %d, want 200", rec.Code)
	}
}

func TestDeleteMember(t *testing.T) {
	h, stores := newTestServer(t)
	ctx := context.Background()

	m := &models.Member{ID: uuid.New(), FirstName: "Lydia", LastName: "Thyatira", FullNameCI: "lydia thyatira", Status: "active"}
	if err := stores.Members.Create(ctx, m); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := doJSON(t, h, http.MethodDelete, "/"+m.ID.String(), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if _, err := stores.Members.Get(ctx, m.ID); err != store.ErrMemberNotFound {
		t.Errorf("member still present after delete: %v", err)
	}
}

func TestListMembers(t *testing.T) {
	h, stores := newTestServer(t)
	ctx := context.Background()

	names := []string{"Aquila", "Priscilla", "Apollos"}
	for _, n := range names {
		m := &models.Member{ID: uuid.New(), FirstName: n, LastName: "Corinth", FullNameCI: strings.ToLower(n) + " corinth", Status: "active"}
		if err := stores.Members.Create(ctx, m); err != nil {
			t.Fatalf("seed %s: %v", n, err)
		}
	}

	rec := doJSON(t, h, http.MethodGet, "/?q=apollos", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Items []*models.Member `json:"items"`
		Total int              `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || len(resp.Items) != 1 {
		t.Fatalf("search total = %d, items = %d", resp.Total, len(resp.Items))
	}
	if resp.Items[0].FirstName != "Apollos" {
		t.Errorf("wrong match: %s", resp.Items[0].FirstName)
	}
}

func TestRoutes_RequireAuth(t *testing.T) {
	h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous list = %d, want 401", rec.Code)
	}
}

func TestRoutes_WritesNeedGrant(t *testing.T) {
	h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"first_name":"A","last_name":"B"}`))
	req = auth.WithTestUser(req, &auth.SessionUser{ID: uuid.New(), Name: "Bookkeeper", Role: "treasurer"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("treasurer creating member = %d, want 403", rec.Code)
	}
}
