package permissions

import (
	"bytes"
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
	h := NewHandler(stores.Permissions, auditlog.New(stores.Audit, logger, auditlog.Config{Admin: "off"}), logger)
	checker := authz.NewChecker(stores.Permissions, logger)
	return Routes(h, checker), stores
}

func doJSON(t *testing.T, h http.Handler, role, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req = auth.WithTestUser(req, &auth.SessionUser{ID: uuid.New(), Name: "Test User", Role: role})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListCatalogue(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, models.RoleClerk, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Items []*models.Permission `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 7 {
		t.Errorf("catalogue size = %d, want 7", len(resp.Items))
	}
}

func TestGrantAndRevoke(t *testing.T) {
	h, _ := newTestServer(t)

	// Clerks do not hold view_reports out of the box.
	rec := doJSON(t, h, models.RoleSuperAdmin, http.MethodGet, "/roles/clerk", nil)
	var before struct {
		Items []*models.Permission `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &before); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, p := range before.Items {
		if p.Code == models.PermViewReports {
			t.Fatal("clerk should not hold view_reports initially")
		}
	}

	body := map[string]any{"role": "clerk", "code": models.PermViewReports}
	rec = doJSON(t, h, models.RoleSuperAdmin, http.MethodPost, "/grants", body)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("grant = %d, body %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, h, models.RoleSuperAdmin, http.MethodPost, "/grants", body)
	if rec.Code != http.StatusConflict {
		t.Errorf("double grant = %d, want 409", rec.Code)
	}

	rec = doJSON(t, h, models.RoleSuperAdmin, http.MethodDelete, "/grants", body)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("revoke = %d", rec.Code)
	}
	rec = doJSON(t, h, models.RoleSuperAdmin, http.MethodDelete, "/grants", body)
	if rec.Code != http.StatusNotFound {
		t.Errorf("double revoke = %d, want 404", rec.Code)
	}
}

func TestGrant_RequiresManageAccounts(t *testing.T) {
	h, _ := newTestServer(t)

	body := map[string]any{"role": "clerk", "code": models.PermViewReports}

	// Admins hold everything except manage_accounts.
	rec := doJSON(t, h, models.RoleAdmin, http.MethodPost, "/grants", body)
	if rec.Code != http.StatusForbidden {
		t.Errorf("admin granting = %d, want 403", rec.Code)
	}
}

func TestGrant_UnknownCode(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, models.RoleSuperAdmin, http.MethodPost, "/grants", map[string]any{"role": "clerk", "code": "fly_helicopter"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown code = %d, want 404", rec.Code)
	}
}
