package accounts

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

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
	audit := auditlog.New(stores.Audit, logger, auditlog.Config{Auth: "db", Admin: "db"})
	h := NewHandler(stores.Users, audit, logger)
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
	if role != "" {
		req = auth.WithTestUser(req, &auth.SessionUser{ID: uuid.New(), Name: "Test User", Role: role})
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreate(t *testing.T) {
	h, stores := newTestServer(t)

	rec := doJSON(t, h, models.RoleSuperAdmin, http.MethodPost, "/", map[string]any{
		"full_name": "Priscilla Aquila",
		"email":     "Priscilla@Example.Org",
		"password":  "correct horse battery",
		"role":      models.RoleClerk,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var u models.User
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.Email != "priscilla@example.org" {
		t.Errorf("email = %q, want lowercased", u.Email)
	}
	if u.Status != "active" {
		t.Errorf("status = %q, want active", u.Status)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("password")) {
		t.Error("response leaks password material")
	}

	stored, err := stores.Users.GetByEmail(context.Background(), "priscilla@example.org")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse battery")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	h, _ := newTestServer(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"email": "a@b.org", "password": "longenough", "role": "clerk"}},
		{"bad email", map[string]any{"full_name": "X", "email": "nope", "password": "longenough", "role": "clerk"}},
		{"short password", map[string]any{"full_name": "X", "email": "a@b.org", "password": "short", "role": "clerk"}},
		{"unknown role", map[string]any{"full_name": "X", "email": "a@b.org", "password": "longenough", "role": "bishop"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h, models.RoleSuperAdmin, http.MethodPost, "/", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	h, _ := newTestServer(t)

	body := map[string]any{
		"full_name": "First",
		"email":     "shared@example.org",
		"password":  "longenough",
		"role":      models.RoleClerk,
	}
	if rec := doJSON(t, h, models.RoleSuperAdmin, http.MethodPost, "/", body); rec.Code != http.StatusCreated {
		t.Fatalf("first create = %d", rec.Code)
	}
	body["full_name"] = "Second"
	if rec := doJSON(t, h, models.RoleSuperAdmin, http.MethodPost, "/", body); rec.Code != http.StatusConflict {
		t.Errorf("duplicate create = %d, want 409", rec.Code)
	}
}

func TestUpdate_DisableAndPasswordChange(t *testing.T) {
	h, stores := newTestServer(t)

	rec := doJSON(t, h, models.RoleSuperAdmin, http.MethodPost, "/", map[string]any{
		"full_name": "Lydia",
		"email":     "lydia@example.org",
		"password":  "firstpassword",
		"role":      models.RoleTreasurer,
	})
	var u models.User
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = doJSON(t, h, models.RoleSuperAdmin, http.MethodPut, "/"+u.ID.String(), map[string]any{
		"full_name": "Lydia of Thyatira",
		"email":     "lydia@example.org",
		"role":      models.RoleTreasurer,
		"status":    "disabled",
		"password":  "secondpassword",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update = %d, body %s", rec.Code, rec.Body.String())
	}

	stored, err := stores.Users.GetByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != "disabled" || stored.FullName != "Lydia of Thyatira" {
		t.Errorf("stored = %q/%q", stored.Status, stored.FullName)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secondpassword")); err != nil {
		t.Errorf("password not rotated: %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, models.RoleSuperAdmin, http.MethodPut, "/"+uuid.NewString(), map[string]any{
		"full_name": "Nobody",
		"email":     "nobody@example.org",
		"role":      models.RoleClerk,
		"status":    "active",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestList_Filters(t *testing.T) {
	h, _ := newTestServer(t)

	seed := []map[string]any{
		{"full_name": "A", "email": "a@example.org", "password": "longenough", "role": models.RoleClerk},
		{"full_name": "B", "email": "b@example.org", "password": "longenough", "role": models.RoleClerk},
		{"full_name": "C", "email": "c@example.org", "password": "longenough", "role": models.RoleTreasurer},
	}
	for _, body := range seed {
		if rec := doJSON(t, h, models.RoleSuperAdmin, http.MethodPost, "/", body); rec.Code != http.StatusCreated {
			t.Fatalf("seed create = %d", rec.Code)
		}
	}

	rec := doJSON(t, h, models.RoleSuperAdmin, http.MethodGet, "/?role=clerk", nil)
	var resp struct {
		Items []*models.User `json:"items"`
		Total int            `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("clerk total = %d, want 2", resp.Total)
	}
}

func TestRequiresManageAccounts(t *testing.T) {
	h, _ := newTestServer(t)

	// Admins hold every grant except manage_accounts.
	rec := doJSON(t, h, models.RoleAdmin, http.MethodGet, "/", nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("admin list = %d, want 403", rec.Code)
	}
	rec = doJSON(t, h, "", http.MethodGet, "/", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous list = %d, want 401", rec.Code)
	}
}
