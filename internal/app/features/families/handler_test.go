package families

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
	h := NewHandler(stores.Families, stores.Members, auditlog.New(stores.Audit, logger, auditlog.Config{Admin: "off"}), logger)
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

func seedMember(t *testing.T, stores store.Stores, name string, familyID *uuid.UUID) *models.Member {
	t.Helper()
	m := &models.Member{
		ID:         uuid.New(),
		FirstName:  name,
		LastName:   "Test",
		FullNameCI: name + " test",
		FamilyID:   familyID,
		Status:     "active",
	}
	if err := stores.Members.Create(context.Background(), m); err != nil {
		t.Fatalf("seed member %s: %v", name, err)
	}
	return m
}

func TestCreateFamily(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/", map[string]any{"name": "Zebedee", "address": "By the sea"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var f models.Family
	if err := json.Unmarshal(rec.Body.Bytes(), &f); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if f.HeadMemberID != nil {
		t.Error("new family should have no head")
	}

	rec = doJSON(t, h, http.MethodPost, "/", map[string]any{"address": "nameless"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing name = %d, want 400", rec.Code)
	}
}

func TestGetFamily_IncludesMembers(t *testing.T) {
	h, stores := newTestServer(t)
	ctx := context.Background()

	fam := &models.Family{ID: uuid.New(), Name: "Zebedee", NameCI: "zebedee"}
	if err := stores.Families.Create(ctx, fam); err != nil {
		t.Fatalf("seed family: %v", err)
	}
	seedMember(t, stores, "James", &fam.ID)
	seedMember(t, stores, "John", &fam.ID)

	rec := doJSON(t, h, http.MethodGet, "/"+fam.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var detail struct {
		models.Family
		Members []*models.Member `json:"members"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(detail.Members) != 2 {
		t.Errorf("members = %d, want 2", len(detail.Members))
	}
	if detail.HeadMemberID == nil {
		t.Error("first member should have become head")
	}
}

func TestSetHead(t *testing.T) {
	h, stores := newTestServer(t)
	ctx := context.Background()

	fam := &models.Family{ID: uuid.New(), Name: "Zebedee", NameCI: "zebedee"}
	if err := stores.Families.Create(ctx, fam); err != nil {
		t.Fatalf("seed family: %v", err)
	}
	seedMember(t, stores, "James", &fam.ID)
	john := seedMember(t, stores, "John", &fam.ID)
	outsider := seedMember(t, stores, "Peter", nil)

	rec := doJSON(t, h, http.MethodPut, "/"+fam.ID.String()+"/head", map[string]any{"head_member_id": john.ID.String()})
	if rec.Code != http.StatusOK {
		t.Fatalf("reassign head = %d, body %s", rec.Code, rec.Body.String())
	}
	var f models.Family
	if err := json.Unmarshal(rec.Body.Bytes(), &f); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if f.HeadMemberID == nil || *f.HeadMemberID != john.ID {
		t.Errorf("head = %v, want %s", f.HeadMemberID, john.ID)
	}

	rec = doJSON(t, h, http.MethodPut, "/"+fam.ID.String()+"/head", map[string]any{"head_member_id": outsider.ID.String()})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("outsider head = %d, want 400", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPut, "/"+fam.ID.String()+"/head", map[string]any{"head_member_id": nil})
	if rec.Code != http.StatusConflict {
		t.Errorf("clearing head with members = %d, want 409", rec.Code)
	}
}

func TestDeleteFamily(t *testing.T) {
	h, stores := newTestServer(t)
	ctx := context.Background()

	fam := &models.Family{ID: uuid.New(), Name: "Zebedee", NameCI: "zebedee"}
	if err := stores.Families.Create(ctx, fam); err != nil {
		t.Fatalf("seed family: %v", err)
	}
	seedMember(t, stores, "James", &fam.ID)

	rec := doJSON(t, h, http.MethodDelete, "/"+fam.ID.String(), nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("delete with members = %d, want 409", rec.Code)
	}
}

func TestListFamilies(t *testing.T) {
	h, stores := newTestServer(t)
	ctx := context.Background()

	for _, name := range []string{"Zebedee", "Jonah", "Alphaeus"} {
		f := &models.Family{ID: uuid.New(), Name: name, NameCI: name}
		if err := stores.Families.Create(ctx, f); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	rec := doJSON(t, h, http.MethodGet, "/?limit=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Items []*models.Family `json:"items"`
		Total int              `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 3 || len(resp.Items) != 2 {
		t.Errorf("total = %d items = %d, want 3 and 2", resp.Total, len(resp.Items))
	}
}
