package fiscalyears

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
	h := NewHandler(stores.FiscalYears, auditlog.New(stores.Audit, logger, auditlog.Config{Admin: "off"}), logger)
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

func TestCreateFiscalYear(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, "treasurer", http.MethodPost, "/", map[string]any{
		"label":      "FY2026",
		"start_date": "2026-01-01",
		"end_date":   "2026-12-31",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, "treasurer", http.MethodPost, "/", map[string]any{
		"label":      "FY2026",
		"start_date": "2027-01-01",
		"end_date":   "2027-12-31",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate label = %d, want 409", rec.Code)
	}

	rec = doJSON(t, h, "treasurer", http.MethodPost, "/", map[string]any{
		"label":      "FY2028",
		"start_date": "2028-12-31",
		"end_date":   "2028-01-01",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("inverted window = %d, want 400", rec.Code)
	}
}

func TestCloseFiscalYear_Idempotent(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, "treasurer", http.MethodPost, "/", map[string]any{
		"label":      "FY2026",
		"start_date": "2026-01-01",
		"end_date":   "2026-12-31",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d", rec.Code)
	}
	var fy models.FiscalYear
	if err := json.Unmarshal(rec.Body.Bytes(), &fy); err != nil {
		t.Fatalf("decode: %v", err)
	}

	for i := 0; i < 2; i++ {
		rec = doJSON(t, h, "treasurer", http.MethodPost, "/"+fy.ID.String()+"/close", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("close #%d = %d", i+1, rec.Code)
		}
	}
	var closed models.FiscalYear
	if err := json.Unmarshal(rec.Body.Bytes(), &closed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !closed.Closed {
		t.Error("fiscal year should be closed")
	}
}

func TestFiscalYearWrites_NeedFinanceGrant(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, "clerk", http.MethodPost, "/", map[string]any{
		"label":      "FY2026",
		"start_date": "2026-01-01",
		"end_date":   "2026-12-31",
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("clerk creating fiscal year = %d, want 403", rec.Code)
	}

	// Reads are open to any signed-in role.
	rec = doJSON(t, h, "clerk", http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("clerk listing fiscal years = %d, want 200", rec.Code)
	}
}
