package logout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openparish/steward/internal/app/system/auditlog"
	"github.com/openparish/steward/internal/app/system/auth"
	"github.com/openparish/steward/internal/store"
	"github.com/openparish/steward/internal/store/memory"
)

func newTestServer(t *testing.T) (http.Handler, store.Stores) {
	t.Helper()
	stores := memory.NewDB().Stores()
	logger := zap.NewNop()
	sessions, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "steward_session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	audit := auditlog.New(stores.Audit, logger, auditlog.Config{Auth: "db", Admin: "db"})
	h := NewHandler(sessions, audit, logger)
	return Routes(h), stores
}

func TestLogout_SignedIn(t *testing.T) {
	h, stores := newTestServer(t)

	userID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: userID, Name: "Test User", Role: "clerk"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var expired bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "steward_session" && c.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Error("session cookie not expired")
	}

	events, _, err := stores.Audit.Query(context.Background(), store.AuditFilter{
		EventType: store.EventLogout,
	})
	if err != nil || len(events) != 1 {
		t.Errorf("logout audit rows = %d, err %v", len(events), err)
	}
}

func TestLogout_Anonymous(t *testing.T) {
	h, stores := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, anonymous logout should be a no-op 200", rec.Code)
	}
	_, total, err := stores.Audit.Query(context.Background(), store.AuditFilter{})
	if err != nil || total != 0 {
		t.Errorf("audit rows = %d, want none for anonymous logout", total)
	}
}
