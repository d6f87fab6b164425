package requestlog

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMiddleware_LogsRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	handler := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/members", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("logged %d entries, want 1", len(entries))
	}

	entry := entries[0]
	if entry.Level != zap.InfoLevel {
		t.Errorf("level = %v, want info", entry.Level)
	}

	fields := entry.ContextMap()
	if fields["method"] != "POST" {
		t.Errorf("method = %v, want POST", fields["method"])
	}
	if fields["path"] != "/members" {
		t.Errorf("path = %v, want /members", fields["path"])
	}
	if fields["status"] != int64(http.StatusCreated) {
		t.Errorf("status = %v, want %d", fields["status"], http.StatusCreated)
	}
	if fields["bytes"] != int64(2) {
		t.Errorf("bytes = %v, want 2", fields["bytes"])
	}
}

func TestMiddleware_ServerErrorLogsAtWarn(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	handler := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	req := httptest.NewRequest(http.MethodGet, "/reports/finance", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("logged %d entries, want 1", len(entries))
	}
	if entries[0].Level != zap.WarnLevel {
		t.Errorf("level = %v, want warn", entries[0].Level)
	}
}

func TestMiddleware_DefaultStatusIsOK(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	handler := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	fields := logs.All()[0].ContextMap()
	if fields["status"] != int64(http.StatusOK) {
		t.Errorf("status = %v, want %d", fields["status"], http.StatusOK)
	}
}
