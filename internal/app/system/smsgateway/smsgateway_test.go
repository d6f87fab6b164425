package smsgateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(Config{
		BaseURL:    baseURL,
		APIKey:     "test-key",
		From:       "+15550001111",
		Timeout:    2 * time.Second,
		MaxRetries: 2,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return c
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(Config{APIKey: "key"}, zap.NewNop())
	if err == nil {
		t.Error("expected error for missing base URL")
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{BaseURL: "https://sms.example.com"}, zap.NewNop())
	if err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestSend_Success(t *testing.T) {
	var gotAuth string
	var gotReq sendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(sendResponse{MessageID: "msg-1", Status: "queued"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.Send(context.Background(), Message{To: "+15551234567", Body: "Reminder: you serve Sunday"})
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer test-key")
	}
	if gotReq.To != "+15551234567" {
		t.Errorf("request To = %q, want %q", gotReq.To, "+15551234567")
	}
	if gotReq.From != "+15550001111" {
		t.Errorf("request From = %q, want %q", gotReq.From, "+15550001111")
	}
}

func TestSend_RequiresRecipientAndBody(t *testing.T) {
	c, err := New(Config{DryRun: true}, zap.NewNop())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if err := c.Send(context.Background(), Message{Body: "hi"}); err == nil {
		t.Error("expected error for missing recipient")
	}
	if err := c.Send(context.Background(), Message{To: "+15551234567"}); err == nil {
		t.Error("expected error for missing body")
	}
}

func TestSend_DryRun(t *testing.T) {
	c, err := New(Config{DryRun: true}, zap.NewNop())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	err = c.Send(context.Background(), Message{To: "+15551234567", Body: "hi"})
	if err != nil {
		t.Errorf("Send(dry-run) error: %v", err)
	}
}

func TestSend_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(sendResponse{MessageID: "msg-2", Status: "queued"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.Send(context.Background(), Message{To: "+15551234567", Body: "hi"})
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("provider called %d times, want 2", calls.Load())
	}
}

func TestSend_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid number"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.Send(context.Background(), Message{To: "bad", Body: "hi"})
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if calls.Load() != 1 {
		t.Errorf("provider called %d times, want 1", calls.Load())
	}
}

func TestSend_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.Send(context.Background(), Message{To: "+15551234567", Body: "hi"})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls.Load() != 3 {
		t.Errorf("provider called %d times, want 3", calls.Load())
	}
}
