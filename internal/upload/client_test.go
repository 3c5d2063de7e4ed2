package upload

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/claude/gymgpt/internal/models"
)

func testRows(n int) []models.SetLogRow {
	rows := make([]models.SetLogRow, n)
	base := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	for i := range rows {
		rows[i] = models.SetLogRow{
			ID:       int64(i + 1),
			LoggedAt: base.Add(time.Duration(i) * time.Minute),
			Name:     "Back Squat",
			Reps:     5,
			Source:   "manual",
		}
	}
	return rows
}

// TestSendSetLogs checks the request shape and decoded response.
func TestSendSetLogs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/logs/batch" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("X-API-Key"); got != "secret" {
			t.Errorf("X-API-Key = %q", got)
		}
		var rows []models.SetLogRow
		if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]int{"received": len(rows), "inserted": len(rows) - 1})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret")
	inserted, err := c.SendSetLogs(context.Background(), testRows(3))
	if err != nil {
		t.Fatalf("SendSetLogs: %v", err)
	}
	if inserted != 2 {
		t.Errorf("inserted = %d, want 2", inserted)
	}
}

// TestSendSetLogsRetries retries 5xx answers and gives up after three attempts.
func TestSendSetLogsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"received":1,"inserted":1}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	c.backoff = time.Millisecond
	if _, err := c.SendSetLogs(context.Background(), testRows(1)); err != nil {
		t.Fatalf("SendSetLogs: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}

	calls.Store(-10)
	_, err := c.SendSetLogs(context.Background(), testRows(1))
	if err == nil || !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("got %v, want exhausted retries", err)
	}
}

// TestSendSetLogsRejected does not retry client errors.
func TestSendSetLogsRejected(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"invalid API key"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "wrong")
	c.backoff = time.Millisecond
	_, err := c.SendSetLogs(context.Background(), testRows(1))
	if err == nil || !strings.Contains(err.Error(), "status 403") {
		t.Fatalf("got %v, want 403 error", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}
