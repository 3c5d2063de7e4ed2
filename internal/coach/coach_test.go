package coach

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/claude/gymgpt/internal/models"
	"github.com/claude/gymgpt/internal/planner"
	"github.com/claude/gymgpt/internal/testhelpers"
)

// fakeOpenAI answers /chat/completions with a fixed assistant message and
// records the decoded request bodies.
type fakeOpenAI struct {
	mu       sync.Mutex
	content  string
	status   int
	requests []map[string]any
}

func (f *fakeOpenAI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/chat/completions" {
		http.NotFound(w, r)
		return
	}
	body, _ := io.ReadAll(r.Body)
	var req map[string]any
	_ = json.Unmarshal(body, &req)

	f.mu.Lock()
	f.requests = append(f.requests, req)
	status, content := f.status, f.content
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
		return
	}
	resp := map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   DefaultModel,
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeOpenAI) lastRequest(t *testing.T) map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("no request recorded")
	}
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, fake *fakeOpenAI) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	c, err := New(Config{
		APIKey:     "test-key",
		BaseURL:    srv.URL + "/",
		Timeout:    5 * time.Second,
		MaxRetries: 0,
	}, testhelpers.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// TestNewWithoutKey checks that a missing key is reported as not configured.
func TestNewWithoutKey(t *testing.T) {
	if _, err := New(Config{}, testhelpers.NewLogger(t)); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("got %v, want ErrNotConfigured", err)
	}
}

// TestExplain sends the plan as JSON and returns the trimmed reply.
func TestExplain(t *testing.T) {
	fake := &fakeOpenAI{content: "  Squat first, then hinge.  "}
	c := newTestClient(t, fake)

	plan, err := planner.BuildWorkoutPlan(planner.FocusLower, nil, nil, planner.EquipmentGym)
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Explain(context.Background(), plan)
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if got != "Squat first, then hinge." {
		t.Errorf("Explain = %q", got)
	}

	req := fake.lastRequest(t)
	if req["model"] != DefaultModel {
		t.Errorf("model = %v", req["model"])
	}
	if req["temperature"] != 0.6 {
		t.Errorf("temperature = %v, want 0.6", req["temperature"])
	}
	msgs, _ := req["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	user, _ := msgs[1].(map[string]any)
	if content, _ := user["content"].(string); !strings.Contains(content, "Back Squat") {
		t.Errorf("user message does not carry the plan: %q", content)
	}
}

// TestReplyIncludesRecentLogs checks the log summary in the user message.
func TestReplyIncludesRecentLogs(t *testing.T) {
	fake := &fakeOpenAI{content: "Hold the load this week."}
	c := newTestClient(t, fake)

	w, rir := 100.0, 1
	recent := []models.SetLogRow{{
		Name:     "Back Squat",
		Reps:     5,
		WeightKg: &w,
		RIR:      &rir,
		LoggedAt: time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC),
	}}
	got, err := c.Reply(context.Background(), "Should I add weight?", recent)
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if got != "Hold the load this week." {
		t.Errorf("Reply = %q", got)
	}

	req := fake.lastRequest(t)
	if req["temperature"] != 0.7 {
		t.Errorf("temperature = %v, want 0.7", req["temperature"])
	}
	msgs, _ := req["messages"].([]any)
	user, _ := msgs[len(msgs)-1].(map[string]any)
	content, _ := user["content"].(string)
	for _, want := range []string{"2026-03-02 Back Squat: 5 reps @ 100 kg, RIR 1", "Question: Should I add weight?"} {
		if !strings.Contains(content, want) {
			t.Errorf("user message missing %q:\n%s", want, content)
		}
	}
}

// TestCompletionErrors covers upstream failures and empty answers.
func TestCompletionErrors(t *testing.T) {
	c := newTestClient(t, &fakeOpenAI{status: http.StatusInternalServerError})
	if _, err := c.Reply(context.Background(), "hi", nil); err == nil {
		t.Error("expected error for upstream 500")
	}

	c = newTestClient(t, &fakeOpenAI{content: "   "})
	if _, err := c.Reply(context.Background(), "hi", nil); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("got %v, want ErrEmptyResponse", err)
	}
}

// TestSummarizeLogs checks formatting and the row limit.
func TestSummarizeLogs(t *testing.T) {
	at := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	rows := []models.SetLogRow{
		{Name: "Push-Up", Reps: 15, LoggedAt: at},
		{Name: "Pull-Up", Reps: 8, LoggedAt: at},
	}
	if got := SummarizeLogs(rows, 1); got != "- 2026-01-05 Push-Up: 15 reps" {
		t.Errorf("SummarizeLogs = %q", got)
	}
	if got := SummarizeLogs(nil, 5); got != "" {
		t.Errorf("SummarizeLogs(nil) = %q", got)
	}
}
