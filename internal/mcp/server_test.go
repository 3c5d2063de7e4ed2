package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/claude/gymgpt/internal/models"
	"github.com/claude/gymgpt/internal/planner"
	"github.com/claude/gymgpt/internal/plans"
	"github.com/claude/gymgpt/internal/testhelpers"
	"github.com/google/go-cmp/cmp"
	"github.com/mark3labs/mcp-go/mcp"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// fakeSource is an in-memory DataSource.
type fakeSource struct {
	rows      []models.SetLogRow
	err       error
	gotFocus  string
	gotLimit  int
	gotSince  time.Time
	gotFilter string
}

func (f *fakeSource) QuerySetLogs(_ context.Context, focus string, limit int) ([]models.SetLogRow, error) {
	f.gotFocus, f.gotLimit = focus, limit
	return f.rows, f.err
}

func (f *fakeSource) RecentSetLogs(_ context.Context, since time.Time) ([]models.SetLogRow, error) {
	f.gotSince = since
	var out []models.SetLogRow
	for _, r := range f.rows {
		if !r.LoggedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, f.err
}

func (f *fakeSource) GetLogStats(_ context.Context, since time.Time, exercise string) (*models.LogStats, error) {
	f.gotSince, f.gotFilter = since, exercise
	if f.err != nil {
		return nil, f.err
	}
	return models.SummarizeSetLogs(f.rows, since, exercise), nil
}

func squatRows() []models.SetLogRow {
	w, rir := 100.0, 4
	return []models.SetLogRow{{
		ID:       1,
		Name:     "Back Squat",
		Reps:     5,
		WeightKg: &w,
		RIR:      &rir,
		Focus:    "lower",
		Source:   models.SourceManual,
		LoggedAt: testNow.Add(-48 * time.Hour),
	}}
}

func newHandlers(t *testing.T, ds *fakeSource) *handlers {
	t.Helper()
	log := testhelpers.NewLogger(t)
	svc := plans.NewService(planner.New(nil, planner.Options{}), ds, log, plans.WithClock(func() time.Time { return testNow }))
	return &handlers{svc: svc, ds: ds, log: log, now: func() time.Time { return testNow }}
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return text.Text
}

// TestParseSorenessTool returns severities, groups and the maximum.
func TestParseSorenessTool(t *testing.T) {
	h := newHandlers(t, &fakeSource{})
	res, err := h.parseSoreness(context.Background(), callRequest("parse_soreness", map[string]any{"text": "shoulders 4, slightly sore quads"}))
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Soreness map[string]int `json:"soreness"`
		Max      int            `json:"max"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if got.Soreness["shoulders"] != 4 || got.Max != 4 {
		t.Errorf("unexpected result %+v", got)
	}

	res, _ = h.parseSoreness(context.Background(), callRequest("parse_soreness", nil))
	if !res.IsError {
		t.Error("expected error without text")
	}
}

// TestBuildWorkoutPlanTool uses stored history and reports its source.
func TestBuildWorkoutPlanTool(t *testing.T) {
	h := newHandlers(t, &fakeSource{rows: squatRows()})
	res, err := h.buildWorkoutPlan(context.Background(), callRequest("build_workout_plan", map[string]any{
		"focus":     "lower",
		"equipment": "gym",
	}))
	if err != nil {
		t.Fatal(err)
	}
	var got plans.WorkoutResult
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if got.HistorySource != plans.HistoryFromStore {
		t.Errorf("history source = %q, want store", got.HistorySource)
	}
	if got.Plan.Exercises[0].Variant != "Back Squat" || got.Plan.Exercises[0].WeightDelta <= 0 {
		t.Errorf("expected squat progression, got %+v", got.Plan.Exercises[0])
	}

	res, _ = h.buildWorkoutPlan(context.Background(), callRequest("build_workout_plan", map[string]any{
		"focus":       "lower",
		"use_db_logs": false,
	}))
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if got.HistorySource != plans.HistoryNone {
		t.Errorf("history source = %q with use_db_logs=false", got.HistorySource)
	}
}

// TestBuildWorkoutPlanToolValidation reports invalid input as a tool error.
func TestBuildWorkoutPlanToolValidation(t *testing.T) {
	h := newHandlers(t, &fakeSource{})
	res, err := h.buildWorkoutPlan(context.Background(), callRequest("build_workout_plan", map[string]any{"focus": "legs"}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError || !strings.Contains(resultText(t, res), "focus") {
		t.Errorf("expected focus validation error, got %q", resultText(t, res))
	}
}

// TestBuildWeekPlanTool builds a week from a numeric argument.
func TestBuildWeekPlanTool(t *testing.T) {
	h := newHandlers(t, &fakeSource{})
	res, err := h.buildWeekPlan(context.Background(), callRequest("build_week_plan", map[string]any{
		"days_per_week": float64(3),
		"equipment":     "none",
	}))
	if err != nil {
		t.Fatal(err)
	}
	var got plans.WeekResult
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Plan.Days) != 3 || got.Plan.Equipment != planner.EquipmentNone {
		t.Errorf("unexpected week %+v", got.Plan)
	}

	res, _ = h.buildWeekPlan(context.Background(), callRequest("build_week_plan", map[string]any{"days_per_week": float64(9)}))
	if !res.IsError {
		t.Error("expected error for 9 days")
	}
}

// TestGetSetLogsTool covers the limit query, the since query and store errors.
func TestGetSetLogsTool(t *testing.T) {
	ds := &fakeSource{rows: squatRows()}
	h := newHandlers(t, ds)

	res, err := h.getSetLogs(context.Background(), callRequest("get_set_logs", map[string]any{"focus": "lower"}))
	if err != nil {
		t.Fatal(err)
	}
	var got []models.SetLogRow
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || ds.gotFocus != "lower" || ds.gotLimit != 50 {
		t.Errorf("got %d rows, focus %q, limit %d", len(got), ds.gotFocus, ds.gotLimit)
	}

	res, _ = h.getSetLogs(context.Background(), callRequest("get_set_logs", map[string]any{"since": "2026-03-09"}))
	if text := resultText(t, res); text != "[]" {
		t.Errorf("since after last set: got %s, want []", text)
	}

	res, _ = h.getSetLogs(context.Background(), callRequest("get_set_logs", map[string]any{"since": "yesterday"}))
	if !res.IsError {
		t.Error("expected error for bad date")
	}

	ds.err = errors.New("db down")
	res, _ = h.getSetLogs(context.Background(), callRequest("get_set_logs", nil))
	if !res.IsError {
		t.Error("expected error when the store fails")
	}
}

// TestGetLogStatsTool checks the 90-day default window and exercise filter.
func TestGetLogStatsTool(t *testing.T) {
	ds := &fakeSource{rows: squatRows()}
	h := newHandlers(t, ds)

	res, err := h.getLogStats(context.Background(), callRequest("get_log_stats", map[string]any{"exercise": "squat"}))
	if err != nil {
		t.Fatal(err)
	}
	if want := testNow.AddDate(0, 0, -90); !ds.gotSince.Equal(want) {
		t.Errorf("since = %v, want %v", ds.gotSince, want)
	}
	if ds.gotFilter != "squat" {
		t.Errorf("exercise filter = %q", ds.gotFilter)
	}
	var stats models.LogStats
	if err := json.Unmarshal([]byte(resultText(t, res)), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalSets != 1 {
		t.Errorf("total sets = %d, want 1", stats.TotalSets)
	}
}

// TestResources reads the catalog and recent logs.
func TestResources(t *testing.T) {
	h := newHandlers(t, &fakeSource{rows: squatRows()})

	var req mcp.ReadResourceRequest
	req.Params.URI = "gymgpt://catalog"
	contents, err := h.catalog(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text := contents[0].(mcp.TextResourceContents).Text
	if !strings.Contains(text, "Back Squat") {
		t.Errorf("catalog resource missing exercises: %.200s", text)
	}

	req.Params.URI = "gymgpt://recent_logs"
	contents, err = h.recentLogs(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	var rows []models.SetLogRow
	if err := json.Unmarshal([]byte(contents[0].(mcp.TextResourceContents).Text), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("got %d recent rows, want 1", len(rows))
	}
}

// TestParseFlexTime accepts RFC 3339 and plain dates.
func TestParseFlexTime(t *testing.T) {
	tm, err := parseFlexTime("2024-06-15T10:30:00Z")
	if err != nil || tm.Hour() != 10 || tm.Minute() != 30 {
		t.Errorf("RFC3339: %v, %v", tm, err)
	}
	tm, err = parseFlexTime("2024-01-31")
	if err != nil || tm.Day() != 31 {
		t.Errorf("date: %v, %v", tm, err)
	}
	if _, err := parseFlexTime("not-a-date"); err == nil {
		t.Error("expected error for invalid date")
	}
}

// TestHTTPClient checks query parameters, the API key header and decoding.
func TestHTTPClient(t *testing.T) {
	var gotPaths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.RequestURI())
		if r.Header.Get("X-API-Key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/logs":
			_ = json.NewEncoder(w).Encode(squatRows())
		case "/api/v1/logs/stats":
			_ = json.NewEncoder(w).Encode(models.LogStats{TotalSets: 7})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", "secret")
	ctx := context.Background()

	rows, err := c.QuerySetLogs(ctx, "lower", 10)
	if err != nil || len(rows) != 1 || rows[0].Name != "Back Squat" {
		t.Fatalf("QuerySetLogs = %+v, %v", rows, err)
	}
	if _, err := c.RecentSetLogs(ctx, testNow); err != nil {
		t.Fatalf("RecentSetLogs: %v", err)
	}
	stats, err := c.GetLogStats(ctx, testNow, "bench")
	if err != nil || stats.TotalSets != 7 {
		t.Fatalf("GetLogStats = %+v, %v", stats, err)
	}

	want := []string{
		"/api/v1/logs?focus=lower&limit=10",
		"/api/v1/logs?since=2026-03-10T12%3A00%3A00Z",
		"/api/v1/logs/stats?exercise=bench&since=2026-03-10T12%3A00%3A00Z",
	}
	if diff := cmp.Diff(want, gotPaths); diff != "" {
		t.Errorf("request paths (-want +got):\n%s", diff)
	}

	if _, err := NewHTTPClient(srv.URL, "wrong").QuerySetLogs(ctx, "", 0); err == nil {
		t.Error("expected error on 401")
	}
}
