package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/claude/gymgpt/internal/models"
	"github.com/claude/gymgpt/internal/plans"
	"github.com/claude/gymgpt/internal/soreness"
	"github.com/mark3labs/mcp-go/mcp"
)

// sinceParam parses a start date, defaulting to days before now.
func sinceParam(s string, now time.Time, days int) (time.Time, error) {
	if s == "" {
		return now.AddDate(0, 0, -days), nil
	}
	return parseFlexTime(s)
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolParseSoreness = mcp.NewTool("parse_soreness",
	mcp.WithDescription("Turn a free-text soreness note into per-muscle-group severities from 1 (barely) to 5 (very sore). Groups that are not mentioned are omitted."),
	mcp.WithString("text", mcp.Required(), mcp.Description("Soreness note, e.g. 'shoulders 4, slightly sore quads'")),
)

var toolBuildWorkoutPlan = mcp.NewTool("build_workout_plan",
	mcp.WithDescription("Build one adapted session: equipment substitutions, soreness-aware volume and load, and progressive overload from the set log."),
	mcp.WithString("focus", mcp.Required(), mcp.Description("Session focus"), mcp.Enum("upper", "lower", "full")),
	mcp.WithString("equipment", mcp.Description("Available equipment. Defaults to 'gym'."), mcp.Enum("gym", "dumbbells", "none")),
	mcp.WithString("soreness_text", mcp.Description("Free-text soreness note")),
	mcp.WithBoolean("use_db_logs", mcp.Description("Use the last 14 days of logged sets as history. Defaults to true."), mcp.DefaultBool(true)),
)

var toolBuildWeekPlan = mcp.NewTool("build_week_plan",
	mcp.WithDescription("Build a training week: a weekly split with one adapted session per training day, all from the same soreness and history snapshot."),
	mcp.WithNumber("days_per_week", mcp.Required(), mcp.Description("Training days, 2 to 7"), mcp.Min(2), mcp.Max(7)),
	mcp.WithString("equipment", mcp.Description("Available equipment. Defaults to 'gym'."), mcp.Enum("gym", "dumbbells", "none")),
	mcp.WithString("soreness_text", mcp.Description("Free-text soreness note")),
	mcp.WithBoolean("use_db_logs", mcp.Description("Use the last 14 days of logged sets as history. Defaults to true."), mcp.DefaultBool(true)),
)

var toolGetSetLogs = mcp.NewTool("get_set_logs",
	mcp.WithDescription("List logged working sets (exercise, reps, weight, RIR), newest first. With 'since', returns every set from that date on."),
	mcp.WithString("focus", mcp.Description("Only sets logged for this session focus"), mcp.Enum("upper", "lower", "full")),
	mcp.WithNumber("limit", mcp.Description("Maximum rows. Defaults to 50."), mcp.Min(1), mcp.Max(1000)),
	mcp.WithString("since", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD)")),
)

var toolGetLogStats = mcp.NewTool("get_log_stats",
	mcp.WithDescription("RIR distribution, failure rate, per-exercise summary with estimated 1RM, and session progression when an exercise is given."),
	mcp.WithString("since", mcp.Description("Start date. Defaults to 90 days ago.")),
	mcp.WithString("exercise", mcp.Description("Filter by exercise name (partial match). Adds session-by-session progression.")),
)

// --- Tool handlers ---

func (h *handlers) parseSoreness(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text parameter is required"), nil
	}
	report := soreness.Parse(text)

	result, err := mcp.NewToolResultJSON(map[string]any{
		"soreness": report,
		"groups":   report.Groups(),
		"max":      report.Max(report.Groups()...),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) buildWorkoutPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	focus, err := req.RequireString("focus")
	if err != nil {
		return mcp.NewToolResultError("focus parameter is required"), nil
	}
	useDB := req.GetBool("use_db_logs", true)

	res, err := h.svc.Workout(ctx, plans.WorkoutRequest{
		Focus:        focus,
		Equipment:    req.GetString("equipment", ""),
		SorenessText: req.GetString("soreness_text", ""),
		UseDBLogs:    &useDB,
	})
	if err != nil {
		return h.planError("build_workout_plan", err), nil
	}

	result, err := mcp.NewToolResultJSON(res)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) buildWeekPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days, err := req.RequireInt("days_per_week")
	if err != nil {
		return mcp.NewToolResultError("days_per_week parameter is required"), nil
	}
	useDB := req.GetBool("use_db_logs", true)

	res, err := h.svc.Week(ctx, plans.WeekRequest{
		DaysPerWeek:  days,
		Equipment:    req.GetString("equipment", ""),
		SorenessText: req.GetString("soreness_text", ""),
		UseDBLogs:    &useDB,
	})
	if err != nil {
		return h.planError("build_week_plan", err), nil
	}

	result, err := mcp.NewToolResultJSON(res)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) planError(tool string, err error) *mcp.CallToolResult {
	var verr *plans.ValidationError
	if errors.As(err, &verr) {
		return mcp.NewToolResultError("invalid request: " + verr.Error())
	}
	h.log.Error("mcp "+tool, "error", err)
	return mcp.NewToolResultError("planning failed: " + err.Error())
}

func (h *handlers) getSetLogs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		logs []models.SetLogRow
		err  error
	)
	if s := req.GetString("since", ""); s != "" {
		since, perr := parseFlexTime(s)
		if perr != nil {
			return mcp.NewToolResultError("invalid date format: " + perr.Error()), nil
		}
		logs, err = h.ds.RecentSetLogs(ctx, since)
	} else {
		logs, err = h.ds.QuerySetLogs(ctx, req.GetString("focus", ""), req.GetInt("limit", 50))
	}
	if err != nil {
		h.log.Error("mcp get_set_logs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if logs == nil {
		logs = []models.SetLogRow{}
	}

	result, err := mcp.NewToolResultJSON(logs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLogStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	since, err := sinceParam(req.GetString("since", ""), h.now(), 90)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	stats, err := h.ds.GetLogStats(ctx, since, req.GetString("exercise", ""))
	if err != nil {
		h.log.Error("mcp get_log_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
