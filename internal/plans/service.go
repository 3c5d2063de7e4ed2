// Package plans resolves history for plan requests, runs the rule-based
// planner and optionally saves the result.
package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/gymgpt/internal/models"
	"github.com/claude/gymgpt/internal/planner"
	"github.com/claude/gymgpt/internal/soreness"
	"github.com/google/uuid"
)

// DefaultWindow is how far back stored set logs count as history.
const DefaultWindow = 14 * 24 * time.Hour

// ErrNoPlanStore is returned when a request asks to save but the service has
// no plan store.
var ErrNoPlanStore = errors.New("plan storage not configured")

// Where the history for a plan came from.
const (
	HistoryFromRequest = "request"
	HistoryFromStore   = "store"
	HistoryNone        = "none"
)

// HistoryStore supplies recent set logs, newest first.
type HistoryStore interface {
	RecentSetLogs(ctx context.Context, since time.Time) ([]models.SetLogRow, error)
}

// PlanStore persists generated plans.
type PlanStore interface {
	InsertPlan(ctx context.Context, row models.PlanRow) (uuid.UUID, error)
}

// Service builds plans for API, MCP and CLI callers.
type Service struct {
	planner *planner.Planner
	history HistoryStore
	plans   PlanStore
	log     *slog.Logger
	window  time.Duration
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithPlanStore enables saving plans.
func WithPlanStore(ps PlanStore) Option {
	return func(s *Service) { s.plans = ps }
}

// WithWindow sets the history window. Non-positive values keep the default.
func WithWindow(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service. history may be nil, in which case stored
// history is never consulted.
func NewService(p *planner.Planner, history HistoryStore, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		planner: p,
		history: history,
		log:     log,
		window:  DefaultWindow,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Planner returns the underlying planner.
func (s *Service) Planner() *planner.Planner {
	return s.planner
}

// CanSave reports whether plans can be persisted.
func (s *Service) CanSave() bool {
	return s.plans != nil
}

// WorkoutResult is the response to a workout request.
type WorkoutResult struct {
	PlanID        *uuid.UUID          `json:"plan_id,omitempty"`
	Soreness      soreness.Report     `json:"soreness"`
	HistorySource string              `json:"history_source"`
	Plan          planner.WorkoutPlan `json:"plan"`
}

// WeekResult is the response to a week request.
type WeekResult struct {
	PlanID        *uuid.UUID       `json:"plan_id,omitempty"`
	Soreness      soreness.Report  `json:"soreness"`
	HistorySource string           `json:"history_source"`
	Plan          planner.WeekPlan `json:"plan"`
}

// Workout validates req and builds a single session.
func (s *Service) Workout(ctx context.Context, req WorkoutRequest) (*WorkoutResult, error) {
	focus, eq, err := req.Validate()
	if err != nil {
		return nil, err
	}
	if req.Save && s.plans == nil {
		return nil, ErrNoPlanStore
	}

	history, source, err := s.ResolveHistory(ctx, req.LastLog, req.UseStoredHistory())
	if err != nil {
		return nil, err
	}
	report := soreness.Parse(req.SorenessText)

	plan, err := s.planner.BuildWorkoutPlan(focus, history, report, eq)
	if err != nil {
		return nil, fmt.Errorf("building workout plan: %w", err)
	}
	res := &WorkoutResult{Soreness: report, HistorySource: source, Plan: plan}

	s.log.InfoContext(ctx, "workout plan built",
		"focus", focus,
		"equipment", eq,
		"exercises", len(plan.Exercises),
		"omitted", len(plan.Notes),
		"history", source,
	)

	if req.Save {
		title := fmt.Sprintf("%s workout (%s)", focus, eq)
		id, err := s.save(ctx, title, models.PlanKindWorkout, req, plan)
		if err != nil {
			return nil, err
		}
		res.PlanID = &id
	}
	return res, nil
}

// Week validates req and builds one session per training day.
func (s *Service) Week(ctx context.Context, req WeekRequest) (*WeekResult, error) {
	eq, err := req.Validate()
	if err != nil {
		return nil, err
	}
	if req.Save && s.plans == nil {
		return nil, ErrNoPlanStore
	}

	history, source, err := s.ResolveHistory(ctx, req.LastLog, req.UseStoredHistory())
	if err != nil {
		return nil, err
	}
	report := soreness.Parse(req.SorenessText)

	plan, err := s.planner.BuildWeekPlan(req.DaysPerWeek, history, report, eq)
	if err != nil {
		return nil, fmt.Errorf("building week plan: %w", err)
	}
	res := &WeekResult{Soreness: report, HistorySource: source, Plan: plan}

	s.log.InfoContext(ctx, "week plan built",
		"days", req.DaysPerWeek,
		"equipment", eq,
		"history", source,
	)

	if req.Save {
		title := fmt.Sprintf("%d-day week (%s)", req.DaysPerWeek, eq)
		id, err := s.save(ctx, title, models.PlanKindWeek, req, plan)
		if err != nil {
			return nil, err
		}
		res.PlanID = &id
	}
	return res, nil
}

// SaveGenerated stores a plan produced outside the rule-based planner.
func (s *Service) SaveGenerated(ctx context.Context, title string, input, output any) (uuid.UUID, error) {
	if s.plans == nil {
		return uuid.Nil, ErrNoPlanStore
	}
	return s.save(ctx, title, models.PlanKindGenerated, input, output)
}

// ResolveHistory picks the history for a request: an explicit last log wins,
// then stored sets from the window when useDB is set, else nothing. An empty
// but non-nil last log means "no history" and skips the store.
func (s *Service) ResolveHistory(ctx context.Context, lastLog planner.History, useDB bool) (planner.History, string, error) {
	if lastLog != nil {
		return lastLog, HistoryFromRequest, nil
	}
	if !useDB || s.history == nil {
		return planner.History{}, HistoryNone, nil
	}
	rows, err := s.history.RecentSetLogs(ctx, s.now().Add(-s.window))
	if err != nil {
		return nil, "", fmt.Errorf("loading recent set logs: %w", err)
	}
	if len(rows) == 0 {
		return planner.History{}, HistoryNone, nil
	}
	return HistoryFromRows(rows), HistoryFromStore, nil
}

func (s *Service) save(ctx context.Context, title, kind string, input, output any) (uuid.UUID, error) {
	in, err := json.Marshal(input)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encoding plan input: %w", err)
	}
	out, err := json.Marshal(output)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encoding plan output: %w", err)
	}
	id, err := s.plans.InsertPlan(ctx, models.PlanRow{Title: title, Kind: kind, Input: in, Output: out})
	if err != nil {
		return uuid.Nil, fmt.Errorf("saving plan: %w", err)
	}
	s.log.InfoContext(ctx, "plan saved", "plan_id", id, "kind", kind)
	return id, nil
}

// HistoryFromRows groups set logs by exercise, keeping the input order within
// each exercise. Rows must already be newest first.
func HistoryFromRows(rows []models.SetLogRow) planner.History {
	h := make(planner.History)
	for _, r := range rows {
		loggedAt := r.LoggedAt
		h[r.Name] = append(h[r.Name], planner.SetRecord{
			Reps:      r.Reps,
			WeightKg:  r.WeightKg,
			RIR:       r.RIR,
			Timestamp: &loggedAt,
		})
	}
	return h
}
