package server

import (
	"fmt"
	"net/http"

	"github.com/claude/gymgpt/internal/coach"
	"github.com/claude/gymgpt/internal/plans"
	"github.com/claude/gymgpt/internal/soreness"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleWorkoutPlan(w http.ResponseWriter, r *http.Request) {
	var req plans.WorkoutRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.plans.Workout(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePlan(w, res.PlanID, res)
}

func (s *Server) handleWeekPlan(w http.ResponseWriter, r *http.Request) {
	var req plans.WeekRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.plans.Week(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePlan(w, res.PlanID, res)
}

// writePlan answers 201 with Location and X-Plan-ID for saved plans, 200 otherwise.
func (s *Server) writePlan(w http.ResponseWriter, id *uuid.UUID, body any) {
	if id == nil {
		writeJSON(w, http.StatusOK, body)
		return
	}
	w.Header().Set("Location", "/api/v1/plans/"+id.String())
	w.Header().Set("X-Plan-ID", id.String())
	writeJSON(w, http.StatusCreated, body)
}

func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	if s.coach == nil {
		s.writeError(w, r, coach.ErrNotConfigured)
		return
	}
	var req plans.WorkoutRequest
	if !s.decode(w, r, &req) {
		return
	}
	focus, eq, err := req.Validate()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Save && !s.plans.CanSave() {
		s.writeError(w, r, plans.ErrNoPlanStore)
		return
	}

	history, source, err := s.plans.ResolveHistory(r.Context(), req.LastLog, req.UseStoredHistory())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	report := soreness.Parse(req.SorenessText)

	plan, err := s.coach.Generate(r.Context(), coach.GenerateRequest{
		Focus:     focus,
		Equipment: eq,
		Soreness:  report,
		History:   history,
	}, s.plans.Planner().Catalog())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res := plans.WorkoutResult{Soreness: report, HistorySource: source, Plan: *plan}
	if req.Save {
		id, err := s.plans.SaveGenerated(r.Context(), fmt.Sprintf("%s workout (%s, generated)", focus, eq), req, plan)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		res.PlanID = &id
	}
	s.writePlan(w, res.PlanID, res)
}

type explainRequest struct {
	Plan any `json:"plan"`
}

func (s *Server) handleExplainPlan(w http.ResponseWriter, r *http.Request) {
	if s.coach == nil {
		s.writeError(w, r, coach.ErrNotConfigured)
		return
	}
	var req explainRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Plan == nil {
		s.writeError(w, r, &plans.ValidationError{Field: "plan", Message: "is required"})
		return
	}
	text, err := s.coach.Explain(r.Context(), req.Plan)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"explanation": text})
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20, 200)
	offset := queryInt(r, "offset", 0, 1<<20)
	list, err := s.db.ListPlans(r.Context(), limit, offset)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan ID"})
		return
	}
	plan, err := s.db.GetPlan(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
