package server

import (
	"net/http"
	"strings"

	"github.com/claude/gymgpt/internal/coach"
	"github.com/claude/gymgpt/internal/plans"
)

// coachWindowDays is how much of the log the coach sees.
const coachWindowDays = 14

type coachRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleCoach(w http.ResponseWriter, r *http.Request) {
	if s.coach == nil {
		s.writeError(w, r, coach.ErrNotConfigured)
		return
	}
	var req coachRequest
	if !s.decode(w, r, &req) {
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		s.writeError(w, r, &plans.ValidationError{Field: "message", Message: "is required"})
		return
	}

	recent, err := s.db.RecentSetLogs(r.Context(), s.now().AddDate(0, 0, -coachWindowDays))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	reply, err := s.coach.Reply(r.Context(), req.Message, recent)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
