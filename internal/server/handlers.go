package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/gymgpt/internal/coach"
	"github.com/claude/gymgpt/internal/planner"
	"github.com/claude/gymgpt/internal/plans"
	"github.com/claude/gymgpt/internal/soreness"
	"github.com/claude/gymgpt/internal/storage"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.plans.Planner().Catalog())
}

type sorenessRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleSoreness(w http.ResponseWriter, r *http.Request) {
	var req sorenessRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Text) > plans.MaxSorenessText {
		s.writeError(w, r, &plans.ValidationError{Field: "text", Message: fmt.Sprintf("longer than %d characters", plans.MaxSorenessText)})
		return
	}
	report := soreness.Parse(req.Text)
	writeJSON(w, http.StatusOK, map[string]any{
		"soreness": report,
		"max":      report.Max(report.Groups()...),
	})
}

// decode reads a JSON body into v, answering 400 itself on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty body")
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

// writeError maps domain errors onto status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *plans.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, planner.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, coach.ErrNotConfigured), errors.Is(err, plans.ErrNoPlanStore):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	case errors.Is(err, coach.ErrInvalidPlan), errors.Is(err, coach.ErrEmptyResponse):
		s.log.WarnContext(r.Context(), "unusable model output", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		s.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// queryInt reads a positive integer parameter, falling back to def.
func queryInt(r *http.Request, name string, def, maxVal int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 0 {
		return def
	}
	return min(v, maxVal)
}

// querySince parses ?since= as RFC 3339 or YYYY-MM-DD, defaulting to days ago.
func (s *Server) querySince(r *http.Request, days int) (time.Time, error) {
	str := r.URL.Query().Get("since")
	if str == "" {
		return s.now().AddDate(0, 0, -days), nil
	}
	t, err := time.Parse(time.RFC3339, str)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", str)
	if err != nil {
		return time.Time{}, &plans.ValidationError{Field: "since", Message: "must be RFC 3339 or YYYY-MM-DD"}
	}
	return t, nil
}
