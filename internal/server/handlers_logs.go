package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/claude/gymgpt/internal/ingest"
	"github.com/claude/gymgpt/internal/ingest/alpha"
	"github.com/claude/gymgpt/internal/models"
	"github.com/claude/gymgpt/internal/planner"
	"github.com/claude/gymgpt/internal/plans"
	"github.com/claude/gymgpt/internal/storage"
)

// maxBatch bounds POST /logs/batch.
const maxBatch = 5000

// maxImportBytes bounds Alpha Progression CSV uploads.
const maxImportBytes = 10 << 20

// normalizeSetLog validates an incoming set and fills source, focus and time
// defaults. field prefixes validation errors for batch items.
func (s *Server) normalizeSetLog(row models.SetLogRow, field string) (models.SetLogRow, error) {
	row.Name = strings.TrimSpace(row.Name)
	switch {
	case row.Name == "":
		return row, &plans.ValidationError{Field: field + "name", Message: "is required"}
	case row.Reps <= 0:
		return row, &plans.ValidationError{Field: field + "reps", Message: "must be positive"}
	case row.WeightKg != nil && *row.WeightKg < 0:
		return row, &plans.ValidationError{Field: field + "weight_kg", Message: "must not be negative"}
	case row.RIR != nil && (*row.RIR < 0 || *row.RIR > 10):
		return row, &plans.ValidationError{Field: field + "rir", Message: "must be between 0 and 10"}
	case row.SetNumber < 0:
		return row, &plans.ValidationError{Field: field + "set_number", Message: "must not be negative"}
	}
	if row.Focus != "" {
		focus, err := planner.ParseFocus(row.Focus)
		if err != nil {
			return row, &plans.ValidationError{Field: field + "focus", Message: "must be upper, lower or full"}
		}
		row.Focus = string(focus)
	}
	if row.Source == "" {
		row.Source = models.SourceManual
	}
	if row.LoggedAt.IsZero() {
		row.LoggedAt = s.now()
	}
	row.ID = 0
	return row, nil
}

func (s *Server) handleAddLog(w http.ResponseWriter, r *http.Request) {
	var row models.SetLogRow
	if !s.decode(w, r, &row) {
		return
	}
	row, err := s.normalizeSetLog(row, "")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := s.db.InsertSetLog(r.Context(), row)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	row.ID = id
	writeJSON(w, http.StatusCreated, row)
}

func (s *Server) handleAddLogs(w http.ResponseWriter, r *http.Request) {
	var rows []models.SetLogRow
	if !s.decode(w, r, &rows) {
		return
	}
	if len(rows) > maxBatch {
		s.writeError(w, r, &plans.ValidationError{Field: "body", Message: fmt.Sprintf("more than %d sets", maxBatch)})
		return
	}
	for i := range rows {
		row, err := s.normalizeSetLog(rows[i], fmt.Sprintf("[%d].", i))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		rows[i] = row
	}
	inserted, err := s.db.InsertSetLogs(r.Context(), rows)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{
		"received": int64(len(rows)),
		"inserted": inserted,
	})
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	var (
		rows []models.SetLogRow
		err  error
	)
	if r.URL.Query().Get("since") != "" {
		since, serr := s.querySince(r, 0)
		if serr != nil {
			s.writeError(w, r, serr)
			return
		}
		rows, err = s.db.RecentSetLogs(r.Context(), since)
	} else {
		rows, err = s.db.QuerySetLogs(r.Context(), r.URL.Query().Get("focus"), queryInt(r, "limit", 50, 1000))
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if rows == nil {
		rows = []models.SetLogRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleLogStats(w http.ResponseWriter, r *http.Request) {
	since, err := s.querySince(r, 90)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	stats, err := s.db.GetLogStats(r.Context(), since, r.URL.Query().Get("exercise"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleLogVolume(w http.ResponseWriter, r *http.Request) {
	since, err := s.querySince(r, 182)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	bucket := r.URL.Query().Get("bucket")
	switch bucket {
	case "", "week", "day", "month":
	default:
		s.writeError(w, r, &plans.ValidationError{Field: "bucket", Message: "must be day, week or month"})
		return
	}
	periods, err := s.db.GetTrainingVolume(r.Context(), since, bucket)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, periods)
}

func (s *Server) handleAlphaImport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result, err := s.alpha.Ingest(r.Context(), http.MaxBytesReader(w, r.Body, maxImportBytes))
	s.logImport(models.SourceAlpha, result, err, int(time.Since(start).Milliseconds()))
	var (
		lineErr *alpha.LineError
		sizeErr *http.MaxBytesError
	)
	switch {
	case errors.As(err, &lineErr), errors.As(err, &sizeErr):
		s.log.WarnContext(r.Context(), "alpha import rejected", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	case err != nil:
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.db.QueryImportLogs(r.Context(), queryInt(r, "limit", 50, 500))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// logImport records an import operation's result to the import_logs table.
func (s *Server) logImport(source string, result *ingest.Result, importErr error, durationMs int) {
	entry := storage.ImportLog{
		Source:     source,
		Status:     storage.ImportSuccess,
		DurationMs: &durationMs,
	}
	if result != nil {
		entry.SetsReceived = result.SetsReceived
		entry.SetsInserted = result.SetsInserted
	}
	if importErr != nil {
		entry.Status = storage.ImportError
		msg := importErr.Error()
		entry.ErrorMessage = &msg
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := s.db.InsertImportLog(ctx, entry); err != nil {
		s.log.Error("failed to log import", "source", source, "error", err)
	}
}
