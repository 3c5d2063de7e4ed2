// Package ingest holds the shared contract for set-log importers.
package ingest

import (
	"context"

	"github.com/claude/gymgpt/internal/models"
)

// SetWriter stores imported sets and reports how many were new.
type SetWriter interface {
	WriteSetLogs(ctx context.Context, rows []models.SetLogRow) (int64, error)
}

// SetWriterFunc adapts a function to SetWriter.
type SetWriterFunc func(ctx context.Context, rows []models.SetLogRow) (int64, error)

// WriteSetLogs calls f.
func (f SetWriterFunc) WriteSetLogs(ctx context.Context, rows []models.SetLogRow) (int64, error) {
	return f(ctx, rows)
}

// Result holds the outcome of an ingest operation.
type Result struct {
	Sessions     int   `json:"sessions"`
	SetsReceived int   `json:"sets_received"`
	SetsInserted int64 `json:"sets_inserted"`
	SetsSkipped  int64 `json:"sets_skipped"`
	Warmups      int   `json:"warmups_skipped"`

	Message string `json:"message,omitempty"`
}
