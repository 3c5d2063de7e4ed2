package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/gymgpt/internal/ingest"
)

// Provider imports Alpha Progression CSV exports as set logs.
type Provider struct {
	w      ingest.SetWriter
	log    *slog.Logger
	dryRun bool
}

// NewProvider creates a new Alpha Progression ingest provider. With dryRun the
// export is parsed and counted but nothing is written.
func NewProvider(w ingest.SetWriter, log *slog.Logger, dryRun bool) *Provider {
	return &Provider{w: w, log: log, dryRun: dryRun}
}

// Ingest parses a CSV export and stores its working sets.
func (p *Provider) Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	result := &ingest.Result{Sessions: len(sessions)}
	for _, s := range sessions {
		for _, ex := range s.Exercises {
			for _, set := range ex.Sets {
				if set.IsWarmup {
					result.Warmups++
				}
			}
		}
	}
	rows := SetLogs(sessions)
	result.SetsReceived = len(rows)

	if p.dryRun || len(rows) == 0 {
		result.Message = "nothing written"
		p.log.Info("alpha import parsed", "sessions", result.Sessions, "sets", result.SetsReceived, "dry_run", p.dryRun)
		return result, nil
	}

	inserted, err := p.w.WriteSetLogs(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("writing sets: %w", err)
	}
	result.SetsInserted = inserted
	result.SetsSkipped = int64(len(rows)) - inserted

	p.log.Info("alpha import complete",
		"sessions", result.Sessions,
		"sets_received", result.SetsReceived,
		"sets_inserted", result.SetsInserted,
		"sets_skipped", result.SetsSkipped,
	)
	return result, nil
}
