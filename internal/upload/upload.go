package upload

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claude/gymgpt/internal/models"
)

// DefaultBatchSize is the number of sets sent per request.
const DefaultBatchSize = 500

// Source is the local log the uploader drains. *localstore.Store implements it.
type Source interface {
	Unsynced(ctx context.Context, limit int) ([]models.SetLogRow, error)
	MarkSynced(ctx context.Context, ids []int64) error
}

// Sender delivers a batch of sets. *Client implements it.
type Sender interface {
	SendSetLogs(ctx context.Context, rows []models.SetLogRow) (int64, error)
}

// Stats tracks upload progress.
type Stats struct {
	Batches  int
	SetsSent int
	Inserted int64
	// Duplicates were already on the server.
	Duplicates int64
}

// Uploader sends unsynced local sets to the server in batches and marks them
// synced once the server has accepted them.
type Uploader struct {
	source    Source
	sender    Sender
	batchSize int
	dryRun    bool
	log       *slog.Logger
}

// New creates a new Uploader. batchSize <= 0 uses DefaultBatchSize.
func New(source Source, sender Sender, batchSize int, dryRun bool, log *slog.Logger) *Uploader {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Uploader{source: source, sender: sender, batchSize: batchSize, dryRun: dryRun, log: log}
}

// Run uploads until no unsynced sets remain. In dry-run mode it reports the
// first batch and sends nothing.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	for {
		rows, err := u.source.Unsynced(ctx, u.batchSize)
		if err != nil {
			return stats, fmt.Errorf("reading unsynced sets: %w", err)
		}
		if len(rows) == 0 {
			return stats, nil
		}
		if u.dryRun {
			u.log.Info("dry run: would upload", "sets", len(rows))
			stats.SetsSent += len(rows)
			return stats, nil
		}

		inserted, err := u.sender.SendSetLogs(ctx, rows)
		if err != nil {
			return stats, fmt.Errorf("uploading batch %d: %w", stats.Batches+1, err)
		}

		ids := make([]int64, len(rows))
		for i, r := range rows {
			ids[i] = r.ID
		}
		if err := u.source.MarkSynced(ctx, ids); err != nil {
			return stats, fmt.Errorf("marking batch %d synced: %w", stats.Batches+1, err)
		}

		stats.Batches++
		stats.SetsSent += len(rows)
		stats.Inserted += inserted
		stats.Duplicates += int64(len(rows)) - inserted
		u.log.Info("batch uploaded", "batch", stats.Batches, "sets", len(rows), "inserted", inserted)
	}
}
