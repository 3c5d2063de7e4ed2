package mcp

import (
	"context"
	"time"

	"github.com/claude/gymgpt/internal/models"
	"github.com/claude/gymgpt/internal/storage"
)

// DataSource abstracts the set log for MCP tools. *storage.DB (server),
// *localstore.Store (CLI) and HTTPClient (remote via REST API) satisfy it.
type DataSource interface {
	QuerySetLogs(ctx context.Context, focus string, limit int) ([]models.SetLogRow, error)
	RecentSetLogs(ctx context.Context, since time.Time) ([]models.SetLogRow, error)
	GetLogStats(ctx context.Context, since time.Time, exercise string) (*models.LogStats, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
