// Package mcp exposes the planner and the training log as MCP tools and
// resources, served over streamable HTTP by the API server or over stdio by
// the CLI.
package mcp

import (
	"log/slog"
	"time"

	"github.com/claude/gymgpt/internal/plans"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const instructions = "GymGPT workout planner. Parse soreness notes, build adapted workouts and training weeks, " +
	"and read the set log (reps, weight, RIR) that drives progression."

// New creates an MCP server with all tools and resources registered.
func New(svc *plans.Service, ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("GymGPT", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions(instructions),
	)

	h := &handlers{svc: svc, ds: ds, log: log, now: time.Now}

	s.AddTools(
		server.ServerTool{Tool: toolParseSoreness, Handler: h.parseSoreness},
		server.ServerTool{Tool: toolBuildWorkoutPlan, Handler: h.buildWorkoutPlan},
		server.ServerTool{Tool: toolBuildWeekPlan, Handler: h.buildWeekPlan},
		server.ServerTool{Tool: toolGetSetLogs, Handler: h.getSetLogs},
		server.ServerTool{Tool: toolGetLogStats, Handler: h.getLogStats},
	)

	s.AddResources(
		server.ServerResource{Resource: resCatalog, Handler: h.catalog},
		server.ServerResource{Resource: resRecentLogs, Handler: h.recentLogs},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	svc *plans.Service
	ds  DataSource
	log *slog.Logger
	now func() time.Time
}

// --- Resource definitions ---

var resCatalog = mcp.NewResource(
	"gymgpt://catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("Session templates, exercise specs, equipment substitutions, weekly splits and progression rules"),
	mcp.WithMIMEType("application/json"),
)

var resRecentLogs = mcp.NewResource(
	"gymgpt://recent_logs",
	"Recent Set Logs",
	mcp.WithResourceDescription("Working sets logged in the last 14 days, newest first"),
	mcp.WithMIMEType("application/json"),
)
