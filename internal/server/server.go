package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/gymgpt/internal/coach"
	"github.com/claude/gymgpt/internal/ingest"
	"github.com/claude/gymgpt/internal/ingest/alpha"
	"github.com/claude/gymgpt/internal/models"
	"github.com/claude/gymgpt/internal/planner"
	"github.com/claude/gymgpt/internal/plans"
	"github.com/claude/gymgpt/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Store is the persistence the HTTP API needs. *storage.DB implements it.
type Store interface {
	InsertSetLog(ctx context.Context, row models.SetLogRow) (int64, error)
	InsertSetLogs(ctx context.Context, rows []models.SetLogRow) (int64, error)
	QuerySetLogs(ctx context.Context, focus string, limit int) ([]models.SetLogRow, error)
	RecentSetLogs(ctx context.Context, since time.Time) ([]models.SetLogRow, error)
	GetLogStats(ctx context.Context, since time.Time, exercise string) (*models.LogStats, error)
	GetTrainingVolume(ctx context.Context, since time.Time, bucket string) ([]storage.VolumePeriod, error)
	ListPlans(ctx context.Context, limit, offset int) ([]models.PlanSummary, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*models.PlanRow, error)
	InsertImportLog(ctx context.Context, log storage.ImportLog) (int64, error)
	UpdateImportLog(ctx context.Context, id int64, log storage.ImportLog) error
	QueryImportLogs(ctx context.Context, limit int) ([]storage.ImportLog, error)
}

var _ Store = (*storage.DB)(nil)

// Coach is the language-model side of the API. *coach.Client implements it.
type Coach interface {
	Explain(ctx context.Context, plan any) (string, error)
	Reply(ctx context.Context, message string, recent []models.SetLogRow) (string, error)
	Generate(ctx context.Context, req coach.GenerateRequest, catalog *planner.Catalog) (*planner.WorkoutPlan, error)
}

var _ Coach = (*coach.Client)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     Store
	plans  *plans.Service
	alpha  *alpha.Provider
	coach  Coach
	mcp    http.Handler
	log    *slog.Logger
	apiKey string
	now    func() time.Time
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithCoach enables the language-model endpoints.
func WithCoach(c Coach) Option {
	return func(s *Server) { s.coach = c }
}

// WithAPIKey requires X-API-Key on write endpoints.
func WithAPIKey(key string) Option {
	return func(s *Server) { s.apiKey = key }
}

// WithMCP mounts an MCP handler at /mcp.
func WithMCP(h http.Handler) Option {
	return func(s *Server) { s.mcp = h }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates a new Server with all routes configured.
func New(db Store, svc *plans.Service, log *slog.Logger, opts ...Option) *Server {
	s := &Server{
		db:     db,
		plans:  svc,
		alpha:  alpha.NewProvider(ingest.SetWriterFunc(db.InsertSetLogs), log, false),
		log:    log,
		now:    time.Now,
		router: chi.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestID)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Post("/soreness", s.handleSoreness)
		r.Get("/plans", s.handleListPlans)
		r.Get("/plans/{id}", s.handleGetPlan)
		r.Get("/logs", s.handleListLogs)
		r.Get("/logs/stats", s.handleLogStats)
		r.Get("/logs/volume", s.handleLogVolume)
		r.Get("/imports", s.handleImportLogs)

		// Write and model endpoints (API key required when configured)
		r.Group(func(r chi.Router) {
			r.Use(s.requireKey)
			r.Post("/plans/workout", s.handleWorkoutPlan)
			r.Post("/plans/week", s.handleWeekPlan)
			r.Post("/plans/generate", s.handleGeneratePlan)
			r.Post("/plans/explain", s.handleExplainPlan)
			r.Post("/coach", s.handleCoach)
			r.Post("/logs", s.handleAddLog)
			r.Post("/logs/batch", s.handleAddLogs)
			r.Post("/logs/import", s.handleAlphaImport)
		})
	})

	if s.mcp != nil {
		s.router.With(s.requireKey).Handle("/mcp", s.mcp)
	}
}

func (s *Server) requireKey(next http.Handler) http.Handler {
	if s.apiKey == "" {
		return next
	}
	return APIKeyAuth(s.apiKey)(next)
}
