package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/gymgpt/internal/coach"
	"github.com/claude/gymgpt/internal/config"
	"github.com/claude/gymgpt/internal/logging"
	gymmcp "github.com/claude/gymgpt/internal/mcp"
	"github.com/claude/gymgpt/internal/planner"
	"github.com/claude/gymgpt/internal/plans"
	"github.com/claude/gymgpt/internal/server"
	"github.com/claude/gymgpt/internal/storage"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	log.Info("GymGPT starting", "version", Version)

	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	ctx := context.Background()
	db, err := storage.New(ctx, dsn, cfg.Database.MaxConns)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	catalog := planner.DefaultCatalog()
	if cfg.Planner.CatalogPath != "" {
		catalog, err = planner.LoadCatalog(cfg.Planner.CatalogPath)
		if err != nil {
			log.Error("failed to load catalog", "path", cfg.Planner.CatalogPath, "error", err)
			os.Exit(1)
		}
		log.Info("catalog loaded", "path", cfg.Planner.CatalogPath)
	}
	p := planner.New(catalog, planner.Options{Backfill: cfg.Planner.Backfill})

	svc := plans.NewService(p, db, log,
		plans.WithPlanStore(db),
		plans.WithWindow(cfg.Planner.HistoryWindow()),
	)

	opts := []server.Option{server.WithAPIKey(cfg.Auth.APIKey)}

	c, err := coach.New(coach.Config{
		APIKey:     cfg.LLM.APIKey,
		Model:      cfg.LLM.Model,
		BaseURL:    cfg.LLM.BaseURL,
		Timeout:    cfg.LLM.Timeout,
		MaxRetries: -1,
	}, log)
	switch {
	case errors.Is(err, coach.ErrNotConfigured):
		log.Info("no LLM API key: coach endpoints disabled")
	case err != nil:
		log.Error("failed to create coach", "error", err)
		os.Exit(1)
	default:
		opts = append(opts, server.WithCoach(c))
		log.Info("coach enabled", "model", cfg.LLM.Model)
	}

	mcpSrv := gymmcp.New(svc, db, Version, log)
	opts = append(opts, server.WithMCP(mcpserver.NewStreamableHTTPServer(mcpSrv)))

	srv := server.New(db, svc, log, opts...)
	if cfg.Auth.APIKey == "" {
		log.Warn("no API key configured: write endpoints are open")
	}

	var listener net.Listener
	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
			Logf:     func(format string, args ...any) { log.Debug(fmt.Sprintf(format, args...)) },
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr)
	}

	httpSrv := &http.Server{
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
