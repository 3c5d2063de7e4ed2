package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/claude/gymgpt/internal/localstore"
	"github.com/claude/gymgpt/internal/logging"
	"github.com/claude/gymgpt/internal/planner"
	"github.com/claude/gymgpt/internal/plans"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	dbPath      string
	catalogPath string
	historyDays int
	backfill    bool
	jsonOutput  bool
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:           "gymplan",
	Short:         "Rule-based adaptive workout planner",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dbPath, "db", "", "local set-log database (default ~/.gymgpt/gymgpt.db)")
	pf.StringVar(&catalogPath, "catalog", "", "YAML exercise catalog (default built-in)")
	pf.IntVar(&historyDays, "history-days", 14, "days of logged sets used as history")
	pf.BoolVar(&backfill, "backfill", false, "fill omitted slots from the backfill pool")
	pf.BoolVar(&jsonOutput, "json", false, "print JSON instead of text")
	pf.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

// newLogger logs to stderr so stdout stays clean for plans and JSON.
func newLogger() *slog.Logger {
	return logging.New(os.Stderr, logLevel, "text")
}

func openStore() (*localstore.Store, error) {
	path := dbPath
	if path == "" {
		p, err := localstore.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return localstore.Open(path)
}

func newPlanner() (*planner.Planner, error) {
	catalog := planner.DefaultCatalog()
	if catalogPath != "" {
		c, err := planner.LoadCatalog(catalogPath)
		if err != nil {
			return nil, err
		}
		catalog = c
	}
	return planner.New(catalog, planner.Options{Backfill: backfill}), nil
}

// newService wires the planner to the local store. The caller closes the
// returned store.
func newService(log *slog.Logger) (*plans.Service, *localstore.Store, error) {
	if historyDays < 1 || historyDays > 365 {
		return nil, nil, fmt.Errorf("--history-days must be between 1 and 365")
	}
	p, err := newPlanner()
	if err != nil {
		return nil, nil, err
	}
	store, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	svc := plans.NewService(p, store, log, plans.WithWindow(time.Duration(historyDays)*24*time.Hour))
	return svc, store, nil
}
