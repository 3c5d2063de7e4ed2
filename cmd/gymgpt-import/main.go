package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/claude/gymgpt/internal/config"
	"github.com/claude/gymgpt/internal/ingest"
	"github.com/claude/gymgpt/internal/ingest/alpha"
	"github.com/claude/gymgpt/internal/logging"
	"github.com/claude/gymgpt/internal/storage"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	file := flag.String("file", "", "path to an Alpha Progression CSV export (required)")
	dryRun := flag.Bool("dry-run", false, "report counts without inserting into database")
	flag.Parse()

	if *file == "" {
		fmt.Fprintf(os.Stderr, "Usage: gymgpt-import -config config.yaml -file export.csv [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	f, err := os.Open(*file)
	if err != nil {
		log.Error("failed to open export", "path", *file, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()
	db, err := storage.New(ctx, dsn, cfg.Database.MaxConns)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if *dryRun {
		log.Info("DRY RUN mode: no sets will be written")
	}

	start := time.Now()
	provider := alpha.NewProvider(ingest.SetWriterFunc(db.InsertSetLogs), log, *dryRun)
	result, err := provider.Ingest(ctx, f)

	if !*dryRun {
		entry := storage.ImportLog{Source: "alpha_cli", Status: storage.ImportSuccess}
		ms := int(time.Since(start).Milliseconds())
		entry.DurationMs = &ms
		if err != nil {
			msg := err.Error()
			entry.Status = storage.ImportError
			entry.ErrorMessage = &msg
		} else {
			entry.SetsReceived = result.SetsReceived
			entry.SetsInserted = result.SetsInserted
		}
		if _, logErr := db.InsertImportLog(ctx, entry); logErr != nil {
			log.Warn("failed to record import", "error", logErr)
		}
	}

	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}

	log.Info("import stats",
		"sessions", result.Sessions,
		"sets_received", result.SetsReceived,
		"sets_inserted", result.SetsInserted,
		"sets_skipped", result.SetsSkipped,
		"warmups_skipped", result.Warmups,
	)
	log.Info("import complete")
}
