package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/claude/gymgpt/internal/ingest"
	"github.com/claude/gymgpt/internal/ingest/alpha"
	"github.com/claude/gymgpt/internal/upload"
	"github.com/spf13/cobra"
)

var (
	importDryRun bool
	serverURL    string
	apiKey       string
	pushBatch    int
	pushDryRun   bool
)

var importCmd = &cobra.Command{
	Use:   "import <alpha-export.csv>",
	Short: "Import an Alpha Progression CSV export into the local log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening export: %w", err)
		}
		defer f.Close()

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		provider := alpha.NewProvider(ingest.SetWriterFunc(store.AddSetLogs), newLogger(), importDryRun)
		res, err := provider.Ingest(context.Background(), f)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), res)
		}
		printMetric(cmd.OutOrStdout(), "Sessions", res.Sessions)
		printMetric(cmd.OutOrStdout(), "Working sets", res.SetsReceived)
		printMetric(cmd.OutOrStdout(), "Warm-ups skipped", res.Warmups)
		if importDryRun {
			fmt.Fprintln(cmd.OutOrStdout(), warnText("Dry run: nothing written"))
			return nil
		}
		printMetric(cmd.OutOrStdout(), "Inserted", res.SetsInserted)
		printMetric(cmd.OutOrStdout(), "Already logged", res.SetsSkipped)
		return nil
	},
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Send sets not yet pushed to a gymgpt server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serverURL == "" && !pushDryRun {
			return fmt.Errorf("--server is required (or use --dry-run)")
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		u := upload.New(store, upload.NewClient(serverURL, apiKey), pushBatch, pushDryRun, newLogger())
		stats, err := u.Run(ctx)
		if stats != nil {
			if jsonOutput {
				if perr := printJSON(cmd.OutOrStdout(), stats); perr != nil {
					return perr
				}
			} else {
				printMetric(cmd.OutOrStdout(), "Batches", stats.Batches)
				printMetric(cmd.OutOrStdout(), "Sets sent", stats.SetsSent)
				printMetric(cmd.OutOrStdout(), "Inserted", stats.Inserted)
				printMetric(cmd.OutOrStdout(), "Already on server", stats.Duplicates)
			}
		}
		return err
	},
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "parse and count without writing")

	pushCmd.Flags().StringVar(&serverURL, "server", os.Getenv("GYMGPT_SERVER"), "gymgpt server URL")
	pushCmd.Flags().StringVar(&apiKey, "api-key", os.Getenv("GYMGPT_API_KEY"), "server API key")
	pushCmd.Flags().IntVar(&pushBatch, "batch-size", upload.DefaultBatchSize, "sets per request")
	pushCmd.Flags().BoolVar(&pushDryRun, "dry-run", false, "count pending sets without sending")

	rootCmd.AddCommand(importCmd, pushCmd)
}
