package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/gymgpt/internal/models"
	"github.com/claude/gymgpt/internal/planner"
	"github.com/claude/gymgpt/internal/plans"
	"github.com/spf13/cobra"
)

var (
	logReps      int
	logWeight    float64
	logRIR       int
	logSetNumber int
	logFocus     string
	logAt        string
	listLimit    int
	statsDays    int
	statsName    string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record and list performed sets",
}

var logAddCmd = &cobra.Command{
	Use:   "add <exercise>",
	Short: "Record one performed set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPlanner()
		if err != nil {
			return err
		}
		row, err := setFromFlags(cmd, matchExercise(p.Catalog(), args[0]), time.Now())
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.AddSetLog(context.Background(), row)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", okText("Logged"), formatSet(row), dimText(fmt.Sprintf("#%d", id)))
		return nil
	},
}

// setFromFlags validates the log add flags the same way the server validates
// POST /api/v1/logs.
func setFromFlags(cmd *cobra.Command, name string, now time.Time) (models.SetLogRow, error) {
	row := models.SetLogRow{
		Name:      name,
		SetNumber: logSetNumber,
		Reps:      logReps,
		Source:    models.SourceCLI,
		LoggedAt:  now,
	}
	if row.Name == "" {
		return row, &plans.ValidationError{Field: "name", Message: "is required"}
	}
	if logReps <= 0 {
		return row, &plans.ValidationError{Field: "reps", Message: "must be positive"}
	}
	if cmd.Flags().Changed("weight") {
		if logWeight < 0 {
			return row, &plans.ValidationError{Field: "weight", Message: "must not be negative"}
		}
		row.WeightKg = &logWeight
	}
	if cmd.Flags().Changed("rir") {
		if logRIR < 0 || logRIR > 10 {
			return row, &plans.ValidationError{Field: "rir", Message: "must be between 0 and 10"}
		}
		row.RIR = &logRIR
	}
	if logFocus != "" {
		f, err := planner.ParseFocus(logFocus)
		if err != nil {
			return row, &plans.ValidationError{Field: "focus", Message: "must be upper, lower or full"}
		}
		row.Focus = string(f)
	}
	if logAt != "" {
		t, err := time.ParseInLocation("2006-01-02 15:04", logAt, time.Local)
		if err != nil {
			return row, &plans.ValidationError{Field: "at", Message: `use "YYYY-MM-DD HH:MM"`}
		}
		row.LoggedAt = t
	}
	return row, nil
}

// matchExercise returns the catalog spelling of name when it differs only in
// case, so logged sets line up with plan history lookups.
func matchExercise(c *planner.Catalog, name string) string {
	name = strings.TrimSpace(name)
	if _, ok := c.Exercises[name]; ok {
		return name
	}
	for known := range c.Exercises {
		if strings.EqualFold(known, name) {
			return known
		}
	}
	return name
}

var logListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sets, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		rows, err := store.QuerySetLogs(context.Background(), logFocus, listLimit)
		if err != nil {
			return err
		}
		if jsonOutput {
			if rows == nil {
				rows = []models.SetLogRow{}
			}
			return printJSON(cmd.OutOrStdout(), rows)
		}
		printSetLogs(cmd.OutOrStdout(), rows)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise effort and volume over recent sets",
	RunE: func(cmd *cobra.Command, args []string) error {
		if statsDays < 1 {
			return &plans.ValidationError{Field: "days", Message: "must be positive"}
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		since := time.Now().AddDate(0, 0, -statsDays)
		stats, err := store.GetLogStats(context.Background(), since, statsName)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), stats)
		}
		printStats(cmd.OutOrStdout(), stats, statsDays)
		return nil
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the exercise templates and their defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPlanner()
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), p.Catalog())
		}
		printCatalog(cmd.OutOrStdout(), p.Catalog())
		return nil
	},
}

func init() {
	logAddCmd.Flags().IntVarP(&logReps, "reps", "r", 0, "reps performed")
	logAddCmd.Flags().Float64VarP(&logWeight, "weight", "w", 0, "load in kg (omit for bodyweight)")
	logAddCmd.Flags().IntVar(&logRIR, "rir", 0, "reps in reserve (0-10)")
	logAddCmd.Flags().IntVarP(&logSetNumber, "set", "n", 0, "set number within the exercise")
	logAddCmd.Flags().StringVarP(&logFocus, "focus", "f", "", "session focus (upper, lower, full)")
	logAddCmd.Flags().StringVar(&logAt, "at", "", `when the set was done, "YYYY-MM-DD HH:MM" (default now)`)
	logAddCmd.MarkFlagRequired("reps")

	logListCmd.Flags().StringVarP(&logFocus, "focus", "f", "", "only sets logged with this focus")
	logListCmd.Flags().IntVarP(&listLimit, "limit", "l", 20, "maximum rows")

	statsCmd.Flags().IntVar(&statsDays, "days", 90, "window in days")
	statsCmd.Flags().StringVar(&statsName, "exercise", "", "add a per-day progression for this exercise")

	logCmd.AddCommand(logAddCmd, logListCmd)
	rootCmd.AddCommand(logCmd, statsCmd, catalogCmd)
}
