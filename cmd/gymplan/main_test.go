package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/claude/gymgpt/internal/models"
	"github.com/claude/gymgpt/internal/planner"
	"github.com/claude/gymgpt/internal/plans"
	"github.com/claude/gymgpt/internal/soreness"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func init() {
	color.NoColor = true
}

// resetFlags puts every flag back to its default so runs do not leak into
// each other through the package-level flag variables.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// TestLoggedSetsDriveWorkout logs a strong squat set and expects the next
// lower session to add load.
func TestLoggedSetsDriveWorkout(t *testing.T) {
	db := filepath.Join(t.TempDir(), "gymgpt.db")

	out, err := run(t, "log", "add", "back squat", "--db", db, "-r", "5", "-w", "100", "--rir", "4", "-f", "lower")
	if err != nil {
		t.Fatalf("log add: %v", err)
	}
	if !strings.Contains(out, "Logged Back Squat: 5 x 100 kg @ RIR 4") {
		t.Errorf("unexpected log add output %q", out)
	}

	out, err = run(t, "log", "list", "--db", db, "--json")
	if err != nil {
		t.Fatalf("log list: %v", err)
	}
	var rows []models.SetLogRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decoding log list: %v\n%s", err, out)
	}
	if len(rows) != 1 || rows[0].Name != "Back Squat" || rows[0].Source != "cli" {
		t.Fatalf("unexpected rows %+v", rows)
	}

	out, err = run(t, "workout", "--db", db, "-f", "lower", "--json")
	if err != nil {
		t.Fatalf("workout: %v", err)
	}
	var res plans.WorkoutResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decoding workout: %v\n%s", err, out)
	}
	if res.HistorySource != plans.HistoryFromStore {
		t.Errorf("history source = %q, want store", res.HistorySource)
	}
	if len(res.Plan.Exercises) == 0 || res.Plan.Exercises[0].Variant != "Back Squat" {
		t.Fatalf("unexpected plan %+v", res.Plan.Exercises)
	}
	if got := res.Plan.Exercises[0].WeightDelta; got != 2.5 {
		t.Errorf("Back Squat weight delta = %v, want 2.5", got)
	}
}

// TestLogAddValidation rejects a negative RIR before touching the store.
func TestLogAddValidation(t *testing.T) {
	db := filepath.Join(t.TempDir(), "gymgpt.db")
	_, err := run(t, "log", "add", "Leg Curl", "--db", db, "-r", "12", "--rir", "11")
	if err == nil || !strings.Contains(err.Error(), "rir") {
		t.Errorf("got %v, want rir validation error", err)
	}
}

// TestSorenessCommand prints the parsed groups.
func TestSorenessCommand(t *testing.T) {
	out, err := run(t, "soreness", "shoulders", "4,", "knees", "2")
	if err != nil {
		t.Fatalf("soreness: %v", err)
	}
	if !strings.Contains(out, "Soreness: knees 2, shoulders 4") {
		t.Errorf("unexpected output %q", out)
	}
}

// TestPrintWorkout checks the text layout for swaps, deltas and notes.
func TestPrintWorkout(t *testing.T) {
	plan, err := planner.BuildWorkoutPlan(planner.FocusUpper, nil, soreness.Parse("shoulders 5"), planner.EquipmentDumbbells)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	printWorkout(&buf, plan)
	out := buf.String()

	for _, want := range []string{
		"UPPER body, dumbbells",
		"Dumbbell Floor Press (for Barbell Bench Press)",
		"! Seated Dumbbell Shoulder Press omitted",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// TestPrintWeekNumbersDays checks that every day gets a header.
func TestPrintWeekNumbersDays(t *testing.T) {
	week, err := planner.BuildWeekPlan(4, nil, nil, planner.EquipmentGym)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	printWeek(&buf, week)
	out := buf.String()
	if !strings.HasPrefix(out, "4-day week: upper / lower / upper / lower") {
		t.Errorf("unexpected week header:\n%s", out)
	}
	for _, want := range []string{"Day 1: UPPER", "Day 2: LOWER", "Day 3: UPPER", "Day 4: LOWER"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

// TestFormatSet covers loaded and bodyweight sets.
func TestFormatSet(t *testing.T) {
	tests := []struct {
		row  models.SetLogRow
		want string
	}{
		{models.SetLogRow{Name: "Back Squat", Reps: 5, WeightKg: planner.Ptr(102.5), RIR: planner.Ptr(2)}, "Back Squat: 5 x 102.5 kg @ RIR 2"},
		{models.SetLogRow{Name: "Push-Up", Reps: 15}, "Push-Up: 15 reps"},
		{models.SetLogRow{Name: "Push-Up", Reps: 15, WeightKg: planner.Ptr(0.0)}, "Push-Up: 15 reps"},
	}
	for _, tt := range tests {
		if got := formatSet(tt.row); got != tt.want {
			t.Errorf("formatSet = %q, want %q", got, tt.want)
		}
	}
}
