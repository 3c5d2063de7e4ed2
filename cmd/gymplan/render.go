package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/claude/gymgpt/internal/models"
	"github.com/claude/gymgpt/internal/planner"
	"github.com/claude/gymgpt/internal/soreness"
	"github.com/fatih/color"
)

var (
	headerText = color.New(color.FgCyan, color.Bold).SprintFunc()
	labelText  = color.New(color.FgYellow, color.Bold).SprintFunc()
	okText     = color.New(color.FgGreen, color.Bold).SprintFunc()
	warnText   = color.New(color.FgYellow).SprintFunc()
	errorText  = color.New(color.FgRed, color.Bold).SprintFunc()
	dimText    = color.New(color.Faint).SprintFunc()
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printMetric(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "  %s: %v\n", labelText(label), value)
}

func printSoreness(w io.Writer, r soreness.Report) {
	groups := r.Groups()
	if len(groups) == 0 {
		fmt.Fprintln(w, dimText("No soreness reported"))
		return
	}
	parts := make([]string, len(groups))
	for i, g := range groups {
		parts[i] = fmt.Sprintf("%s %d", strings.ReplaceAll(g, "_", " "), r[g])
	}
	fmt.Fprintf(w, "%s %s\n", labelText("Soreness:"), strings.Join(parts, ", "))
}

func printWorkout(w io.Writer, plan planner.WorkoutPlan) {
	title := fmt.Sprintf("%s body, %s", strings.ToUpper(string(plan.Focus)), plan.Equipment)
	if plan.Day > 0 {
		title = fmt.Sprintf("Day %d: %s", plan.Day, title)
	}
	fmt.Fprintln(w, headerText(title))

	for i, ex := range plan.Exercises {
		name := ex.Variant
		if ex.Variant != ex.Name {
			name += dimText(" (for " + ex.Name + ")")
		}
		fmt.Fprintf(w, "  %d. %s  %dx%d %s%s\n", i+1, name, ex.Sets, ex.Reps, dimText("["+ex.RepRange+"]"), formatDelta(ex.WeightDelta))
		for _, n := range ex.Notes {
			fmt.Fprintf(w, "     %s\n", dimText(n))
		}
	}
	for _, n := range plan.Notes {
		fmt.Fprintf(w, "  %s %s\n", warnText("!"), n)
	}
}

func formatDelta(d float64) string {
	switch {
	case d > 0:
		return "  " + okText(fmt.Sprintf("+%g kg", d))
	case d < 0:
		return "  " + warnText(fmt.Sprintf("%g kg", d))
	default:
		return ""
	}
}

func printWeek(w io.Writer, week planner.WeekPlan) {
	split := make([]string, len(week.Split))
	for i, f := range week.Split {
		split[i] = string(f)
	}
	fmt.Fprintf(w, "%s %s\n\n", labelText(fmt.Sprintf("%d-day week:", week.DaysPerWeek)), strings.Join(split, " / "))
	for i, day := range week.Days {
		if i > 0 {
			fmt.Fprintln(w)
		}
		printWorkout(w, day)
	}
}

func formatSet(r models.SetLogRow) string {
	var b strings.Builder
	b.WriteString(r.Name)
	if r.WeightKg != nil && *r.WeightKg > 0 {
		fmt.Fprintf(&b, ": %d x %g kg", r.Reps, *r.WeightKg)
	} else {
		fmt.Fprintf(&b, ": %d reps", r.Reps)
	}
	if r.RIR != nil {
		fmt.Fprintf(&b, " @ RIR %d", *r.RIR)
	}
	return b.String()
}

func printSetLogs(w io.Writer, rows []models.SetLogRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, dimText("No sets logged"))
		return
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %s  %s\n", dimText(r.LoggedAt.Local().Format("2006-01-02 15:04")), formatSet(r))
	}
}

func printStats(w io.Writer, s *models.LogStats, days int) {
	fmt.Fprintln(w, headerText(fmt.Sprintf("Last %d days", days)))
	printMetric(w, "Sets", s.TotalSets)
	printMetric(w, "Sets with RIR", s.TrackedSets)
	printMetric(w, "Failure rate", fmt.Sprintf("%.1f%%", s.FailureRatePct))

	if len(s.RIRDistribution) > 0 {
		fmt.Fprintln(w, labelText("RIR distribution:"))
		for _, b := range s.RIRDistribution {
			fmt.Fprintf(w, "    %-12s %4d  %5.1f%%\n", b.Band, b.Sets, b.Pct)
		}
	}
	if len(s.Exercises) > 0 {
		fmt.Fprintln(w, labelText("Exercises:"))
		for _, e := range s.Exercises {
			fmt.Fprintf(w, "    %-28s %3d sets  %8.1f kg  e1RM %.1f\n", e.Name, e.TotalSets, e.TonnageKg, e.BestE1RM)
		}
	}
	for _, p := range s.Progression {
		fmt.Fprintf(w, "    %s  max %g kg  e1RM %.1f  %d sets\n", p.Date, p.MaxWeight, p.BestE1RM, p.Sets)
	}
}

func printCatalog(w io.Writer, c *planner.Catalog) {
	for _, focus := range []planner.Focus{planner.FocusUpper, planner.FocusLower, planner.FocusFull} {
		fmt.Fprintln(w, headerText(strings.ToUpper(string(focus))))
		for _, name := range c.Templates[focus] {
			spec := c.Exercises[name]
			fmt.Fprintf(w, "  %-28s %dx%d %s  %s\n", name, spec.Sets, spec.DefaultReps,
				dimText("["+spec.RepRange()+"]"), strings.Join(spec.Muscles, ", "))
		}
	}
	days := make([]int, 0, len(c.Splits))
	for d := range c.Splits {
		days = append(days, d)
	}
	sort.Ints(days)
	fmt.Fprintln(w, headerText("SPLITS"))
	for _, d := range days {
		split := make([]string, len(c.Splits[d]))
		for i, f := range c.Splits[d] {
			split[i] = string(f)
		}
		fmt.Fprintf(w, "  %d days: %s\n", d, strings.Join(split, " / "))
	}
}
