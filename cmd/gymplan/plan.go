package main

import (
	"context"
	"strings"

	"github.com/claude/gymgpt/internal/plans"
	"github.com/claude/gymgpt/internal/soreness"
	"github.com/spf13/cobra"
)

var (
	planFocus     string
	planEquipment string
	planSoreness  string
	planNoHistory bool
	weekDays      int
)

var workoutCmd = &cobra.Command{
	Use:   "workout",
	Short: "Build one session adapted to soreness, equipment and logged sets",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, store, err := newService(newLogger())
		if err != nil {
			return err
		}
		defer store.Close()

		useDB := !planNoHistory
		res, err := svc.Workout(context.Background(), plans.WorkoutRequest{
			Focus:        planFocus,
			Equipment:    planEquipment,
			SorenessText: planSoreness,
			UseDBLogs:    &useDB,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), res)
		}
		printSoreness(cmd.OutOrStdout(), res.Soreness)
		printWorkout(cmd.OutOrStdout(), res.Plan)
		return nil
	},
}

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Build a training week split across 2 to 7 days",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, store, err := newService(newLogger())
		if err != nil {
			return err
		}
		defer store.Close()

		useDB := !planNoHistory
		res, err := svc.Week(context.Background(), plans.WeekRequest{
			DaysPerWeek:  weekDays,
			Equipment:    planEquipment,
			SorenessText: planSoreness,
			UseDBLogs:    &useDB,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), res)
		}
		printSoreness(cmd.OutOrStdout(), res.Soreness)
		printWeek(cmd.OutOrStdout(), res.Plan)
		return nil
	},
}

var sorenessCmd = &cobra.Command{
	Use:   "soreness <text>",
	Short: "Show how a soreness note is read",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if len(text) > plans.MaxSorenessText {
			return &plans.ValidationError{Field: "text", Message: "soreness note is too long"}
		}
		report := soreness.Parse(text)
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), report)
		}
		printSoreness(cmd.OutOrStdout(), report)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{workoutCmd, weekCmd} {
		c.Flags().StringVarP(&planEquipment, "equipment", "e", "gym", "gym, dumbbells or none")
		c.Flags().StringVarP(&planSoreness, "soreness", "s", "", `free-text soreness note, e.g. "shoulders 4, legs a bit sore"`)
		c.Flags().BoolVar(&planNoHistory, "no-history", false, "ignore logged sets")
	}
	workoutCmd.Flags().StringVarP(&planFocus, "focus", "f", "", "upper, lower or full")
	workoutCmd.MarkFlagRequired("focus")
	weekCmd.Flags().IntVarP(&weekDays, "days", "d", 3, "training days per week (2-7)")

	rootCmd.AddCommand(workoutCmd, weekCmd, sorenessCmd)
}
