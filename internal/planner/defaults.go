package planner

import "github.com/claude/gymgpt/internal/soreness"

var defaultPlanner = New(DefaultCatalog(), Options{})

// BuildWorkoutPlan builds a session with the default catalog.
func BuildWorkoutPlan(focus Focus, history History, report soreness.Report, eq Equipment) (WorkoutPlan, error) {
	return defaultPlanner.BuildWorkoutPlan(focus, history, report, eq)
}

// BuildWeekPlan builds a week with the default catalog.
func BuildWeekPlan(days int, history History, report soreness.Report, eq Equipment) (WeekPlan, error) {
	return defaultPlanner.BuildWeekPlan(days, history, report, eq)
}

// ResolveExercise returns the equipment-appropriate name for a canonical
// exercise, or "" when it is dropped for that equipment.
func ResolveExercise(name string, eq Equipment) string {
	return defaultPlanner.catalog.Resolve(name, eq).Name
}
