package planner

import (
	"fmt"

	"github.com/claude/gymgpt/internal/soreness"
)

// Accepted training days per week.
const (
	MinDaysPerWeek = 2
	MaxDaysPerWeek = 7
)

// Split returns the focus for each training day.
func (c *Catalog) Split(days int) ([]Focus, error) {
	if days < MinDaysPerWeek || days > MaxDaysPerWeek {
		return nil, fmt.Errorf("%w: days_per_week must be %d-%d, got %d", ErrInvalidInput, MinDaysPerWeek, MaxDaysPerWeek, days)
	}
	split, ok := c.Splits[days]
	if !ok || len(split) != days {
		return nil, fmt.Errorf("%w: no split for %d days", ErrInvalidInput, days)
	}
	return append([]Focus(nil), split...), nil
}

// BuildWeekPlan builds one workout per training day. Every day is adapted to
// the same soreness report and history; soreness is not decayed across days.
func (p *Planner) BuildWeekPlan(days int, history History, report soreness.Report, eq Equipment) (WeekPlan, error) {
	split, err := p.catalog.Split(days)
	if err != nil {
		return WeekPlan{}, err
	}
	if !eq.Valid() {
		return WeekPlan{}, fmt.Errorf("%w: equipment %q", ErrInvalidInput, eq)
	}

	week := WeekPlan{
		DaysPerWeek: days,
		Equipment:   eq,
		Split:       split,
		Days:        make([]WorkoutPlan, 0, days),
	}
	for i, focus := range split {
		day, err := p.BuildWorkoutPlan(focus, history, report, eq)
		if err != nil {
			return WeekPlan{}, fmt.Errorf("building day %d: %w", i+1, err)
		}
		day.Day = i + 1
		week.Days = append(week.Days, day)
	}
	return week, nil
}
