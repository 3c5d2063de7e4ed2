// Package planner builds rule-based workouts and training weeks from soreness,
// equipment and recent set history. It performs no I/O and keeps no state
// between calls.
package planner

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidInput marks a contract violation by the caller: an unknown enum or
// an out-of-range day count reaching the planner.
var ErrInvalidInput = errors.New("invalid input")

// Focus is the muscle-group emphasis of a session.
type Focus string

// Focus values.
const (
	FocusUpper Focus = "upper"
	FocusLower Focus = "lower"
	FocusFull  Focus = "full"
)

// ParseFocus accepts the canonical values plus "full_body".
func ParseFocus(s string) (Focus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "upper":
		return FocusUpper, nil
	case "lower":
		return FocusLower, nil
	case "full", "full_body":
		return FocusFull, nil
	}
	return "", fmt.Errorf("%w: focus %q", ErrInvalidInput, s)
}

// Valid reports whether f is one of the known focus values.
func (f Focus) Valid() bool {
	return f == FocusUpper || f == FocusLower || f == FocusFull
}

// Equipment is what the trainee has available.
type Equipment string

// Equipment values.
const (
	EquipmentGym       Equipment = "gym"
	EquipmentDumbbells Equipment = "dumbbells"
	EquipmentNone      Equipment = "none"
)

// ParseEquipment accepts the canonical values plus "full_gym" and "bodyweight".
// An empty string means gym.
func ParseEquipment(s string) (Equipment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gym", "full_gym":
		return EquipmentGym, nil
	case "dumbbells", "dumbbell":
		return EquipmentDumbbells, nil
	case "none", "bodyweight":
		return EquipmentNone, nil
	}
	return "", fmt.Errorf("%w: equipment %q", ErrInvalidInput, s)
}

// Valid reports whether e is one of the known equipment values.
func (e Equipment) Valid() bool {
	return e == EquipmentGym || e == EquipmentDumbbells || e == EquipmentNone
}

// SetRecord is one logged working set. WeightKg is nil for bodyweight work and
// RIR is nil when effort was not tracked.
type SetRecord struct {
	Reps      int        `json:"reps" yaml:"reps"`
	WeightKg  *float64   `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty"`
	RIR       *int       `json:"rir,omitempty" yaml:"rir,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// History maps an exercise name to its sets, most recent first.
type History map[string][]SetRecord

// PlannedExercise is one line of a workout.
type PlannedExercise struct {
	Name        string   `json:"name"`
	Variant     string   `json:"variant"`
	Muscles     []string `json:"muscles"`
	Sets        int      `json:"sets"`
	Reps        int      `json:"reps"`
	RepRange    string   `json:"rep_range"`
	WeightDelta float64  `json:"weight_delta"`
	Notes       []string `json:"notes,omitempty"`
}

// WorkoutPlan is a single session.
type WorkoutPlan struct {
	Day       int               `json:"day,omitempty"`
	Focus     Focus             `json:"focus"`
	Equipment Equipment         `json:"equipment"`
	Exercises []PlannedExercise `json:"exercises"`
	Notes     []string          `json:"notes,omitempty"`
}

// WeekPlan is one session per training day.
type WeekPlan struct {
	DaysPerWeek int           `json:"days_per_week"`
	Equipment   Equipment     `json:"equipment"`
	Split       []Focus       `json:"split"`
	Days        []WorkoutPlan `json:"days"`
}

// Ptr returns a pointer to v. Handy for SetRecord literals.
func Ptr[T any](v T) *T {
	return &v
}
