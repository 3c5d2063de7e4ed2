package models

import (
	"math"
	"time"
)

// AlphaSession is one workout session from an Alpha Progression export.
type AlphaSession struct {
	Name      string
	Date      time.Time
	Duration  string
	Exercises []AlphaExercise
}

// AlphaExercise is one exercise block within a session.
type AlphaExercise struct {
	Number     int
	Name       string
	Equipment  string
	TargetReps int
	Sets       []AlphaSet
}

// AlphaSet is a single warm-up or working set. RIR -1 means not tracked.
type AlphaSet struct {
	Number           int
	WeightKg         float64
	IsBodyweightPlus bool
	Reps             int
	RIR              float64
	IsWarmup         bool
}

// Load returns the external load, or nil for plain bodyweight sets ("+0").
func (s AlphaSet) Load() *float64 {
	if s.WeightKg <= 0 {
		return nil
	}
	w := s.WeightKg
	return &w
}

// TrackedRIR rounds half-rep RIR values and maps the untracked sentinel to nil.
func (s AlphaSet) TrackedRIR() *int {
	if s.RIR < 0 {
		return nil
	}
	r := int(math.Round(s.RIR))
	return &r
}

// SetLogs converts the working sets of a session into set-log rows.
// Warm-ups are skipped.
func (s AlphaSession) SetLogs() []SetLogRow {
	var rows []SetLogRow
	for _, ex := range s.Exercises {
		for _, set := range ex.Sets {
			if set.IsWarmup {
				continue
			}
			rows = append(rows, SetLogRow{
				Name:      ex.Name,
				SetNumber: set.Number,
				Reps:      set.Reps,
				WeightKg:  set.Load(),
				RIR:       set.TrackedRIR(),
				Source:    SourceAlpha,
				LoggedAt:  s.Date,
			})
		}
	}
	return rows
}
