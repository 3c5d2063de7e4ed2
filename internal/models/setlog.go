package models

import "time"

// Set log sources.
const (
	SourceManual = "manual"
	SourceAlpha  = "alpha"
	SourceCLI    = "cli"
)

// SetLogRow is one logged working set as stored in the set_logs table.
// WeightKg is nil for bodyweight work; RIR is nil when effort was not tracked.
type SetLogRow struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	SetNumber int       `json:"set_number"`
	Reps      int       `json:"reps"`
	WeightKg  *float64  `json:"weight_kg,omitempty"`
	RIR       *int      `json:"rir,omitempty"`
	Focus     string    `json:"focus,omitempty"`
	Source    string    `json:"source"`
	LoggedAt  time.Time `json:"logged_at"`
}
