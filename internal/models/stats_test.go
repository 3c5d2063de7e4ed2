package models

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func ptr[T any](v T) *T { return &v }

// TestEstimatedOneRepMax checks the Epley formula and its guards.
func TestEstimatedOneRepMax(t *testing.T) {
	tests := []struct {
		weight float64
		reps   int
		want   float64
	}{
		{100, 1, 100},
		{100, 5, 116.66666666666667},
		{60, 10, 80},
		{0, 10, 0},
		{100, 0, 0},
	}
	for _, tt := range tests {
		got := EstimatedOneRepMax(tt.weight, tt.reps)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("EstimatedOneRepMax(%v, %d) = %v, want %v", tt.weight, tt.reps, got, tt.want)
		}
	}
}

// TestRIRBandFor maps each RIR value to its band.
func TestRIRBandFor(t *testing.T) {
	tests := []struct {
		rir  *int
		want string
	}{
		{nil, BandUntracked},
		{ptr(-2), BandFailure},
		{ptr(0), BandFailure},
		{ptr(1), BandNearFailure},
		{ptr(2), BandModerate},
		{ptr(3), BandEasy},
		{ptr(5), BandVeryEasy},
	}
	for _, tt := range tests {
		if got := RIRBandFor(tt.rir); got != tt.want {
			t.Errorf("RIRBandFor(%v) = %q, want %q", tt.rir, got, tt.want)
		}
	}
}

// TestSummarizeSetLogs covers bands, failure rate, per-exercise totals and progression.
func TestSummarizeSetLogs(t *testing.T) {
	day1 := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	day2 := day1.Add(48 * time.Hour)
	since := day1.Add(-time.Hour)
	rows := []SetLogRow{
		{Name: "Back Squat", Reps: 5, WeightKg: ptr(100.0), RIR: ptr(2), LoggedAt: day2},
		{Name: "Back Squat", Reps: 5, WeightKg: ptr(100.0), RIR: ptr(1), LoggedAt: day2},
		{Name: "Back Squat", Reps: 5, WeightKg: ptr(97.5), RIR: ptr(0), LoggedAt: day1},
		{Name: "Push-Up", Reps: 15, LoggedAt: day1},
		{Name: "Back Squat", Reps: 5, WeightKg: ptr(200.0), RIR: ptr(3), LoggedAt: since.Add(-time.Hour)},
	}

	got := SummarizeSetLogs(rows, since, "squat")

	want := &LogStats{
		Since: since,
		RIRDistribution: []RIRBand{
			{Band: BandFailure, RIRRange: "0", Sets: 1, Pct: 25},
			{Band: BandNearFailure, RIRRange: "1", Sets: 1, Pct: 25},
			{Band: BandModerate, RIRRange: "2", Sets: 1, Pct: 25},
			{Band: BandUntracked, RIRRange: "untracked", Sets: 1, Pct: 25},
		},
		FailureRatePct: 200.0 / 3,
		TotalSets:      4,
		TrackedSets:    3,
		Exercises: []ExerciseSummary{
			{Name: "Back Squat", TotalSets: 3, TotalReps: 15, TonnageKg: 1487.5, MaxWeight: 100, BestE1RM: EstimatedOneRepMax(100, 5), AvgRIR: ptr(1.0)},
			{Name: "Push-Up", TotalSets: 1, TotalReps: 15},
		},
		Progression: []ExerciseProgression{
			{Date: "2026-03-02", MaxWeight: 97.5, TonnageKg: 487.5, BestE1RM: EstimatedOneRepMax(97.5, 5), Sets: 1, AvgRIR: ptr(0.0)},
			{Date: "2026-03-04", MaxWeight: 100, TonnageKg: 1000, BestE1RM: EstimatedOneRepMax(100, 5), Sets: 2, AvgRIR: ptr(1.5)},
		},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("SummarizeSetLogs mismatch (-want +got):\n%s", diff)
	}
}

// TestSummarizeSetLogsEmpty returns empty slices, not nil, so JSON stays [].
func TestSummarizeSetLogsEmpty(t *testing.T) {
	got := SummarizeSetLogs(nil, time.Time{}, "")
	if got.RIRDistribution == nil || got.Exercises == nil {
		t.Errorf("expected empty slices, got %+v", got)
	}
	if got.Progression != nil {
		t.Errorf("progression should be omitted without a filter, got %v", got.Progression)
	}
}
