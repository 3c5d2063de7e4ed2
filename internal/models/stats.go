package models

import (
	"sort"
	"strings"
	"time"
)

// RIR bands, hardest first.
const (
	BandFailure     = "failure"
	BandNearFailure = "near_failure"
	BandModerate    = "moderate"
	BandEasy        = "easy"
	BandVeryEasy    = "very_easy"
	BandUntracked   = "untracked"
)

var bandOrder = []struct{ band, rirRange string }{
	{BandFailure, "0"},
	{BandNearFailure, "1"},
	{BandModerate, "2"},
	{BandEasy, "3"},
	{BandVeryEasy, ">3"},
	{BandUntracked, "untracked"},
}

// RIRBand holds the count and percentage of sets in a specific RIR range.
type RIRBand struct {
	Band     string  `json:"band"`
	RIRRange string  `json:"rir_range"`
	Sets     int     `json:"sets"`
	Pct      float64 `json:"pct"`
}

// ExerciseSummary holds aggregated stats for a single exercise.
type ExerciseSummary struct {
	Name      string   `json:"name"`
	TotalSets int      `json:"total_sets"`
	TotalReps int      `json:"total_reps"`
	TonnageKg float64  `json:"tonnage_kg"`
	MaxWeight float64  `json:"max_weight_kg"`
	BestE1RM  float64  `json:"best_e1rm_kg"`
	AvgRIR    *float64 `json:"avg_rir,omitempty"`
}

// ExerciseProgression holds one day's data for a specific exercise.
type ExerciseProgression struct {
	Date      string   `json:"date"`
	MaxWeight float64  `json:"max_weight_kg"`
	TonnageKg float64  `json:"tonnage_kg"`
	BestE1RM  float64  `json:"best_e1rm_kg"`
	Sets      int      `json:"sets"`
	AvgRIR    *float64 `json:"avg_rir,omitempty"`
}

// LogStats is the effort and volume analysis over a window of set logs.
type LogStats struct {
	Since           time.Time             `json:"since"`
	RIRDistribution []RIRBand             `json:"rir_distribution"`
	FailureRatePct  float64               `json:"failure_rate_pct"`
	TotalSets       int                   `json:"total_sets"`
	TrackedSets     int                   `json:"tracked_sets"`
	Exercises       []ExerciseSummary     `json:"exercises"`
	Progression     []ExerciseProgression `json:"progression,omitempty"`
}

// EstimatedOneRepMax is the Epley estimate weight * (1 + reps/30).
func EstimatedOneRepMax(weightKg float64, reps int) float64 {
	if weightKg <= 0 || reps <= 0 {
		return 0
	}
	if reps == 1 {
		return weightKg
	}
	return weightKg * (1 + float64(reps)/30)
}

// RIRBandFor classifies a set's RIR; nil is untracked.
func RIRBandFor(rir *int) string {
	switch {
	case rir == nil:
		return BandUntracked
	case *rir <= 0:
		return BandFailure
	case *rir == 1:
		return BandNearFailure
	case *rir == 2:
		return BandModerate
	case *rir == 3:
		return BandEasy
	default:
		return BandVeryEasy
	}
}

// Finish fills totals, percentages and the failure rate from the band counts.
func (s *LogStats) Finish() {
	var failures int
	for _, b := range s.RIRDistribution {
		s.TotalSets += b.Sets
		if b.Band != BandUntracked {
			s.TrackedSets += b.Sets
		}
		if b.Band == BandFailure || b.Band == BandNearFailure {
			failures += b.Sets
		}
	}
	for i := range s.RIRDistribution {
		if s.TotalSets > 0 {
			s.RIRDistribution[i].Pct = float64(s.RIRDistribution[i].Sets) / float64(s.TotalSets) * 100
		}
	}
	if s.TrackedSets > 0 {
		s.FailureRatePct = float64(failures) / float64(s.TrackedSets) * 100
	}
}

type rirAcc struct {
	sum float64
	n   int
}

func (a *rirAcc) add(rir *int) {
	if rir != nil {
		a.sum += float64(*rir)
		a.n++
	}
}

func (a rirAcc) avg() *float64 {
	if a.n == 0 {
		return nil
	}
	v := a.sum / float64(a.n)
	return &v
}

// SummarizeSetLogs computes LogStats in memory, matching the SQL version in
// the Postgres store. Rows before since are ignored; exercise filters the
// progression by case-insensitive substring.
func SummarizeSetLogs(rows []SetLogRow, since time.Time, exercise string) *LogStats {
	stats := &LogStats{Since: since, RIRDistribution: []RIRBand{}, Exercises: []ExerciseSummary{}}
	bandCounts := make(map[string]int)
	byName := make(map[string]*ExerciseSummary)
	nameRIR := make(map[string]*rirAcc)
	byDay := make(map[string]*ExerciseProgression)
	dayRIR := make(map[string]*rirAcc)
	filter := strings.ToLower(exercise)

	for _, r := range rows {
		if r.LoggedAt.Before(since) {
			continue
		}
		bandCounts[RIRBandFor(r.RIR)]++

		var w float64
		if r.WeightKg != nil {
			w = *r.WeightKg
		}
		e1rm := EstimatedOneRepMax(w, r.Reps)

		ex, ok := byName[r.Name]
		if !ok {
			ex = &ExerciseSummary{Name: r.Name}
			byName[r.Name] = ex
			nameRIR[r.Name] = &rirAcc{}
		}
		ex.TotalSets++
		ex.TotalReps += r.Reps
		ex.TonnageKg += w * float64(r.Reps)
		ex.MaxWeight = max(ex.MaxWeight, w)
		ex.BestE1RM = max(ex.BestE1RM, e1rm)
		nameRIR[r.Name].add(r.RIR)

		if filter != "" && strings.Contains(strings.ToLower(r.Name), filter) {
			day := r.LoggedAt.Format("2006-01-02")
			p, ok := byDay[day]
			if !ok {
				p = &ExerciseProgression{Date: day}
				byDay[day] = p
				dayRIR[day] = &rirAcc{}
			}
			p.Sets++
			p.TonnageKg += w * float64(r.Reps)
			p.MaxWeight = max(p.MaxWeight, w)
			p.BestE1RM = max(p.BestE1RM, e1rm)
			dayRIR[day].add(r.RIR)
		}
	}

	for _, b := range bandOrder {
		if n := bandCounts[b.band]; n > 0 {
			stats.RIRDistribution = append(stats.RIRDistribution, RIRBand{Band: b.band, RIRRange: b.rirRange, Sets: n})
		}
	}
	stats.Finish()

	for name, ex := range byName {
		ex.AvgRIR = nameRIR[name].avg()
		stats.Exercises = append(stats.Exercises, *ex)
	}
	sort.Slice(stats.Exercises, func(i, j int) bool {
		a, b := stats.Exercises[i], stats.Exercises[j]
		if a.TonnageKg != b.TonnageKg {
			return a.TonnageKg > b.TonnageKg
		}
		return a.Name < b.Name
	})

	for day, p := range byDay {
		p.AvgRIR = dayRIR[day].avg()
		stats.Progression = append(stats.Progression, *p)
	}
	sort.Slice(stats.Progression, func(i, j int) bool {
		return stats.Progression[i].Date < stats.Progression[j].Date
	})
	return stats
}
