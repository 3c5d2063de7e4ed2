package planner

// Adjustment is the overload decision for one exercise.
type Adjustment struct {
	WeightDelta float64 `json:"weight_delta"`
	RepTarget   int     `json:"rep_target"`
	Reason      string  `json:"reason,omitempty"`
}

// ComputeAdjustment decides the load change and rep target for the next
// session from the most recent set (history[0]) and the soreness severity
// of the muscles involved. Empty history yields a zero-delta baseline.
func (r Rules) ComputeAdjustment(spec ExerciseSpec, history []SetRecord, severity int) Adjustment {
	if len(history) == 0 || history[0].Reps <= 0 {
		return Adjustment{RepTarget: spec.DefaultReps, Reason: "no usable history, starting at baseline"}
	}

	last := history[0]
	rir := r.DefaultRIR
	if last.RIR != nil {
		rir = *last.RIR
	}
	loaded := last.WeightKg != nil && *last.WeightKg > 0 && spec.IncrementKg > 0

	var adj Adjustment
	if loaded {
		adj = r.loadedProgression(spec, last.Reps, rir)
	} else {
		adj = r.repProgression(last.Reps, rir)
	}

	if severity >= r.CapSeverity {
		if adj.WeightDelta > 0 {
			adj.WeightDelta = 0
		}
		ceiling := last.Reps
		if loaded && ceiling < spec.RepsMin {
			ceiling = spec.RepsMin
		}
		if adj.RepTarget > ceiling {
			adj.RepTarget = ceiling
		}
		adj.Reason = "soreness: progression held"
	}
	if severity >= r.SkipSeverity && loaded && adj.WeightDelta > -spec.IncrementKg {
		adj.WeightDelta = -spec.IncrementKg
		adj.Reason = "soreness: deload"
	}
	return adj
}

func (r Rules) loadedProgression(spec ExerciseSpec, reps, rir int) Adjustment {
	switch {
	case reps < spec.RepsMin:
		return Adjustment{WeightDelta: -spec.IncrementKg, RepTarget: spec.RepsMin, Reason: "missed the rep floor, deload"}
	case rir <= r.NearFailureRIR:
		return Adjustment{RepTarget: clamp(reps, spec.RepsMin, spec.RepsMax), Reason: "close to failure, hold"}
	case rir >= r.ProgressRIR && reps >= spec.RepsMax:
		return Adjustment{WeightDelta: spec.IncrementKg, RepTarget: spec.RepsMin, Reason: "top of range with reps in reserve, add load"}
	default:
		return Adjustment{RepTarget: clamp(reps+1, spec.RepsMin, spec.RepsMax), Reason: "build reps at this load"}
	}
}

func (r Rules) repProgression(reps, rir int) Adjustment {
	if rir >= r.ProgressRIR {
		return Adjustment{RepTarget: reps + r.BodyweightRepStep, Reason: "reps in reserve, add reps"}
	}
	return Adjustment{RepTarget: reps, Reason: "hold reps"}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
