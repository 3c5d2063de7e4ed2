package planner

import (
	"fmt"
	"os"

	"github.com/claude/gymgpt/internal/soreness"
	"gopkg.in/yaml.v3"
)

// ExerciseSpec holds the static defaults for one exercise.
type ExerciseSpec struct {
	Muscles     []string `yaml:"muscles" json:"muscles"`
	Sets        int      `yaml:"sets" json:"sets"`
	RepsMin     int      `yaml:"reps_min" json:"reps_min"`
	RepsMax     int      `yaml:"reps_max" json:"reps_max"`
	DefaultReps int      `yaml:"default_reps" json:"default_reps"`
	IncrementKg float64  `yaml:"increment_kg" json:"increment_kg"`
	Bodyweight  bool     `yaml:"bodyweight,omitempty" json:"bodyweight,omitempty"`
}

// Substitution maps a canonical exercise onto an equipment-appropriate
// variant, or drops it when nothing reasonable exists.
type Substitution struct {
	Variant string `yaml:"variant,omitempty" json:"variant,omitempty"`
	Drop    bool   `yaml:"drop,omitempty" json:"drop,omitempty"`
	Reason  string `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// Rules are the numeric thresholds used by the overload calculator and the
// soreness handling in the builders.
type Rules struct {
	// CapSeverity and above: no load increases, one fewer set.
	CapSeverity int `yaml:"cap_severity" json:"cap_severity"`
	// SkipSeverity and above: forced deload, gentler swap or omission.
	SkipSeverity   int `yaml:"skip_severity" json:"skip_severity"`
	ProgressRIR    int `yaml:"progress_rir" json:"progress_rir"`
	NearFailureRIR int `yaml:"near_failure_rir" json:"near_failure_rir"`
	// DefaultRIR is assumed when a set has no RIR recorded.
	DefaultRIR        int `yaml:"default_rir" json:"default_rir"`
	BodyweightRepStep int `yaml:"bodyweight_rep_step" json:"bodyweight_rep_step"`
}

// Catalog is the immutable configuration the planner adapts. Build it once at
// startup and share the pointer; nothing mutates it afterwards.
type Catalog struct {
	Templates     map[Focus][]string                     `yaml:"templates" json:"templates"`
	Exercises     map[string]ExerciseSpec                `yaml:"exercises" json:"exercises"`
	Substitutions map[Equipment]map[string]Substitution `yaml:"substitutions" json:"substitutions"`
	Gentler       map[string]string                      `yaml:"gentler" json:"gentler"`
	Backfill      map[Focus][]string                     `yaml:"backfill" json:"backfill"`
	Splits        map[int][]Focus                        `yaml:"splits" json:"splits"`
	Rules         Rules                                  `yaml:"rules" json:"rules"`
}

func lift(sets, repsMin, repsMax, def int, inc float64, muscles ...string) ExerciseSpec {
	return ExerciseSpec{Muscles: muscles, Sets: sets, RepsMin: repsMin, RepsMax: repsMax, DefaultReps: def, IncrementKg: inc}
}

func bodyweight(sets, repsMin, repsMax, def int, muscles ...string) ExerciseSpec {
	return ExerciseSpec{Muscles: muscles, Sets: sets, RepsMin: repsMin, RepsMax: repsMax, DefaultReps: def, Bodyweight: true}
}

// DefaultCatalog returns the built-in tables.
func DefaultCatalog() *Catalog {
	const (
		quads      = soreness.Quads
		hamstrings = soreness.Hamstrings
		glutes     = soreness.Glutes
		calves     = soreness.Calves
		chest      = soreness.Chest
		back       = soreness.Back
		lowerBack  = soreness.LowerBack
		shoulders  = soreness.Shoulders
		biceps     = soreness.Biceps
		triceps    = soreness.Triceps
		elbows     = soreness.Elbows
		knees      = soreness.Knees
		core       = soreness.Core
	)

	return &Catalog{
		Templates: map[Focus][]string{
			FocusUpper: {"Barbell Bench Press", "Barbell Row", "Overhead Press", "Lat Pulldown", "Barbell Curl", "Triceps Pushdown"},
			FocusLower: {"Back Squat", "Romanian Deadlift", "Leg Press", "Leg Curl", "Standing Calf Raise"},
			FocusFull:  {"Back Squat", "Barbell Bench Press", "Barbell Row", "Romanian Deadlift", "Overhead Press"},
		},
		Exercises: map[string]ExerciseSpec{
			// gym
			"Back Squat":          lift(4, 3, 5, 5, 2.5, quads, glutes, lowerBack, knees),
			"Romanian Deadlift":   lift(3, 6, 10, 8, 2.5, hamstrings, glutes, lowerBack),
			"Leg Press":           lift(3, 8, 12, 10, 5, quads, glutes, knees),
			"Leg Curl":            lift(3, 10, 15, 12, 2.5, hamstrings),
			"Standing Calf Raise": lift(3, 10, 15, 12, 2.5, calves),
			"Barbell Bench Press": lift(4, 5, 8, 6, 2.5, chest, shoulders, triceps),
			"Barbell Row":         lift(4, 6, 10, 8, 2.5, back, biceps, lowerBack),
			"Overhead Press":      lift(3, 5, 8, 6, 2.5, shoulders, triceps),
			"Lat Pulldown":        lift(3, 8, 12, 10, 2.5, back, biceps),
			"Barbell Curl":        lift(3, 8, 12, 10, 2.5, biceps, elbows),
			"Triceps Pushdown":    lift(3, 10, 15, 12, 2.5, triceps, elbows),

			// dumbbells
			"Dumbbell Bench Press":                lift(4, 6, 10, 8, 2, chest, shoulders, triceps),
			"One-Arm Dumbbell Row":                lift(4, 8, 12, 10, 2, back, biceps),
			"Seated Dumbbell Shoulder Press":      lift(3, 6, 10, 8, 2, shoulders, triceps),
			"Dumbbell Pullover":                   lift(3, 10, 12, 10, 2, back, chest),
			"Dumbbell Curl":                       lift(3, 8, 12, 10, 1, biceps, elbows),
			"Dumbbell Overhead Triceps Extension": lift(3, 10, 15, 12, 1, triceps, elbows),
			"Goblet Squat":                        lift(4, 8, 12, 10, 2, quads, glutes, knees),
			"Dumbbell Romanian Deadlift":          lift(3, 8, 12, 10, 2, hamstrings, glutes, lowerBack),
			"Dumbbell Split Squat":                lift(3, 8, 12, 10, 2, quads, glutes, knees),
			"Dumbbell Leg Curl":                   lift(3, 10, 15, 12, 1, hamstrings),
			"Dumbbell Calf Raise":                 lift(3, 12, 20, 15, 2, calves),

			// bodyweight
			"Push-Up":                      bodyweight(3, 8, 20, 12, chest, shoulders, triceps),
			"Inverted Row":                 bodyweight(3, 6, 15, 10, back, biceps),
			"Pike Push-Up":                 bodyweight(3, 6, 12, 8, shoulders, triceps),
			"Bench Dip":                    bodyweight(3, 8, 15, 12, triceps, shoulders, elbows),
			"Bodyweight Squat":             bodyweight(3, 15, 25, 20, quads, glutes, knees),
			"Single-Leg Romanian Deadlift": bodyweight(3, 10, 15, 12, hamstrings, glutes),
			"Reverse Lunge":                bodyweight(3, 10, 15, 12, quads, glutes, knees),
			"Sliding Leg Curl":             bodyweight(3, 8, 15, 10, hamstrings),
			"Single-Leg Calf Raise":        bodyweight(3, 12, 20, 15, calves),

			// gentler variants
			"Barbell Floor Press":          lift(4, 5, 8, 6, 2.5, chest, triceps),
			"Dumbbell Floor Press":         lift(4, 6, 10, 8, 2, chest, triceps),
			"Incline Push-Up":              bodyweight(3, 8, 20, 12, chest, triceps),
			"Box Squat":                    lift(4, 3, 5, 5, 2.5, quads, glutes),
			"Goblet Box Squat":             lift(3, 8, 12, 10, 2, quads, glutes),
			"Bodyweight Box Squat":         bodyweight(3, 12, 20, 15, quads, glutes),
			"Barbell Hip Thrust":           lift(3, 8, 12, 10, 5, glutes, hamstrings),
			"Dumbbell Hip Thrust":          lift(3, 10, 15, 12, 2, glutes, hamstrings),
			"Glute Bridge":                 bodyweight(3, 12, 20, 15, glutes, hamstrings),
			"Chest-Supported Row":          lift(3, 8, 12, 10, 2.5, back, biceps),
			"Chest-Supported Dumbbell Row": lift(3, 8, 12, 10, 2, back, biceps),

			// backfill
			"Dead Bug": bodyweight(3, 8, 12, 10, core),
			"Bird Dog": bodyweight(3, 8, 12, 10, core, glutes),
		},
		Substitutions: map[Equipment]map[string]Substitution{
			EquipmentDumbbells: {
				"Barbell Bench Press": {Variant: "Dumbbell Bench Press"},
				"Barbell Row":         {Variant: "One-Arm Dumbbell Row"},
				"Overhead Press":      {Variant: "Seated Dumbbell Shoulder Press"},
				"Lat Pulldown":        {Variant: "Dumbbell Pullover"},
				"Barbell Curl":        {Variant: "Dumbbell Curl"},
				"Triceps Pushdown":    {Variant: "Dumbbell Overhead Triceps Extension"},
				"Back Squat":          {Variant: "Goblet Squat"},
				"Romanian Deadlift":   {Variant: "Dumbbell Romanian Deadlift"},
				"Leg Press":           {Variant: "Dumbbell Split Squat"},
				"Leg Curl":            {Variant: "Dumbbell Leg Curl"},
				"Standing Calf Raise": {Variant: "Dumbbell Calf Raise"},
			},
			EquipmentNone: {
				"Barbell Bench Press": {Variant: "Push-Up"},
				"Barbell Row":         {Variant: "Inverted Row"},
				"Overhead Press":      {Variant: "Pike Push-Up"},
				"Lat Pulldown":        {Drop: true, Reason: "no vertical pull without a bar or cable"},
				"Barbell Curl":        {Drop: true, Reason: "no load for curls without equipment"},
				"Triceps Pushdown":    {Variant: "Bench Dip"},
				"Back Squat":          {Variant: "Bodyweight Squat"},
				"Romanian Deadlift":   {Variant: "Single-Leg Romanian Deadlift"},
				"Leg Press":           {Variant: "Reverse Lunge"},
				"Leg Curl":            {Variant: "Sliding Leg Curl"},
				"Standing Calf Raise": {Variant: "Single-Leg Calf Raise"},
			},
		},
		Gentler: map[string]string{
			"Barbell Bench Press":          "Barbell Floor Press",
			"Dumbbell Bench Press":         "Dumbbell Floor Press",
			"Push-Up":                      "Incline Push-Up",
			"Back Squat":                   "Box Squat",
			"Goblet Squat":                 "Goblet Box Squat",
			"Bodyweight Squat":             "Bodyweight Box Squat",
			"Romanian Deadlift":            "Barbell Hip Thrust",
			"Dumbbell Romanian Deadlift":   "Dumbbell Hip Thrust",
			"Single-Leg Romanian Deadlift": "Glute Bridge",
			"Barbell Row":                  "Chest-Supported Row",
			"One-Arm Dumbbell Row":         "Chest-Supported Dumbbell Row",
		},
		Backfill: map[Focus][]string{
			FocusUpper: {"Dead Bug", "Bird Dog"},
			FocusLower: {"Glute Bridge", "Dead Bug"},
			FocusFull:  {"Dead Bug", "Glute Bridge"},
		},
		Splits: map[int][]Focus{
			2: {FocusFull, FocusFull},
			3: {FocusFull, FocusFull, FocusFull},
			4: {FocusUpper, FocusLower, FocusUpper, FocusLower},
			5: {FocusUpper, FocusLower, FocusFull, FocusUpper, FocusLower},
			6: {FocusUpper, FocusLower, FocusFull, FocusUpper, FocusLower, FocusFull},
			7: {FocusUpper, FocusLower, FocusFull, FocusUpper, FocusLower, FocusFull, FocusUpper},
		},
		Rules: Rules{
			CapSeverity:       3,
			SkipSeverity:      4,
			ProgressRIR:       3,
			NearFailureRIR:    1,
			DefaultRIR:        2,
			BodyweightRepStep: 2,
		},
	}
}

// LoadCatalog reads a catalog from a YAML file and validates it.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	c := &Catalog{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("catalog validation: %w", err)
	}
	return c, nil
}

// Validate checks that every referenced exercise has a spec and that specs and
// splits are sane.
func (c *Catalog) Validate() error {
	for _, f := range []Focus{FocusUpper, FocusLower, FocusFull} {
		if len(c.Templates[f]) == 0 {
			return fmt.Errorf("template %q is empty", f)
		}
		for _, name := range c.Templates[f] {
			if _, ok := c.Exercises[name]; !ok {
				return fmt.Errorf("template %q: no spec for %q", f, name)
			}
		}
		for _, name := range c.Backfill[f] {
			if _, ok := c.Exercises[name]; !ok {
				return fmt.Errorf("backfill %q: no spec for %q", f, name)
			}
		}
	}
	for eq, subs := range c.Substitutions {
		if !eq.Valid() {
			return fmt.Errorf("substitutions: unknown equipment %q", eq)
		}
		for from, sub := range subs {
			if sub.Drop {
				continue
			}
			if _, ok := c.Exercises[sub.Variant]; !ok {
				return fmt.Errorf("substitution %s/%q: no spec for %q", eq, from, sub.Variant)
			}
		}
	}
	for from, to := range c.Gentler {
		if _, ok := c.Exercises[to]; !ok {
			return fmt.Errorf("gentler %q: no spec for %q", from, to)
		}
	}
	for name, spec := range c.Exercises {
		if err := spec.validate(); err != nil {
			return fmt.Errorf("exercise %q: %w", name, err)
		}
	}
	for days := MinDaysPerWeek; days <= MaxDaysPerWeek; days++ {
		split := c.Splits[days]
		if len(split) != days {
			return fmt.Errorf("split for %d days has %d entries", days, len(split))
		}
		for _, f := range split {
			if !f.Valid() {
				return fmt.Errorf("split for %d days: unknown focus %q", days, f)
			}
		}
	}
	if c.Rules.CapSeverity <= 0 || c.Rules.SkipSeverity < c.Rules.CapSeverity {
		return fmt.Errorf("rules: need 0 < cap_severity <= skip_severity")
	}
	return nil
}

func (s ExerciseSpec) validate() error {
	if len(s.Muscles) == 0 {
		return fmt.Errorf("no muscles")
	}
	for _, m := range s.Muscles {
		if !soreness.IsGroup(m) {
			return fmt.Errorf("unknown muscle group %q", m)
		}
	}
	if s.Sets < 1 {
		return fmt.Errorf("sets must be >= 1")
	}
	if s.RepsMin < 1 || s.RepsMax < s.RepsMin {
		return fmt.Errorf("bad rep range %d-%d", s.RepsMin, s.RepsMax)
	}
	if s.DefaultReps < s.RepsMin || s.DefaultReps > s.RepsMax {
		return fmt.Errorf("default reps %d outside %d-%d", s.DefaultReps, s.RepsMin, s.RepsMax)
	}
	if s.IncrementKg < 0 {
		return fmt.Errorf("negative increment")
	}
	return nil
}

// RepRange formats the range as "8-12", or "5" when min equals max.
func (s ExerciseSpec) RepRange() string {
	if s.RepsMin == s.RepsMax {
		return fmt.Sprintf("%d", s.RepsMin)
	}
	return fmt.Sprintf("%d-%d", s.RepsMin, s.RepsMax)
}
