package soreness

// Muscle groups recognised in soreness notes. Anything else is ignored.
const (
	Quads      = "quads"
	Hamstrings = "hamstrings"
	Glutes     = "glutes"
	Calves     = "calves"
	Chest      = "chest"
	Back       = "back"
	LowerBack  = "lower_back"
	Shoulders  = "shoulders"
	Biceps     = "biceps"
	Triceps    = "triceps"
	Elbows     = "elbows"
	Knees      = "knees"
	Core       = "core"
)

// Severity bounds.
const (
	MaxSeverity     = 5
	DefaultSeverity = 3
)

// Groups is the closed muscle-group vocabulary.
var Groups = []string{
	Quads, Hamstrings, Glutes, Calves, Chest, Back, LowerBack,
	Shoulders, Biceps, Triceps, Elbows, Knees, Core,
}

// IsGroup reports whether name belongs to the vocabulary.
func IsGroup(name string) bool {
	for _, g := range Groups {
		if g == name {
			return true
		}
	}
	return false
}

// Rules drives the parser. Synonyms maps a canonical group to the phrases that
// name it; a phrase may span several words ("lower back").
type Rules struct {
	Synonyms    map[string][]string
	Qualifiers  map[string]int
	Softeners   []string
	Intensifier []string
	// Units follow a number that is a load or a rep scheme, not a rating.
	Units []string
	// Connectors may sit between two groups that share a qualifier.
	Connectors []string
	// Window is how many tokens away a number or qualifier may sit.
	Window int
	// MaxRating is the largest number read as a rating; bigger ones are
	// loads or counts. Ratings above MaxSeverity are clamped.
	MaxRating int
}

// DefaultRules returns the built-in synonym and qualifier tables.
func DefaultRules() Rules {
	return Rules{
		Synonyms: map[string][]string{
			Quads:      {"quad", "quads", "quadricep", "quadriceps", "thigh", "thighs"},
			Hamstrings: {"hamstring", "hamstrings", "hammies", "hams"},
			Glutes:     {"glute", "glutes", "butt"},
			Calves:     {"calf", "calves"},
			Chest:      {"chest", "pec", "pecs"},
			Back:       {"back", "upper back", "lat", "lats"},
			LowerBack:  {"lower back", "lowerback", "low back", "lumbar"},
			Shoulders:  {"shoulder", "shoulders", "delt", "delts"},
			Biceps:     {"bicep", "biceps"},
			Triceps:    {"tricep", "triceps"},
			Elbows:     {"elbow", "elbows"},
			Knees:      {"knee", "knees"},
			Core:       {"core", "abs"},
		},
		Qualifiers: map[string]int{
			"sore":     3,
			"soreness": 3,
			"tight":    3,
			"stiff":    3,
			"achy":     3,
			"aching":   3,
			"tender":   3,
			"tired":    3,
			"fatigued": 3,
			"painful":  4,
			"pain":     4,
			"hurts":    4,
			"hurting":  4,
			"tweaked":  4,
			"injured":  4,
			"killing":  4,
		},
		Softeners:   []string{"slightly", "mild", "mildly", "bit", "little"},
		Intensifier: []string{"very", "really", "super", "extremely"},
		Units: []string{
			"x", "kg", "kgs", "kilo", "kilos", "lb", "lbs", "pound", "pounds",
			"rep", "reps", "set", "sets", "km", "mi", "min", "mins", "sec", "secs",
		},
		Connectors: []string{"and", "plus"},
		Window:     3,
		MaxRating:  10,
	}
}
