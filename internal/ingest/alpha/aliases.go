package alpha

import (
	"strings"

	"github.com/claude/gymgpt/internal/models"
)

// aliases maps Alpha Progression "name|equipment" pairs (lowercase) to the
// exercise names the planner looks up in history. Unlisted pairs keep the
// export's name.
var aliases = map[string]string{
	"bench press|barbell":              "Barbell Bench Press",
	"bench press|dumbbells":            "Dumbbell Bench Press",
	"squats|barbell":                   "Back Squat",
	"back squats|barbell":              "Back Squat",
	"goblet squats|dumbbells":          "Goblet Squat",
	"romanian deadlifts|barbell":       "Romanian Deadlift",
	"romanian deadlifts|dumbbells":     "Dumbbell Romanian Deadlift",
	"leg press|machine":                "Leg Press",
	"lying leg curls|machine":          "Leg Curl",
	"seated leg curls|machine":         "Leg Curl",
	"standing calf raises|machine":     "Standing Calf Raise",
	"bent over rows|barbell":           "Barbell Row",
	"one arm rows|dumbbells":           "One-Arm Dumbbell Row",
	"overhead press|barbell":           "Overhead Press",
	"shoulder press|dumbbells":         "Seated Dumbbell Shoulder Press",
	"lat pulldowns|cable":              "Lat Pulldown",
	"bicep curls|barbell":              "Barbell Curl",
	"bicep curls|dumbbells":            "Dumbbell Curl",
	"triceps pushdowns|cable":          "Triceps Pushdown",
	"push-ups|bodyweight":              "Push-Up",
	"reverse lunges|bodyweight":        "Reverse Lunge",
	"bulgarian split squats|dumbbells": "Dumbbell Split Squat",
}

// CanonicalName returns the planner name for an Alpha exercise.
func CanonicalName(name, equipment string) string {
	key := strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(equipment))
	if c, ok := aliases[key]; ok {
		return c
	}
	return name
}

// SetLogs converts every session's working sets to set-log rows under
// canonical exercise names.
func SetLogs(sessions []models.AlphaSession) []models.SetLogRow {
	var rows []models.SetLogRow
	for _, s := range sessions {
		equipment := make(map[string]string, len(s.Exercises))
		for _, ex := range s.Exercises {
			equipment[ex.Name] = ex.Equipment
		}
		for _, r := range s.SetLogs() {
			r.Name = CanonicalName(r.Name, equipment[r.Name])
			rows = append(rows, r)
		}
	}
	return rows
}
