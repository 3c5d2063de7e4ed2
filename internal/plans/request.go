package plans

import (
	"fmt"
	"sort"

	"github.com/claude/gymgpt/internal/planner"
)

// MaxSorenessText bounds free-text soreness notes.
const MaxSorenessText = 2000

// ValidationError describes a request field the caller got wrong.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// WorkoutRequest asks for one session. Equipment defaults to gym and stored
// history is used unless UseDBLogs is false or LastLog is given.
type WorkoutRequest struct {
	Focus        string          `json:"focus"`
	Equipment    string          `json:"equipment,omitempty"`
	SorenessText string          `json:"soreness_text,omitempty"`
	LastLog      planner.History `json:"last_log,omitempty"`
	UseDBLogs    *bool           `json:"use_db_logs,omitempty"`
	Save         bool            `json:"save,omitempty"`
}

// WeekRequest asks for a full training week.
type WeekRequest struct {
	DaysPerWeek  int             `json:"days_per_week"`
	Equipment    string          `json:"equipment,omitempty"`
	SorenessText string          `json:"soreness_text,omitempty"`
	LastLog      planner.History `json:"last_log,omitempty"`
	UseDBLogs    *bool           `json:"use_db_logs,omitempty"`
	Save         bool            `json:"save,omitempty"`
}

// Validate checks the request and returns the parsed enums.
func (r WorkoutRequest) Validate() (planner.Focus, planner.Equipment, error) {
	focus, err := planner.ParseFocus(r.Focus)
	if err != nil {
		return "", "", &ValidationError{Field: "focus", Message: "must be upper, lower or full"}
	}
	eq, err := validateCommon(r.Equipment, r.SorenessText, r.LastLog)
	if err != nil {
		return "", "", err
	}
	return focus, eq, nil
}

// Validate checks the request and returns the parsed equipment.
func (r WeekRequest) Validate() (planner.Equipment, error) {
	if r.DaysPerWeek < planner.MinDaysPerWeek || r.DaysPerWeek > planner.MaxDaysPerWeek {
		return "", &ValidationError{
			Field:   "days_per_week",
			Message: fmt.Sprintf("must be between %d and %d", planner.MinDaysPerWeek, planner.MaxDaysPerWeek),
		}
	}
	return validateCommon(r.Equipment, r.SorenessText, r.LastLog)
}

// UseStoredHistory reports whether stored set logs may be used as history.
func (r WorkoutRequest) UseStoredHistory() bool { return r.UseDBLogs == nil || *r.UseDBLogs }

// UseStoredHistory reports whether stored set logs may be used as history.
func (r WeekRequest) UseStoredHistory() bool { return r.UseDBLogs == nil || *r.UseDBLogs }

func validateCommon(equipment, sorenessText string, lastLog planner.History) (planner.Equipment, error) {
	eq, err := planner.ParseEquipment(equipment)
	if err != nil {
		return "", &ValidationError{Field: "equipment", Message: "must be gym, dumbbells or none"}
	}
	if len(sorenessText) > MaxSorenessText {
		return "", &ValidationError{Field: "soreness_text", Message: fmt.Sprintf("longer than %d characters", MaxSorenessText)}
	}
	names := make([]string, 0, len(lastLog))
	for name := range lastLog {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sets := lastLog[name]
		field := "last_log." + name
		if name == "" {
			return "", &ValidationError{Field: "last_log", Message: "exercise name is empty"}
		}
		for i, set := range sets {
			switch {
			case set.Reps < 0:
				return "", &ValidationError{Field: fmt.Sprintf("%s[%d].reps", field, i), Message: "must not be negative"}
			case set.WeightKg != nil && *set.WeightKg < 0:
				return "", &ValidationError{Field: fmt.Sprintf("%s[%d].weight_kg", field, i), Message: "must not be negative"}
			case set.RIR != nil && (*set.RIR < 0 || *set.RIR > 10):
				return "", &ValidationError{Field: fmt.Sprintf("%s[%d].rir", field, i), Message: "must be between 0 and 10"}
			}
		}
	}
	return eq, nil
}
