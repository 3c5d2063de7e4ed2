package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Plan kinds.
const (
	PlanKindWorkout   = "workout"
	PlanKindWeek      = "week"
	PlanKindGenerated = "generated"
)

// PlanRow is a saved plan with the request that produced it.
type PlanRow struct {
	ID        uuid.UUID       `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Title     string          `json:"title"`
	Kind      string          `json:"kind"`
	Input     json.RawMessage `json:"input"`
	Output    json.RawMessage `json:"output"`
}

// PlanSummary is a PlanRow without its payloads, for listings.
type PlanSummary struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `json:"title"`
	Kind      string    `json:"kind"`
}
