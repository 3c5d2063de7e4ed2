package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/claude/gymgpt/internal/planner"
	"github.com/claude/gymgpt/internal/soreness"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
)

// ErrInvalidPlan means the model returned a plan that fails validation.
var ErrInvalidPlan = errors.New("invalid generated plan")

const generatePrompt = "You are a strength coach writing a single gym session. " +
	"Respect the requested focus and equipment. Lower volume and do not add load for sore muscle groups; " +
	"leave out movements that would load a group rated 4 or 5. Use 1 to 10 sets per exercise. " +
	"weight_delta is the change in kg from the last logged working weight, 0 without history."

// GenerateRequest is the input for a model-generated workout.
type GenerateRequest struct {
	Focus     planner.Focus
	Equipment planner.Equipment
	Soreness  soreness.Report
	History   planner.History
}

// GeneratedExercise is one exercise in the model's answer.
type GeneratedExercise struct {
	Name        string  `json:"name" jsonschema_description:"Exercise name"`
	Sets        int     `json:"sets" jsonschema_description:"Working sets, 1 to 10"`
	Reps        int     `json:"reps" jsonschema_description:"Target reps per set"`
	WeightDelta float64 `json:"weight_delta" jsonschema_description:"Change in kg from the last logged weight"`
	Rationale   string  `json:"rationale" jsonschema_description:"One sentence on why this exercise and load"`
}

// GeneratedPlan is the structured response the model must return.
type GeneratedPlan struct {
	Focus     string              `json:"focus" jsonschema:"enum=upper,enum=lower,enum=full"`
	Equipment string              `json:"equipment" jsonschema:"enum=gym,enum=dumbbells,enum=none"`
	Exercises []GeneratedExercise `json:"exercises" jsonschema_description:"Exercises in the order they are performed"`
	Notes     []string            `json:"notes" jsonschema_description:"Plan-level notes, such as omitted movements"`
}

var generatedPlanSchema = reflectSchema[GeneratedPlan]()

func reflectSchema[T any]() any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

// Generate asks the model for a workout and converts it into a planner plan.
// Muscles are filled from catalog when the exercise is known there.
func (c *Client) Generate(ctx context.Context, req GenerateRequest, catalog *planner.Catalog) (*planner.WorkoutPlan, error) {
	input, err := json.Marshal(map[string]any{
		"focus":     req.Focus,
		"equipment": req.Equipment,
		"soreness":  req.Soreness,
		"history":   req.History,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	content, err := c.complete(ctx, "generate", openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(generatePrompt),
			openai.UserMessage(string(input)),
		},
		Temperature: openai.Float(0.4),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "workout_plan",
					Description: openai.String("A single adapted workout session"),
					Schema:      generatedPlanSchema,
					Strict:      openai.Bool(true),
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	var gen GeneratedPlan
	if err := json.Unmarshal([]byte(content), &gen); err != nil {
		return nil, fmt.Errorf("%w: decoding: %v", ErrInvalidPlan, err)
	}
	plan, err := gen.toWorkoutPlan(req, catalog)
	if err != nil {
		return nil, err
	}
	c.log.InfoContext(ctx, "generated plan accepted", "focus", plan.Focus, "exercises", len(plan.Exercises))
	return plan, nil
}

func (g GeneratedPlan) toWorkoutPlan(req GenerateRequest, catalog *planner.Catalog) (*planner.WorkoutPlan, error) {
	focus, err := planner.ParseFocus(g.Focus)
	if err != nil {
		return nil, fmt.Errorf("%w: focus %q", ErrInvalidPlan, g.Focus)
	}
	eq, err := planner.ParseEquipment(g.Equipment)
	if err != nil || g.Equipment == "" {
		return nil, fmt.Errorf("%w: equipment %q", ErrInvalidPlan, g.Equipment)
	}
	if focus != req.Focus || eq != req.Equipment {
		return nil, fmt.Errorf("%w: asked for %s/%s, got %s/%s", ErrInvalidPlan, req.Focus, req.Equipment, focus, eq)
	}
	if len(g.Exercises) == 0 {
		return nil, fmt.Errorf("%w: no exercises", ErrInvalidPlan)
	}

	plan := &planner.WorkoutPlan{Focus: focus, Equipment: eq, Notes: g.Notes}
	for i, ex := range g.Exercises {
		switch {
		case ex.Name == "":
			return nil, fmt.Errorf("%w: exercise %d has no name", ErrInvalidPlan, i+1)
		case ex.Sets < 1 || ex.Sets > 10:
			return nil, fmt.Errorf("%w: %s has %d sets", ErrInvalidPlan, ex.Name, ex.Sets)
		case ex.Reps < 1:
			return nil, fmt.Errorf("%w: %s has %d reps", ErrInvalidPlan, ex.Name, ex.Reps)
		}
		pe := planner.PlannedExercise{
			Name:        ex.Name,
			Variant:     ex.Name,
			Sets:        ex.Sets,
			Reps:        ex.Reps,
			RepRange:    fmt.Sprintf("%d", ex.Reps),
			WeightDelta: ex.WeightDelta,
		}
		if catalog != nil {
			if spec, ok := catalog.Exercises[ex.Name]; ok {
				pe.Muscles = append([]string(nil), spec.Muscles...)
				pe.RepRange = spec.RepRange()
			}
		}
		if ex.Rationale != "" {
			pe.Notes = []string{ex.Rationale}
		}
		plan.Exercises = append(plan.Exercises, pe)
	}
	return plan, nil
}
