package coach

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/claude/gymgpt/internal/planner"
	"github.com/claude/gymgpt/internal/soreness"
)

func generatedJSON(t *testing.T, plan GeneratedPlan) string {
	t.Helper()
	data, err := json.Marshal(plan)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func validGenerated() GeneratedPlan {
	return GeneratedPlan{
		Focus:     "lower",
		Equipment: "gym",
		Exercises: []GeneratedExercise{
			{Name: "Back Squat", Sets: 4, Reps: 5, WeightDelta: 2.5, Rationale: "Last session had reps in reserve."},
			{Name: "Nordic Curl", Sets: 3, Reps: 6},
		},
		Notes: []string{"Keep rest at two minutes."},
	}
}

// TestGenerate converts a valid model answer and requests a strict schema.
func TestGenerate(t *testing.T) {
	fake := &fakeOpenAI{content: generatedJSON(t, validGenerated())}
	c := newTestClient(t, fake)

	plan, err := c.Generate(context.Background(), GenerateRequest{
		Focus:     planner.FocusLower,
		Equipment: planner.EquipmentGym,
		Soreness:  soreness.Parse("calves 2"),
	}, planner.DefaultCatalog())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(plan.Exercises) != 2 {
		t.Fatalf("got %d exercises, want 2", len(plan.Exercises))
	}
	squat := plan.Exercises[0]
	if squat.RepRange != "3-5" || len(squat.Muscles) == 0 {
		t.Errorf("catalog fields not filled for known exercise: %+v", squat)
	}
	if squat.WeightDelta != 2.5 || squat.Notes[0] != "Last session had reps in reserve." {
		t.Errorf("unexpected squat %+v", squat)
	}
	if nordic := plan.Exercises[1]; nordic.RepRange != "6" || nordic.Muscles != nil {
		t.Errorf("unknown exercise should keep model values, got %+v", nordic)
	}

	req := fake.lastRequest(t)
	rf, _ := req["response_format"].(map[string]any)
	if rf["type"] != "json_schema" {
		t.Fatalf("response_format = %v", req["response_format"])
	}
	schema, _ := rf["json_schema"].(map[string]any)
	if schema["name"] != "workout_plan" || schema["strict"] != true {
		t.Errorf("json_schema = %v", schema)
	}
}

// TestGenerateRejectsInvalidPlans checks validation of the model answer.
func TestGenerateRejectsInvalidPlans(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *GeneratedPlan)
		wantMsg string
	}{
		{"bad focus", func(p *GeneratedPlan) { p.Focus = "legs" }, `focus "legs"`},
		{"empty equipment", func(p *GeneratedPlan) { p.Equipment = "" }, `equipment ""`},
		{"focus mismatch", func(p *GeneratedPlan) { p.Focus = "upper" }, "asked for lower/gym"},
		{"no exercises", func(p *GeneratedPlan) { p.Exercises = nil }, "no exercises"},
		{"too many sets", func(p *GeneratedPlan) { p.Exercises[0].Sets = 11 }, "Back Squat has 11 sets"},
		{"zero sets", func(p *GeneratedPlan) { p.Exercises[0].Sets = 0 }, "Back Squat has 0 sets"},
		{"zero reps", func(p *GeneratedPlan) { p.Exercises[1].Reps = 0 }, "Nordic Curl has 0 reps"},
		{"missing name", func(p *GeneratedPlan) { p.Exercises[1].Name = "" }, "exercise 2 has no name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := validGenerated()
			tt.mutate(&gen)
			c := newTestClient(t, &fakeOpenAI{content: generatedJSON(t, gen)})
			_, err := c.Generate(context.Background(), GenerateRequest{
				Focus:     planner.FocusLower,
				Equipment: planner.EquipmentGym,
			}, nil)
			if !errors.Is(err, ErrInvalidPlan) || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("got %v, want ErrInvalidPlan containing %q", err, tt.wantMsg)
			}
		})
	}
}

// TestGenerateMalformedJSON treats undecodable content as an invalid plan.
func TestGenerateMalformedJSON(t *testing.T) {
	c := newTestClient(t, &fakeOpenAI{content: "here is your plan: squats"})
	_, err := c.Generate(context.Background(), GenerateRequest{Focus: planner.FocusFull, Equipment: planner.EquipmentNone}, nil)
	if !errors.Is(err, ErrInvalidPlan) {
		t.Errorf("got %v, want ErrInvalidPlan", err)
	}
}

// TestGeneratedPlanSchema checks that the reflected schema is closed and requires every field.
func TestGeneratedPlanSchema(t *testing.T) {
	data, err := json.Marshal(generatedPlanSchema)
	if err != nil {
		t.Fatal(err)
	}
	var schema struct {
		AdditionalProperties *bool    `json:"additionalProperties"`
		Required             []string `json:"required"`
	}
	if err := json.Unmarshal(data, &schema); err != nil {
		t.Fatal(err)
	}
	if schema.AdditionalProperties == nil || *schema.AdditionalProperties {
		t.Errorf("additionalProperties = %v, want false", schema.AdditionalProperties)
	}
	if len(schema.Required) != 4 {
		t.Errorf("required = %v, want all four fields", schema.Required)
	}
	if !strings.Contains(string(data), `"enum":["upper","lower","full"]`) {
		t.Errorf("focus enum missing from schema: %s", data)
	}
}
