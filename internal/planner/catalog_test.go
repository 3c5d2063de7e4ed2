package planner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestDefaultCatalogValid guards the built-in tables.
func TestDefaultCatalogValid(t *testing.T) {
	if err := DefaultCatalog().Validate(); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
}

// TestLoadCatalogDefaultYAML loads the default catalog back from its YAML form.
func TestLoadCatalogDefaultYAML(t *testing.T) {
	want := DefaultCatalog()
	data, err := yaml.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}
	got, err := LoadCatalog(writeTemp(t, "catalog.yaml", string(data)))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("catalog mismatch (-want +got):\n%s", diff)
	}
}

// TestLoadCatalogCustomTemplate uses a YAML catalog with a tiny lower template.
func TestLoadCatalogCustomTemplate(t *testing.T) {
	cat := DefaultCatalog()
	cat.Templates[FocusLower] = []string{"Leg Curl", "Standing Calf Raise"}
	data, err := yaml.Marshal(cat)
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadCatalog(writeTemp(t, "catalog.yaml", string(data)))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	plan, err := New(loaded, Options{}).BuildWorkoutPlan(FocusLower, nil, nil, EquipmentGym)
	if err != nil {
		t.Fatalf("BuildWorkoutPlan: %v", err)
	}
	if len(plan.Exercises) != 2 || plan.Exercises[0].Variant != "Leg Curl" {
		t.Errorf("unexpected plan %+v", plan.Exercises)
	}
}

// TestLoadCatalogErrors covers file, YAML and validation failures.
func TestLoadCatalogErrors(t *testing.T) {
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadCatalog(writeTemp(t, "bad.yaml", "templates: [")); err == nil {
		t.Error("expected error for malformed YAML")
	}

	tests := []struct {
		name    string
		mutate  func(c *Catalog)
		wantErr string
	}{
		{
			name:    "unknown muscle",
			mutate:  func(c *Catalog) { c.Exercises["Leg Curl"] = lift(3, 10, 15, 12, 2.5, "neck") },
			wantErr: `unknown muscle group "neck"`,
		},
		{
			name:    "template without spec",
			mutate:  func(c *Catalog) { c.Templates[FocusUpper] = append(c.Templates[FocusUpper], "Cable Fly") },
			wantErr: `no spec for "Cable Fly"`,
		},
		{
			name:    "default reps outside range",
			mutate:  func(c *Catalog) { c.Exercises["Leg Curl"] = lift(3, 10, 15, 20, 2.5, "hamstrings") },
			wantErr: "default reps 20 outside 10-15",
		},
		{
			name:    "short split",
			mutate:  func(c *Catalog) { c.Splits[4] = []Focus{FocusFull} },
			wantErr: "split for 4 days has 1 entries",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := DefaultCatalog()
			tt.mutate(cat)
			data, err := yaml.Marshal(cat)
			if err != nil {
				t.Fatal(err)
			}
			_, err = LoadCatalog(writeTemp(t, "catalog.yaml", string(data)))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
