package planner

import (
	"fmt"

	"github.com/claude/gymgpt/internal/soreness"
)

// Options tweak builder behaviour that is a matter of taste.
type Options struct {
	// Backfill replaces an omitted exercise with an unaffected accessory
	// from the catalog instead of leaving the slot empty.
	Backfill bool
}

// Planner builds plans against a catalog. It is safe for concurrent use.
type Planner struct {
	catalog *Catalog
	opts    Options
}

// New returns a Planner. A nil catalog means DefaultCatalog.
func New(catalog *Catalog, opts Options) *Planner {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Planner{catalog: catalog, opts: opts}
}

// Catalog returns the catalog the planner was built with.
func (p *Planner) Catalog() *Catalog {
	return p.catalog
}

// ComputeAdjustment runs the overload rules for a named exercise.
func (p *Planner) ComputeAdjustment(name string, history []SetRecord, severity int) (Adjustment, error) {
	spec, ok := p.catalog.Exercises[name]
	if !ok {
		return Adjustment{}, fmt.Errorf("%w: unknown exercise %q", ErrInvalidInput, name)
	}
	return p.catalog.Rules.ComputeAdjustment(spec, history, severity), nil
}

// BuildWorkoutPlan instantiates the focus template for the equipment, adapts
// each exercise to soreness and applies progressive overload from history.
func (p *Planner) BuildWorkoutPlan(focus Focus, history History, report soreness.Report, eq Equipment) (WorkoutPlan, error) {
	if !focus.Valid() {
		return WorkoutPlan{}, fmt.Errorf("%w: focus %q", ErrInvalidInput, focus)
	}
	if !eq.Valid() {
		return WorkoutPlan{}, fmt.Errorf("%w: equipment %q", ErrInvalidInput, eq)
	}

	rules := p.catalog.Rules
	plan := WorkoutPlan{
		Focus:     focus,
		Equipment: eq,
		Exercises: make([]PlannedExercise, 0, len(p.catalog.Templates[focus])),
	}
	used := make(map[string]bool)

	for _, name := range p.catalog.Templates[focus] {
		res := p.catalog.Resolve(name, eq)
		if res.Dropped {
			plan.Notes = append(plan.Notes, res.Note)
			continue
		}

		spec, ok := p.catalog.Exercises[res.Name]
		if !ok {
			// Unmapped pass-through without its own spec; use the canonical one.
			spec = p.catalog.Exercises[name]
		}
		group, severity := sorest(report, spec.Muscles)

		var notes []string
		if res.Substituted {
			notes = append(notes, res.Note)
		}

		variant := res.Name
		if severity >= rules.SkipSeverity {
			alt, hasAlt := p.catalog.Gentler[variant]
			switch {
			case hasAlt:
				notes = append(notes, fmt.Sprintf("%s swapped for %s: %s soreness %d", variant, alt, group, severity))
				variant = alt
				spec = p.catalog.Exercises[alt]
			case p.opts.Backfill:
				omitted := fmt.Sprintf("%s omitted: %s soreness %d", variant, group, severity)
				if fill, ok := p.backfill(focus, report, used); ok {
					plan.Notes = append(plan.Notes, omitted+"; backfilled with "+fill.Variant)
					plan.Exercises = append(plan.Exercises, fill)
					used[fill.Variant] = true
				} else {
					plan.Notes = append(plan.Notes, omitted)
				}
				continue
			default:
				plan.Notes = append(plan.Notes, fmt.Sprintf("%s omitted: %s soreness %d", variant, group, severity))
				continue
			}
		}

		adj := rules.ComputeAdjustment(spec, history[variant], severity)
		sets := spec.Sets
		switch {
		case severity >= rules.SkipSeverity:
			sets -= 2
		case severity >= rules.CapSeverity:
			sets--
		}
		if sets < 1 {
			sets = 1
		}
		if severity >= rules.CapSeverity {
			notes = append(notes, fmt.Sprintf("volume reduced for %s soreness %d", group, severity))
		}
		if len(history[variant]) > 0 && adj.Reason != "" {
			notes = append(notes, adj.Reason)
		}

		plan.Exercises = append(plan.Exercises, PlannedExercise{
			Name:        name,
			Variant:     variant,
			Muscles:     append([]string(nil), spec.Muscles...),
			Sets:        sets,
			Reps:        adj.RepTarget,
			RepRange:    spec.RepRange(),
			WeightDelta: adj.WeightDelta,
			Notes:       notes,
		})
		used[variant] = true
	}

	return plan, nil
}

// backfill picks the first accessory for focus that is not yet in the plan
// and whose muscles sit below the cap threshold.
func (p *Planner) backfill(focus Focus, report soreness.Report, used map[string]bool) (PlannedExercise, bool) {
	for _, name := range p.catalog.Backfill[focus] {
		if used[name] {
			continue
		}
		spec := p.catalog.Exercises[name]
		if report.Max(spec.Muscles...) >= p.catalog.Rules.CapSeverity {
			continue
		}
		return PlannedExercise{
			Name:     name,
			Variant:  name,
			Muscles:  append([]string(nil), spec.Muscles...),
			Sets:     spec.Sets,
			Reps:     spec.DefaultReps,
			RepRange: spec.RepRange(),
			Notes:    []string{"backfill"},
		}, true
	}
	return PlannedExercise{}, false
}

// sorest returns the first group in muscles with the highest severity.
func sorest(report soreness.Report, muscles []string) (string, int) {
	group, severity := "", 0
	for _, m := range muscles {
		if s := report.Severity(m); s > severity {
			group, severity = m, s
		}
	}
	return group, severity
}
