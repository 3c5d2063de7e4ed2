package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/gymgpt/internal/models"
)

// GetLogStats returns the RIR distribution, failure rate, per-exercise stats
// and, when exercise is set, a per-day progression for that exercise.
// A NULL rir counts as untracked.
func (db *DB) GetLogStats(ctx context.Context, since time.Time, exercise string) (*models.LogStats, error) {
	result := &models.LogStats{Since: since, RIRDistribution: []models.RIRBand{}, Exercises: []models.ExerciseSummary{}}

	rirRows, err := db.Pool.Query(ctx,
		`SELECT band, rir_range, sets FROM (
			SELECT
				CASE
					WHEN rir IS NULL THEN 'untracked'
					WHEN rir <= 0 THEN 'failure'
					WHEN rir = 1 THEN 'near_failure'
					WHEN rir = 2 THEN 'moderate'
					WHEN rir = 3 THEN 'easy'
					ELSE 'very_easy'
				END AS band,
				CASE
					WHEN rir IS NULL THEN 'untracked'
					WHEN rir <= 0 THEN '0'
					WHEN rir = 1 THEN '1'
					WHEN rir = 2 THEN '2'
					WHEN rir = 3 THEN '3'
					ELSE '>3'
				END AS rir_range,
				COUNT(*)::int AS sets
			FROM set_logs
			WHERE logged_at >= $1
			GROUP BY band, rir_range
		) sub
		ORDER BY CASE band
			WHEN 'failure' THEN 1
			WHEN 'near_failure' THEN 2
			WHEN 'moderate' THEN 3
			WHEN 'easy' THEN 4
			WHEN 'very_easy' THEN 5
			WHEN 'untracked' THEN 6
		END`,
		since)
	if err != nil {
		return nil, fmt.Errorf("querying RIR distribution: %w", err)
	}
	defer rirRows.Close()

	for rirRows.Next() {
		var b models.RIRBand
		if err := rirRows.Scan(&b.Band, &b.RIRRange, &b.Sets); err != nil {
			return nil, fmt.Errorf("scanning RIR band: %w", err)
		}
		result.RIRDistribution = append(result.RIRDistribution, b)
	}
	if err := rirRows.Err(); err != nil {
		return nil, err
	}
	result.Finish()

	// Epley e1RM; a single rep is the lift itself.
	exRows, err := db.Pool.Query(ctx,
		`SELECT name,
		        COUNT(*)::int,
		        COALESCE(SUM(reps), 0)::int,
		        COALESCE(SUM(COALESCE(weight_kg, 0) * reps), 0),
		        COALESCE(MAX(weight_kg), 0),
		        COALESCE(MAX(CASE WHEN reps <= 0 THEN 0 WHEN reps = 1 THEN weight_kg ELSE weight_kg * (1 + reps / 30.0) END), 0),
		        AVG(rir)::float8
		 FROM set_logs
		 WHERE logged_at >= $1
		 GROUP BY name
		 ORDER BY SUM(COALESCE(weight_kg, 0) * reps) DESC, name`,
		since)
	if err != nil {
		return nil, fmt.Errorf("querying exercise summary: %w", err)
	}
	defer exRows.Close()

	for exRows.Next() {
		var e models.ExerciseSummary
		if err := exRows.Scan(&e.Name, &e.TotalSets, &e.TotalReps, &e.TonnageKg, &e.MaxWeight, &e.BestE1RM, &e.AvgRIR); err != nil {
			return nil, fmt.Errorf("scanning exercise summary: %w", err)
		}
		result.Exercises = append(result.Exercises, e)
	}
	if err := exRows.Err(); err != nil {
		return nil, err
	}

	if exercise != "" {
		progRows, err := db.Pool.Query(ctx,
			`SELECT logged_at::date AS day,
			        COALESCE(MAX(weight_kg), 0),
			        COALESCE(SUM(COALESCE(weight_kg, 0) * reps), 0),
			        COALESCE(MAX(CASE WHEN reps <= 0 THEN 0 WHEN reps = 1 THEN weight_kg ELSE weight_kg * (1 + reps / 30.0) END), 0),
			        COUNT(*)::int,
			        AVG(rir)::float8
			 FROM set_logs
			 WHERE logged_at >= $1
			   AND name ILIKE '%' || $2 || '%'
			 GROUP BY day
			 ORDER BY day ASC`,
			since, exercise)
		if err != nil {
			return nil, fmt.Errorf("querying exercise progression: %w", err)
		}
		defer progRows.Close()

		for progRows.Next() {
			var p models.ExerciseProgression
			var d time.Time
			if err := progRows.Scan(&d, &p.MaxWeight, &p.TonnageKg, &p.BestE1RM, &p.Sets, &p.AvgRIR); err != nil {
				return nil, fmt.Errorf("scanning exercise progression: %w", err)
			}
			p.Date = d.Format("2006-01-02")
			result.Progression = append(result.Progression, p)
		}
		if err := progRows.Err(); err != nil {
			return nil, err
		}
	}

	return result, nil
}
