package storage

import (
	"context"
	"fmt"
	"time"
)

// VolumePeriod holds aggregated set volume for one period.
type VolumePeriod struct {
	Period         string  `json:"period"`
	Sets           int     `json:"sets"`
	TotalReps      int     `json:"total_reps"`
	TonnageKg      float64 `json:"tonnage_kg"`
	Sessions       int     `json:"sessions"`
	AvgSetsSession float64 `json:"avg_sets_per_session"`
}

// GetTrainingVolume returns set volume per period since the given time,
// newest period first. A session is a distinct training day.
func (db *DB) GetTrainingVolume(ctx context.Context, since time.Time, bucket string) ([]VolumePeriod, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT date_trunc($1, logged_at)::date AS period,
		        COUNT(*)::int,
		        COALESCE(SUM(reps), 0)::int,
		        COALESCE(SUM(COALESCE(weight_kg, 0) * reps), 0),
		        COUNT(DISTINCT logged_at::date)::int
		 FROM set_logs
		 WHERE logged_at >= $2
		 GROUP BY period
		 ORDER BY period DESC`,
		truncInterval(bucket), since)
	if err != nil {
		return nil, fmt.Errorf("querying training volume: %w", err)
	}
	defer rows.Close()

	result := []VolumePeriod{}
	for rows.Next() {
		var periodTime time.Time
		var v VolumePeriod
		if err := rows.Scan(&periodTime, &v.Sets, &v.TotalReps, &v.TonnageKg, &v.Sessions); err != nil {
			return nil, fmt.Errorf("scanning training volume: %w", err)
		}
		if v.Sessions > 0 {
			v.AvgSetsSession = float64(v.Sets) / float64(v.Sessions)
		}
		v.Period = periodTime.Format("2006-01-02")
		result = append(result, v)
	}
	return result, rows.Err()
}

// truncInterval converts a bucket name like "week" or "1 week" to the
// interval date_trunc expects. Unknown buckets fall back to week.
func truncInterval(bucket string) string {
	switch bucket {
	case "day", "1 day":
		return "day"
	case "month", "1 month":
		return "month"
	default:
		return "week"
	}
}
