package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/gymgpt/internal/models"
	"github.com/jackc/pgx/v5"
)

const setLogColumns = `id, name, set_number, reps, weight_kg, rir, focus, source, logged_at`

// InsertSetLog stores a single set and returns its ID. A zero LoggedAt means now.
func (db *DB) InsertSetLog(ctx context.Context, row models.SetLogRow) (int64, error) {
	if row.LoggedAt.IsZero() {
		row.LoggedAt = time.Now().UTC()
	}
	if row.Source == "" {
		row.Source = models.SourceManual
	}
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO set_logs (name, set_number, reps, weight_kg, rir, focus, source, logged_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING id`,
		row.Name, row.SetNumber, row.Reps, row.WeightKg, row.RIR, row.Focus, row.Source, row.LoggedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting set log: %w", err)
	}
	return id, nil
}

// InsertSetLogs batch-inserts sets, skipping exact duplicates. Returns count inserted.
func (db *DB) InsertSetLogs(ctx context.Context, rows []models.SetLogRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	const cols = 8
	query := `INSERT INTO set_logs (name, set_number, reps, weight_kg, rir, focus, source, logged_at) VALUES `
	args := make([]any, 0, len(rows)*cols)
	valueStrings := make([]string, 0, len(rows))
	now := time.Now().UTC()

	for i, r := range rows {
		base := i * cols
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8,
		))
		if r.LoggedAt.IsZero() {
			r.LoggedAt = now
		}
		if r.Source == "" {
			r.Source = models.SourceManual
		}
		args = append(args, r.Name, r.SetNumber, r.Reps, r.WeightKg, r.RIR, r.Focus, r.Source, r.LoggedAt)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting set logs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// QuerySetLogs returns the newest sets, optionally filtered by focus.
func (db *DB) QuerySetLogs(ctx context.Context, focus string, limit int) ([]models.SetLogRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT `+setLogColumns+`
		 FROM set_logs
		 WHERE ($1 = '' OR focus = $1)
		 ORDER BY logged_at DESC, id DESC
		 LIMIT $2`,
		focus, limit)
	if err != nil {
		return nil, fmt.Errorf("querying set logs: %w", err)
	}
	return scanSetLogs(rows)
}

// RecentSetLogs returns every set logged at or after since, newest first.
func (db *DB) RecentSetLogs(ctx context.Context, since time.Time) ([]models.SetLogRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+setLogColumns+`
		 FROM set_logs
		 WHERE logged_at >= $1
		 ORDER BY logged_at DESC, id DESC`,
		since)
	if err != nil {
		return nil, fmt.Errorf("querying recent set logs: %w", err)
	}
	return scanSetLogs(rows)
}

func scanSetLogs(rows pgx.Rows) ([]models.SetLogRow, error) {
	defer rows.Close()
	var result []models.SetLogRow
	for rows.Next() {
		var r models.SetLogRow
		if err := rows.Scan(&r.ID, &r.Name, &r.SetNumber, &r.Reps, &r.WeightKg, &r.RIR,
			&r.Focus, &r.Source, &r.LoggedAt); err != nil {
			return nil, fmt.Errorf("scanning set log: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
