package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/gymgpt/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertPlan stores a plan under a fresh UUID and returns it.
func (db *DB) InsertPlan(ctx context.Context, row models.PlanRow) (uuid.UUID, error) {
	id := uuid.New()
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO plans (id, title, kind, input_json, output_json)
		 VALUES ($1,$2,$3,$4,$5)`,
		id, row.Title, row.Kind, row.Input, row.Output)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting plan: %w", err)
	}
	return id, nil
}

// ListPlans returns plan summaries, newest first.
func (db *DB) ListPlans(ctx context.Context, limit, offset int) ([]models.PlanSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, created_at, title, kind
		 FROM plans
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	result := []models.PlanSummary{}
	for rows.Next() {
		var p models.PlanSummary
		if err := rows.Scan(&p.ID, &p.CreatedAt, &p.Title, &p.Kind); err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// GetPlan returns one plan with its payloads, or ErrNotFound.
func (db *DB) GetPlan(ctx context.Context, id uuid.UUID) (*models.PlanRow, error) {
	var p models.PlanRow
	err := db.Pool.QueryRow(ctx,
		`SELECT id, created_at, title, kind, input_json, output_json
		 FROM plans WHERE id = $1`, id,
	).Scan(&p.ID, &p.CreatedAt, &p.Title, &p.Kind, &p.Input, &p.Output)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying plan %s: %w", id, err)
	}
	return &p, nil
}
