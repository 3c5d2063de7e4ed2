// Package localstore is the embedded SQLite set-log store used by the gymplan
// CLI. Sets logged offline carry a synced flag so they can be pushed to a
// server later.
package localstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/claude/gymgpt/internal/models"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS set_logs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	set_number  INTEGER NOT NULL DEFAULT 0,
	reps        INTEGER NOT NULL,
	weight_kg   REAL,
	rir         INTEGER,
	focus       TEXT NOT NULL DEFAULT '',
	source      TEXT NOT NULL DEFAULT 'cli',
	logged_at   INTEGER NOT NULL,
	synced      INTEGER NOT NULL DEFAULT 0,
	UNIQUE (name, logged_at, set_number, source)
);
CREATE INDEX IF NOT EXISTS set_logs_logged_at_idx ON set_logs (logged_at DESC);
CREATE INDEX IF NOT EXISTS set_logs_synced_idx ON set_logs (synced);`

const columns = `id, name, set_number, reps, weight_kg, rir, focus, source, logged_at`

// Store is a set-log store backed by a single SQLite file.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultPath returns ~/.gymgpt/gymgpt.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".gymgpt", "gymgpt.db"), nil
}

// Open opens (or creates) the database at path, creating parent directories.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}
	// One writer at a time; SQLite serialises anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating local schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddSetLog stores one set and returns its ID. A zero LoggedAt means now.
func (s *Store) AddSetLog(ctx context.Context, row models.SetLogRow) (int64, error) {
	row = s.normalize(row)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO set_logs (name, set_number, reps, weight_kg, rir, focus, source, logged_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		row.Name, row.SetNumber, row.Reps, row.WeightKg, row.RIR, row.Focus, row.Source, row.LoggedAt.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("inserting set log: %w", err)
	}
	return res.LastInsertId()
}

// AddSetLogs stores sets in one transaction, skipping duplicates. Returns count inserted.
func (s *Store) AddSetLogs(ctx context.Context, rows []models.SetLogRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO set_logs (name, set_number, reps, weight_kg, rir, focus, source, logged_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, r := range rows {
		r = s.normalize(r)
		res, err := stmt.ExecContext(ctx, r.Name, r.SetNumber, r.Reps, r.WeightKg, r.RIR, r.Focus, r.Source, r.LoggedAt.UnixMilli())
		if err != nil {
			return 0, fmt.Errorf("inserting set log %q: %w", r.Name, err)
		}
		n, _ := res.RowsAffected()
		inserted += n
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing set logs: %w", err)
	}
	return inserted, nil
}

// QuerySetLogs returns the newest sets, optionally filtered by focus.
func (s *Store) QuerySetLogs(ctx context.Context, focus string, limit int) ([]models.SetLogRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+columns+` FROM set_logs
		 WHERE (? = '' OR focus = ?)
		 ORDER BY logged_at DESC, id DESC
		 LIMIT ?`,
		focus, focus, limit)
	if err != nil {
		return nil, fmt.Errorf("querying set logs: %w", err)
	}
	return scan(rows)
}

// RecentSetLogs returns every set logged at or after since, newest first.
func (s *Store) RecentSetLogs(ctx context.Context, since time.Time) ([]models.SetLogRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+columns+` FROM set_logs
		 WHERE logged_at >= ?
		 ORDER BY logged_at DESC, id DESC`,
		since.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("querying recent set logs: %w", err)
	}
	return scan(rows)
}

// Unsynced returns up to limit sets not yet pushed, oldest first.
func (s *Store) Unsynced(ctx context.Context, limit int) ([]models.SetLogRow, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+columns+` FROM set_logs
		 WHERE synced = 0
		 ORDER BY logged_at ASC, id ASC
		 LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying unsynced set logs: %w", err)
	}
	return scan(rows)
}

// MarkSynced flags the given set IDs as pushed.
func (s *Store) MarkSynced(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE set_logs SET synced = 1 WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("marking %d sets synced: %w", len(ids), err)
	}
	return nil
}

// GetLogStats summarises sets logged since the given time.
func (s *Store) GetLogStats(ctx context.Context, since time.Time, exercise string) (*models.LogStats, error) {
	rows, err := s.RecentSetLogs(ctx, since)
	if err != nil {
		return nil, err
	}
	return models.SummarizeSetLogs(rows, since, exercise), nil
}

func (s *Store) normalize(r models.SetLogRow) models.SetLogRow {
	if r.LoggedAt.IsZero() {
		r.LoggedAt = s.now()
	}
	if r.Source == "" {
		r.Source = models.SourceCLI
	}
	return r
}

func scan(rows *sql.Rows) ([]models.SetLogRow, error) {
	defer rows.Close()
	var result []models.SetLogRow
	for rows.Next() {
		var (
			r        models.SetLogRow
			weight   sql.NullFloat64
			rir      sql.NullInt64
			loggedAt int64
		)
		if err := rows.Scan(&r.ID, &r.Name, &r.SetNumber, &r.Reps, &weight, &rir, &r.Focus, &r.Source, &loggedAt); err != nil {
			return nil, fmt.Errorf("scanning set log: %w", err)
		}
		if weight.Valid {
			w := weight.Float64
			r.WeightKg = &w
		}
		if rir.Valid {
			v := int(rir.Int64)
			r.RIR = &v
		}
		r.LoggedAt = time.UnixMilli(loggedAt).UTC()
		result = append(result, r)
	}
	return result, rows.Err()
}
