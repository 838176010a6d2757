package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lattice-dev/lattice/internal/result"
)

// ErrNotFound is returned when a run ID does not exist.
var ErrNotFound = errors.New("store: run not found")

// RunSummary is one recorded run without its result tree.
type RunSummary struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Suite     string        `json:"suite"`
	Counts    result.Counts `json:"counts"`
}

// ListRuns returns the most recent runs, newest first. limit <= 0 means
// no limit. Returns an empty slice, not nil, when the history is empty.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
		SELECT id, created_at, suite, pass, fail, skip, timed_out, total
		FROM runs
		ORDER BY created_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	summaries := []RunSummary{}
	for rows.Next() {
		var summary RunSummary
		var createdAt string
		if err := rows.Scan(
			&summary.ID, &createdAt, &summary.Suite,
			&summary.Counts.Pass, &summary.Counts.Fail,
			&summary.Counts.Skip, &summary.Counts.Timeout,
			&summary.Counts.Total,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		summary.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return summaries, nil
}

// LoadRun returns one recorded run's result tree, deserialized.
func (s *Store) LoadRun(ctx context.Context, id string) (result.Result, error) {
	var serialized string
	err := s.db.QueryRowContext(ctx, `SELECT result FROM runs WHERE id = ?`, id).Scan(&serialized)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}
	res, err := result.Deserialize([]byte(serialized))
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}
	return res, nil
}
