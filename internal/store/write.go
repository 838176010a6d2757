package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lattice-dev/lattice/internal/result"
)

// SaveRun records a completed run and returns its ID. IDs are UUIDv7 so
// lexical order follows creation order.
func (s *Store) SaveRun(ctx context.Context, res *result.SuiteResult) (string, error) {
	serialized, err := result.Serialize(res)
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}

	id := uuid.Must(uuid.NewV7()).String()
	counts := res.Count()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, created_at, suite, pass, fail, skip, timed_out, total, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		time.Now().UTC().Format(time.RFC3339Nano),
		strings.Join(res.Name(), " > "),
		counts.Pass,
		counts.Fail,
		counts.Skip,
		counts.Timeout,
		counts.Total,
		string(serialized),
	)
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}
	return id, nil
}
