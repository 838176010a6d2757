package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-dev/lattice/internal/result"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "lattice.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(name string) *result.SuiteResult {
	return result.NewSuiteResult([]string{name}, name+".yaml", result.MarkNone, nil, nil,
		[]result.Result{
			result.NewCaseResult(result.MarkNone, nil,
				result.Pass([]string{name, "adds"}, name+".yaml"), nil),
			result.NewCaseResult(result.MarkOnly, nil,
				result.Fail([]string{name, "divides"}, name+".yaml",
					errors.New("division by zero"), result.MarkOnly, nil), nil),
			result.NewCaseResult(result.MarkNone, nil,
				result.Timeout([]string{name, "slow"}, name+".yaml", 2*time.Second), nil),
		})
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lattice.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestSaveRun_RoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	original := sampleRun("calc")

	id, err := s.SaveRun(ctx, original)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err, "run IDs are UUIDs")

	restored, err := s.LoadRun(ctx, id)
	require.NoError(t, err)
	assert.True(t, original.Equals(restored), "reloaded tree is Equals-identical")
}

func TestListRuns(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	// Empty history lists as an empty slice, not nil.
	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.NotNil(t, runs)
	assert.Empty(t, runs)

	first, err := s.SaveRun(ctx, sampleRun("calc"))
	require.NoError(t, err)
	second, err := s.SaveRun(ctx, sampleRun("api"))
	require.NoError(t, err)

	runs, err = s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, "api", runs[0].Suite)
	assert.Equal(t, first, runs[1].ID)
	assert.Equal(t, "calc", runs[1].Suite)

	assert.Equal(t, result.Counts{Pass: 1, Fail: 1, Timeout: 1, Total: 3}, runs[0].Counts)
	assert.False(t, runs[0].CreatedAt.IsZero())

	limited, err := s.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, second, limited[0].ID)
}

func TestLoadRun_NotFound(t *testing.T) {
	s := openStore(t)
	_, err := s.LoadRun(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}
