package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-dev/lattice/internal/result"
	"github.com/lattice-dev/lattice/internal/suite"
)

func TestRun_OnlySkipsUnmarkedSiblings(t *testing.T) {
	s := suite.New("calc", nil, func(b *Builder) {
		b.It("a", nil, noop)
		b.ItOnly("b", nil, noop)
	})

	res := mustRun(t, s, Options{})
	assert.Equal(t, map[string]result.Status{
		"calc > a": result.StatusSkip,
		"calc > b": result.StatusPass,
	}, statuses(res))

	// The declared mark survives on the result for reporting.
	marked := res.AllMatchingMarks(result.MarkOnly)
	require.Len(t, marked, 1)
	assert.Equal(t, []string{"calc", "b"}, marked[0].Name())
}

func TestRun_SkipMark(t *testing.T) {
	s := suite.New("calc", nil, func(b *Builder) {
		b.It("a", nil, noop)
		b.ItSkip("b", nil, noop)
	})

	res := mustRun(t, s, Options{})
	assert.Equal(t, map[string]result.Status{
		"calc > a": result.StatusPass,
		"calc > b": result.StatusSkip,
	}, statuses(res))
}

func TestRun_SkippedBodyNeverInvoked(t *testing.T) {
	invoked := false
	s := suite.New("calc", nil, func(b *Builder) {
		b.ItSkip("b", nil, func(*suite.T) error {
			invoked = true
			return nil
		})
	})

	mustRun(t, s, Options{})
	assert.False(t, invoked)
}

func TestRun_OnlyInsideNestedOnlySuite(t *testing.T) {
	// The nested dot-only case wins; its dot-only ancestor defers to it.
	s := suite.New("calc", nil, func(b *Builder) {
		b.DescribeOnly("fast", nil, func(b *Builder) {
			b.It("a", nil, noop)
			b.ItOnly("b", nil, noop)
		})
		b.It("c", nil, noop)
	})

	res := mustRun(t, s, Options{})
	assert.Equal(t, map[string]result.Status{
		"calc > fast > a": result.StatusSkip,
		"calc > fast > b": result.StatusPass,
		"calc > c":        result.StatusSkip,
	}, statuses(res))
}

func TestRun_OnlySuiteRunsAllChildren(t *testing.T) {
	// A dot-only suite with no dot-only descendants runs everything in it.
	s := suite.New("calc", nil, func(b *Builder) {
		b.DescribeOnly("fast", nil, func(b *Builder) {
			b.It("a", nil, noop)
			b.It("b", nil, noop)
		})
		b.It("c", nil, noop)
	})

	res := mustRun(t, s, Options{})
	assert.Equal(t, map[string]result.Status{
		"calc > fast > a": result.StatusPass,
		"calc > fast > b": result.StatusPass,
		"calc > c":        result.StatusSkip,
	}, statuses(res))
}

func TestRun_SkipInsideOnlySuite(t *testing.T) {
	// Explicit skip wins against an inherited only.
	s := suite.New("calc", nil, func(b *Builder) {
		b.DescribeOnly("fast", nil, func(b *Builder) {
			b.ItSkip("a", nil, noop)
			b.It("b", nil, noop)
		})
	})

	res := mustRun(t, s, Options{})
	assert.Equal(t, map[string]result.Status{
		"calc > fast > a": result.StatusSkip,
		"calc > fast > b": result.StatusPass,
	}, statuses(res))
}

func TestRun_OnlyInsideSkipSuite(t *testing.T) {
	// The nearest explicit mark wins: a dot-only case escapes its
	// dot-skip ancestor.
	s := suite.New("calc", nil, func(b *Builder) {
		b.DescribeSkip("legacy", nil, func(b *Builder) {
			b.ItOnly("a", nil, noop)
			b.It("b", nil, noop)
		})
	})

	res := mustRun(t, s, Options{})
	assert.Equal(t, map[string]result.Status{
		"calc > legacy > a": result.StatusPass,
		"calc > legacy > b": result.StatusSkip,
	}, statuses(res))
}

func TestRun_DeepOnlyPrunesWholeTree(t *testing.T) {
	s := suite.New("root", nil, func(b *Builder) {
		b.Describe("left", nil, func(b *Builder) {
			b.It("x", nil, noop)
		})
		b.Describe("right", nil, func(b *Builder) {
			b.Describe("deep", nil, func(b *Builder) {
				b.ItOnly("y", nil, noop)
			})
			b.It("z", nil, noop)
		})
	})

	res := mustRun(t, s, Options{})
	assert.Equal(t, map[string]result.Status{
		"root > left > x":         result.StatusSkip,
		"root > right > deep > y": result.StatusPass,
		"root > right > z":        result.StatusSkip,
	}, statuses(res))
}

func TestRun_TopLevelSkipSuite(t *testing.T) {
	s := suite.NewSkip("legacy", nil, func(b *Builder) {
		b.It("a", nil, noop)
	})

	res := mustRun(t, s, Options{})
	assert.Equal(t, map[string]result.Status{
		"legacy > a": result.StatusSkip,
	}, statuses(res))
	assert.Equal(t, result.MarkSkip, res.Mark(), "declared mark is recorded on the result")
}

func TestRun_SuiteResultRecordsDeclaredMark(t *testing.T) {
	s := suite.New("calc", nil, func(b *Builder) {
		b.DescribeOnly("fast", nil, func(b *Builder) {
			b.It("a", nil, noop)
		})
	})

	res := mustRun(t, s, Options{})
	inner, ok := res.Children()[0].(*result.SuiteResult)
	require.True(t, ok)
	assert.Equal(t, result.MarkOnly, inner.Mark())
	assert.Equal(t, result.MarkNone, res.Mark())
}
