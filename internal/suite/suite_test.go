package suite

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-dev/lattice/internal/result"
)

const testTimeout = 50 * time.Millisecond

func TestEffectiveMark(t *testing.T) {
	tests := []struct {
		name              string
		own, parent       result.Mark
		hasOnlyDescendant bool
		want              result.Mark
	}{
		{"explicit skip wins over parent only", result.MarkSkip, result.MarkOnly, false, result.MarkSkip},
		{"explicit only wins over parent skip", result.MarkOnly, result.MarkSkip, false, result.MarkOnly},
		{"unmarked inherits skip", result.MarkNone, result.MarkSkip, false, result.MarkSkip},
		{"unmarked inherits only", result.MarkNone, result.MarkOnly, false, result.MarkOnly},
		{"unmarked inherits none", result.MarkNone, result.MarkNone, false, result.MarkNone},
		{"only defers to dot-only descendant", result.MarkOnly, result.MarkNone, true, result.MarkSkip},
		{"inherited only defers too", result.MarkNone, result.MarkOnly, true, result.MarkSkip},
		{"skip ignores descendants", result.MarkSkip, result.MarkNone, true, result.MarkSkip},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveMark(tt.own, tt.parent, tt.hasOnlyDescendant))
		})
	}
}

func TestSuite_HasOnlyDescendant(t *testing.T) {
	direct := New("root", nil, func(b *Builder) {
		b.It("a", nil, noop)
		b.ItOnly("b", nil, noop)
	})
	assert.True(t, direct.HasOnlyDescendant())

	transitive := New("root", nil, func(b *Builder) {
		b.Describe("mid", nil, func(b *Builder) {
			b.Describe("deep", nil, func(b *Builder) {
				b.ItOnly("x", nil, noop)
			})
		})
	})
	assert.True(t, transitive.HasOnlyDescendant())
	mid := transitive.Children()[0].(*Suite)
	assert.True(t, mid.HasOnlyDescendant())

	none := New("root", nil, func(b *Builder) {
		b.It("a", nil, noop)
		b.ItSkip("b", nil, noop)
	})
	assert.False(t, none.HasOnlyDescendant())

	// A dot-only suite child counts even when empty.
	viaSuite := New("root", nil, func(b *Builder) {
		b.DescribeOnly("fast", nil, func(b *Builder) {})
	})
	assert.True(t, viaSuite.HasOnlyDescendant())
}

func TestSuite_AllChildrenSkipped(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Suite
		want  bool
	}{
		{"live case", func() *Suite {
			return New("root", nil, func(b *Builder) { b.It("a", nil, noop) })
		}, false},
		{"all explicitly skipped", func() *Suite {
			return New("root", nil, func(b *Builder) {
				b.ItSkip("a", nil, noop)
				b.ItSkip("b", nil, noop)
			})
		}, true},
		{"bodiless cases are skipped", func() *Suite {
			return New("root", nil, func(b *Builder) { b.It("pending", nil, nil) })
		}, true},
		{"bodiless only is not skipped", func() *Suite {
			return New("root", nil, func(b *Builder) { b.ItOnly("pending", nil, nil) })
		}, false},
		{"skip suite skips everything under it", func() *Suite {
			return NewSkip("root", nil, func(b *Builder) {
				b.It("a", nil, noop)
				b.Describe("inner", nil, func(b *Builder) { b.It("b", nil, noop) })
			})
		}, true},
		{"only child rescues a skip suite", func() *Suite {
			return NewSkip("root", nil, func(b *Builder) {
				b.ItOnly("a", nil, noop)
			})
		}, false},
		{"nested suite with live case", func() *Suite {
			return New("root", nil, func(b *Builder) {
				b.ItSkip("a", nil, noop)
				b.Describe("inner", nil, func(b *Builder) { b.It("b", nil, noop) })
			})
		}, false},
		{"empty suite", func() *Suite {
			return New("root", nil, nil)
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.build().AllChildrenSkipped())
		})
	}
}

func TestSuite_SetFilename(t *testing.T) {
	s := New("root", nil, nil)
	s.SetFilename("/abs/calc.yaml")
	assert.Equal(t, "/abs/calc.yaml", s.Filename())

	// Same value is idempotent; a different one panics.
	assert.NotPanics(t, func() { s.SetFilename("/abs/calc.yaml") })
	assert.Panics(t, func() { s.SetFilename("/abs/other.yaml") })
}

func TestNewSynthetic(t *testing.T) {
	cause := errors.New("read manifest: no such file")
	s := NewSynthetic("error when importing calc.yaml", cause)

	assert.Empty(t, s.Name(), "wrapper suite stays out of the name path")
	require.Len(t, s.Children(), 1)
	fc, ok := s.Children()[0].(*FailureCase)
	require.True(t, ok)
	assert.Equal(t, "error when importing calc.yaml", fc.Name())
	assert.Same(t, cause, fc.Err())
	assert.False(t, s.AllChildrenSkipped(), "the failure must execute")
}

func TestT_Config(t *testing.T) {
	tr := NewT(nil, map[string]any{"base_url": "http://localhost:8080"})
	assert.Equal(t, "http://localhost:8080", tr.Config("base_url"))

	defer func() {
		var cfgErr *ConfigError
		require.ErrorAs(t, recover().(error), &cfgErr)
		assert.Equal(t, "missing", cfgErr.Key)
		assert.Equal(t, `no config value for key "missing"`, cfgErr.Error())
	}()
	tr.Config("missing")
}

func TestT_Context(t *testing.T) {
	assert.NotNil(t, NewT(nil, nil).Context(), "nil context defaults to Background")
}
