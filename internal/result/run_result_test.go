package result

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunResult_Factories(t *testing.T) {
	name := []string{"calc", "adds"}

	pass := Pass(name, "calc.yaml")
	assert.Equal(t, StatusPass, pass.Status())
	assert.Equal(t, name, pass.Name())
	assert.Equal(t, "calc.yaml", pass.Filename())
	assert.Empty(t, pass.ErrorMessage())
	assert.Zero(t, pass.Timeout())

	skip := Skip(name, "")
	assert.Equal(t, StatusSkip, skip.Status())

	slow := Timeout(name, "", 2*time.Second)
	assert.Equal(t, StatusTimeout, slow.Status())
	assert.Equal(t, 2*time.Second, slow.Timeout())
}

func TestRunResult_Fail_MessageExtraction(t *testing.T) {
	name := []string{"x"}
	tests := []struct {
		thrown any
		want   string
	}{
		{errors.New("boom"), "boom"},
		{"just a string", "just a string"},
		{42, "42"},
	}
	for _, tt := range tests {
		r := Fail(name, "", tt.thrown, MarkNone, nil)
		assert.Equal(t, StatusFail, r.Status())
		assert.Equal(t, tt.want, r.ErrorMessage())
		assert.Equal(t, tt.thrown, r.Err(), "raw thrown value is kept verbatim")
	}
}

func TestRunResult_Fail_RendersOnce(t *testing.T) {
	calls := 0
	render := func(name []string, err any, mark Mark, filename string) string {
		calls++
		return fmt.Sprintf("rendered: %v", err)
	}

	r := Fail([]string{"x"}, "f.yaml", errors.New("boom"), MarkOnly, render)
	assert.Equal(t, 1, calls, "rendering happens at construction")
	assert.Equal(t, "rendered: boom", r.ErrorRender())

	// Reading the rendering does not re-render.
	_ = r.ErrorRender()
	assert.Equal(t, 1, calls)
}

func TestRunResult_NameIsCopied(t *testing.T) {
	name := []string{"a", "b"}
	r := Pass(name, "")
	name[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, r.Name())

	got := r.Name()
	got[0] = "mutated again"
	assert.Equal(t, []string{"a", "b"}, r.Name())
}

func TestRunResult_Equals(t *testing.T) {
	name := []string{"calc", "divides"}

	a := Fail(name, "calc.yaml", errors.New("division by zero"), MarkNone, nil)
	b := Fail(name, "calc.yaml", errors.New("division by zero"), MarkNone, nil)
	require.True(t, a.Equals(b), "same message, different error values")

	// Rendering differences are presentation and do not affect equality.
	c := Fail(name, "calc.yaml", errors.New("division by zero"), MarkNone,
		func([]string, any, Mark, string) string { return "fancy" })
	assert.True(t, a.Equals(c))

	assert.False(t, a.Equals(Fail(name, "calc.yaml", errors.New("other"), MarkNone, nil)))
	assert.False(t, a.Equals(Pass(name, "calc.yaml")))
	assert.False(t, a.Equals(Fail([]string{"calc"}, "calc.yaml", errors.New("division by zero"), MarkNone, nil)))
	assert.False(t, a.Equals(Fail(name, "other.yaml", errors.New("division by zero"), MarkNone, nil)))
	assert.False(t, a.Equals(nil))

	assert.False(t, Timeout(name, "", time.Second).Equals(Timeout(name, "", 2*time.Second)),
		"timeout limits must match")
}
