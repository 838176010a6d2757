// Package testutil provides deterministic helpers for exercising the
// engine in tests.
package testutil

import (
	"slices"

	"github.com/lattice-dev/lattice/internal/suite"
)

// Recorder captures the order in which runnables execute. The engine is
// strictly sequential, so no locking is needed; the recorder exists to
// make ordering and cleanup guarantees assertable.
type Recorder struct {
	steps []string
}

// Step returns a passing runnable that records name when invoked.
func (r *Recorder) Step(name string) suite.Func {
	return func(*suite.T) error {
		r.steps = append(r.steps, name)
		return nil
	}
}

// FailStep returns a runnable that records name and then fails with err.
func (r *Recorder) FailStep(name string, err error) suite.Func {
	return func(*suite.T) error {
		r.steps = append(r.steps, name)
		return err
	}
}

// PanicStep returns a runnable that records name and then panics with v.
func (r *Recorder) PanicStep(name string, v any) suite.Func {
	return func(*suite.T) error {
		r.steps = append(r.steps, name)
		panic(v)
	}
}

// Steps returns the recorded invocation order.
func (r *Recorder) Steps() []string {
	return slices.Clone(r.steps)
}
