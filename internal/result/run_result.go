package result

import (
	"fmt"
	"slices"
	"time"
)

// RenderFunc renders a thrown value into the string stored on a fail
// result. Rendering happens exactly once, when the result is created,
// because the raw value may not survive a process boundary.
type RenderFunc func(name []string, err any, mark Mark, filename string) string

// RunResult records the outcome of executing exactly one runnable
// function: a test body or a single before/after hook invocation.
//
// The name is the declaration path from the outermost suite down to the
// runnable. Status-conditional fields: errorMessage and errorRender are
// set only on fail, limit only on timeout.
type RunResult struct {
	name         []string
	filename     string
	status       Status
	errorMessage string
	errorRender  string
	limit        time.Duration

	// err is the value thrown by the runnable, kept verbatim for callers
	// in the same process. It is not serialized and never compared.
	err any
}

// Pass creates the result of a runnable that returned normally.
func Pass(name []string, filename string) *RunResult {
	return &RunResult{name: slices.Clone(name), filename: filename, status: StatusPass}
}

// Skip creates the result of a runnable that was not executed.
func Skip(name []string, filename string) *RunResult {
	return &RunResult{name: slices.Clone(name), filename: filename, status: StatusSkip}
}

// Timeout creates the result of a runnable whose deadline elapsed first.
// limit is the configured timeout, not the elapsed time.
func Timeout(name []string, filename string, limit time.Duration) *RunResult {
	return &RunResult{name: slices.Clone(name), filename: filename, status: StatusTimeout, limit: limit}
}

// Fail creates the result of a runnable that returned an error or
// panicked. The thrown value is kept verbatim; render is invoked
// synchronously here so the rendered form exists before the raw value is
// lost to serialization.
func Fail(name []string, filename string, err any, mark Mark, render RenderFunc) *RunResult {
	r := &RunResult{
		name:         slices.Clone(name),
		filename:     filename,
		status:       StatusFail,
		err:          err,
		errorMessage: errorMessage(err),
	}
	if render != nil {
		r.errorRender = render(r.name, err, mark, filename)
	}
	return r
}

// errorMessage reduces a thrown value to a short message.
func errorMessage(err any) string {
	switch v := err.(type) {
	case nil:
		return ""
	case error:
		return v.Error()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Name returns the declaration path of the runnable.
func (r *RunResult) Name() []string { return slices.Clone(r.name) }

// Filename returns the file the runnable was loaded from, if known.
func (r *RunResult) Filename() string { return r.filename }

// Status returns the recorded outcome.
func (r *RunResult) Status() Status { return r.status }

// ErrorMessage returns the failure message. Empty unless the status is fail.
func (r *RunResult) ErrorMessage() string { return r.errorMessage }

// ErrorRender returns the pre-rendered failure text. Empty unless the
// status is fail.
func (r *RunResult) ErrorRender() string { return r.errorRender }

// Timeout returns the configured deadline. Zero unless the status is timeout.
func (r *RunResult) Timeout() time.Duration { return r.limit }

// Err returns the thrown value verbatim. It is nil after deserialization:
// only the message and rendering cross a process boundary.
func (r *RunResult) Err() any { return r.err }

// Equals reports structural equality with another run result. Raw thrown
// values and rendered text are ignored; failures compare by message, since
// error identity and stack traces do not survive serialization.
func (r *RunResult) Equals(other *RunResult) bool {
	if other == nil {
		return false
	}
	return slices.Equal(r.name, other.name) &&
		r.filename == other.filename &&
		r.status == other.status &&
		r.errorMessage == other.errorMessage &&
		r.limit == other.limit
}
