package result

import "fmt"

// Status is the computed outcome of a runnable, case, or suite.
// It is never set directly except at the leaf (RunResult factories).
type Status string

const (
	// StatusPass indicates the runnable returned without error.
	StatusPass Status = "pass"
	// StatusFail indicates the runnable returned an error or panicked.
	StatusFail Status = "fail"
	// StatusSkip indicates the runnable was excluded from execution.
	StatusSkip Status = "skip"
	// StatusTimeout indicates the deadline elapsed before completion.
	StatusTimeout Status = "timeout"
)

// severity orders statuses for worst-of aggregation:
// fail > timeout > pass > skip.
func (s Status) severity() int {
	switch s {
	case StatusFail:
		return 3
	case StatusTimeout:
		return 2
	case StatusPass:
		return 1
	case StatusSkip:
		return 0
	default:
		return -1
	}
}

// WorseOf returns the more severe of s and other.
func (s Status) WorseOf(other Status) Status {
	if other.severity() > s.severity() {
		return other
	}
	return s
}

// ParseStatus converts a serialized status string back to a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPass, StatusFail, StatusSkip, StatusTimeout:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}
