package result

import "fmt"

// Mark is a declaration-time annotation controlling selective execution.
// It is attached to a suite or case when declared and is immutable
// afterward; inclusion decisions use the inherited (effective) mark
// computed per run, never the stored one.
type Mark string

const (
	// MarkNone means the node inherits its enclosing suite's mark.
	MarkNone Mark = "none"
	// MarkSkip excludes the node (and, by inheritance, its subtree).
	MarkSkip Mark = "skip"
	// MarkOnly restricts the run to dot-only subtrees.
	MarkOnly Mark = "only"
)

// ParseMark converts a serialized mark string back to a Mark.
// An empty string is treated as MarkNone.
func ParseMark(s string) (Mark, error) {
	switch Mark(s) {
	case MarkNone, "":
		return MarkNone, nil
	case MarkSkip:
		return MarkSkip, nil
	case MarkOnly:
		return MarkOnly, nil
	default:
		return MarkNone, fmt.Errorf("unknown mark %q", s)
	}
}

// In reports whether m is one of the given marks.
func (m Mark) In(marks ...Mark) bool {
	for _, candidate := range marks {
		if m == candidate {
			return true
		}
	}
	return false
}
