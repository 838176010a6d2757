package suite

import (
	"slices"
	"time"

	"github.com/lattice-dev/lattice/internal/result"
)

// Node is the variant over the three declaration kinds: Suite, Case, and
// FailureCase. The set is closed; the engine dispatches by type switch.
type Node interface {
	node()
}

// Hook is one registered beforeAll/afterAll/beforeEach/afterEach
// function with its per-call timeout override.
type Hook struct {
	fn      Func
	timeout time.Duration
}

// Fn returns the hook function.
func (h *Hook) Fn() Func { return h.fn }

// Timeout returns the hook's timeout override; zero means inherit.
func (h *Hook) Timeout() time.Duration { return h.timeout }

// Suite is a named grouping of cases and nested suites with optional
// hooks and a suite-scoped timeout. Immutable after construction except
// for the one-time SetFilename performed by the loader.
type Suite struct {
	name     string
	mark     result.Mark
	timeout  time.Duration
	filename string

	children   []Node
	beforeAll  []*Hook
	afterAll   []*Hook
	beforeEach []*Hook
	afterEach  []*Hook

	// Computed once when the declaration function returns.
	hasOnlyDescendant  bool
	allChildrenSkipped bool
}

// Name returns the suite's declared name. An empty name contributes
// nothing to descendant name paths.
func (s *Suite) Name() string { return s.name }

// Mark returns the suite's own declared mark.
func (s *Suite) Mark() result.Mark { return s.mark }

// Timeout returns the suite-scoped timeout; zero means inherit.
func (s *Suite) Timeout() time.Duration { return s.timeout }

// Filename returns the file the suite was loaded from, if set.
func (s *Suite) Filename() string { return s.filename }

// Children returns the direct children in declaration order.
func (s *Suite) Children() []Node { return slices.Clone(s.children) }

// BeforeAll returns the suite's beforeAll hooks in declaration order.
func (s *Suite) BeforeAll() []*Hook { return slices.Clone(s.beforeAll) }

// AfterAll returns the suite's afterAll hooks in declaration order.
func (s *Suite) AfterAll() []*Hook { return slices.Clone(s.afterAll) }

// BeforeEach returns the suite's beforeEach hooks in declaration order.
func (s *Suite) BeforeEach() []*Hook { return slices.Clone(s.beforeEach) }

// AfterEach returns the suite's afterEach hooks in declaration order.
func (s *Suite) AfterEach() []*Hook { return slices.Clone(s.afterEach) }

// HasOnlyDescendant reports whether any direct child is dot-only: its
// own mark is only, or it is a suite transitively containing one.
func (s *Suite) HasOnlyDescendant() bool { return s.hasOnlyDescendant }

// AllChildrenSkipped reports whether every direct child, given this
// suite's own mark as parent mark, statically resolves to skipped. When
// true the engine does not run beforeAll/afterAll hooks at all.
func (s *Suite) AllChildrenSkipped() bool { return s.allChildrenSkipped }

// SetFilename records the file this suite was loaded from. It may be
// called once; resetting to a different value panics, because declaration
// objects are otherwise immutable after construction.
func (s *Suite) SetFilename(filename string) {
	if s.filename != "" && s.filename != filename {
		panic(&MisuseError{Op: "SetFilename", Reason: "filename already set"})
	}
	s.filename = filename
}

// finalize computes the construction-time metadata once the declaration
// function has returned.
func (s *Suite) finalize() {
	for _, child := range s.children {
		if nodeIsDotOnly(child) {
			s.hasOnlyDescendant = true
			break
		}
	}
	s.allChildrenSkipped = true
	for _, child := range s.children {
		if !staticallySkipped(child, s.mark) {
			s.allChildrenSkipped = false
			break
		}
	}
}

func (s *Suite) node() {}

// Case is a single named test with an optional body. A nil body means
// implicitly skipped.
type Case struct {
	name    string
	mark    result.Mark
	timeout time.Duration
	body    Func
}

// Name returns the case's declared name, possibly empty.
func (c *Case) Name() string { return c.name }

// Mark returns the case's own declared mark.
func (c *Case) Mark() result.Mark { return c.mark }

// Timeout returns the case's timeout override; zero means inherit.
func (c *Case) Timeout() time.Duration { return c.timeout }

// Body returns the test function, or nil when the case was declared
// without one.
func (c *Case) Body() Func { return c.body }

func (c *Case) node() {}

// FailureCase is a synthetic case that always fails with a fixed error.
// The loader emits these when a manifest cannot be resolved, so one bad
// file surfaces as a failing test instead of aborting the whole run.
type FailureCase struct {
	name string
	err  error
}

// NewFailureCase creates a synthetic always-failing case.
func NewFailureCase(name string, err error) *FailureCase {
	return &FailureCase{name: name, err: err}
}

// NewSynthetic wraps a single failure case in an unnamed suite. The
// suite's empty name collapses out of descendant paths, so the failure
// reports under just the given case name.
func NewSynthetic(caseName string, err error) *Suite {
	s := &Suite{children: []Node{NewFailureCase(caseName, err)}}
	s.finalize()
	return s
}

// Name returns the synthetic case's name.
func (f *FailureCase) Name() string { return f.name }

// Err returns the error the case fails with.
func (f *FailureCase) Err() error { return f.err }

func (f *FailureCase) node() {}

// EffectiveMark resolves the mark governing execution: the node's own
// mark if explicit, else the parent's effective mark. A dot-only node
// containing a dot-only descendant defers to the descendant, so nearest
// explicit mark wins recursively.
func EffectiveMark(own, parent result.Mark, hasOnlyDescendant bool) result.Mark {
	m := own
	if m == result.MarkNone {
		m = parent
	}
	if m == result.MarkOnly && hasOnlyDescendant {
		m = result.MarkSkip
	}
	return m
}

// nodeIsDotOnly reports whether a node carries an explicit only mark,
// directly or (for suites) transitively.
func nodeIsDotOnly(n Node) bool {
	switch node := n.(type) {
	case *Case:
		return node.mark == result.MarkOnly
	case *Suite:
		return node.mark == result.MarkOnly || node.hasOnlyDescendant
	default:
		return false
	}
}

// staticallySkipped reports whether a node resolves to skipped under the
// given parent mark without running anything. A bodiless only case is
// not skipped (it reports a failure), and a failure case never skips.
func staticallySkipped(n Node, parent result.Mark) bool {
	switch node := n.(type) {
	case *Case:
		if node.body == nil {
			// A bodiless case only executes (as a failure) when its own
			// declared mark is only; an inherited only leaves it skipped.
			return node.mark != result.MarkOnly
		}
		eff := EffectiveMark(node.mark, parent, false)
		return eff == result.MarkSkip
	case *Suite:
		eff := EffectiveMark(node.mark, parent, node.hasOnlyDescendant)
		for _, child := range node.children {
			if !staticallySkipped(child, eff) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
