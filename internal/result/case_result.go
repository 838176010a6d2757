package result

import "slices"

// CaseResult records one test case: the body outcome plus the outcome of
// every inherited beforeEach/afterEach hook that ran around it, and the
// case's own declared mark.
//
// All fields are supplied at construction; nothing is assigned afterward.
type CaseResult struct {
	mark       Mark
	beforeEach []*RunResult
	it         *RunResult
	afterEach  []*RunResult
}

// NewCaseResult assembles a case result. it must be non-nil; the hook
// slices list only the hooks that actually ran, in execution order.
func NewCaseResult(mark Mark, beforeEach []*RunResult, it *RunResult, afterEach []*RunResult) *CaseResult {
	if it == nil {
		panic("result: case result requires a body outcome")
	}
	return &CaseResult{
		mark:       mark,
		beforeEach: slices.Clone(beforeEach),
		it:         it,
		afterEach:  slices.Clone(afterEach),
	}
}

// Name returns the declaration path of the case body.
func (c *CaseResult) Name() []string { return c.it.Name() }

// Filename returns the file the case was loaded from, if known.
func (c *CaseResult) Filename() string { return c.it.Filename() }

// Mark returns the case's own declared mark, not the inherited one.
func (c *CaseResult) Mark() Mark { return c.mark }

// It returns the body outcome. When a beforeEach hook failed, the body
// never ran and this is that hook's result.
func (c *CaseResult) It() *RunResult { return c.it }

// BeforeEach returns the outcomes of the beforeEach hooks that ran,
// outermost suite first.
func (c *CaseResult) BeforeEach() []*RunResult { return slices.Clone(c.beforeEach) }

// AfterEach returns the outcomes of the afterEach hooks that ran,
// innermost suite first.
func (c *CaseResult) AfterEach() []*RunResult { return slices.Clone(c.afterEach) }

// Status derives the case outcome: the worst of every hook outcome and
// the body outcome (fail > timeout > pass > skip), except that a skipped
// body is reported as skip when every hook passed. A broken fixture fails
// the case even though the body never ran; fixture success must not mask
// a skip.
func (c *CaseResult) Status() Status {
	worst := c.it.Status()
	hooksPassed := true
	for _, hooks := range [][]*RunResult{c.beforeEach, c.afterEach} {
		for _, h := range hooks {
			worst = worst.WorseOf(h.Status())
			if h.Status() != StatusPass {
				hooksPassed = false
			}
		}
	}
	if hooksPassed && c.it.Status() == StatusSkip {
		return StatusSkip
	}
	return worst
}

// AllTests flattens the case to its leaf runnable outcomes: every hook
// that ran plus the body, in execution order. Fixture failures therefore
// surface as failing tests in reports.
func (c *CaseResult) AllTests() []*RunResult {
	out := make([]*RunResult, 0, len(c.beforeEach)+1+len(c.afterEach))
	out = append(out, c.beforeEach...)
	out = append(out, c.it)
	out = append(out, c.afterEach...)
	return out
}

// AllMatchingMarks returns the case itself when its own declared mark is
// in the requested set.
func (c *CaseResult) AllMatchingMarks(marks ...Mark) []Result {
	if c.mark.In(marks...) {
		return []Result{c}
	}
	return nil
}

// Equals reports structural equality with another result. The other node
// must also be a case result; hook lists compare element-wise.
func (c *CaseResult) Equals(other Result) bool {
	o, ok := other.(*CaseResult)
	if !ok || o == nil {
		return false
	}
	return c.mark == o.mark &&
		c.it.Equals(o.it) &&
		runResultsEqual(c.beforeEach, o.beforeEach) &&
		runResultsEqual(c.afterEach, o.afterEach)
}

func runResultsEqual(a, b []*RunResult) bool {
	return slices.EqualFunc(a, b, func(x, y *RunResult) bool { return x.Equals(y) })
}

func (c *CaseResult) resultNode() {}
