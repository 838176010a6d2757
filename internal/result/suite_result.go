package result

import "slices"

// SuiteResult records one suite: the results of its children in declared
// order, plus its own beforeAll/afterAll outcomes. Suite hooks are
// wrapped as CaseResults so they flatten and count like tests.
type SuiteResult struct {
	name      []string
	filename  string
	mark      Mark
	beforeAll []*CaseResult
	afterAll  []*CaseResult
	children  []Result
}

// NewSuiteResult assembles a suite result. The recorded mark is the
// suite's own declared mark, never the inherited one, so consumers can
// distinguish explicit .only/.skip annotations when rendering.
func NewSuiteResult(name []string, filename string, mark Mark, beforeAll, afterAll []*CaseResult, children []Result) *SuiteResult {
	return &SuiteResult{
		name:      slices.Clone(name),
		filename:  filename,
		mark:      mark,
		beforeAll: slices.Clone(beforeAll),
		afterAll:  slices.Clone(afterAll),
		children:  slices.Clone(children),
	}
}

// Name returns the declaration path of the suite.
func (s *SuiteResult) Name() []string { return slices.Clone(s.name) }

// Filename returns the file the suite was loaded from, if known.
func (s *SuiteResult) Filename() string { return s.filename }

// Mark returns the suite's own declared mark.
func (s *SuiteResult) Mark() Mark { return s.mark }

// Children returns the child results in declared order.
func (s *SuiteResult) Children() []Result { return slices.Clone(s.children) }

// BeforeAll returns the beforeAll outcomes in execution order.
func (s *SuiteResult) BeforeAll() []*CaseResult { return slices.Clone(s.beforeAll) }

// AfterAll returns the afterAll outcomes in execution order.
func (s *SuiteResult) AfterAll() []*CaseResult { return slices.Clone(s.afterAll) }

// AllTests flattens the suite to leaf runnable outcomes: beforeAll runs,
// then every child's tests in declared order, then afterAll runs.
func (s *SuiteResult) AllTests() []*RunResult {
	var out []*RunResult
	for _, hook := range s.beforeAll {
		out = append(out, hook.AllTests()...)
	}
	for _, child := range s.children {
		out = append(out, child.AllTests()...)
	}
	for _, hook := range s.afterAll {
		out = append(out, hook.AllTests()...)
	}
	return out
}

// AllMatchingMarks flattens results whose own declared mark is in the
// requested set. A matched node is returned with its subtree intact;
// unmatched suites are pruned into, including their hook lists.
func (s *SuiteResult) AllMatchingMarks(marks ...Mark) []Result {
	if s.mark.In(marks...) {
		return []Result{s}
	}
	var out []Result
	for _, hook := range s.beforeAll {
		out = append(out, hook.AllMatchingMarks(marks...)...)
	}
	for _, child := range s.children {
		out = append(out, child.AllMatchingMarks(marks...)...)
	}
	for _, hook := range s.afterAll {
		out = append(out, hook.AllMatchingMarks(marks...)...)
	}
	return out
}

// Count tallies the suite's AllTests flattening by status. It is a pure
// derivation; the tree holds no independent counters to drift.
func (s *SuiteResult) Count() Counts {
	var counts Counts
	for _, run := range s.AllTests() {
		switch run.Status() {
		case StatusPass:
			counts.Pass++
		case StatusFail:
			counts.Fail++
		case StatusSkip:
			counts.Skip++
		case StatusTimeout:
			counts.Timeout++
		}
		counts.Total++
	}
	return counts
}

// Equals reports structural equality with another result. The other node
// must also be a suite result; children and hook lists compare
// element-wise in order.
func (s *SuiteResult) Equals(other Result) bool {
	o, ok := other.(*SuiteResult)
	if !ok || o == nil {
		return false
	}
	return slices.Equal(s.name, o.name) &&
		s.filename == o.filename &&
		s.mark == o.mark &&
		caseResultsEqual(s.beforeAll, o.beforeAll) &&
		caseResultsEqual(s.afterAll, o.afterAll) &&
		slices.EqualFunc(s.children, o.children, func(a, b Result) bool { return a.Equals(b) })
}

func caseResultsEqual(a, b []*CaseResult) bool {
	return slices.EqualFunc(a, b, func(x, y *CaseResult) bool { return x.Equals(y) })
}

func (s *SuiteResult) resultNode() {}
