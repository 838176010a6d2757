package suite

import (
	"sync/atomic"

	"github.com/lattice-dev/lattice/internal/result"
)

// constructing guards against re-entrant top-level construction: a
// declaration function must not build another top-level suite while one
// is already being built.
var constructing atomic.Bool

// New builds a top-level suite by running fn synchronously, exactly
// once, against a fresh builder. The builder is released even when fn
// panics. opts may be nil.
func New(name string, opts *SuiteOptions, fn func(*Builder)) *Suite {
	return newSuite(name, result.MarkNone, opts, fn)
}

// NewSkip builds a top-level suite marked skip.
func NewSkip(name string, opts *SuiteOptions, fn func(*Builder)) *Suite {
	return newSuite(name, result.MarkSkip, opts, fn)
}

// NewOnly builds a top-level suite marked only.
func NewOnly(name string, opts *SuiteOptions, fn func(*Builder)) *Suite {
	return newSuite(name, result.MarkOnly, opts, fn)
}

func newSuite(name string, mark result.Mark, opts *SuiteOptions, fn func(*Builder)) *Suite {
	if !constructing.CompareAndSwap(false, true) {
		panic(&MisuseError{Op: "New", Reason: "a top-level suite is already under construction"})
	}
	defer constructing.Store(false)
	return buildSuite(name, mark, opts, fn)
}

// buildSuite runs one declaration function against a fresh builder and
// finalizes the resulting suite. Shared by top-level construction and
// nested Describe calls.
func buildSuite(name string, mark result.Mark, opts *SuiteOptions, fn func(*Builder)) *Suite {
	s := &Suite{name: name, mark: mark, timeout: opts.timeout()}
	b := &Builder{suite: s}
	// The builder must be invalidated even when fn panics, so a caught
	// panic cannot leave a usable handle behind.
	defer func() { b.done = true }()
	if fn != nil {
		fn(b)
	}
	s.finalize()
	return s
}

// Builder is the explicit declaration context for one suite. It is valid
// only while that suite's declaration function is running; any use
// afterward panics with a *MisuseError.
type Builder struct {
	suite *Suite
	done  bool
}

func (b *Builder) check(op string) {
	if b.done {
		panic(&MisuseError{Op: op, Reason: "declaration function has already returned"})
	}
}

// Describe declares a nested suite. fn runs synchronously before
// Describe returns. opts may be nil.
func (b *Builder) Describe(name string, opts *SuiteOptions, fn func(*Builder)) {
	b.describe("Describe", name, result.MarkNone, opts, fn)
}

// DescribeSkip declares a nested suite marked skip.
func (b *Builder) DescribeSkip(name string, opts *SuiteOptions, fn func(*Builder)) {
	b.describe("DescribeSkip", name, result.MarkSkip, opts, fn)
}

// DescribeOnly declares a nested suite marked only.
func (b *Builder) DescribeOnly(name string, opts *SuiteOptions, fn func(*Builder)) {
	b.describe("DescribeOnly", name, result.MarkOnly, opts, fn)
}

func (b *Builder) describe(op, name string, mark result.Mark, opts *SuiteOptions, fn func(*Builder)) {
	b.check(op)
	child := buildSuite(name, mark, opts, fn)
	b.suite.children = append(b.suite.children, child)
}

// It declares a test case. A nil body means the case is implicitly
// skipped. opts may be nil.
func (b *Builder) It(name string, opts *CaseOptions, body Func) {
	b.it("It", name, result.MarkNone, opts, body)
}

// ItSkip declares a test case marked skip.
func (b *Builder) ItSkip(name string, opts *CaseOptions, body Func) {
	b.it("ItSkip", name, result.MarkSkip, opts, body)
}

// ItOnly declares a test case marked only.
func (b *Builder) ItOnly(name string, opts *CaseOptions, body Func) {
	b.it("ItOnly", name, result.MarkOnly, opts, body)
}

func (b *Builder) it(op, name string, mark result.Mark, opts *CaseOptions, body Func) {
	b.check(op)
	c := &Case{name: name, mark: mark, timeout: opts.timeout(), body: body}
	b.suite.children = append(b.suite.children, c)
}

// BeforeAll registers a hook that runs once before this suite's
// children. opts may be nil; fn must not be.
func (b *Builder) BeforeAll(opts *HookOptions, fn Func) {
	b.suite.beforeAll = append(b.suite.beforeAll, b.hook("BeforeAll", opts, fn))
}

// AfterAll registers a hook that runs once after this suite's children,
// even when beforeAll or a child failed.
func (b *Builder) AfterAll(opts *HookOptions, fn Func) {
	b.suite.afterAll = append(b.suite.afterAll, b.hook("AfterAll", opts, fn))
}

// BeforeEach registers a hook that runs before every descendant case.
func (b *Builder) BeforeEach(opts *HookOptions, fn Func) {
	b.suite.beforeEach = append(b.suite.beforeEach, b.hook("BeforeEach", opts, fn))
}

// AfterEach registers a hook that runs after every descendant case.
func (b *Builder) AfterEach(opts *HookOptions, fn Func) {
	b.suite.afterEach = append(b.suite.afterEach, b.hook("AfterEach", opts, fn))
}

func (b *Builder) hook(op string, opts *HookOptions, fn Func) *Hook {
	b.check(op)
	if fn == nil {
		panic(&MisuseError{Op: op, Reason: "hook function must not be nil"})
	}
	return &Hook{fn: fn, timeout: opts.timeout()}
}
