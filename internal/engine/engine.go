package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lattice-dev/lattice/internal/render"
	"github.com/lattice-dev/lattice/internal/result"
	"github.com/lattice-dev/lattice/internal/suite"
)

// DefaultTimeout bounds every runnable that has no more specific
// timeout on its case, hook, or suite chain.
const DefaultTimeout = 2 * time.Second

// Options configures one runner. The config map and clock are shared by
// reference across the whole run and are never written by the engine.
type Options struct {
	// Timeout is the run-level default deadline per runnable.
	// Zero means DefaultTimeout.
	Timeout time.Duration

	// Config is exposed to runnables through T.Config.
	Config map[string]any

	// OnCaseResult, when set, is invoked synchronously once per
	// completed case result as results become available. It also fires
	// for the wrapper results around each beforeAll/afterAll hook run,
	// so callers counting test cases must filter by name. Suites do not
	// trigger it.
	OnCaseResult func(*result.CaseResult)

	// Renderer names the registered error renderer. Empty selects the
	// default. Resolution failure fails Run before any test executes.
	Renderer string

	// Clock supplies the timeout race. Nil means the real clock.
	Clock clockwork.Clock

	// Logger receives per-runnable debug and per-run summary records.
	// Nil means slog.Default().
	Logger *slog.Logger
}

// Runner executes suite trees. A runner is immutable after New and may
// run any number of suites, each run producing a fresh result tree.
type Runner struct {
	timeout  time.Duration
	config   map[string]any
	onCase   func(*result.CaseResult)
	renderFn result.RenderFunc
	clock    clockwork.Clock
	log      *slog.Logger
}

// New builds a runner, resolving the named renderer up front.
func New(opts Options) (*Runner, error) {
	renderFn, err := render.Resolve(opts.Renderer)
	if err != nil {
		return nil, err
	}
	r := &Runner{
		timeout:  opts.Timeout,
		config:   opts.Config,
		onCase:   opts.OnCaseResult,
		renderFn: renderFn,
		clock:    opts.Clock,
		log:      opts.Logger,
	}
	if r.timeout == 0 {
		r.timeout = DefaultTimeout
	}
	if r.clock == nil {
		r.clock = clockwork.NewRealClock()
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	return r, nil
}

// Run executes s and returns its result tree. Convenience for
// one-shot callers.
func Run(ctx context.Context, s *suite.Suite, opts Options) (*result.SuiteResult, error) {
	r, err := New(opts)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, s)
}

// Run executes one suite tree. Body and hook failures never surface
// here; they become part of the returned tree.
func (r *Runner) Run(ctx context.Context, s *suite.Suite) (*result.SuiteResult, error) {
	if s == nil {
		return nil, errors.New("engine: nil suite")
	}
	// The run begins with parent mark only: an unmarked root inherits
	// only and the deferral rule inside EffectiveMark is what forces
	// unmarked siblings of a dot-only node into skip.
	inh := inherited{
		mark:    result.MarkOnly,
		timeout: r.timeout,
	}
	res := r.runSuite(ctx, s, inh, false)

	counts := res.Count()
	r.log.Info("run complete",
		"suite", s.Name(),
		"pass", counts.Pass,
		"fail", counts.Fail,
		"skip", counts.Skip,
		"timeout", counts.Timeout,
	)
	return res, nil
}

// inherited carries everything a node receives from its ancestor chain.
type inherited struct {
	name       []string
	filename   string
	timeout    time.Duration
	mark       result.Mark
	beforeEach []boundHook
	afterEach  []boundHook
}

// boundHook is a hook bound to its declaring suite: full label path plus
// the declared timeout override.
type boundHook struct {
	name    []string
	fn      suite.Func
	timeout time.Duration
}

// labelHooks names a suite's hooks of one kind. A single hook is just
// "beforeAll()"; multiples are numbered so failures stay individually
// attributable.
func labelHooks(path []string, kind string, hooks []*suite.Hook) []boundHook {
	bound := make([]boundHook, len(hooks))
	for i, h := range hooks {
		label := kind + "()"
		if len(hooks) > 1 {
			label = fmt.Sprintf("%s() #%d", kind, i+1)
		}
		name := append(slices.Clone(path), label)
		bound[i] = boundHook{name: name, fn: h.Fn(), timeout: h.Timeout()}
	}
	return bound
}

func (r *Runner) runSuite(ctx context.Context, s *suite.Suite, inh inherited, forceSkip bool) *result.SuiteResult {
	name := slices.Clone(inh.name)
	if s.Name() != "" {
		name = append(name, s.Name())
	}
	filename := inh.filename
	if s.Filename() != "" {
		filename = s.Filename()
	}
	timeout := inh.timeout
	if s.Timeout() != 0 {
		timeout = s.Timeout()
	}
	eff := suite.EffectiveMark(s.Mark(), inh.mark, s.HasOnlyDescendant())

	// Hooks are skipped entirely when construction already proved that
	// every child resolves to skipped, and when an ancestor beforeAll
	// failure forced this subtree into skip.
	runHooks := !s.AllChildrenSkipped() && !forceSkip

	var beforeAll []*result.CaseResult
	forced := forceSkip
	if runHooks {
		for _, h := range labelHooks(name, "beforeAll", s.BeforeAll()) {
			run := r.runUnit(ctx, h.name, filename, h.fn, orDefault(h.timeout, timeout), result.MarkNone)
			wrapped := result.NewCaseResult(result.MarkNone, nil, run, nil)
			beforeAll = append(beforeAll, wrapped)
			r.notify(wrapped)
			if run.Status() != result.StatusPass {
				// Remaining beforeAll hooks are not invoked; the whole
				// suite's children run as skipped, but this failure is
				// what gets attached.
				forced = true
				break
			}
		}
	}

	childInh := inherited{
		name:       name,
		filename:   filename,
		timeout:    timeout,
		mark:       eff,
		beforeEach: append(slices.Clone(inh.beforeEach), labelHooks(name, "beforeEach", s.BeforeEach())...),
		afterEach:  append(labelHooks(name, "afterEach", s.AfterEach()), inh.afterEach...),
	}

	children := make([]result.Result, 0, len(s.Children()))
	for _, child := range s.Children() {
		switch node := child.(type) {
		case *suite.Suite:
			children = append(children, r.runSuite(ctx, node, childInh, forced))
		case *suite.Case:
			children = append(children, r.runCase(ctx, node, childInh, forced))
		case *suite.FailureCase:
			children = append(children, r.runFailureCase(node, childInh, forced))
		}
	}

	var afterAll []*result.CaseResult
	if runHooks {
		// afterAll always runs once beforeAll ran, even after a
		// beforeAll or child failure: cleanup must happen.
		for _, h := range labelHooks(name, "afterAll", s.AfterAll()) {
			run := r.runUnit(ctx, h.name, filename, h.fn, orDefault(h.timeout, timeout), result.MarkNone)
			wrapped := result.NewCaseResult(result.MarkNone, nil, run, nil)
			afterAll = append(afterAll, wrapped)
			r.notify(wrapped)
		}
	}

	// The result records the declared mark, not the inherited one, so
	// consumers can tell explicit .only/.skip apart from inheritance.
	return result.NewSuiteResult(name, filename, s.Mark(), beforeAll, afterAll, children)
}

func (r *Runner) runCase(ctx context.Context, c *suite.Case, inh inherited, forceSkip bool) *result.CaseResult {
	display := c.Name()
	if display == "" {
		display = "(unnamed)"
	}
	name := append(slices.Clone(inh.name), display)

	eff := c.Mark()
	if eff == result.MarkNone {
		eff = inh.mark
	}
	if forceSkip {
		eff = result.MarkSkip
	}

	if c.Body() == nil {
		// A missing body is an implicit skip unless the case itself is
		// marked only: singling out a test that cannot run is an error.
		// The declared mark decides; an inherited only never promotes a
		// bodiless case to a failure.
		var it *result.RunResult
		if c.Mark() == result.MarkOnly && !forceSkip {
			it = result.Fail(name, inh.filename,
				errors.New("Test is marked '.only', but it has no body"),
				c.Mark(), r.renderFn)
		} else {
			it = result.Skip(name, inh.filename)
		}
		return r.finishCase(c.Mark(), nil, it, nil)
	}

	if eff == result.MarkSkip {
		return r.finishCase(c.Mark(), nil, result.Skip(name, inh.filename), nil)
	}

	timeout := inh.timeout
	if c.Timeout() != 0 {
		timeout = c.Timeout()
	}

	var beforeEach, afterEach []*result.RunResult
	var it *result.RunResult
	for _, h := range inh.beforeEach {
		run := r.runUnit(ctx, h.name, inh.filename, h.fn, orDefault(h.timeout, inh.timeout), c.Mark())
		beforeEach = append(beforeEach, run)
		if run.Status() != result.StatusPass {
			// Fail fast: remaining beforeEach hooks are not invoked and
			// the body never runs; the broken fixture's result is
			// propagated as the case's own.
			it = run
			break
		}
	}
	if it == nil {
		it = r.runUnit(ctx, name, inh.filename, c.Body(), timeout, c.Mark())
	}
	// afterEach runs whenever the hook phase was entered, regardless of
	// the body outcome. A body failure keeps precedence: an afterEach
	// failure lands in the list but never replaces the it result.
	for _, h := range inh.afterEach {
		afterEach = append(afterEach, r.runUnit(ctx, h.name, inh.filename, h.fn, orDefault(h.timeout, inh.timeout), c.Mark()))
	}
	return r.finishCase(c.Mark(), beforeEach, it, afterEach)
}

func (r *Runner) runFailureCase(f *suite.FailureCase, inh inherited, forceSkip bool) *result.CaseResult {
	name := append(slices.Clone(inh.name), f.Name())
	var it *result.RunResult
	if forceSkip {
		it = result.Skip(name, inh.filename)
	} else {
		it = result.Fail(name, inh.filename, f.Err(), result.MarkNone, r.renderFn)
	}
	return r.finishCase(result.MarkNone, nil, it, nil)
}

func (r *Runner) finishCase(mark result.Mark, beforeEach []*result.RunResult, it *result.RunResult, afterEach []*result.RunResult) *result.CaseResult {
	cr := result.NewCaseResult(mark, beforeEach, it, afterEach)
	r.log.Debug("case complete", "name", it.Name(), "status", cr.Status())
	r.notify(cr)
	return cr
}

func (r *Runner) notify(cr *result.CaseResult) {
	if r.onCase != nil {
		r.onCase(cr)
	}
}

func orDefault(override, fallback time.Duration) time.Duration {
	if override != 0 {
		return override
	}
	return fallback
}
