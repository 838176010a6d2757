package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/lattice-dev/lattice/internal/engine"
	"github.com/lattice-dev/lattice/internal/loader"
	"github.com/lattice-dev/lattice/internal/result"
	"github.com/lattice-dev/lattice/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Timeout  time.Duration // overrides manifest timeouts when non-zero
	Renderer string
	Record   bool
	DBPath   string
}

// ManifestReport holds the outcome of one manifest execution.
type ManifestReport struct {
	Path     string        `json:"path"`
	Suite    string        `json:"suite"`
	Counts   result.Counts `json:"counts"`
	RunID    string        `json:"run_id,omitempty"`
	Failures []string      `json:"failures,omitempty"`
}

// RunReport holds the overall run outcome.
type RunReport struct {
	Manifests []ManifestReport `json:"manifests"`
	Counts    result.Counts    `json:"counts"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <manifest-glob>...",
		Short: "Execute suite manifests",
		Long: `Execute the suites selected by one or more manifest files.

Globs expand with ** support. Manifests run strictly sequentially in
argument order; a manifest that cannot be loaded reports as a single
failing test instead of aborting the run.

Exit codes:
  0 - All tests passed or skipped
  1 - One or more tests failed or timed out
  2 - Command error (invalid flags, database errors, etc.)

Examples:
  lattice run suites/checkout.yaml
  lattice run "suites/**/*.yaml" --timeout 5s
  lattice run suites/*.yaml --record --db history.db
  lattice run suites/*.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(opts, args, cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "override per-test timeout (default from manifest, else 2s)")
	cmd.Flags().StringVar(&opts.Renderer, "renderer", "", "error renderer name (default \"default\")")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "record results in the run history database")
	cmd.Flags().StringVar(&opts.DBPath, "db", "lattice.db", "run history database path")

	return cmd
}

func runRun(opts *RunOptions, args []string, cmd *cobra.Command) error {
	paths, err := expandManifestArgs(args)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to expand manifest patterns", err)
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	formatter.VerboseLog("Found %d manifest(s)", len(paths))

	var db *store.Store
	if opts.Record {
		db, err = store.Open(opts.DBPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open run history database", err)
		}
		defer db.Close()
	}

	report := RunReport{Manifests: []ManifestReport{}}
	for _, loaded := range loader.Load(paths...) {
		entry, err := runManifest(cmd.Context(), opts, formatter, db, loaded)
		if err != nil {
			return err
		}
		report.Manifests = append(report.Manifests, entry)
		addCounts(&report.Counts, entry.Counts)
	}

	if opts.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else {
		printRunReport(formatter, report)
	}

	if !report.Counts.Success() {
		return NewExitError(ExitFailure, fmt.Sprintf("%d test(s) failed, %d timed out",
			report.Counts.Fail, report.Counts.Timeout))
	}
	return nil
}

func runManifest(ctx context.Context, opts *RunOptions, formatter *OutputFormatter, db *store.Store, loaded loader.Loaded) (ManifestReport, error) {
	timeout := loaded.Timeout
	if opts.Timeout != 0 {
		timeout = opts.Timeout
	}

	runner, err := engine.New(engine.Options{
		Timeout:  timeout,
		Config:   loaded.Config,
		Renderer: opts.Renderer,
		OnCaseResult: func(cr *result.CaseResult) {
			formatter.VerboseLog("  %-7s %s", strings.ToUpper(string(cr.Status())), strings.Join(cr.Name(), " > "))
		},
	})
	if err != nil {
		return ManifestReport{}, WrapExitError(ExitCommandError, "failed to configure runner", err)
	}

	res, err := runner.Run(ctx, loaded.Suite)
	if err != nil {
		return ManifestReport{}, WrapExitError(ExitCommandError,
			fmt.Sprintf("failed to run %s", loaded.Path), err)
	}

	entry := ManifestReport{
		Path:     loaded.Path,
		Suite:    strings.Join(res.Name(), " > "),
		Counts:   res.Count(),
		Failures: collectFailures(res),
	}
	if db != nil {
		entry.RunID, err = db.SaveRun(ctx, res)
		if err != nil {
			return ManifestReport{}, WrapExitError(ExitCommandError, "failed to record run", err)
		}
	}
	return entry, nil
}

// collectFailures gathers the pre-rendered text of every failed or
// timed-out leaf runnable.
func collectFailures(res *result.SuiteResult) []string {
	var failures []string
	for _, run := range res.AllTests() {
		switch run.Status() {
		case result.StatusFail:
			text := run.ErrorRender()
			if text == "" {
				text = fmt.Sprintf("%s\n  %s\n", strings.Join(run.Name(), " > "), run.ErrorMessage())
			}
			failures = append(failures, text)
		case result.StatusTimeout:
			failures = append(failures, fmt.Sprintf("%s\n  timed out after %s\n",
				strings.Join(run.Name(), " > "), run.Timeout()))
		}
	}
	return failures
}

// expandManifestArgs expands glob patterns to absolute manifest paths.
// A pattern matching nothing passes through as-is, so the loader reports
// it as a failing case rather than the run silently shrinking.
func expandManifestArgs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			matches = []string{arg}
		}
		for _, match := range matches {
			abs, err := filepath.Abs(match)
			if err != nil {
				return nil, fmt.Errorf("resolve %q: %w", match, err)
			}
			paths = append(paths, abs)
		}
	}
	return paths, nil
}

func printRunReport(formatter *OutputFormatter, report RunReport) {
	for _, entry := range report.Manifests {
		name := entry.Suite
		if name == "" {
			name = entry.Path
		}
		fmt.Fprintf(formatter.Writer, "%s: %d passed, %d failed, %d skipped, %d timed out\n",
			name, entry.Counts.Pass, entry.Counts.Fail, entry.Counts.Skip, entry.Counts.Timeout)
		for _, failure := range entry.Failures {
			fmt.Fprintln(formatter.Writer)
			fmt.Fprint(formatter.Writer, failure)
		}
	}
	fmt.Fprintf(formatter.Writer, "\nTotal: %d passed, %d failed, %d skipped, %d timed out\n",
		report.Counts.Pass, report.Counts.Fail, report.Counts.Skip, report.Counts.Timeout)
}

func addCounts(total *result.Counts, c result.Counts) {
	total.Pass += c.Pass
	total.Fail += c.Fail
	total.Skip += c.Skip
	total.Timeout += c.Timeout
	total.Total += c.Total
}
