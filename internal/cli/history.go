package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lattice-dev/lattice/internal/result"
	"github.com/lattice-dev/lattice/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DBPath string
	Limit  int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List runs recorded with run --record, newest first.

Examples:
  lattice history
  lattice history --db history.db --limit 10
  lattice history --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "lattice.db", "run history database path")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 for all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	db, err := store.Open(opts.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open run history database", err)
	}
	defer db.Close()

	summaries, err := db.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return formatter.Success(summaries)
	}
	if len(summaries) == 0 {
		fmt.Fprintln(formatter.Writer, "No recorded runs.")
		return nil
	}
	for _, s := range summaries {
		name := s.Suite
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(formatter.Writer, "%s  %s  %s  %d passed, %d failed, %d skipped, %d timed out\n",
			s.ID, s.CreatedAt.Format(time.RFC3339), name,
			s.Counts.Pass, s.Counts.Fail, s.Counts.Skip, s.Counts.Timeout)
	}
	return nil
}

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	DBPath string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one recorded run",
		Long: `Print a recorded run's result tree. Text output lists every leaf
runnable with its status; JSON output is the serialized tree.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "lattice.db", "run history database path")

	return cmd
}

func runShow(opts *ShowOptions, id string, cmd *cobra.Command) error {
	db, err := store.Open(opts.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open run history database", err)
	}
	defer db.Close()

	res, err := db.LoadRun(cmd.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return NewExitError(ExitCommandError, fmt.Sprintf("run %s not found", id))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load run", err)
	}

	if opts.Format == "json" {
		serialized, err := result.Serialize(res)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to serialize run", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(serialized))
		return nil
	}

	for _, run := range res.AllTests() {
		line := fmt.Sprintf("%-7s %s", strings.ToUpper(string(run.Status())), strings.Join(run.Name(), " > "))
		if run.Status() == result.StatusTimeout {
			line += fmt.Sprintf(" (after %s)", run.Timeout())
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
		if run.Status() == result.StatusFail && run.ErrorMessage() != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "        %s\n", run.ErrorMessage())
		}
	}
	return nil
}
