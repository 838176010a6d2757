package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lattice-dev/lattice/internal/loader"
)

// ValidationResult holds validation results for one manifest.
type ValidationResult struct {
	Path  string `json:"path"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <manifest-glob>...",
		Short: "Validate manifests without executing",
		Long: `Validate suite manifests against the manifest schema without running
any tests. Checks YAML syntax, the field set, the timeout format, and
that the named suite is registered. Faster than run for development
feedback.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, args []string, cmd *cobra.Command) error {
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

	results := make([]ValidationResult, 0, len(paths))
	invalid := 0
	for _, path := range paths {
		entry := ValidationResult{Path: path, Valid: true}
		if err := loader.ValidateFile(path); err != nil {
			entry.Valid = false
			entry.Error = err.Error()
			invalid++
		}
		results = append(results, entry)
	}

	if opts.Format == "json" {
		if err := formatter.Success(results); err != nil {
			return err
		}
	} else {
		for _, entry := range results {
			if entry.Valid {
				fmt.Fprintf(formatter.Writer, "ok    %s\n", entry.Path)
			} else {
				fmt.Fprintf(formatter.Writer, "error %s: %s\n", entry.Path, entry.Error)
			}
		}
	}

	if invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d manifest(s) invalid", invalid))
	}
	return nil
}
