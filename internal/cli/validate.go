package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veldt/sparqlet/internal/rdf"
	"github.com/veldt/sparqlet/internal/sparql"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	QueryFiles []string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <workspace-dir>",
		Short: "Validate a workspace without running anything",
		Long: `Validate a workspace manifest and its graph files.

Parses every declared graph file and reports all problems instead of
stopping at the first. With --query, also syntax-checks query files
against the workspace's prefixes.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.QueryFiles, "query", nil, "query file to syntax-check (repeatable)")

	return cmd
}

func runValidate(opts *ValidateOptions, dir string, cmd *cobra.Command) error {
	diag := &diagnostics{Writer: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	ws, errs := LoadWorkspace(dir, LoadModeCollectAll)
	if ws != nil {
		diag.Logf("found %d CUE manifest file(s) in %s", ws.FileCount, dir)
	}

	var ns *rdf.Namespaces
	if ws != nil {
		ns = ws.Namespaces
	}
	for _, path := range opts.QueryFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("query file: %v", err)})
			continue
		}
		if _, err := sparql.Parse(string(data), ns); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		} else {
			diag.Logf("query %s parses", path)
		}
	}

	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(cmd.OutOrStdout(), "workspace valid")
	return nil
}
