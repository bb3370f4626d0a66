package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/veldt/sparqlet/internal/algebra"
	"github.com/veldt/sparqlet/internal/codec"
	"github.com/veldt/sparqlet/internal/engine"
	"github.com/veldt/sparqlet/internal/store"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	QueryFile string
	Database  string
	Format    string
	Output    string
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <workspace-dir> [query]",
		Short: "Run a SPARQL query against a workspace",
		Long: `Run a SPARQL query against a workspace's dataset.

The query comes from the second argument or from --file. The workspace
manifest's prefixes are available to the query without PREFIX
declarations. With --db, the dataset loads from the SQLite database
instead of the workspace's graph files; the manifest still supplies
prefixes.

Serialization defaults by query form: SELECT and ASK emit SPARQL results
JSON; CONSTRUCT and DESCRIBE emit N-Triples. Override with --format.

Example:
  sparqlet query ./people 'SELECT ?name WHERE { ?x foaf:name ?name }'
  sparqlet query ./people --file report.rq --format xml -o report.rdf`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.QueryFile, "file", "", "read the query from a file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "query a SQLite database instead of workspace graph files")
	cmd.Flags().StringVar(&opts.Format, "format", "", "result serialization (json|nt|xml)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the result to a file instead of stdout")

	return cmd
}

func runQuery(opts *QueryOptions, args []string, cmd *cobra.Command) error {
	diag := &diagnostics{Writer: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	text, err := queryText(opts, args)
	if err != nil {
		return err
	}

	ws, loadErrs := LoadWorkspace(args[0], LoadModeFailFast)
	if len(loadErrs) > 0 {
		return WrapExitError(ExitCommandError, "failed to load workspace", loadErrs[0])
	}
	diag.Logf("workspace loaded: %d manifest file(s)", ws.FileCount)

	dataset := ws.Dataset
	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()
		dataset, err = st.LoadDataset(context.Background())
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load dataset", err)
		}
		diag.Logf("dataset loaded from %s", opts.Database)
	}

	result, err := engine.Query(text, engine.DatasetSource(dataset), &engine.Options{
		Namespaces: ws.Namespaces,
	})
	if err != nil {
		return WrapExitError(ExitFailure, "query failed", err)
	}

	format := opts.Format
	if format == "" {
		format = defaultFormat(result.Form)
	}
	out, err := result.Serialize(format)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to serialize result", err)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, out, 0o644); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		diag.Logf("result written to %s", opts.Output)
		return nil
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// queryText resolves the query source: the positional argument or --file,
// never both.
func queryText(opts *QueryOptions, args []string) (string, error) {
	switch {
	case opts.QueryFile != "" && len(args) > 1:
		return "", NewExitError(ExitCommandError, "pass the query as an argument or with --file, not both")
	case opts.QueryFile != "":
		data, err := os.ReadFile(opts.QueryFile)
		if err != nil {
			return "", WrapExitError(ExitCommandError, "failed to read query file", err)
		}
		return string(data), nil
	case len(args) > 1:
		return args[1], nil
	}
	return "", NewExitError(ExitCommandError, "no query given")
}

func defaultFormat(form algebra.QueryForm) string {
	switch form {
	case algebra.FormSelect, algebra.FormAsk:
		return engine.FormatJSON
	default:
		return codec.FormatNTriples
	}
}
