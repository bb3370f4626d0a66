package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/veldt/sparqlet/internal/codec"
	"github.com/veldt/sparqlet/internal/rdf"
	"github.com/veldt/sparqlet/internal/store"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Database string
	Graph    string
	Format   string
	Output   string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Serialize a stored graph",
		Long: `Serialize a graph from a SQLite database.

Without --graph, exports the default graph. Formats are "nt"
(N-Triples) and "xml" (RDF/XML).

Example:
  sparqlet export --db ./people.db --format xml -o people.rdf
  sparqlet export --db ./people.db --graph http://example.org/g/places`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Graph, "graph", "", "named graph IRI (default graph when omitted)")
	cmd.Flags().StringVar(&opts.Format, "format", codec.FormatNTriples, "serialization format (nt|xml)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to a file instead of stdout")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	diag := &diagnostics{Writer: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var g *rdf.Graph
	if opts.Graph == "" {
		d, err := st.LoadDataset(context.Background())
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load dataset", err)
		}
		g = d.Default()
	} else {
		loaded, ok, err := st.LoadGraph(context.Background(), opts.Graph)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load graph", err)
		}
		if !ok {
			return NewExitError(ExitCommandError, "graph not found: "+opts.Graph)
		}
		g = loaded
	}
	diag.Logf("exporting %d triple(s)", g.Len())

	out, err := codec.Serialize(g, opts.Format)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to serialize graph", err)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, out, 0o644); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		return nil
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
