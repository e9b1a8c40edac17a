package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlrow/internal/render"
	"github.com/roach88/sqlrow/internal/row"
	"github.com/roach88/sqlrow/internal/rowerr"
	"github.com/roach88/sqlrow/internal/store"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Database string
	Args     string
	Params   string
	KeyStyle string
	Objects  bool
	Save     string
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a query and print its rows",
		Long: `Run a statement that returns rows and print them.

Values are coerced by the processor registered for each column's declared
type. Parameters bind positionally from --args or by name from --params
(:name, @name or $name in the SQL); a query takes one parameter unit.

Example:
  sqlrow query --db app.db "SELECT id, name FROM users WHERE id = ?" --args '[1]'
  sqlrow query --db app.db "SELECT * FROM users" --objects --save users`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (defaults to config)")
	cmd.Flags().StringVar(&opts.Args, "args", "", "positional arguments as a JSON array")
	cmd.Flags().StringVar(&opts.Params, "params", "", "named parameters as a JSON object")
	cmd.Flags().StringVar(&opts.KeyStyle, "key-style", "", "row key style (overrides config)")
	cmd.Flags().BoolVar(&opts.Objects, "objects", false, "print each row as a JSON object keyed by column")
	cmd.Flags().StringVar(&opts.Save, "save", "", "save the fetched rows as a named snapshot")

	return cmd
}

func runQuery(opts *QueryOptions, query string, cmd *cobra.Command) error {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}
	if opts.KeyStyle != "" {
		cfg.KeyStyle = opts.KeyStyle
	}
	resultOpts, err := cfg.Options()
	if err != nil {
		return kindError(ExitCommandError, ErrCodeConfig, "invalid options", err)
	}

	multiparams, params, err := parseParams(opts.Args, opts.Params)
	if err != nil {
		return err
	}

	st, err := openDatabase(opts.Database, cfg, false)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := commandContext(cmd)
	res, err := st.Query(ctx, query, multiparams, params, resultOpts)
	if err != nil {
		if rowerr.IsTypeMismatch(err) {
			return kindError(ExitCommandError, ErrCodeBadParams, "invalid parameters", err)
		}
		return kindError(ExitFailure, ErrCodeStatement, "query failed", err)
	}
	columns := res.Columns()
	rows, err := res.Fetch()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to fetch rows", err)
	}
	slog.Debug("query fetched", "rows", len(rows), "columns", len(columns))

	if opts.Save != "" {
		if err := st.SaveSnapshot(ctx, opts.Save, rows); err != nil {
			return WrapExitError(ExitFailure, "failed to save snapshot", err)
		}
		slog.Info("snapshot saved", "name", opts.Save, "rows", len(rows))
	}

	f := opts.formatter(cmd)
	if opts.Objects {
		return writeObjects(f, rows)
	}
	return f.Table(columns, rowValues(rows))
}

func rowValues(rows []*row.Row) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = r.Values()
	}
	return out
}

// writeObjects prints each row as a canonical JSON object. Rows with
// duplicate column names fail with AMBIGUOUS_KEY.
func writeObjects(f *OutputFormatter, rows []*row.Row) error {
	encoded := make([]json.RawMessage, len(rows))
	for i, r := range rows {
		m, err := r.Mapping().AsMap()
		if err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("row %d", i), err)
		}
		b, err := render.Canonical(m)
		if err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("row %d", i), err)
		}
		encoded[i] = b
	}

	if f.Format == "json" {
		return f.Success(encoded)
	}
	for _, b := range encoded {
		if _, err := fmt.Fprintln(f.Writer, string(b)); err != nil {
			return err
		}
	}
	return nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
