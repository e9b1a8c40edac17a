package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlrow/internal/rowerr"
)

// ExecOptions holds flags for the exec command.
type ExecOptions struct {
	*RootOptions
	Database string
	Args     string
	Params   string
}

// ExecSummary is the outcome of an exec command.
type ExecSummary struct {
	Units        int   `json:"units"`
	RowsAffected int64 `json:"rows_affected"`
	LastInsertID int64 `json:"last_insert_id"`
}

func (s ExecSummary) String() string {
	return fmt.Sprintf("units=%d rows_affected=%d last_insert_id=%d", s.Units, s.RowsAffected, s.LastInsertID)
}

// NewExecCommand creates the exec command.
func NewExecCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExecOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "exec <sql>",
		Short: "Execute a statement once per parameter unit",
		Long: `Execute a statement that does not return rows.

--args holds the call's positional arguments as a JSON array. A list of
arrays or objects runs the statement once per element inside a single
transaction; a list of scalars is one positional unit. --params binds one
unit by name. The database is created if it does not exist.

Example:
  sqlrow exec --db app.db "CREATE TABLE users (id INTEGER, name TEXT)"
  sqlrow exec --db app.db "INSERT INTO users VALUES (?, ?)" --args '[[1, "ada"], [2, "grace"]]'
  sqlrow exec --db app.db "DELETE FROM users WHERE id = :id" --params '{"id": 2}'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (defaults to config)")
	cmd.Flags().StringVar(&opts.Args, "args", "", "positional arguments as a JSON array")
	cmd.Flags().StringVar(&opts.Params, "params", "", "named parameters as a JSON object")

	return cmd
}

func runExec(opts *ExecOptions, statement string, cmd *cobra.Command) error {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}

	multiparams, params, err := parseParams(opts.Args, opts.Params)
	if err != nil {
		return err
	}

	st, err := openDatabase(opts.Database, cfg, true)
	if err != nil {
		return err
	}
	defer closeStore(st)

	res, err := st.Execute(commandContext(cmd), statement, multiparams, params)
	if err != nil {
		if rowerr.IsTypeMismatch(err) {
			return kindError(ExitCommandError, ErrCodeBadParams, "invalid parameters", err)
		}
		return kindError(ExitFailure, ErrCodeStatement, "execute failed", err)
	}
	slog.Debug("executed", "units", res.Units, "rows_affected", res.RowsAffected)

	summary := ExecSummary{
		Units:        res.Units,
		RowsAffected: res.RowsAffected,
		LastInsertID: res.LastInsertID,
	}
	f := opts.formatter(cmd)
	if f.Format == "json" {
		return f.Success(summary)
	}
	return f.Success(summary.String())
}
