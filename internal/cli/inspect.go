package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Database string
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect [snapshot]",
		Short: "List snapshots or print the rows of one",
		Long: `Show row snapshots saved with "query --save".

Without an argument every snapshot is listed with its row count. With a
snapshot name its rows are restored and printed.

Example:
  sqlrow inspect --db app.db
  sqlrow inspect --db app.db users`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runInspect(opts, name, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (defaults to config)")

	return cmd
}

func runInspect(opts *InspectOptions, name string, cmd *cobra.Command) error {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}

	st, err := openDatabase(opts.Database, cfg, false)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := commandContext(cmd)
	f := opts.formatter(cmd)

	if name == "" {
		counts, err := st.ListSnapshots(ctx)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to list snapshots", err)
		}
		if f.Format == "json" {
			return f.Success(counts)
		}
		names := make([]string, 0, len(counts))
		for n := range counts {
			names = append(names, n)
		}
		slices.Sort(names)
		rows := make([][]any, len(names))
		for i, n := range names {
			rows[i] = []any{n, counts[n]}
		}
		return f.Table([]string{"snapshot", "rows"}, rows)
	}

	rows, err := st.LoadSnapshot(ctx, name)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load snapshot", err)
	}
	if len(rows) == 0 {
		return kindError(ExitFailure, ErrCodeNotFound, fmt.Sprintf("snapshot not found: %s", name), nil)
	}
	return f.Table(rows[0].Fields(), rowValues(rows))
}
