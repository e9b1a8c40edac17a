package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlrow/internal/distill"
	"github.com/roach88/sqlrow/internal/render"
)

// DistillOptions holds flags for the distill command.
type DistillOptions struct {
	*RootOptions
	Args   string
	Params string
}

// DistillData is the JSON payload of the distill command.
type DistillData struct {
	Units []json.RawMessage `json:"units"`
}

// NewDistillCommand creates the distill command.
func NewDistillCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DistillOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "distill",
		Short: "Show the parameter units a call would execute with",
		Long: `Normalize call arguments into parameter units without touching a database.

Each unit is printed as canonical JSON, one per line: an array for a
positional unit, an object for a named one.

Example:
  sqlrow distill --args '[[1, "ada"], [2, "grace"]]'
  sqlrow distill --params '{"id": 1}'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDistill(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Args, "args", "", "positional arguments as a JSON array")
	cmd.Flags().StringVar(&opts.Params, "params", "", "named parameters as a JSON object")

	return cmd
}

func runDistill(opts *DistillOptions, cmd *cobra.Command) error {
	multiparams, params, err := parseParams(opts.Args, opts.Params)
	if err != nil {
		return err
	}

	units, err := distill.Distill(multiparams, params)
	if err != nil {
		return kindError(ExitCommandError, ErrCodeBadParams, "invalid parameters", err)
	}

	encoded := make([]json.RawMessage, len(units))
	for i, u := range units {
		var v any = u.Positional
		if u.IsNamed() {
			v = u.Named
		}
		b, err := render.Canonical(v)
		if err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("unit %d", i), err)
		}
		encoded[i] = b
	}

	f := opts.formatter(cmd)
	if f.Format == "json" {
		return f.Success(DistillData{Units: encoded})
	}
	for _, b := range encoded {
		if _, err := fmt.Fprintln(f.Writer, string(b)); err != nil {
			return err
		}
	}
	return nil
}
