package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlrow/internal/config"
	"github.com/roach88/sqlrow/internal/store"
)

// parseParams decodes the --args and --params flags. args is a JSON array
// whose elements are the call's positional arguments; params is a JSON
// object of keyword parameters. Either may be empty.
func parseParams(args, params string) ([]any, map[string]any, error) {
	var multiparams []any
	if args != "" {
		v, err := decodeJSON(args)
		if err != nil {
			return nil, nil, kindError(ExitCommandError, ErrCodeBadParams, "invalid --args", err)
		}
		arr, ok := v.([]any)
		if !ok {
			return nil, nil, kindError(ExitCommandError, ErrCodeBadParams, "invalid --args", fmt.Errorf("want a JSON array, got %T", v))
		}
		multiparams = arr
	}

	var named map[string]any
	if params != "" {
		v, err := decodeJSON(params)
		if err != nil {
			return nil, nil, kindError(ExitCommandError, ErrCodeBadParams, "invalid --params", err)
		}
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, nil, kindError(ExitCommandError, ErrCodeBadParams, "invalid --params", fmt.Errorf("want a JSON object, got %T", v))
		}
		named = obj
	}
	return multiparams, named, nil
}

// decodeJSON decodes exactly one JSON value. Whole numbers become int64 and
// other numbers float64.
func decodeJSON(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}
	return numbers(v), nil
}

func numbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		f, _ := x.Float64()
		return f
	case []any:
		for i, e := range x {
			x[i] = numbers(e)
		}
		return x
	case map[string]any:
		for k, e := range x {
			x[k] = numbers(e)
		}
		return x
	}
	return v
}

// openDatabase opens the database named by the --db flag, falling back to
// the config file. Unless create is set the file must already exist.
func openDatabase(flag string, cfg config.Config, create bool) (*store.Store, error) {
	path := flag
	if path == "" {
		path = cfg.Database
	}
	if path == "" {
		return nil, kindError(ExitCommandError, ErrCodeNotFound, "no database: pass --db or set database in config", nil)
	}
	if !create {
		if _, err := os.Stat(path); err != nil {
			return nil, kindError(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", path), err)
		}
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
