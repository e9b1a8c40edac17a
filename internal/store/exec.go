package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/roach88/sqlrow/internal/distill"
	"github.com/roach88/sqlrow/internal/result"
	"github.com/roach88/sqlrow/internal/rowerr"
)

// ExecResult summarizes an Execute call.
type ExecResult struct {
	Units        int   // parameter units the statement ran for
	RowsAffected int64 // summed over all units
	LastInsertID int64 // from the last unit
}

// Execute runs a statement once per distilled parameter unit.
//
// multiparams and params take every shape distill.Distill accepts. With no
// units the statement runs once without arguments. With more than one unit
// all executions share a transaction and the first failure rolls it back.
// Named units bind as sql.NamedArg (:name, @name or $name in the SQL).
func (s *Store) Execute(ctx context.Context, query string, multiparams []any, params map[string]any) (ExecResult, error) {
	units, err := distill.Distill(multiparams, params)
	if err != nil {
		return ExecResult{}, fmt.Errorf("execute: %w", err)
	}
	slog.Debug("execute", "units", len(units))

	if len(units) <= 1 {
		var args []any
		if len(units) == 1 {
			args = units[0].Args()
		}
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return ExecResult{}, fmt.Errorf("execute: %w", err)
		}
		out := ExecResult{Units: len(units)}
		if err := accumulate(&out, res); err != nil {
			return ExecResult{}, err
		}
		return out, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ExecResult{}, fmt.Errorf("execute: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return ExecResult{}, fmt.Errorf("execute: prepare: %w", err)
	}
	defer stmt.Close()

	out := ExecResult{Units: len(units)}
	for i, u := range units {
		res, err := stmt.ExecContext(ctx, u.Args()...)
		if err != nil {
			return ExecResult{}, fmt.Errorf("execute: unit %d: %w", i, err)
		}
		if err := accumulate(&out, res); err != nil {
			return ExecResult{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return ExecResult{}, fmt.Errorf("execute: commit: %w", err)
	}
	return out, nil
}

func accumulate(out *ExecResult, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	out.RowsAffected += n
	out.LastInsertID = id
	return nil
}

// Query runs a statement that returns rows. Parameters are distilled the same
// way as for Execute but must form at most one unit.
// Callers are responsible for closing the returned result.
func (s *Store) Query(ctx context.Context, query string, multiparams []any, params map[string]any, opts result.Options) (*result.Result, error) {
	units, err := distill.Distill(multiparams, params)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(units) > 1 {
		return nil, fmt.Errorf("query: %w", rowerr.TypeMismatch("a query takes one parameter unit, got %d", len(units)))
	}

	var args []any
	if len(units) == 1 {
		args = units[0].Args()
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	res, err := result.New(rows, opts)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return res, nil
}
