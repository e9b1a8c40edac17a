package result

import (
	"database/sql"
	"errors"
	"fmt"
	"iter"

	"github.com/roach88/sqlrow/internal/row"
)

// Result iterates the rows of a query as row.Row values.
//
// Typical use:
//
//	res, err := result.New(sqlRows, result.DefaultOptions())
//	if err != nil { ... }
//	defer res.Close()
//	for res.Next() {
//		r := res.Row()
//	}
//	if err := res.Err(); err != nil { ... }
type Result struct {
	rows *sql.Rows
	meta *Metadata
	cur  *row.Row
	err  error
}

// New wraps rows. It reads the column types once; on failure rows is closed.
func New(rows *sql.Rows, opts Options) (*Result, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("read column types: %w", err)
	}
	return &Result{rows: rows, meta: FromColumnTypes(types, opts)}, nil
}

// Metadata returns the descriptor shared by the result's rows.
func (r *Result) Metadata() *Metadata { return r.meta }

// Columns returns the column names in position order.
func (r *Result) Columns() []string { return r.meta.Index().Names() }

// Next advances to the next row, returning false at the end or on error.
func (r *Result) Next() bool {
	if r.err != nil {
		return false
	}
	if !r.rows.Next() {
		return false
	}

	n := r.meta.Index().Len()
	raw := make([]any, n)
	dest := make([]any, n)
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := r.rows.Scan(dest...); err != nil {
		r.err = fmt.Errorf("scan row: %w", err)
		return false
	}

	cur, err := r.meta.NewRow(raw)
	if err != nil {
		r.err = fmt.Errorf("build row: %w", err)
		return false
	}
	r.cur = cur
	return true
}

// Row returns the row Next advanced to.
func (r *Result) Row() *row.Row { return r.cur }

// Err returns the first error met while iterating.
func (r *Result) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.rows.Err()
}

// Close releases the underlying rows.
func (r *Result) Close() error {
	return r.rows.Close()
}

// All iterates the remaining rows. Iteration stops after the first error,
// which is yielded with a nil row.
func (r *Result) All() iter.Seq2[*row.Row, error] {
	return func(yield func(*row.Row, error) bool) {
		for r.Next() {
			if !yield(r.cur, nil) {
				return
			}
		}
		if err := r.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// Fetch reads every remaining row and closes the result.
func (r *Result) Fetch() ([]*row.Row, error) {
	var out []*row.Row
	for rw, err := range r.All() {
		if err != nil {
			return nil, errors.Join(err, r.Close())
		}
		out = append(out, rw)
	}
	return out, r.Close()
}

// Mappings reads every remaining row as its mapping view and closes the
// result.
func (r *Result) Mappings() ([]*row.Mapping, error) {
	rows, err := r.Fetch()
	if err != nil {
		return nil, err
	}
	out := make([]*row.Mapping, len(rows))
	for i, rw := range rows {
		out[i] = rw.Mapping()
	}
	return out, nil
}

// First reads one row and closes the result. It returns sql.ErrNoRows when
// the result is empty.
func (r *Result) First() (*row.Row, error) {
	defer r.Close()
	if !r.Next() {
		if err := r.Err(); err != nil {
			return nil, err
		}
		return nil, sql.ErrNoRows
	}
	return r.cur, nil
}
