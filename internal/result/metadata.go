package result

import (
	"database/sql"
	"log/slog"

	"github.com/roach88/sqlrow/internal/keyindex"
	"github.com/roach88/sqlrow/internal/processors"
	"github.com/roach88/sqlrow/internal/row"
	"github.com/roach88/sqlrow/internal/rowerr"
)

// Column describes one result column.
type Column struct {
	Name         string
	DatabaseType string // declared type, "" for expressions
	Objects      []any  // extra keys: aliases, column objects
}

// Options control how a result shapes its rows.
type Options struct {
	KeyStyle      row.KeyStyle // defaults to row.KeyObjectsNoWarn
	CaseSensitive bool
	Registry      processors.Registry
}

// DefaultOptions returns options with the default processor registry,
// case-insensitive fallback and KeyObjectsNoWarn rows.
func DefaultOptions() Options {
	return Options{
		KeyStyle: row.KeyObjectsNoWarn,
		Registry: processors.DefaultRegistry(),
	}
}

// Metadata is the descriptor shared by every row of one result: the key
// index, the per-column processors and the owner hooks rows call into.
type Metadata struct {
	*row.IndexOwner
	columns []Column
	procs   []processors.Processor
	style   row.KeyStyle
}

var _ row.Owner = (*Metadata)(nil)

// NewMetadata builds the descriptor for columns. Each column's processor is
// looked up in opts.Registry by its declared type.
func NewMetadata(columns []Column, opts Options) *Metadata {
	style := opts.KeyStyle
	if style == 0 {
		style = row.KeyObjectsNoWarn
	}

	kc := make([]keyindex.Column, len(columns))
	for i, c := range columns {
		kc[i] = keyindex.Column{
			Name:      c.Name,
			Objects:   c.Objects,
			Processor: opts.Registry.For(c.DatabaseType),
		}
	}
	ix := keyindex.Build(kc, opts.CaseSensitive)

	cols := make([]Column, len(columns))
	copy(cols, columns)
	return &Metadata{
		IndexOwner: row.NewIndexOwner(ix),
		columns:    cols,
		procs:      ix.Processors(),
		style:      style,
	}
}

// FromColumnTypes builds the descriptor for a database/sql result.
func FromColumnTypes(types []*sql.ColumnType, opts Options) *Metadata {
	cols := make([]Column, len(types))
	for i, ct := range types {
		cols[i] = Column{Name: ct.Name(), DatabaseType: ct.DatabaseTypeName()}
	}
	return NewMetadata(cols, opts)
}

// Columns returns the column descriptions.
func (m *Metadata) Columns() []Column {
	out := make([]Column, len(m.columns))
	copy(out, m.columns)
	return out
}

// KeyStyle returns the key style rows of this result are built with.
func (m *Metadata) KeyStyle() row.KeyStyle { return m.style }

// NewRow builds a row of this result from raw driver values.
func (m *Metadata) NewRow(raw []any) (*row.Row, error) {
	return row.New(m, m.procs, m.Index(), m.style, raw)
}

// KeyFallback implements row.Owner.
func (m *Metadata) KeyFallback(key any) (keyindex.Entry, error) {
	e, err := m.IndexOwner.KeyFallback(key)
	if err != nil {
		return keyindex.Entry{}, err
	}
	slog.Debug("column key resolved by fallback", "key", rowerr.Repr(key))
	return e, nil
}
