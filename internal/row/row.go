package row

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"strings"

	"github.com/roach88/sqlrow/internal/keyindex"
	"github.com/roach88/sqlrow/internal/processors"
	"github.com/roach88/sqlrow/internal/rowerr"
)

// ErrProcessorMismatch is returned by New when a processor list is supplied
// whose length differs from the number of raw values.
var ErrProcessorMismatch = errors.New("number of values does not match number of column processors")

// Row is one immutable result row: an ordered value tuple with positional,
// slice, key and attribute access. Values are coerced once, at construction.
//
// A Row has no mutating methods and may be shared between goroutines.
type Row struct {
	owner  Owner
	values []any
	keymap *keyindex.Index
	style  KeyStyle
}

// New builds a Row from raw driver values.
//
// procs supplies one processor per value; a nil slice means no processing and
// a nil element leaves that value untouched. A processor failure aborts the
// construction. A nil owner is replaced by an IndexOwner over keymap, and a
// nil keymap by an index with no columns.
func New(owner Owner, procs []processors.Processor, keymap *keyindex.Index, style KeyStyle, raw []any) (*Row, error) {
	if !style.Valid() {
		return nil, fmt.Errorf("invalid key style %d", uint8(style))
	}
	if procs != nil && len(procs) != len(raw) {
		return nil, fmt.Errorf("%w: %d values, %d processors", ErrProcessorMismatch, len(raw), len(procs))
	}
	if keymap == nil {
		keymap = keyindex.Build(nil, true)
	}
	if owner == nil {
		owner = NewIndexOwner(keymap)
	}

	values := make([]any, len(raw))
	if procs == nil {
		copy(values, raw)
	} else {
		for i, v := range raw {
			out, err := processors.Apply(procs[i], v)
			if err != nil {
				return nil, fmt.Errorf("column %d: %w", i, err)
			}
			values[i] = out
		}
	}

	return &Row{owner: owner, values: values, keymap: keymap, style: style}, nil
}

// Owner returns the descriptor this row belongs to.
func (r *Row) Owner() Owner { return r.owner }

// KeyStyle returns the row's key style.
func (r *Row) KeyStyle() KeyStyle { return r.style }

// Len returns the number of values.
func (r *Row) Len() int { return len(r.values) }

// At returns the value at position i. Negative positions count from the end.
func (r *Row) At(i int) (any, error) {
	n := len(r.values)
	j := i
	if j < 0 {
		j += n
	}
	if j < 0 || j >= n {
		return nil, rowerr.IndexOutOfRange(i, n)
	}
	return r.values[j], nil
}

// Slice returns the values selected by s as a new slice.
func (r *Row) Slice(s Slice) []any {
	return s.apply(r.values)
}

// Get is the general subscript.
//
// Integers are positional and a Slice returns the selected values as []any,
// except on KeyObjectsOnly rows, where integers resolve through the key index
// (and fail) and slices fail with TYPE_MISMATCH. Any other key resolves
// through the key index, or on KeyIntegerOnly rows is rejected by the owner.
func (r *Row) Get(key any) (any, error) {
	if r.style == KeyObjectsOnly {
		if _, ok := key.(Slice); ok {
			return nil, rowerr.TypeMismatch("row mapping does not support slices")
		}
		return r.lookup(key, true)
	}

	switch k := key.(type) {
	case int:
		return r.At(k)
	case Slice:
		return r.Slice(k), nil
	}

	if r.style == KeyIntegerOnly {
		return nil, r.owner.NonIntKey(key)
	}
	return r.lookup(key, false)
}

// Key resolves key through the key index regardless of key style. It is the
// mapping-flavored access: it never warns.
func (r *Row) Key(key any) (any, error) {
	return r.lookup(key, true)
}

// lookup resolves key to a value. asMapping suppresses the deprecation
// warning of KeyObjectsButWarn rows.
func (r *Row) lookup(key any, asMapping bool) (any, error) {
	e, ok := r.keymap.Lookup(key)
	if !ok {
		var err error
		if e, err = r.owner.KeyFallback(key); err != nil {
			return nil, err
		}
	}

	pos, resolved := e.Position()
	if !resolved {
		return nil, r.owner.AmbiguousColumn(e)
	}

	_, isInt := key.(int)
	if r.style == KeyObjectsOnly && isInt {
		return nil, rowerr.KeyNotFound(key)
	}
	if r.style == KeyObjectsButWarn && !asMapping && !isInt {
		r.owner.WarnDeprecatedKey(key)
	}
	return r.At(pos)
}

// Attr is attribute-style access by column name. The built-in names
// "_fields", "_mapping" and "_asdict" are answered first. A missing name
// fails with ATTRIBUTE_NOT_FOUND; an ambiguous one with AMBIGUOUS_KEY.
func (r *Row) Attr(name string) (any, error) {
	switch name {
	case "_fields":
		return r.Fields(), nil
	case "_mapping":
		return r.Mapping(), nil
	case "_asdict":
		return r.Mapping().AsMap()
	}

	v, err := r.lookup(name, true)
	if err != nil {
		if rowerr.IsKeyNotFound(err) {
			return nil, rowerr.AttributeNotFound(name, err)
		}
		return nil, err
	}
	return v, nil
}

// Fields returns the owner's column names.
func (r *Row) Fields() []string {
	return r.owner.Keys()
}

// Values returns a copy of the coerced values.
func (r *Row) Values() []any {
	out := make([]any, len(r.values))
	copy(out, r.values)
	return out
}

// All iterates over the values in position order.
func (r *Row) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range r.values {
			if !yield(v) {
				return
			}
		}
	}
}

// Contains reports whether v is one of the row's values.
func (r *Row) Contains(v any) bool {
	_, err := r.Index(v)
	return err == nil
}

// Count returns how many of the row's values equal v.
func (r *Row) Count(v any) int {
	n := 0
	for _, x := range r.values {
		if reflect.DeepEqual(x, v) {
			n++
		}
	}
	return n
}

// Index returns the position of the first value equal to v. An absent value
// fails with VALUE_NOT_FOUND.
func (r *Row) Index(v any) (int, error) {
	for i, x := range r.values {
		if reflect.DeepEqual(x, v) {
			return i, nil
		}
	}
	return 0, rowerr.ValueNotFound(v)
}

// Equal reports whether r and other hold equal values in the same order.
// Owners, key styles and key maps are not compared.
func (r *Row) Equal(other *Row) bool {
	if r == nil || other == nil {
		return r == other
	}
	if len(r.values) != len(other.values) {
		return false
	}
	for i := range r.values {
		if !reflect.DeepEqual(r.values[i], other.values[i]) {
			return false
		}
	}
	return true
}

// FilterOnValues returns a new row with the same owner, key map and style,
// whose values are r's values passed through filters.
func (r *Row) FilterOnValues(filters []processors.Processor) (*Row, error) {
	return New(r.owner, filters, r.keymap, r.style, r.values)
}

// Mapping returns the read-only mapping view of the row.
func (r *Row) Mapping() *Mapping {
	return &Mapping{row: &Row{owner: r.owner, values: r.values, keymap: r.keymap, style: KeyObjectsOnly}}
}

// String renders the row as a parenthesized value list.
func (r *Row) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, v := range r.values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatValue(v))
	}
	b.WriteByte(')')
	return b.String()
}

const maxValueWidth = 300

func formatValue(v any) string {
	var s string
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		s = fmt.Sprintf("%q", x)
	case []byte:
		s = fmt.Sprintf("x'%x'", x)
	case fmt.Stringer:
		s = x.String()
	default:
		s = fmt.Sprintf("%v", x)
	}
	if rs := []rune(s); len(rs) > maxValueWidth {
		half := maxValueWidth / 2
		s = fmt.Sprintf("%s ... (%d characters truncated) ... %s", string(rs[:half]), len(rs)-maxValueWidth, string(rs[len(rs)-half:]))
	}
	return s
}
