package row

import (
	"iter"

	"github.com/roach88/sqlrow/internal/immutable"
	"github.com/roach88/sqlrow/internal/rowerr"
)

// Mapping is the read-only key-to-value view of a Row. It shares the row's
// values and resolves keys with KeyObjectsOnly semantics: integer keys fail
// with KEY_NOT_FOUND, slices with TYPE_MISMATCH, and nothing warns.
type Mapping struct {
	row *Row
}

// Get returns the value for key.
func (m *Mapping) Get(key any) (any, error) {
	return m.row.Get(key)
}

// Contains reports whether key names a column, ambiguous or not.
func (m *Mapping) Contains(key any) bool {
	if _, isInt := key.(int); isInt {
		return false
	}
	if h, ok := m.row.owner.(interface{ HasKey(any) bool }); ok {
		return h.HasKey(key)
	}
	return m.row.keymap.Has(key)
}

// Len returns the number of columns.
func (m *Mapping) Len() int { return m.row.Len() }

// Keys returns the column names in position order.
func (m *Mapping) Keys() []string { return m.row.Fields() }

// Values returns the values in position order.
func (m *Mapping) Values() []any { return m.row.Values() }

// Items returns the name/value pairs. It fails with AMBIGUOUS_KEY when two
// columns share a name.
func (m *Mapping) Items() ([]immutable.Pair[string, any], error) {
	keys := m.Keys()
	out := make([]immutable.Pair[string, any], 0, len(keys))
	for _, k := range keys {
		v, err := m.row.lookup(k, true)
		if err != nil {
			return nil, err
		}
		out = append(out, immutable.P(k, v))
	}
	return out, nil
}

// All returns an iterator over the name/value pairs in position order. Keys
// are resolved up front, so it fails with AMBIGUOUS_KEY when two columns
// share a name instead of yielding a partial view.
func (m *Mapping) All() (iter.Seq2[string, any], error) {
	items, err := m.Items()
	if err != nil {
		return nil, err
	}
	return func(yield func(string, any) bool) {
		for _, p := range items {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}, nil
}

// AsMap copies the view into an immutable map.
func (m *Mapping) AsMap() (*immutable.Map[string, any], error) {
	items, err := m.Items()
	if err != nil {
		return nil, err
	}
	return immutable.FromPairs(items...), nil
}

// Lookup is Get with the KEY_NOT_FOUND error reported as ok=false.
func (m *Mapping) Lookup(key any) (any, bool, error) {
	v, err := m.Get(key)
	if rowerr.IsKeyNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}
