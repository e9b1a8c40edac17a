package keyindex

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/sqlrow/internal/processors"
)

// Column describes one result column for Build.
type Column struct {
	// Name is the column name as reported by the driver.
	Name string

	// Objects are extra keys the column answers to: aliases, column objects.
	// Integer objects are ignored (positions are always keys).
	Objects []any

	// Processor coerces raw values of this column; nil for none.
	Processor processors.Processor
}

// Build creates an Index for columns.
//
// Every position is a key. Each name and object key maps to its column unless
// two or more columns claim it, in which case it maps to an Ambiguous entry.
// With caseSensitive false, Fallback also matches names case-insensitively,
// and names that fold together become ambiguous on that path.
func Build(columns []Column, caseSensitive bool) *Index {
	ix := &Index{
		byKey:         make(map[any]Entry, len(columns)*2),
		folded:        make(map[string]Entry, len(columns)),
		names:         make([]string, len(columns)),
		procs:         make([]processors.Processor, len(columns)),
		caseSensitive: caseSensitive,
	}

	claims := make(map[any][]int)
	var order []any
	claim := func(key any, pos int) {
		prev, seen := claims[key]
		if !seen {
			order = append(order, key)
		}
		if !slices.Contains(prev, pos) {
			claims[key] = append(prev, pos)
		}
	}

	for i, col := range columns {
		ix.names[i] = col.Name
		ix.procs[i] = col.Processor
		ix.byKey[i] = Resolved(i, col.Processor, i)

		claim(col.Name, i)
		for _, obj := range col.Objects {
			if _, isInt := obj.(int); isInt || !hashable(obj) {
				continue
			}
			claim(obj, i)
		}
	}

	for _, key := range order {
		positions := claims[key]
		if len(positions) > 1 {
			ix.byKey[key] = Ambiguous(key)
			continue
		}
		ix.byKey[key] = Resolved(positions[0], ix.procs[positions[0]], key)
	}

	if !caseSensitive {
		ix.folded = foldNames(ix.names, ix.procs)
	}
	return ix
}

func foldNames(names []string, procs []processors.Processor) map[string]Entry {
	byFold := make(map[string][]int, len(names))
	for i, name := range names {
		f := fold(name)
		if !slices.Contains(byFold[f], i) {
			byFold[f] = append(byFold[f], i)
		}
	}
	out := make(map[string]Entry, len(byFold))
	for f, positions := range byFold {
		if len(positions) > 1 {
			out[f] = Ambiguous(names[positions[0]])
			continue
		}
		out[f] = Resolved(positions[0], procs[positions[0]], names[positions[0]])
	}
	return out
}

// SnapshotKey is the persisted form of one non-positional key.
type SnapshotKey struct {
	Key       any
	Position  int
	Ambiguous bool
}

// Snapshot is the persisted form of an Index. Names and every non-positional
// key survive; processors do not. Column-object keys are stored as interface
// values, so encoding them with gob needs their types registered.
type Snapshot struct {
	Names         []string
	CaseSensitive bool
	Keys          []SnapshotKey
}

// Snapshot captures the index without its processors. Keys are ordered by
// type and then by printed value.
func (ix *Index) Snapshot() Snapshot {
	s := Snapshot{Names: ix.Names(), CaseSensitive: ix.caseSensitive}
	for key, e := range ix.byKey {
		if _, isPos := key.(int); isPos {
			continue
		}
		pos, _ := e.Position()
		s.Keys = append(s.Keys, SnapshotKey{Key: key, Position: pos, Ambiguous: e.IsAmbiguous()})
	}
	slices.SortFunc(s.Keys, func(a, b SnapshotKey) int {
		return strings.Compare(sortKey(a.Key), sortKey(b.Key))
	})
	return s
}

func sortKey(key any) string {
	return fmt.Sprintf("%T\x00%v", key, key)
}

// FromSnapshot rebuilds an Index from a Snapshot. The result has no
// processors; rows restored against it already hold coerced values.
func FromSnapshot(s Snapshot) *Index {
	ix := &Index{
		byKey:         make(map[any]Entry, len(s.Names)+len(s.Keys)),
		names:         slices.Clone(s.Names),
		procs:         make([]processors.Processor, len(s.Names)),
		caseSensitive: s.CaseSensitive,
	}
	for i := range s.Names {
		ix.byKey[i] = Resolved(i, nil, i)
	}
	for _, k := range s.Keys {
		if k.Ambiguous {
			ix.byKey[k.Key] = Ambiguous(k.Key)
			continue
		}
		ix.byKey[k.Key] = Resolved(k.Position, nil, k.Key)
	}
	if !s.CaseSensitive {
		ix.folded = foldNames(ix.names, ix.procs)
	} else {
		ix.folded = map[string]Entry{}
	}
	return ix
}
