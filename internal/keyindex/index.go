package keyindex

import (
	"reflect"

	"golang.org/x/text/cases"

	"github.com/roach88/sqlrow/internal/processors"
	"github.com/roach88/sqlrow/internal/rowerr"
)

// Kind tags an Entry.
type Kind uint8

const (
	// KindResolved entries name exactly one column.
	KindResolved Kind = iota + 1

	// KindAmbiguous entries name a key that two or more columns share.
	KindAmbiguous
)

// Entry is what a key resolves to. It is either Resolved (a position plus
// that column's processor) or Ambiguous. An absent key is reported by the
// ok=false return of Index.Lookup, never by a special Entry.
type Entry struct {
	kind      Kind
	position  int
	processor processors.Processor
	key       any
}

// Resolved creates an Entry for the column at position.
func Resolved(position int, p processors.Processor, key any) Entry {
	return Entry{kind: KindResolved, position: position, processor: p, key: key}
}

// Ambiguous creates an Entry for a key shared by several columns.
func Ambiguous(key any) Entry {
	return Entry{kind: KindAmbiguous, key: key}
}

// Kind returns the entry's tag.
func (e Entry) Kind() Kind { return e.kind }

// IsAmbiguous reports whether the entry is the Ambiguous variant.
func (e Entry) IsAmbiguous() bool { return e.kind == KindAmbiguous }

// Position returns the column position; ok is false for Ambiguous entries.
func (e Entry) Position() (pos int, ok bool) {
	if e.kind != KindResolved {
		return 0, false
	}
	return e.position, true
}

// Processor returns the column processor, nil for none or for Ambiguous.
func (e Entry) Processor() processors.Processor { return e.processor }

// Key returns the key the entry was recorded under, used in messages.
func (e Entry) Key() any { return e.key }

// Index maps column keys (positions, names, aliases and column objects) to
// entries. It is built once per result shape by Build and then shared by
// every row of that result; it has no mutating methods.
type Index struct {
	byKey         map[any]Entry
	folded        map[string]Entry // case-folded names, used by Fallback
	names         []string
	procs         []processors.Processor
	caseSensitive bool
}

// fold builds a fresh Caser per call; a Caser may not be shared between
// goroutines and an Index is.
func fold(s string) string {
	return cases.Fold().String(s)
}

// hashable reports whether key can be used as a Go map key without panicking.
func hashable(key any) bool {
	if key == nil {
		return false
	}
	return reflect.ValueOf(key).Comparable()
}

// Lookup resolves key through the fast map.
func (ix *Index) Lookup(key any) (Entry, bool) {
	if !hashable(key) {
		return Entry{}, false
	}
	e, ok := ix.byKey[key]
	return e, ok
}

// Labeled is implemented by column objects that carry a label, such as a
// labeled expression in a select list.
type Labeled interface {
	Label() string
}

// Named is implemented by column objects that carry a plain column name.
type Named interface {
	Name() string
}

// Fallback is the slow path used after Lookup misses. Strings are matched
// case-insensitively when the index is not case sensitive; column objects are
// matched by label, then by name. A miss fails with KEY_NOT_FOUND; a hit on a
// shared key fails with AMBIGUOUS_KEY.
func (ix *Index) Fallback(key any) (Entry, error) {
	e, ok := ix.fallback(key)
	if !ok {
		return Entry{}, rowerr.NoSuchColumn(key)
	}
	if e.IsAmbiguous() {
		return Entry{}, rowerr.AmbiguousKey(e.Key())
	}
	return e, nil
}

// Has reports whether key resolves through either path, ambiguous or not.
func (ix *Index) Has(key any) bool {
	if _, ok := ix.Lookup(key); ok {
		return true
	}
	_, ok := ix.fallback(key)
	return ok
}

func (ix *Index) fallback(key any) (Entry, bool) {
	switch k := key.(type) {
	case string:
		return ix.byName(k)
	case Labeled:
		if l := k.Label(); l != "" {
			if e, ok := ix.byName(l); ok {
				return e, true
			}
		}
		if n, ok := key.(Named); ok {
			return ix.byName(n.Name())
		}
	case Named:
		return ix.byName(k.Name())
	}
	return Entry{}, false
}

func (ix *Index) byName(name string) (Entry, bool) {
	if e, ok := ix.byKey[name]; ok {
		return e, true
	}
	if ix.caseSensitive {
		return Entry{}, false
	}
	e, ok := ix.folded[fold(name)]
	return e, ok
}

// Len returns the number of columns.
func (ix *Index) Len() int { return len(ix.names) }

// Names returns the column names in position order.
func (ix *Index) Names() []string {
	out := make([]string, len(ix.names))
	copy(out, ix.names)
	return out
}

// Processors returns the per-column processors in position order.
func (ix *Index) Processors() []processors.Processor {
	out := make([]processors.Processor, len(ix.procs))
	copy(out, ix.procs)
	return out
}

// CaseSensitive reports whether name fallback is case sensitive.
func (ix *Index) CaseSensitive() bool { return ix.caseSensitive }
