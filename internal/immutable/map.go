package immutable

import (
	"cmp"
	"fmt"
	"iter"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/roach88/sqlrow/internal/rowerr"
)

// Pair is a key/value binding used to build a Map in a fixed order.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// P is a shorthand for Pair for ergonomic construction.
// Example: FromPairs(P("isolation_level", "SERIALIZABLE"), P("stream_results", true))
func P[K comparable, V any](key K, value V) Pair[K, V] {
	return Pair[K, V]{Key: key, Value: value}
}

// Reader is the read-only view shared by Map and anything that wants to be
// unioned into one.
type Reader[K comparable, V any] interface {
	Len() int
	Get(key K) (V, bool)
	All() iter.Seq2[K, V]
}

// Map is a read-only associative container.
//
// A Map never changes after construction. Operations that would mutate it
// return a new Map, or the receiver itself when the operand is empty, so a
// Map can be shared between goroutines without locking. The nil *Map is a
// valid empty Map.
type Map[K comparable, V any] struct {
	keys []K // insertion order
	m    map[K]V
}

// empties holds the shared empty Map of each instantiation, keyed by type.
var empties sync.Map

// Empty returns the shared empty Map for K and V.
func Empty[K comparable, V any]() *Map[K, V] {
	t := reflect.TypeFor[*Map[K, V]]()
	if e, ok := empties.Load(t); ok {
		return e.(*Map[K, V])
	}
	e, _ := empties.LoadOrStore(t, newMap[K, V](0))
	return e.(*Map[K, V])
}

func newMap[K comparable, V any](size int) *Map[K, V] {
	return &Map[K, V]{keys: make([]K, 0, size), m: make(map[K]V, size)}
}

// New copies src into a new Map. Go maps carry no order, so keys are ordered
// by their formatted representation to keep iteration deterministic.
func New[K comparable, V any](src map[K]V) *Map[K, V] {
	out := &Map[K, V]{
		keys: make([]K, 0, len(src)),
		m:    make(map[K]V, len(src)),
	}
	for k, v := range src {
		out.keys = append(out.keys, k)
		out.m[k] = v
	}
	slices.SortFunc(out.keys, func(a, b K) int {
		return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
	})
	return out
}

// FromPairs builds a Map from pairs in order. A repeated key keeps its first
// position and its last value.
func FromPairs[K comparable, V any](pairs ...Pair[K, V]) *Map[K, V] {
	out := &Map[K, V]{
		keys: make([]K, 0, len(pairs)),
		m:    make(map[K]V, len(pairs)),
	}
	for _, p := range pairs {
		out.set(p.Key, p.Value)
	}
	return out
}

// Of builds a string-keyed Map from alternating key/value arguments, the
// keyword-binding form: Of("a", 1, "b", 2).
func Of(kv ...any) (*Map[string, any], error) {
	if len(kv)%2 != 0 {
		return nil, rowerr.TypeMismatch("Of requires an even number of arguments, got %d", len(kv))
	}
	out := &Map[string, any]{
		keys: make([]string, 0, len(kv)/2),
		m:    make(map[string]any, len(kv)/2),
	}
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, rowerr.TypeConstruction(kv[i])
		}
		out.set(k, kv[i+1])
	}
	return out, nil
}

// Coerce builds a string-keyed Map from a dynamic source: nil, another Map or
// Reader, a Go map with string keys, a slice of Pairs, or a slice of
// two-element key/value arrays. Any other shape fails with TYPE_CONSTRUCTION.
func Coerce(source any) (*Map[string, any], error) {
	switch src := source.(type) {
	case nil:
		return Empty[string, any](), nil
	case *Map[string, any]:
		if src == nil {
			return Empty[string, any](), nil
		}
		return src, nil
	case Reader[string, any]:
		return fromReader(src), nil
	case map[string]any:
		return New(src), nil
	case []Pair[string, any]:
		return FromPairs(src...), nil
	case [][2]any:
		out := &Map[string, any]{m: make(map[string]any, len(src))}
		for _, kv := range src {
			k, ok := kv[0].(string)
			if !ok {
				return nil, rowerr.TypeConstruction(kv[0])
			}
			out.set(k, kv[1])
		}
		return out, nil
	}

	rv := reflect.ValueOf(source)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		tmp := make(map[string]any, rv.Len())
		it := rv.MapRange()
		for it.Next() {
			tmp[it.Key().String()] = it.Value().Interface()
		}
		return New(tmp), nil
	}
	return nil, rowerr.TypeConstruction(source)
}

func fromReader[K comparable, V any](r Reader[K, V]) *Map[K, V] {
	out := &Map[K, V]{
		keys: make([]K, 0, r.Len()),
		m:    make(map[K]V, r.Len()),
	}
	for k, v := range r.All() {
		out.set(k, v)
	}
	return out
}

// set is only used while a Map is being built, before it is published.
func (m *Map[K, V]) set(k K, v V) {
	if _, ok := m.m[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.m[k] = v
}

// clone returns a private copy that may be written with set before returning.
func (m *Map[K, V]) clone(extra int) *Map[K, V] {
	out := &Map[K, V]{
		keys: make([]K, len(m.keys), len(m.keys)+extra),
		m:    make(map[K]V, len(m.m)+extra),
	}
	copy(out.keys, m.keys)
	for k, v := range m.m {
		out.m[k] = v
	}
	return out
}

// Len returns the number of keys.
func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Get returns the value for key and whether it was present.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}
	v, ok := m.m[key]
	return v, ok
}

// GetOr returns the value for key, or def when key is absent.
func (m *Map[K, V]) GetOr(key K, def V) V {
	if v, ok := m.Get(key); ok {
		return v
	}
	return def
}

// Lookup returns the value for key or a KEY_NOT_FOUND error naming key.
func (m *Map[K, V]) Lookup(key K) (V, error) {
	if v, ok := m.Get(key); ok {
		return v, nil
	}
	var zero V
	return zero, rowerr.KeyNotFound(key)
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns a snapshot of the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	if m == nil {
		return []K{}
	}
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns a snapshot of the values in key order.
func (m *Map[K, V]) Values() []V {
	out := make([]V, 0, m.Len())
	for _, v := range m.All() {
		out = append(out, v)
	}
	return out
}

// Items returns a snapshot of the key/value pairs in key order.
func (m *Map[K, V]) Items() []Pair[K, V] {
	out := make([]Pair[K, V], 0, m.Len())
	for k, v := range m.All() {
		out = append(out, Pair[K, V]{Key: k, Value: v})
	}
	return out
}

// All returns an iterator over key/value pairs in insertion order.
// Each range over the result starts a fresh traversal.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.m[k]) {
				return
			}
		}
	}
}

// Equal compares contents with any other Reader, ignoring order.
func (m *Map[K, V]) Equal(other Reader[K, V]) bool {
	if other == nil {
		return m.Len() == 0
	}
	if m.Len() != other.Len() {
		return false
	}
	for k, v := range m.All() {
		ov, ok := other.Get(k)
		if !ok || !reflect.DeepEqual(v, ov) {
			return false
		}
	}
	return true
}

// Union returns m overlaid by other. When other is nil or empty the receiver
// itself is returned and nothing is allocated.
func (m *Map[K, V]) Union(other Reader[K, V]) *Map[K, V] {
	if other == nil || other.Len() == 0 {
		return m
	}
	if m == nil {
		return fromReader(other)
	}
	out := m.clone(other.Len())
	for k, v := range other.All() {
		out.set(k, v)
	}
	return out
}

// MergeWith folds every non-nil, non-empty argument into m from left to
// right. The receiver is returned unchanged when nothing was folded.
func (m *Map[K, V]) MergeWith(others ...Reader[K, V]) *Map[K, V] {
	var out *Map[K, V]
	for _, o := range others {
		if o == nil || o.Len() == 0 {
			continue
		}
		if out == nil {
			if m == nil {
				out = newMap[K, V](o.Len())
			} else {
				out = m.clone(o.Len())
			}
		}
		for k, v := range o.All() {
			out.set(k, v)
		}
	}
	if out == nil {
		return m
	}
	return out
}

// UnionAny coerces source with Coerce and unions it into m.
func UnionAny(m *Map[string, any], source any) (*Map[string, any], error) {
	if source == nil {
		return m, nil
	}
	other, err := Coerce(source)
	if err != nil {
		return nil, err
	}
	return m.Union(other), nil
}

// String renders the Map as immutable.Map{k: v, ...} in insertion order.
func (m *Map[K, V]) String() string {
	var b strings.Builder
	b.WriteString("immutable.Map{")
	i := 0
	for k, v := range m.All() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", rowerr.Repr(k), v)
		i++
	}
	b.WriteByte('}')
	return b.String()
}
