package distill

import (
	"database/sql"
	"fmt"
	"reflect"
	"slices"

	"github.com/roach88/sqlrow/internal/rowerr"
)

// Shape is the classification of one parameter argument.
type Shape uint8

const (
	// ShapeScalar is a single bound value. Strings and byte slices are
	// scalars even though they are sequences.
	ShapeScalar Shape = iota

	// ShapeMapping is a set of named bindings.
	ShapeMapping

	// ShapeSequence is an ordered list of values.
	ShapeSequence
)

func (s Shape) String() string {
	switch s {
	case ShapeMapping:
		return "mapping"
	case ShapeSequence:
		return "sequence"
	default:
		return "scalar"
	}
}

// Keyed is a read-only mapping with string keys. immutable.Map satisfies it.
type Keyed interface {
	Keys() []string
	Get(key string) (any, bool)
}

// Classify places v in exactly one Shape.
func Classify(v any) Shape {
	switch v.(type) {
	case nil, string, []byte:
		return ShapeScalar
	case Keyed, map[string]any:
		return ShapeMapping
	case []any:
		return ShapeSequence
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		return ShapeMapping
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return ShapeScalar
		}
		return ShapeSequence
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			// Fixed-size byte arrays such as UUIDs bind as one value.
			return ShapeScalar
		}
		return ShapeSequence
	}
	return ShapeScalar
}

// Params is one parameter unit: the bindings for a single execution. Exactly
// one of Named and Positional is set.
type Params struct {
	Named      map[string]any
	Positional []any
}

// IsNamed reports whether the unit binds by name.
func (p Params) IsNamed() bool { return p.Named != nil }

// Len returns the number of bindings.
func (p Params) Len() int {
	if p.IsNamed() {
		return len(p.Named)
	}
	return len(p.Positional)
}

// Args returns the unit as database/sql arguments. Named bindings become
// sql.NamedArg values in key order.
func (p Params) Args() []any {
	if !p.IsNamed() {
		return slices.Clone(p.Positional)
	}
	keys := make([]string, 0, len(p.Named))
	for k := range p.Named {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = sql.Named(k, p.Named[k])
	}
	return args
}

// Distill normalizes the parameters of an execute call into the list of units
// the statement runs once each for.
//
//   - No multiparams: params becomes the single unit, or there are no units
//     when params is empty.
//   - One argument z: a sequence whose elements are all mappings or
//     sequences (or which is empty) is already the unit list; any other
//     sequence is one positional unit; a mapping is one named unit; a scalar
//     is a one-value positional unit.
//   - Several arguments: if the first is a mapping or sequence, each argument
//     is a unit; otherwise the arguments together are one positional unit.
//
// params is ignored when multiparams is non-empty. Within one result every
// unit has the same shape; a unit list mixing mappings and sequences, or
// containing a scalar, fails with TYPE_MISMATCH.
func Distill(multiparams []any, params map[string]any) ([]Params, error) {
	switch len(multiparams) {
	case 0:
		if len(params) == 0 {
			return []Params{}, nil
		}
		return []Params{{Named: cloneMap(params)}}, nil

	case 1:
		z := multiparams[0]
		switch Classify(z) {
		case ShapeSequence:
			elems := toSlice(z)
			if len(elems) == 0 || allUnits(elems) {
				return units(elems)
			}
			return []Params{{Positional: elems}}, nil
		case ShapeMapping:
			named, err := toMap(z)
			if err != nil {
				return nil, err
			}
			return []Params{{Named: named}}, nil
		default:
			return []Params{{Positional: []any{z}}}, nil
		}

	default:
		if Classify(multiparams[0]) != ShapeScalar {
			return units(multiparams)
		}
		return []Params{{Positional: slices.Clone(multiparams)}}, nil
	}
}

func allUnits(elems []any) bool {
	for _, e := range elems {
		if Classify(e) == ShapeScalar {
			return false
		}
	}
	return true
}

// units converts each element into a unit of the shared shape.
func units(elems []any) ([]Params, error) {
	out := make([]Params, 0, len(elems))
	var first Shape
	for i, e := range elems {
		shape := Classify(e)
		if i == 0 {
			first = shape
		}
		switch {
		case shape == ShapeScalar:
			return nil, rowerr.TypeMismatch("parameter unit %d is a scalar %T, expected a mapping or sequence", i, e)
		case shape != first:
			return nil, rowerr.TypeMismatch("parameter unit %d is a %s, but unit 0 is a %s", i, shape, first)
		case shape == ShapeMapping:
			named, err := toMap(e)
			if err != nil {
				return nil, fmt.Errorf("parameter unit %d: %w", i, err)
			}
			out = append(out, Params{Named: named})
		default:
			out = append(out, Params{Positional: toSlice(e)})
		}
	}
	return out, nil
}

// toSlice copies a sequence-shaped value into []any.
func toSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return slices.Clone(s)
	}
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// toMap copies a mapping-shaped value into map[string]any.
func toMap(v any) (map[string]any, error) {
	switch m := v.(type) {
	case map[string]any:
		return cloneMap(m), nil
	case Keyed:
		keys := m.Keys()
		out := make(map[string]any, len(keys))
		for _, k := range keys {
			val, _ := m.Get(k)
			out[k] = val
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Type().Key().Kind() != reflect.String {
		return nil, rowerr.TypeMismatch("parameter names must be strings, not %s", rv.Type().Key())
	}
	out := make(map[string]any, rv.Len())
	it := rv.MapRange()
	for it.Next() {
		out[it.Key().String()] = it.Value().Interface()
	}
	return out, nil
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
