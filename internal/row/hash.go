package row

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"reflect"
	"time"

	"github.com/roach88/sqlrow/internal/rowerr"
)

// Hash returns a hash of the row's values. Owners, key maps and key styles
// do not contribute, so rows with equal values hash equally.
func (r *Row) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range r.values {
		fmt.Fprintf(h, "%T\x00", v)
		switch x := v.(type) {
		case nil:
		case string:
			h.Write([]byte(x))
		case []byte:
			h.Write(x)
		case int:
			binary.LittleEndian.PutUint64(buf[:], uint64(x))
			h.Write(buf[:])
		case int64:
			binary.LittleEndian.PutUint64(buf[:], uint64(x))
			h.Write(buf[:])
		case float64:
			if x == 0 {
				x = 0 // -0.0 == 0.0, so they hash alike
			}
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(x))
			h.Write(buf[:])
		case float32:
			if x == 0 {
				x = 0
			}
			binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(x))
			h.Write(buf[:4])
		case bool:
			if x {
				h.Write([]byte{1})
			} else {
				h.Write([]byte{0})
			}
		case time.Time:
			h.Write([]byte(x.UTC().Format(time.RFC3339Nano)))
		case fmt.Stringer:
			h.Write([]byte(x.String()))
		default:
			fmt.Fprintf(h, "%v", x)
		}
		h.Write([]byte{0xff})
	}
	return h.Sum64()
}

// Compare orders rows element by element, then by length. NULL sorts before
// every other value. Values of different kinds cannot be ordered and fail
// with TYPE_MISMATCH, as does comparing against a nil row.
func (r *Row) Compare(other *Row) (int, error) {
	if r == nil || other == nil {
		if r == other {
			return 0, nil
		}
		return 0, rowerr.TypeMismatch("cannot compare row with nil row")
	}
	n := min(len(r.values), len(other.values))
	for i := 0; i < n; i++ {
		c, err := compareValues(r.values[i], other.values[i])
		if err != nil {
			return 0, fmt.Errorf("position %d: %w", i, err)
		}
		if c != 0 {
			return c, nil
		}
	}
	return cmp.Compare(len(r.values), len(other.values)), nil
}

func compareValues(a, b any) (int, error) {
	switch {
	case a == nil && b == nil:
		return 0, nil
	case a == nil:
		return -1, nil
	case b == nil:
		return 1, nil
	}

	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	switch {
	case isInt(av) && isInt(bv):
		return cmp.Compare(av.Int(), bv.Int()), nil
	case isNumber(av) && isNumber(bv):
		return cmp.Compare(toFloat(av), toFloat(bv)), nil
	}

	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return cmp.Compare(x, y), nil
		}
	case []byte:
		if y, ok := b.([]byte); ok {
			return cmp.Compare(string(x), string(y)), nil
		}
	case bool:
		if y, ok := b.(bool); ok {
			return cmp.Compare(boolInt(x), boolInt(y)), nil
		}
	}

	// Types with a Compare(T) int method, such as time.Time and decimals.
	if av.Type() == bv.Type() {
		if m := av.MethodByName("Compare"); m.IsValid() {
			t := m.Type()
			if t.NumIn() == 1 && t.In(0) == av.Type() && t.NumOut() == 1 && t.Out(0).Kind() == reflect.Int {
				return int(m.Call([]reflect.Value{bv})[0].Int()), nil
			}
		}
	}
	return 0, rowerr.TypeMismatch("cannot order %T and %T", a, b)
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isNumber(v reflect.Value) bool {
	return isInt(v) || v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

func toFloat(v reflect.Value) float64 {
	if isInt(v) {
		return float64(v.Int())
	}
	return v.Float()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
