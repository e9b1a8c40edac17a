package processors

import (
	"encoding/gob"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/sqlrow/internal/rowerr"
)

// Values produced by the stock processors must survive row state encoding.
func init() {
	gob.Register(decimal.Decimal{})
	gob.Register(uuid.UUID{})
}

// Processor converts a raw driver value into an application value.
// A nil Processor means "no coercion".
//
// Every stock processor passes nil (SQL NULL) through untouched.
type Processor func(value any) (any, error)

// Apply runs p over value, treating a nil p as the identity.
func Apply(p Processor, value any) (any, error) {
	if p == nil {
		return value, nil
	}
	return p(value)
}

func mismatch(target string, value any) error {
	return rowerr.TypeMismatch("cannot convert %T (%v) to %s", value, value, target)
}

// Int coerces integers, whole floats, booleans and numeric text to int64.
func Int(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case bool:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	case float64:
		if v != math.Trunc(v) {
			return nil, mismatch("int64", value)
		}
		return int64(v), nil
	case []byte:
		return parseInt(string(v))
	case string:
		return parseInt(v)
	}
	return nil, mismatch("int64", value)
}

func parseInt(s string) (any, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, mismatch("int64", s)
	}
	return n, nil
}

// Float coerces numbers and numeric text to float64.
func Float(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case []byte:
		return parseFloat(string(v))
	case string:
		return parseFloat(v)
	}
	return nil, mismatch("float64", value)
}

func parseFloat(s string) (any, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, mismatch("float64", s)
	}
	return f, nil
}

// String coerces text-like values to string. Numbers and booleans are
// formatted; anything else is rejected.
func String(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	}
	return nil, mismatch("string", value)
}

// Bytes coerces text to []byte. The result never aliases driver memory.
func Bytes(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return append([]byte(nil), v...), nil
	case string:
		return []byte(v), nil
	}
	return nil, mismatch("[]byte", value)
}

// Bool coerces integers and common textual forms to bool.
func Bool(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case int:
		return v != 0, nil
	case []byte:
		return parseBool(string(v))
	case string:
		return parseBool(v)
	}
	return nil, mismatch("bool", value)
}

func parseBool(s string) (any, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return nil, mismatch("bool", s)
	}
	return b, nil
}

// timeLayouts are the textual forms SQLite stores dates and times in.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	time.RFC3339Nano,
}

// Time coerces SQLite date/time text and unix seconds to time.Time (UTC
// unless the text carries an offset).
func Time(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return v, nil
	case int64:
		return time.Unix(v, 0).UTC(), nil
	case []byte:
		return parseTime(string(v))
	case string:
		return parseTime(v)
	}
	return nil, mismatch("time.Time", value)
}

func parseTime(s string) (any, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "Z")
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return nil, mismatch("time.Time", s)
}

// Decimal coerces numbers and numeric text to decimal.Decimal.
func Decimal(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case decimal.Decimal:
		return v, nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case []byte:
		return parseDecimal(string(v))
	case string:
		return parseDecimal(v)
	}
	return nil, mismatch("decimal", value)
}

func parseDecimal(s string) (any, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, mismatch("decimal", s)
	}
	return d, nil
}

// UUID coerces canonical text or 16 raw bytes to uuid.UUID.
func UUID(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case uuid.UUID:
		return v, nil
	case string:
		return parseUUID(v)
	case []byte:
		if len(v) == 16 {
			u, err := uuid.FromBytes(v)
			if err != nil {
				return nil, fmt.Errorf("uuid from bytes: %w", err)
			}
			return u, nil
		}
		return parseUUID(string(v))
	}
	return nil, mismatch("uuid", value)
}

func parseUUID(s string) (any, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return nil, mismatch("uuid", s)
	}
	return u, nil
}

// NFC coerces text to a Unicode NFC-normalized string.
func NFC(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return norm.NFC.String(v), nil
	case []byte:
		return norm.NFC.String(string(v)), nil
	}
	return nil, mismatch("string", value)
}

// Chain composes processors left to right; nil entries are skipped.
func Chain(ps ...Processor) Processor {
	return func(value any) (any, error) {
		var err error
		for _, p := range ps {
			if value, err = Apply(p, value); err != nil {
				return nil, err
			}
		}
		return value, nil
	}
}
