package processors

import (
	"strings"

	"github.com/roach88/sqlrow/internal/immutable"
	"github.com/roach88/sqlrow/internal/rowerr"
)

// named maps the processor names accepted in configuration to processors.
var named = immutable.FromPairs(
	immutable.P[string, Processor]("int", Int),
	immutable.P[string, Processor]("float", Float),
	immutable.P[string, Processor]("string", String),
	immutable.P[string, Processor]("bytes", Bytes),
	immutable.P[string, Processor]("bool", Bool),
	immutable.P[string, Processor]("time", Time),
	immutable.P[string, Processor]("decimal", Decimal),
	immutable.P[string, Processor]("uuid", UUID),
	immutable.P[string, Processor]("nfc", NFC),
)

// ByName returns the stock processor called name ("none" yields nil).
func ByName(name string) (Processor, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "none" || name == "" {
		return nil, nil
	}
	p, err := named.Lookup(name)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Names lists the processor names ByName accepts, excluding "none".
func Names() []string {
	return named.Keys()
}

// Registry maps declared column type names to processors. A Registry is
// immutable; With returns a derived Registry.
type Registry struct {
	byType *immutable.Map[string, Processor]
}

// NewRegistry returns an empty Registry.
func NewRegistry() Registry {
	return Registry{byType: immutable.Empty[string, Processor]()}
}

// DefaultRegistry covers the declared types SQLite users commonly write.
func DefaultRegistry() Registry {
	return Registry{byType: immutable.FromPairs(
		immutable.P[string, Processor]("INTEGER", Int),
		immutable.P[string, Processor]("INT", Int),
		immutable.P[string, Processor]("BIGINT", Int),
		immutable.P[string, Processor]("SMALLINT", Int),
		immutable.P[string, Processor]("REAL", Float),
		immutable.P[string, Processor]("FLOAT", Float),
		immutable.P[string, Processor]("DOUBLE", Float),
		immutable.P[string, Processor]("TEXT", String),
		immutable.P[string, Processor]("VARCHAR", String),
		immutable.P[string, Processor]("CHAR", String),
		immutable.P[string, Processor]("BLOB", Bytes),
		immutable.P[string, Processor]("BOOLEAN", Bool),
		immutable.P[string, Processor]("BOOL", Bool),
		immutable.P[string, Processor]("DATE", Time),
		immutable.P[string, Processor]("DATETIME", Time),
		immutable.P[string, Processor]("TIMESTAMP", Time),
		immutable.P[string, Processor]("DECIMAL", Decimal),
		immutable.P[string, Processor]("NUMERIC", Decimal),
		immutable.P[string, Processor]("UUID", UUID),
	)}
}

// With returns a Registry that maps typeName to p, overriding any existing
// entry. A nil p records "no coercion" for that type.
func (r Registry) With(typeName string, p Processor) Registry {
	return Registry{byType: r.byType.Union(
		immutable.FromPairs(immutable.P(normalizeType(typeName), p)),
	)}
}

// WithNames applies a type-name → processor-name table, as found in config.
func (r Registry) WithNames(table map[string]string) (Registry, error) {
	pairs := make([]immutable.Pair[string, Processor], 0, len(table))
	for typeName, procName := range table {
		p, err := ByName(procName)
		if err != nil {
			return r, rowerr.TypeMismatch("unknown processor %q for type %q", procName, typeName)
		}
		pairs = append(pairs, immutable.P(normalizeType(typeName), p))
	}
	return Registry{byType: r.byType.Union(immutable.FromPairs(pairs...))}, nil
}

// For returns the processor for a declared type name such as "DECIMAL(10,2)";
// unknown types yield nil.
func (r Registry) For(typeName string) Processor {
	p, _ := r.byType.Get(normalizeType(typeName))
	return p
}

// normalizeType upper-cases and strips any parenthesized size.
func normalizeType(typeName string) string {
	if i := strings.IndexByte(typeName, '('); i >= 0 {
		typeName = typeName[:i]
	}
	return strings.ToUpper(strings.TrimSpace(typeName))
}
