// Package rowerr defines the error taxonomy shared by the row, key index,
// mapping and distiller packages.
package rowerr

import (
	"errors"
	"fmt"
)

// Code categorizes row-layer errors.
type Code string

const (
	// CodeKeyNotFound indicates a key absent from both the fast map and the fallback.
	CodeKeyNotFound Code = "KEY_NOT_FOUND"

	// CodeAmbiguousKey indicates a key that resolves to two or more columns.
	CodeAmbiguousKey Code = "AMBIGUOUS_KEY"

	// CodeIndexOutOfRange indicates a position outside [0, length).
	CodeIndexOutOfRange Code = "INDEX_OUT_OF_RANGE"

	// CodeTypeMismatch indicates wrongly shaped input.
	CodeTypeMismatch Code = "TYPE_MISMATCH"

	// CodeStateRestore indicates a reconstruction that left fields unset.
	CodeStateRestore Code = "STATE_RESTORE"

	// CodeAttributeNotFound indicates a failed attribute-style access.
	CodeAttributeNotFound Code = "ATTRIBUTE_NOT_FOUND"

	// CodeTypeConstruction indicates a mapping built from an unsupported source.
	CodeTypeConstruction Code = "TYPE_CONSTRUCTION"

	// CodeValueNotFound indicates a value search over a row that found nothing.
	CodeValueNotFound Code = "VALUE_NOT_FOUND"
)

// Error is the concrete error type for the row layer.
//
// Key carries the offending key or index when there is one, so callers can
// build their own messages without parsing Message.
type Error struct {
	Code    Code
	Message string
	Key     any
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target is an *Error with the same code, so that
// errors.Is(err, &Error{Code: CodeKeyNotFound}) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Repr renders a key the way it should appear in messages: strings quoted,
// everything else with its default format.
func Repr(key any) string {
	switch k := key.(type) {
	case string:
		return fmt.Sprintf("%q", k)
	case fmt.Stringer:
		return k.String()
	default:
		return fmt.Sprintf("%v", k)
	}
}

// KeyNotFound creates a KEY_NOT_FOUND error for key.
func KeyNotFound(key any) *Error {
	return &Error{
		Code:    CodeKeyNotFound,
		Message: fmt.Sprintf("key %s not found", Repr(key)),
		Key:     key,
	}
}

// NoSuchColumn creates a KEY_NOT_FOUND error phrased for result rows.
func NoSuchColumn(key any) *Error {
	return &Error{
		Code:    CodeKeyNotFound,
		Message: fmt.Sprintf("could not locate column in row for column %s", Repr(key)),
		Key:     key,
	}
}

// AmbiguousKey creates an AMBIGUOUS_KEY error naming key.
func AmbiguousKey(key any) *Error {
	return &Error{
		Code: CodeAmbiguousKey,
		Message: fmt.Sprintf("ambiguous column name %s in result set column descriptions; "+
			"use labeled columns to disambiguate", Repr(key)),
		Key: key,
	}
}

// IndexOutOfRange creates an INDEX_OUT_OF_RANGE error.
func IndexOutOfRange(index, length int) *Error {
	return &Error{
		Code:    CodeIndexOutOfRange,
		Message: fmt.Sprintf("index %d out of range for row of length %d", index, length),
		Key:     index,
	}
}

// TypeMismatch creates a TYPE_MISMATCH error with a formatted message.
func TypeMismatch(format string, args ...any) *Error {
	return &Error{
		Code:    CodeTypeMismatch,
		Message: fmt.Sprintf(format, args...),
	}
}

// ValueNotFound creates a VALUE_NOT_FOUND error for a value absent from a row.
func ValueNotFound(v any) *Error {
	return &Error{
		Code:    CodeValueNotFound,
		Message: fmt.Sprintf("%s is not in row", Repr(v)),
		Key:     v,
	}
}

// StateRestore creates a STATE_RESTORE error listing the missing fields.
func StateRestore(missing []string) *Error {
	return &Error{
		Code:    CodeStateRestore,
		Message: fmt.Sprintf("incomplete row state, missing %v", missing),
	}
}

// AttributeNotFound creates an ATTRIBUTE_NOT_FOUND error for name.
func AttributeNotFound(name string, cause error) error {
	e := &Error{
		Code:    CodeAttributeNotFound,
		Message: fmt.Sprintf("row has no attribute %q", name),
		Key:     name,
	}
	if cause == nil {
		return e
	}
	return fmt.Errorf("%w (%v)", e, cause)
}

// TypeConstruction creates a TYPE_CONSTRUCTION error for an unsupported source.
func TypeConstruction(source any) *Error {
	return &Error{
		Code:    CodeTypeConstruction,
		Message: fmt.Sprintf("cannot build a mapping from %T", source),
	}
}

func hasCode(err error, code Code) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsKeyNotFound reports whether err is a KEY_NOT_FOUND error.
// Uses errors.As to handle wrapped errors.
func IsKeyNotFound(err error) bool { return hasCode(err, CodeKeyNotFound) }

// IsAmbiguousKey reports whether err is an AMBIGUOUS_KEY error.
func IsAmbiguousKey(err error) bool { return hasCode(err, CodeAmbiguousKey) }

// IsIndexOutOfRange reports whether err is an INDEX_OUT_OF_RANGE error.
func IsIndexOutOfRange(err error) bool { return hasCode(err, CodeIndexOutOfRange) }

// IsTypeMismatch reports whether err is a TYPE_MISMATCH error.
func IsTypeMismatch(err error) bool { return hasCode(err, CodeTypeMismatch) }

// IsStateRestore reports whether err is a STATE_RESTORE error.
func IsStateRestore(err error) bool { return hasCode(err, CodeStateRestore) }

// IsAttributeNotFound reports whether err is an ATTRIBUTE_NOT_FOUND error.
func IsAttributeNotFound(err error) bool { return hasCode(err, CodeAttributeNotFound) }

// IsTypeConstruction reports whether err is a TYPE_CONSTRUCTION error.
func IsTypeConstruction(err error) bool { return hasCode(err, CodeTypeConstruction) }

// IsValueNotFound reports whether err is a VALUE_NOT_FOUND error.
func IsValueNotFound(err error) bool { return hasCode(err, CodeValueNotFound) }
