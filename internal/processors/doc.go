// Package processors provides column processors: functions that turn a raw
// driver value into the value a caller sees in a row.
//
// A Registry picks a processor for each result column from its declared type.
package processors
