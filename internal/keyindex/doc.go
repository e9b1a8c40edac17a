// Package keyindex maps result column keys to positions.
//
// An Index is built once per result shape and shared, read-only, by every row
// of that result. Keys are positions (int), column names, aliases and column
// objects. A key that several columns share resolves to an Ambiguous entry so
// that row access can refuse it instead of picking one arbitrarily.
package keyindex
