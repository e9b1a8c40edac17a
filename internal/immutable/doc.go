// Package immutable provides a read-only associative container with
// copy-on-write union and merge.
//
// Maps are built once, typically while assembling default execution options,
// and then read concurrently without locks. Union and MergeWith never touch
// the receiver: they return a fresh Map, or the receiver itself when there is
// nothing to merge, so callers may compare by pointer to detect a no-op.
package immutable
