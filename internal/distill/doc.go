// Package distill normalizes the call shapes of a bulk execute into a list
// of parameter units.
//
// Callers may pass one mapping, one positional sequence, a list of mappings,
// a list of sequences, bare scalar values or nothing at all. Distill
// classifies each argument as a mapping, a sequence or a scalar (strings and
// byte slices are always scalars) and returns the units the statement should
// run once each for.
package distill
