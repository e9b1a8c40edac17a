// Package row implements immutable result rows.
//
// A Row pairs a coerced value tuple with the key index of its result. Values
// are reachable by position (negative positions count from the end), by
// Slice, by key through the index, and by attribute name. The KeyStyle picks
// which of those Get accepts:
//
//	style              Get(int)        Get(Slice)      Get(other)
//	KeyIntegerOnly     positional      values          owner.NonIntKey
//	KeyObjectsOnly     KEY_NOT_FOUND   TYPE_MISMATCH   key index
//	KeyObjectsButWarn  positional      values          key index, warns
//	KeyObjectsNoWarn   positional      values          key index
//
// Mapping returns the KeyObjectsOnly view of any row. Rows hash and compare
// by values alone, and round-trip through MarshalBinary and Unmarshal.
package row
