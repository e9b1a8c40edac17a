package row

import (
	"log/slog"
	"sync"

	"github.com/roach88/sqlrow/internal/keyindex"
	"github.com/roach88/sqlrow/internal/rowerr"
)

// Owner is the result-set descriptor a Row belongs to. A Row holds a
// reference to its owner but never manages the owner's lifetime.
type Owner interface {
	// KeyFallback resolves a key the key index's fast map missed. It fails
	// with KEY_NOT_FOUND or AMBIGUOUS_KEY.
	KeyFallback(key any) (keyindex.Entry, error)

	// AmbiguousColumn returns the error for a key that resolved to an
	// Ambiguous entry.
	AmbiguousColumn(entry keyindex.Entry) error

	// NonIntKey returns the error for a non-integer key used on an
	// integer-only row.
	NonIntKey(key any) error

	// WarnDeprecatedKey is called before a KeyObjectsButWarn row answers a
	// non-integer, non-mapping access. It must not fail.
	WarnDeprecatedKey(key any)

	// Keys lists the column names of the result.
	Keys() []string
}

// IndexOwner is an Owner backed by a key index alone. It is what restored
// rows are owned by, and result descriptors embed it.
type IndexOwner struct {
	ix     *keyindex.Index
	warned sync.Map // key -> struct{}, one warning per key
}

// NewIndexOwner returns an Owner resolving through ix.
func NewIndexOwner(ix *keyindex.Index) *IndexOwner {
	return &IndexOwner{ix: ix}
}

// Index returns the owner's key index.
func (o *IndexOwner) Index() *keyindex.Index { return o.ix }

// KeyFallback implements Owner.
func (o *IndexOwner) KeyFallback(key any) (keyindex.Entry, error) {
	return o.ix.Fallback(key)
}

// AmbiguousColumn implements Owner.
func (o *IndexOwner) AmbiguousColumn(entry keyindex.Entry) error {
	return rowerr.AmbiguousKey(entry.Key())
}

// NonIntKey implements Owner.
func (o *IndexOwner) NonIntKey(key any) error {
	return rowerr.TypeMismatch("row indices must be integers or slices, not %T; "+
		"use the row mapping for key access", key)
}

// WarnDeprecatedKey implements Owner. Each distinct key is logged once.
func (o *IndexOwner) WarnDeprecatedKey(key any) {
	if _, loaded := o.warned.LoadOrStore(rowerr.Repr(key), struct{}{}); loaded {
		return
	}
	slog.Warn("non-integer key access on row is deprecated; use the row mapping",
		"key", rowerr.Repr(key))
}

// Keys implements Owner.
func (o *IndexOwner) Keys() []string {
	names := o.ix.Names()
	out := names[:0]
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

// HasKey reports whether key resolves through the index, ambiguous or not.
func (o *IndexOwner) HasKey(key any) bool {
	return o.ix.Has(key)
}
