package row

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/roach88/sqlrow/internal/keyindex"
	"github.com/roach88/sqlrow/internal/rowerr"
)

func init() {
	gob.Register(time.Time{})
}

// RegisterValue makes values of v's concrete type storable in a row state
// blob, as a column value or as a column-object key. Basic kinds and
// time.Time are registered already.
func RegisterValue(v any) {
	gob.Register(v)
}

// State is the persisted form of a Row: the owner, the coerced values, the
// key map and the key style. A nil Values slice, nil Owner, nil Keymap or
// zero KeyStyle means the field is unset.
type State struct {
	Owner    Owner
	Values   []any
	Keymap   *keyindex.Index
	KeyStyle KeyStyle
}

// State captures r for persistence. Values are already coerced and are not
// processed again on restore.
func (r *Row) State() State {
	return State{Owner: r.owner, Values: r.Values(), Keymap: r.keymap, KeyStyle: r.style}
}

// Restore rebuilds a Row from s. Every field must be set; otherwise it fails
// with STATE_RESTORE naming the missing fields.
func Restore(s State) (*Row, error) {
	var missing []string
	if s.Owner == nil {
		missing = append(missing, "owner")
	}
	if s.Values == nil {
		missing = append(missing, "values")
	}
	if s.Keymap == nil {
		missing = append(missing, "keymap")
	}
	if s.KeyStyle == 0 {
		missing = append(missing, "key_style")
	}
	if len(missing) > 0 {
		return nil, rowerr.StateRestore(missing)
	}
	if !s.KeyStyle.Valid() {
		return nil, fmt.Errorf("restore row: invalid key style %d", uint8(s.KeyStyle))
	}

	values := make([]any, len(s.Values))
	copy(values, s.Values)
	return &Row{owner: s.Owner, values: values, keymap: s.Keymap, style: s.KeyStyle}, nil
}

// wireState is the gob layout of a row state blob. The key map is written
// with all of its keys; processors are not written.
type wireState struct {
	HasOwner  bool
	HasValues bool
	Values    []any
	Keymap    *keyindex.Snapshot
	KeyStyle  KeyStyle
}

// MarshalBinary encodes the row's state. It fails when a value or a
// column-object key has a type that was not passed to RegisterValue.
func (r *Row) MarshalBinary() ([]byte, error) {
	snap := r.keymap.Snapshot()
	w := wireState{
		HasOwner:  true,
		HasValues: true,
		Values:    r.values,
		Keymap:    &snap,
		KeyStyle:  r.style,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&w); err != nil {
		return nil, fmt.Errorf("encode row state: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a blob written by MarshalBinary. The restored row is
// owned by an IndexOwner over the restored key map.
func Unmarshal(data []byte) (*Row, error) {
	var w wireState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return nil, fmt.Errorf("decode row state: %w", err)
	}

	var s State
	if w.Keymap != nil {
		s.Keymap = keyindex.FromSnapshot(*w.Keymap)
	}
	if w.HasOwner && s.Keymap != nil {
		s.Owner = NewIndexOwner(s.Keymap)
	}
	if w.HasValues {
		s.Values = w.Values
		if s.Values == nil {
			s.Values = []any{}
		}
	}
	s.KeyStyle = w.KeyStyle
	return Restore(s)
}
