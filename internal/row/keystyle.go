package row

import "fmt"

// KeyStyle controls how strictly a Row accepts non-positional keys.
//
// The zero value is not a valid style; it marks an unset field during state
// restoration.
type KeyStyle uint8

const (
	// KeyIntegerOnly accepts integers and slices on Get. Any other key is
	// handed to the owner's NonIntKey, which rejects it with TYPE_MISMATCH.
	// Named access remains available through Mapping and Attr. Never warns.
	KeyIntegerOnly KeyStyle = iota + 1

	// KeyObjectsOnly is the mapping style: keys resolve through the key
	// index, integers fail with KEY_NOT_FOUND and slices with TYPE_MISMATCH.
	// Never warns.
	KeyObjectsOnly

	// KeyObjectsButWarn accepts integers positionally and resolves other keys
	// through the key index, asking the owner to emit a deprecation warning
	// for each such non-mapping access.
	KeyObjectsButWarn

	// KeyObjectsNoWarn behaves like KeyObjectsButWarn without the warning.
	KeyObjectsNoWarn
)

var keyStyleNames = map[KeyStyle]string{
	KeyIntegerOnly:    "integer_only",
	KeyObjectsOnly:    "objects_only",
	KeyObjectsButWarn: "objects_but_warn",
	KeyObjectsNoWarn:  "objects_no_warn",
}

// String returns the configuration name of the style.
func (s KeyStyle) String() string {
	if name, ok := keyStyleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("KeyStyle(%d)", uint8(s))
}

// Valid reports whether s is one of the defined styles.
func (s KeyStyle) Valid() bool {
	_, ok := keyStyleNames[s]
	return ok
}

// ParseKeyStyle parses a configuration name produced by String.
func ParseKeyStyle(name string) (KeyStyle, error) {
	for style, n := range keyStyleNames {
		if n == name {
			return style, nil
		}
	}
	return 0, fmt.Errorf("unknown key style %q", name)
}
