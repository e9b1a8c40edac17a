package render

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlrow/internal/immutable"
)

func TestCanonicalScalars(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"null", nil, "null"},
		{"string", "hello", `"hello"`},
		{"no html escaping", "<a&b>", `"<a&b>"`},
		{"int", 42, "42"},
		{"int64", int64(-100), "-100"},
		{"int32", int32(7), "7"},
		{"uint8", uint8(255), "255"},
		{"float", 2.5, "2.5"},
		{"bool", true, "true"},
		{"bytes", []byte{0xde, 0xad}, `"dead"`},
		{"time", time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600)), `"2024-03-01T11:00:00Z"`},
		{"decimal", decimal.RequireFromString("19.99"), `"19.99"`},
		{"uuid", uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), `"6ba7b810-9dad-11d1-80b4-00c04fd430c8"`},
		{"line separator", "a\u2028b", "\"a\u2028b\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestCanonicalNFC(t *testing.T) {
	got, err := Canonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestCanonicalEscapedBackslashKept(t *testing.T) {
	got, err := Canonical(`\u2028`)
	require.NoError(t, err)
	assert.Equal(t, `"\\u2028"`, string(got))
}

func TestCanonicalSortedKeys(t *testing.T) {
	got, err := Canonical(map[string]any{
		"zebra": 1,
		"alpha": []any{1, nil, "x"},
		"beta":  map[string]int{"b": 1, "a": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":[1,null,"x"],"beta":{"a":2,"b":1},"zebra":1}`, string(got))
}

func TestCanonicalKeyedMapping(t *testing.T) {
	m := immutable.New(map[string]any{"b": 2, "a": 1})
	got, err := Canonical(m)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2}`, string(got))
}

func TestCanonicalUTF16Order(t *testing.T) {
	// U+1F600 encodes to surrogates 0xD83D 0xDE00, which sort before U+FB01.
	got, err := Canonical(map[string]any{"\uFB01": 1, "\U0001F600": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"\uFB01\":1}", string(got))
}

func TestCanonicalUnsupported(t *testing.T) {
	_, err := Canonical(struct{ A int }{1})
	assert.Error(t, err)

	_, err = Canonical(map[int]any{1: 2})
	assert.Error(t, err)
}
