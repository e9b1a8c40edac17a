package processors

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlrow/internal/rowerr"
)

func TestStockProcessorsPassNullThrough(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			p, err := ByName(name)
			require.NoError(t, err)
			got, err := p(nil)
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		in   any
		want int64
	}{
		{int64(7), 7},
		{3, 3},
		{true, 1},
		{float64(4), 4},
		{[]byte("12"), 12},
		{" -5 ", -5},
	}
	for _, tc := range tests {
		got, err := Int(tc.in)
		require.NoError(t, err, "input %#v", tc.in)
		assert.Equal(t, tc.want, got)
	}

	_, err := Int(1.5)
	assert.True(t, rowerr.IsTypeMismatch(err))
	_, err = Int("abc")
	assert.True(t, rowerr.IsTypeMismatch(err))
}

func TestFloat(t *testing.T) {
	got, err := Float(int64(2))
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)

	got, err = Float([]byte("2.5"))
	require.NoError(t, err)
	assert.Equal(t, 2.5, got)

	_, err = Float(struct{}{})
	assert.True(t, rowerr.IsTypeMismatch(err))
}

func TestStringAndBytes(t *testing.T) {
	got, err := String([]byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, "hi", got)

	got, err = String(int64(10))
	require.NoError(t, err)
	assert.Equal(t, "10", got)

	raw := []byte("abc")
	b, err := Bytes(raw)
	require.NoError(t, err)
	raw[0] = 'z'
	assert.Equal(t, []byte("abc"), b)
}

func TestBool(t *testing.T) {
	for in, want := range map[any]bool{int64(0): false, int64(2): true, "true": true, "0": false} {
		got, err := Bool(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %#v", in)
	}
	_, err := Bool("maybe")
	assert.Error(t, err)
}

func TestTime(t *testing.T) {
	want := time.Date(2024, 3, 9, 14, 30, 5, 0, time.UTC)

	for _, in := range []any{"2024-03-09 14:30:05", "2024-03-09T14:30:05Z", []byte("2024-03-09 14:30:05"), want.Unix()} {
		got, err := Time(in)
		require.NoError(t, err, "input %#v", in)
		assert.True(t, want.Equal(got.(time.Time)), "input %#v got %v", in, got)
	}

	got, err := Time("2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), got)

	_, err = Time("yesterday")
	assert.True(t, rowerr.IsTypeMismatch(err))
}

func TestDecimal(t *testing.T) {
	got, err := Decimal("10.25")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("10.25").Equal(got.(decimal.Decimal)))

	got, err = Decimal(int64(3))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(3).Equal(got.(decimal.Decimal)))

	_, err = Decimal("ten")
	assert.True(t, rowerr.IsTypeMismatch(err))
}

func TestUUID(t *testing.T) {
	id := uuid.MustParse("0191e2a4-5b6c-7d8e-9f00-112233445566")

	got, err := UUID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = UUID(id[:])
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = UUID("not-a-uuid")
	assert.True(t, rowerr.IsTypeMismatch(err))
}

func TestNFC(t *testing.T) {
	decomposed := "e\u0301"
	got, err := NFC(decomposed)
	require.NoError(t, err)
	assert.Equal(t, "\u00e9", got)
}

func TestApplyNilIsIdentity(t *testing.T) {
	got, err := Apply(nil, "x")
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}

func TestChainStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	p := Chain(String, nil, func(v any) (any, error) {
		calls++
		return nil, boom
	}, func(v any) (any, error) {
		calls++
		return v, nil
	})

	_, err := p([]byte("a"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestByNameUnknown(t *testing.T) {
	_, err := ByName("money")
	assert.True(t, rowerr.IsKeyNotFound(err))

	p, err := ByName("none")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	assert.NotNil(t, r.For("decimal(10,2)"))
	assert.NotNil(t, r.For(" integer "))
	assert.Nil(t, r.For("GEOMETRY"))

	custom := r.With("geometry", String)
	assert.NotNil(t, custom.For("GEOMETRY"))
	assert.Nil(t, r.For("GEOMETRY"), "With must not alter the receiver")

	off := r.With("TEXT", nil)
	assert.Nil(t, off.For("TEXT"))
}

func TestRegistryWithNames(t *testing.T) {
	r, err := NewRegistry().WithNames(map[string]string{"money": "decimal", "flag": "bool"})
	require.NoError(t, err)

	got, err := r.For("MONEY")("1.50")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1.5").Equal(got.(decimal.Decimal)))

	_, err = NewRegistry().WithNames(map[string]string{"x": "nope"})
	assert.True(t, rowerr.IsTypeMismatch(err))
}

func TestZeroRegistry(t *testing.T) {
	var r Registry
	assert.Nil(t, r.For("INTEGER"))
	assert.NotNil(t, r.With("INTEGER", Int).For("INTEGER"))
}
