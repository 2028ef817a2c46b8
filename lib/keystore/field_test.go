package keystore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldConstructors(t *testing.T) {
	assert.Equal(t, "hello", String("hello").Value())
	assert.Equal(t, int32(-7), I32(-7).Value())
	assert.Equal(t, int64(-7), I64(-7).Value())
	assert.Equal(t, uint32(7), U32(7).Value())
	assert.Equal(t, uint64(7), U64(7).Value())

	now := time.Now()
	f := Date(now)
	assert.Equal(t, FieldTypeDate, f.Type)
	assert.True(t, f.Date().Equal(now))

	var zero Field
	assert.True(t, zero.IsNone())
	assert.Nil(t, zero.Value())
	assert.False(t, String("x").IsNone())
}

func TestFieldEquality(t *testing.T) {
	// same payload, different variant: never equal
	assert.NotEqual(t, I64(1), U64(1))
	assert.NotEqual(t, I32(1), I64(1))
	assert.NotEqual(t, U32(1), U64(1))

	assert.Equal(t, String("a"), String("a"))
	assert.NotEqual(t, String("a"), String("b"))

	ts := time.Unix(100, 5)
	assert.Equal(t, Date(ts), Date(ts))

	// fields are usable as map keys
	m := map[Field]string{
		I64(1): "signed",
		U64(1): "unsigned",
	}
	assert.Len(t, m, 2)
	assert.Equal(t, "signed", m[I64(1)])
}

func TestFieldDateDropsMonotonicClock(t *testing.T) {
	now := time.Now() // carries a monotonic reading
	restored := Date(now).Date()
	assert.True(t, restored.Equal(now))
	assert.Equal(t, Date(restored), Date(now))
}

func TestParseFieldType(t *testing.T) {
	for _, ft := range []FieldType{
		FieldTypeString, FieldTypeI32, FieldTypeI64,
		FieldTypeU32, FieldTypeU64, FieldTypeDate,
	} {
		parsed, err := ParseFieldType(ft.String())
		require.NoError(t, err)
		assert.Equal(t, ft, parsed)
	}

	parsed, err := ParseFieldType("U64")
	require.NoError(t, err)
	assert.Equal(t, FieldTypeU64, parsed)

	_, err = ParseFieldType("none")
	assert.ErrorIs(t, err, ErrUnsupportedFieldType)
	_, err = ParseFieldType("float")
	assert.ErrorIs(t, err, ErrUnsupportedFieldType)
}

func TestFieldString(t *testing.T) {
	assert.Equal(t, "hello", String("hello").String())
	assert.Equal(t, "-7", I64(-7).String())
	assert.Equal(t, "7", U32(7).String())
	assert.Equal(t, "none", Field{}.String())
}
