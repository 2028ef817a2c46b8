package keystore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryBuilder(t *testing.T) {
	entry, err := NewEntry().
		PrimaryField(String("alice")).
		AddField("age", U32(30)).
		Build()
	require.NoError(t, err)

	assert.Equal(t, String("alice"), entry.PrimaryField)
	assert.Equal(t, U32(30), entry.Fields["age"])
	assert.True(t, entry.LastTimestamp.IsZero(), "builders never stamp entries")

	f, ok := entry.Field("age")
	assert.True(t, ok)
	assert.Equal(t, U32(30), f)
	_, ok = entry.Field("missing")
	assert.False(t, ok)
}

func TestEntryBuilderValidation(t *testing.T) {
	_, err := NewEntry().AddField("age", U32(30)).Build()
	assert.ErrorIs(t, err, ErrInvalidPrimaryKey)

	_, err = NewEntry().PrimaryField(Field{}).AddField("age", U32(30)).Build()
	assert.ErrorIs(t, err, ErrInvalidPrimaryKey)

	_, err = NewEntry().PrimaryField(String("alice")).Build()
	assert.ErrorIs(t, err, ErrEntryMustContainFields)

	_, err = NewEntry().PrimaryField(String("alice")).AddField("", U32(30)).Build()
	assert.ErrorIs(t, err, ErrUnsupportedField)

	_, err = NewEntry().PrimaryField(String("alice")).AddField("age", Field{}).Build()
	assert.ErrorIs(t, err, ErrUnsupportedFieldType)
}

func TestEntryClone(t *testing.T) {
	entry, err := NewEntry().
		PrimaryField(String("alice")).
		AddField("age", U32(30)).
		Build()
	require.NoError(t, err)
	entry.LastTimestamp = time.Now()

	clone := entry.Clone()
	assert.Equal(t, entry.PrimaryField, clone.PrimaryField)
	assert.Equal(t, entry.Fields, clone.Fields)
	assert.Equal(t, entry.LastTimestamp, clone.LastTimestamp)

	clone.Fields["age"] = U32(99)
	assert.Equal(t, U32(30), entry.Fields["age"])
}
