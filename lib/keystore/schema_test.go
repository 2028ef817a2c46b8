package keystore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableBuilder(t *testing.T) {
	table, err := NewTable("users").
		PrimaryField(FieldTypeString).
		AddField("age", FieldTypeU32).
		AddOptionalField("note", FieldTypeString).
		AddExpiration(time.Hour).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "users", table.Name)
	assert.Equal(t, FieldTypeString, table.PrimaryField)
	assert.Equal(t, Required(FieldTypeU32), table.Fields["age"])
	assert.Equal(t, Optional(FieldTypeString), table.Fields["note"])
	assert.Equal(t, time.Hour, table.ExpireAfter)
	assert.NotNil(t, table.Entries)
}

func TestTableBuilderValidation(t *testing.T) {
	_, err := NewTable("t").AddField("f", FieldTypeU32).Build()
	assert.ErrorIs(t, err, ErrTableMissingPrimaryKey)

	_, err = NewTable("").PrimaryField(FieldTypeString).AddField("f", FieldTypeU32).Build()
	assert.ErrorIs(t, err, ErrTableNameNotSet)

	_, err = NewTable("t").PrimaryField(FieldTypeString).Build()
	assert.ErrorIs(t, err, ErrTableMustContainFields)

	_, err = NewTable("t").PrimaryField(FieldTypeNone).AddField("f", FieldTypeU32).Build()
	assert.ErrorIs(t, err, ErrUnsupportedFieldType)

	_, err = NewTable("t").PrimaryField(FieldTypeString).AddField("", FieldTypeU32).Build()
	assert.ErrorIs(t, err, ErrUnsupportedField)

	_, err = NewTable("t").PrimaryField(FieldTypeString).AddField("f", FieldTypeNone).Build()
	assert.ErrorIs(t, err, ErrUnsupportedFieldType)

	// the first failure wins, later steps cannot mask it
	_, err = NewTable("t").
		PrimaryField(FieldTypeNone).
		AddField("", FieldTypeU32).
		Build()
	assert.ErrorIs(t, err, ErrUnsupportedFieldType)
}

func TestFieldRequirement(t *testing.T) {
	assert.False(t, Required(FieldTypeU32).Optional)
	assert.True(t, Optional(FieldTypeU32).Optional)
	assert.Equal(t, FieldTypeU32, Required(FieldTypeU32).Type)
}
