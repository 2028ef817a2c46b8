package keystore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) *Table {
	table, err := NewTable("users").
		PrimaryField(FieldTypeString).
		AddField("age", FieldTypeU32).
		AddOptionalField("note", FieldTypeString).
		Build()
	require.NoError(t, err)
	return table
}

func testEntry(t *testing.T, name string, age uint32) *Entry {
	e, err := NewEntry().
		PrimaryField(String(name)).
		AddField("age", U32(age)).
		Build()
	require.NoError(t, err)
	return e
}

func TestTableInsertStampsTimestamp(t *testing.T) {
	table := testTable(t)
	e := testEntry(t, "alice", 30)

	require.NoError(t, table.Insert(e))

	stored, err := table.Get(String("alice"))
	require.NoError(t, err)
	assert.False(t, stored.LastTimestamp.IsZero())
}

func TestTableInsertRejectsDuplicate(t *testing.T) {
	table := testTable(t)
	require.NoError(t, table.Insert(testEntry(t, "alice", 30)))
	assert.ErrorIs(t, table.Insert(testEntry(t, "alice", 31)), ErrEntryExists)

	stored, err := table.Get(String("alice"))
	require.NoError(t, err)
	assert.Equal(t, U32(30), stored.Fields["age"])
}

func TestTableUpdateUpserts(t *testing.T) {
	table := testTable(t)

	require.NoError(t, table.Update(testEntry(t, "alice", 30)))
	require.NoError(t, table.Update(testEntry(t, "alice", 31)))

	stored, err := table.Get(String("alice"))
	require.NoError(t, err)
	assert.Equal(t, U32(31), stored.Fields["age"])

	require.NoError(t, table.InsertOrUpdate(testEntry(t, "bob", 20)))
	assert.Len(t, table.Entries, 2)
}

// A type mismatch must be reported before any presence violation, even when
// the same entry also omits a required field.
func TestTableValidationOrder(t *testing.T) {
	table := testTable(t)

	e, err := NewEntry().
		PrimaryField(String("alice")).
		AddField("note", U64(1)). // wrong type AND missing required "age"
		Build()
	require.NoError(t, err)
	assert.ErrorIs(t, table.Insert(e), ErrMismatchedFieldType)

	// with types fine, the undeclared field is reported before the missing one
	e, err = NewEntry().
		PrimaryField(String("alice")).
		AddField("height", U32(170)).
		Build()
	require.NoError(t, err)
	assert.ErrorIs(t, table.Insert(e), ErrUnsupportedField)

	e, err = NewEntry().
		PrimaryField(String("alice")).
		AddField("note", String("hi")).
		Build()
	require.NoError(t, err)
	assert.ErrorIs(t, table.Insert(e), ErrMissingRequiredField)

	assert.Empty(t, table.Entries, "failed writes must not store anything")
}

func TestTableValidationPrimaryKeyType(t *testing.T) {
	table := testTable(t)

	e, err := NewEntry().
		PrimaryField(U64(1)).
		AddField("age", U32(30)).
		Build()
	require.NoError(t, err)
	assert.ErrorIs(t, table.Insert(e), ErrMismatchedFieldType)
	assert.ErrorIs(t, table.Update(e), ErrMismatchedFieldType)
}

func TestTableDelete(t *testing.T) {
	table := testTable(t)
	require.NoError(t, table.Insert(testEntry(t, "alice", 30)))

	require.NoError(t, table.Delete(String("alice")))
	assert.ErrorIs(t, table.Delete(String("alice")), ErrEntryDoesNotExist)

	_, err := table.Get(String("alice"))
	assert.ErrorIs(t, err, ErrEntryDoesNotExist)
}

func TestTableScan(t *testing.T) {
	table := testTable(t)
	assert.Empty(t, table.Scan())

	require.NoError(t, table.Insert(testEntry(t, "alice", 30)))
	require.NoError(t, table.Insert(testEntry(t, "bob", 20)))
	assert.Len(t, table.Scan(), 2)
}
