package testing

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkv-db/pKV/lib/keystore"
)

// StoreFactory creates a fresh, empty store for one test. Implementations
// typically place the backing file in tb.TempDir() and register cleanup via
// tb.Cleanup.
type StoreFactory func(tb testing.TB) keystore.IKeystore

// RunKeystoreTests runs a conformance test suite for an IKeystore
// implementation.
func RunKeystoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("CreateTable", func(t *testing.T) {
			testCreateTable(t, factory(t))
		})

		t.Run("Insert&Get", func(t *testing.T) {
			testInsertGet(t, factory(t))
		})

		t.Run("DoubleInsert", func(t *testing.T) {
			testDoubleInsert(t, factory(t))
		})

		t.Run("Update", func(t *testing.T) {
			testUpdate(t, factory(t))
		})

		t.Run("SchemaValidation", func(t *testing.T) {
			testSchemaValidation(t, factory(t))
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory(t))
		})

		t.Run("Scan&Query", func(t *testing.T) {
			testScanQuery(t, factory(t))
		})

		t.Run("DeleteMany", func(t *testing.T) {
			testDeleteMany(t, factory(t))
		})

		t.Run("DropTable", func(t *testing.T) {
			testDropTable(t, factory(t))
		})

		t.Run("Prune", func(t *testing.T) {
			testPrune(t, factory(t))
		})

		t.Run("UseAfterClose", func(t *testing.T) {
			testUseAfterClose(t, factory(t))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// usersTable builds the schema most tests operate on: a string-keyed table
// with one required and one optional field.
func usersTable(t testing.TB, expireAfter time.Duration) *keystore.Table {
	b := keystore.NewTable("users").
		PrimaryField(keystore.FieldTypeString).
		AddField("age", keystore.FieldTypeU32).
		AddOptionalField("note", keystore.FieldTypeString)
	if expireAfter > 0 {
		b = b.AddExpiration(expireAfter)
	}
	table, err := b.Build()
	require.NoError(t, err)
	return table
}

func userEntry(t testing.TB, name string, age uint32) *keystore.Entry {
	e, err := keystore.NewEntry().
		PrimaryField(keystore.String(name)).
		AddField("age", keystore.U32(age)).
		Build()
	require.NoError(t, err)
	return e
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testCreateTable(t *testing.T, store keystore.IKeystore) {
	defer store.Close()

	require.NoError(t, store.CreateTable(usersTable(t, 0)))

	tables, err := store.ListTables()
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, tables)

	err = store.CreateTable(usersTable(t, 0))
	assert.ErrorIs(t, err, keystore.ErrTableExists)
}

func testInsertGet(t *testing.T, store keystore.IKeystore) {
	defer store.Close()

	require.NoError(t, store.CreateTable(usersTable(t, 0)))

	entry := userEntry(t, "alice", 30)
	before := time.Now()
	require.NoError(t, store.Insert("users", entry))

	got, err := store.Get("users", keystore.String("alice"))
	require.NoError(t, err)

	assert.Equal(t, entry.PrimaryField, got.PrimaryField)
	assert.Equal(t, entry.Fields, got.Fields)
	assert.False(t, got.LastTimestamp.Before(before), "insert must stamp the entry")

	// the caller's value must stay untouched
	assert.True(t, entry.LastTimestamp.IsZero())

	// returned entries are copies, not aliases of stored state
	got.Fields["age"] = keystore.U32(99)
	again, err := store.Get("users", keystore.String("alice"))
	require.NoError(t, err)
	assert.Equal(t, keystore.U32(30), again.Fields["age"])

	_, err = store.Get("users", keystore.String("nobody"))
	assert.ErrorIs(t, err, keystore.ErrEntryDoesNotExist)

	_, err = store.Get("missing-table", keystore.String("alice"))
	assert.ErrorIs(t, err, keystore.ErrTableDoesNotExist)
}

func testDoubleInsert(t *testing.T, store keystore.IKeystore) {
	defer store.Close()

	require.NoError(t, store.CreateTable(usersTable(t, 0)))
	require.NoError(t, store.Insert("users", userEntry(t, "alice", 30)))

	err := store.Insert("users", userEntry(t, "alice", 31))
	assert.ErrorIs(t, err, keystore.ErrEntryExists)

	// the stored entry is unchanged
	got, err := store.Get("users", keystore.String("alice"))
	require.NoError(t, err)
	assert.Equal(t, keystore.U32(30), got.Fields["age"])
}

func testUpdate(t *testing.T, store keystore.IKeystore) {
	defer store.Close()

	require.NoError(t, store.CreateTable(usersTable(t, 0)))

	// update of an absent key creates the entry (upsert)
	require.NoError(t, store.Update("users", userEntry(t, "bob", 20)))

	got, err := store.Get("users", keystore.String("bob"))
	require.NoError(t, err)
	assert.Equal(t, keystore.U32(20), got.Fields["age"])
	firstStamp := got.LastTimestamp

	require.NoError(t, store.Update("users", userEntry(t, "bob", 21)))

	got, err = store.Get("users", keystore.String("bob"))
	require.NoError(t, err)
	assert.Equal(t, keystore.U32(21), got.Fields["age"])
	assert.False(t, got.LastTimestamp.Before(firstStamp), "update must refresh the stamp")

	require.NoError(t, store.InsertOrUpdate("users", userEntry(t, "bob", 22)))
	got, err = store.Get("users", keystore.String("bob"))
	require.NoError(t, err)
	assert.Equal(t, keystore.U32(22), got.Fields["age"])
}

func testSchemaValidation(t *testing.T, store keystore.IKeystore) {
	defer store.Close()

	require.NoError(t, store.CreateTable(usersTable(t, 0)))

	// wrong primary key type
	e, err := keystore.NewEntry().
		PrimaryField(keystore.U64(1)).
		AddField("age", keystore.U32(30)).
		Build()
	require.NoError(t, err)
	assert.ErrorIs(t, store.Insert("users", e), keystore.ErrMismatchedFieldType)

	// wrong field type
	e, err = keystore.NewEntry().
		PrimaryField(keystore.String("carol")).
		AddField("age", keystore.I64(30)).
		Build()
	require.NoError(t, err)
	assert.ErrorIs(t, store.Insert("users", e), keystore.ErrMismatchedFieldType)

	// undeclared field
	e, err = keystore.NewEntry().
		PrimaryField(keystore.String("carol")).
		AddField("age", keystore.U32(30)).
		AddField("height", keystore.U32(170)).
		Build()
	require.NoError(t, err)
	assert.ErrorIs(t, store.Insert("users", e), keystore.ErrUnsupportedField)

	// missing required field
	e, err = keystore.NewEntry().
		PrimaryField(keystore.String("carol")).
		AddField("note", keystore.String("hi")).
		Build()
	require.NoError(t, err)
	assert.ErrorIs(t, store.Insert("users", e), keystore.ErrMissingRequiredField)

	// a type mismatch on an optional field is still a mismatch
	e, err = keystore.NewEntry().
		PrimaryField(keystore.String("carol")).
		AddField("age", keystore.U32(30)).
		AddField("note", keystore.U64(1)).
		Build()
	require.NoError(t, err)
	assert.ErrorIs(t, store.Insert("users", e), keystore.ErrMismatchedFieldType)

	// omitting the optional field is fine
	require.NoError(t, store.Insert("users", userEntry(t, "carol", 30)))

	// failed inserts must not have stored anything
	entries, err := store.Scan("users")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func testDelete(t *testing.T, store keystore.IKeystore) {
	defer store.Close()

	require.NoError(t, store.CreateTable(usersTable(t, 0)))
	require.NoError(t, store.Insert("users", userEntry(t, "alice", 30)))

	require.NoError(t, store.Delete("users", keystore.String("alice")))

	_, err := store.Get("users", keystore.String("alice"))
	assert.ErrorIs(t, err, keystore.ErrEntryDoesNotExist)

	err = store.Delete("users", keystore.String("alice"))
	assert.ErrorIs(t, err, keystore.ErrEntryDoesNotExist)
}

func testScanQuery(t *testing.T, store keystore.IKeystore) {
	defer store.Close()

	require.NoError(t, store.CreateTable(usersTable(t, 0)))

	for i := 0; i < 10; i++ {
		e, err := keystore.NewEntry().
			PrimaryField(keystore.String(fmt.Sprintf("user-%d", i))).
			AddField("age", keystore.U32(uint32(20+i%2))).
			Build()
		require.NoError(t, err)
		require.NoError(t, store.Insert("users", e))
	}
	// one entry carrying the optional field
	e, err := keystore.NewEntry().
		PrimaryField(keystore.String("noted")).
		AddField("age", keystore.U32(20)).
		AddField("note", keystore.String("vip")).
		Build()
	require.NoError(t, err)
	require.NoError(t, store.Insert("users", e))

	entries, err := store.Scan("users")
	require.NoError(t, err)
	assert.Len(t, entries, 11)

	// empty criteria match everything
	matches, err := store.Query("users", map[string]keystore.Field{})
	require.NoError(t, err)
	assert.Len(t, matches, 11)

	matches, err = store.Query("users", map[string]keystore.Field{
		"age": keystore.U32(21),
	})
	require.NoError(t, err)
	assert.Len(t, matches, 5)

	// an entry without the criteria field never matches
	matches, err = store.Query("users", map[string]keystore.Field{
		"note": keystore.String("vip"),
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, keystore.String("noted"), matches[0].PrimaryField)

	// criteria are AND-ed
	matches, err = store.Query("users", map[string]keystore.Field{
		"age":  keystore.U32(21),
		"note": keystore.String("vip"),
	})
	require.NoError(t, err)
	assert.Empty(t, matches)

	// equality is variant-aware: same raw payload, different type
	matches, err = store.Query("users", map[string]keystore.Field{
		"age": keystore.I64(21),
	})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func testDeleteMany(t *testing.T, store keystore.IKeystore) {
	defer store.Close()

	require.NoError(t, store.CreateTable(usersTable(t, 0)))

	for i := 0; i < 10; i++ {
		e, err := keystore.NewEntry().
			PrimaryField(keystore.String(fmt.Sprintf("user-%d", i))).
			AddField("age", keystore.U32(uint32(20+i%2))).
			Build()
		require.NoError(t, err)
		require.NoError(t, store.Insert("users", e))
	}

	deleted, err := store.DeleteMany("users", map[string]keystore.Field{
		"age": keystore.U32(21),
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), deleted)

	entries, err := store.Scan("users")
	require.NoError(t, err)
	assert.Len(t, entries, 5)

	// no matches deletes nothing
	deleted, err = store.DeleteMany("users", map[string]keystore.Field{
		"age": keystore.U32(99),
	})
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func testDropTable(t *testing.T, store keystore.IKeystore) {
	defer store.Close()

	require.NoError(t, store.CreateTable(usersTable(t, 0)))
	require.NoError(t, store.Insert("users", userEntry(t, "alice", 30)))

	require.NoError(t, store.DropTable("users"))

	tables, err := store.ListTables()
	require.NoError(t, err)
	assert.Empty(t, tables)

	assert.ErrorIs(t, store.DropTable("users"), keystore.ErrTableDoesNotExist)

	// the name is reusable, and the old entries are gone
	require.NoError(t, store.CreateTable(usersTable(t, 0)))
	entries, err := store.Scan("users")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func testPrune(t *testing.T, store keystore.IKeystore) {
	defer store.Close()

	require.NoError(t, store.CreateTable(usersTable(t, 50*time.Millisecond)))

	eternal, err := keystore.NewTable("eternal").
		PrimaryField(keystore.FieldTypeString).
		AddField("age", keystore.FieldTypeU32).
		Build()
	require.NoError(t, err)
	require.NoError(t, store.CreateTable(eternal))

	require.NoError(t, store.Insert("users", userEntry(t, "stale", 30)))
	require.NoError(t, store.Insert("eternal", userEntry(t, "keep", 30)))

	// nothing is old enough yet
	require.NoError(t, store.Prune())
	entries, err := store.Scan("users")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	time.Sleep(80 * time.Millisecond)

	// a write refreshes the stamp and rescues the entry
	require.NoError(t, store.Insert("users", userEntry(t, "fresh", 30)))
	require.NoError(t, store.Update("users", userEntry(t, "refreshed", 30)))
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, store.Prune())

	_, err = store.Get("users", keystore.String("stale"))
	assert.ErrorIs(t, err, keystore.ErrEntryDoesNotExist)
	_, err = store.Get("users", keystore.String("fresh"))
	assert.NoError(t, err)
	_, err = store.Get("users", keystore.String("refreshed"))
	assert.NoError(t, err)

	// tables without an expiration are never pruned
	_, err = store.Get("eternal", keystore.String("keep"))
	assert.NoError(t, err)
}

func testUseAfterClose(t *testing.T, store keystore.IKeystore) {
	require.NoError(t, store.CreateTable(usersTable(t, 0)))
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.Save(), keystore.ErrUnableToGetLock)
	assert.ErrorIs(t, store.Insert("users", userEntry(t, "alice", 30)), keystore.ErrUnableToGetLock)
	_, err := store.Get("users", keystore.String("alice"))
	assert.ErrorIs(t, err, keystore.ErrUnableToGetLock)
	_, err = store.ListTables()
	assert.ErrorIs(t, err, keystore.ErrUnableToGetLock)
	assert.ErrorIs(t, store.Prune(), keystore.ErrUnableToGetLock)
	assert.ErrorIs(t, store.Close(), keystore.ErrUnableToGetLock)
}
