package keystore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseTableRegistry(t *testing.T) {
	db := NewDatabase()

	table := testTable(t)
	require.NoError(t, db.CreateTable(table))

	got, err := db.GetTable("users")
	require.NoError(t, err)
	assert.Same(t, table, got)

	assert.ErrorIs(t, db.CreateTable(testTable(t)), ErrTableExists)
	assert.Equal(t, []string{"users"}, db.ListTables())

	_, err = db.GetTable("missing")
	assert.ErrorIs(t, err, ErrTableDoesNotExist)

	require.NoError(t, db.DropTable("users"))
	assert.ErrorIs(t, db.DropTable("users"), ErrTableDoesNotExist)
	assert.Empty(t, db.ListTables())
}

func TestDatabaseSyncInterval(t *testing.T) {
	db := NewDatabase()
	assert.Zero(t, db.SyncInterval)

	db.SetSyncInterval(time.Minute)
	assert.Equal(t, time.Minute, db.SyncInterval)

	db.RemoveSyncInterval()
	assert.Zero(t, db.SyncInterval)
}
