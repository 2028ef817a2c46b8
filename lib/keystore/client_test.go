package keystore_test

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkv-db/pKV/lib/keystore"
	kstesting "github.com/pkv-db/pKV/lib/keystore/testing"
)

// newTestClient creates a store backed by a file in a fresh temp dir, with
// no maintenance worker.
func newTestClient(tb testing.TB) *keystore.Client {
	tb.Helper()
	client, err := keystore.New(filepath.Join(tb.TempDir(), "test.db"), 0, nil)
	require.NoError(tb, err)
	return client
}

func TestClientConformance(t *testing.T) {
	kstesting.RunKeystoreTests(t, "Client", func(tb testing.TB) keystore.IKeystore {
		return newTestClient(tb)
	})
}

func BenchmarkClient(b *testing.B) {
	kstesting.RunKeystoreBenchmarks(b, "Client", func(tb testing.TB) keystore.IKeystore {
		return newTestClient(tb)
	})
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

func TestClientNewRejectsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	client, err := keystore.New(path, 0, nil)
	require.NoError(t, err)
	require.NoError(t, client.Close())

	_, err = keystore.New(path, 0, nil)
	assert.ErrorIs(t, err, keystore.ErrStoreExists)
}

func TestClientOpenRejectsMissingFile(t *testing.T) {
	_, err := keystore.Open(filepath.Join(t.TempDir(), "missing.db"), nil)
	assert.ErrorIs(t, err, keystore.ErrStoreDoesNotExist)
}

func TestClientPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	client, err := keystore.New(path, 0, nil)
	require.NoError(t, err)

	table, err := keystore.NewTable("users").
		PrimaryField(keystore.FieldTypeString).
		AddField("age", keystore.FieldTypeU32).
		AddOptionalField("joined", keystore.FieldTypeDate).
		AddExpiration(time.Hour).
		Build()
	require.NoError(t, err)
	require.NoError(t, client.CreateTable(table))

	joined := time.Now()
	entry, err := keystore.NewEntry().
		PrimaryField(keystore.String("alice")).
		AddField("age", keystore.U32(30)).
		AddField("joined", keystore.Date(joined)).
		Build()
	require.NoError(t, err)
	require.NoError(t, client.Insert("users", entry))

	stored, err := client.Get("users", keystore.String("alice"))
	require.NoError(t, err)

	require.NoError(t, client.Save())
	require.NoError(t, client.Close())

	reopened, err := keystore.Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	tables, err := reopened.ListTables()
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, tables)

	got, err := reopened.Get("users", keystore.String("alice"))
	require.NoError(t, err)
	assert.Equal(t, keystore.String("alice"), got.PrimaryField)
	assert.Equal(t, keystore.U32(30), got.Fields["age"])
	assert.Equal(t, keystore.Date(joined), got.Fields["joined"])
	assert.True(t, got.LastTimestamp.Equal(stored.LastTimestamp),
		"timestamps must survive the round trip")

	// the schema survives too: a violating write still fails after reopen
	bad, err := keystore.NewEntry().
		PrimaryField(keystore.String("bob")).
		AddField("age", keystore.I64(20)).
		Build()
	require.NoError(t, err)
	assert.ErrorIs(t, reopened.Insert("users", bad), keystore.ErrMismatchedFieldType)
}

func TestClientUnsavedChangesAreLost(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	client, err := keystore.New(path, 0, nil)
	require.NoError(t, err)

	table, err := keystore.NewTable("users").
		PrimaryField(keystore.FieldTypeString).
		AddField("age", keystore.FieldTypeU32).
		Build()
	require.NoError(t, err)
	require.NoError(t, client.CreateTable(table))
	require.NoError(t, client.Save())

	entry, err := keystore.NewEntry().
		PrimaryField(keystore.String("alice")).
		AddField("age", keystore.U32(30)).
		Build()
	require.NoError(t, err)
	require.NoError(t, client.Insert("users", entry))

	// Close without Save: the insert never reached disk
	require.NoError(t, client.Close())

	reopened, err := keystore.Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	_, err = reopened.Get("users", keystore.String("alice"))
	assert.ErrorIs(t, err, keystore.ErrEntryDoesNotExist)
}

// --------------------------------------------------------------------------
// Maintenance Worker
// --------------------------------------------------------------------------

func TestClientMaintenanceWorker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	client, err := keystore.New(path, 30*time.Millisecond, nil)
	require.NoError(t, err)

	table, err := keystore.NewTable("sessions").
		PrimaryField(keystore.FieldTypeString).
		AddField("user", keystore.FieldTypeString).
		AddExpiration(20 * time.Millisecond).
		Build()
	require.NoError(t, err)
	require.NoError(t, client.CreateTable(table))

	entry, err := keystore.NewEntry().
		PrimaryField(keystore.String("sess-1")).
		AddField("user", keystore.String("alice")).
		Build()
	require.NoError(t, err)
	require.NoError(t, client.Insert("sessions", entry))

	// give the worker a few cycles to prune and save
	require.Eventually(t, func() bool {
		_, err := client.Get("sessions", keystore.String("sess-1"))
		return err != nil
	}, time.Second, 10*time.Millisecond, "worker should prune the expired entry")

	require.NoError(t, client.Close())

	// the worker also saved: the pruned state and the schedule are on disk
	reopened, err := keystore.Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	_, err = reopened.Get("sessions", keystore.String("sess-1"))
	assert.ErrorIs(t, err, keystore.ErrEntryDoesNotExist)
}

func TestClientSyncIntervalIsPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	client, err := keystore.New(path, time.Minute, nil)
	require.NoError(t, err)
	require.NoError(t, client.Close())

	reopened, err := keystore.Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	info, err := reopened.Info()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, info.SyncInterval)
}

// --------------------------------------------------------------------------
// Introspection
// --------------------------------------------------------------------------

func TestClientInfo(t *testing.T) {
	client := newTestClient(t)
	defer client.Close()

	table, err := keystore.NewTable("users").
		PrimaryField(keystore.FieldTypeString).
		AddField("age", keystore.FieldTypeU32).
		Build()
	require.NoError(t, err)
	require.NoError(t, client.CreateTable(table))

	for _, name := range []string{"alice", "bob"} {
		entry, err := keystore.NewEntry().
			PrimaryField(keystore.String(name)).
			AddField("age", keystore.U32(30)).
			Build()
		require.NoError(t, err)
		require.NoError(t, client.Insert("users", entry))
	}
	_, err = client.Get("users", keystore.String("alice"))
	require.NoError(t, err)

	info, err := client.Info()
	require.NoError(t, err)

	assert.Equal(t, 2, info.EntryCount)
	require.Len(t, info.Tables, 1)
	assert.Equal(t, "users", info.Tables[0].Name)
	assert.Equal(t, 2, info.Tables[0].Entries)
	assert.Equal(t, uint64(2), info.Tables[0].Operations.Inserts)
	assert.Equal(t, uint64(1), info.Tables[0].Operations.Gets)
	assert.Positive(t, info.EstimatedBytes)
	assert.Equal(t, int64(2), info.EntrySizes.GetCount())
}

func TestWriteMetrics(t *testing.T) {
	client := newTestClient(t)
	defer client.Close()

	table, err := keystore.NewTable("users").
		PrimaryField(keystore.FieldTypeString).
		AddField("age", keystore.FieldTypeU32).
		Build()
	require.NoError(t, err)
	require.NoError(t, client.CreateTable(table))

	entry, err := keystore.NewEntry().
		PrimaryField(keystore.String("alice")).
		AddField("age", keystore.U32(30)).
		Build()
	require.NoError(t, err)
	require.NoError(t, client.Insert("users", entry))

	var buf bytes.Buffer
	keystore.WriteMetrics(&buf)
	assert.Contains(t, buf.String(), "pkv_operations_total")
}
