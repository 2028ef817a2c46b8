package testing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkv-db/pKV/lib/keystore"
)

// RunKeystoreBenchmarks runs all benchmarks for an IKeystore implementation.
func RunKeystoreBenchmarks(b *testing.B, name string, factory StoreFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Insert", func(b *testing.B) {
			benchmarkInsert(b, factory(b))
		})

		b.Run("Update", func(b *testing.B) {
			benchmarkUpdate(b, factory(b))
		})

		b.Run("Get", func(b *testing.B) {
			benchmarkGet(b, factory(b))
		})

		b.Run("Query", func(b *testing.B) {
			benchmarkQuery(b, factory(b))
		})

		b.Run("Delete", func(b *testing.B) {
			benchmarkDelete(b, factory(b))
		})

		b.Run("Save", func(b *testing.B) {
			benchmarkSave(b, factory(b))
		})

		b.Run("Prune", func(b *testing.B) {
			benchmarkPrune(b, factory(b))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func benchTable(b *testing.B, store keystore.IKeystore) {
	table, err := keystore.NewTable("bench").
		PrimaryField(keystore.FieldTypeString).
		AddField("value", keystore.FieldTypeU64).
		AddOptionalField("label", keystore.FieldTypeString).
		Build()
	require.NoError(b, err)
	require.NoError(b, store.CreateTable(table))
}

func benchEntry(b *testing.B, i int) *keystore.Entry {
	e, err := keystore.NewEntry().
		PrimaryField(keystore.String(fmt.Sprintf("bench-key-%d", i))).
		AddField("value", keystore.U64(uint64(i))).
		Build()
	require.NoError(b, err)
	return e
}

func seedEntries(b *testing.B, store keystore.IKeystore, n int) {
	for i := 0; i < n; i++ {
		require.NoError(b, store.Insert("bench", benchEntry(b, i)))
	}
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

func benchmarkInsert(b *testing.B, store keystore.IKeystore) {
	b.Cleanup(func() { store.Close() })
	benchTable(b, store)

	entries := make([]*keystore.Entry, b.N)
	for i := range entries {
		entries[i] = benchEntry(b, i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Insert("bench", entries[i])
	}
}

func benchmarkUpdate(b *testing.B, store keystore.IKeystore) {
	b.Cleanup(func() { store.Close() })
	benchTable(b, store)

	numKeys := 1000
	seedEntries(b, store, numKeys)

	entries := make([]*keystore.Entry, b.N)
	for i := range entries {
		entries[i] = benchEntry(b, i%numKeys)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Update("bench", entries[i])
	}
}

func benchmarkGet(b *testing.B, store keystore.IKeystore) {
	b.Cleanup(func() { store.Close() })
	benchTable(b, store)

	numKeys := 1000
	seedEntries(b, store, numKeys)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Get("bench", keystore.String(fmt.Sprintf("bench-key-%d", i%numKeys)))
	}
}

func benchmarkQuery(b *testing.B, store keystore.IKeystore) {
	b.Cleanup(func() { store.Close() })
	benchTable(b, store)

	numKeys := 1000
	seedEntries(b, store, numKeys)

	criteria := map[string]keystore.Field{
		"value": keystore.U64(uint64(numKeys / 2)),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Query("bench", criteria)
	}
}

func benchmarkDelete(b *testing.B, store keystore.IKeystore) {
	b.Cleanup(func() { store.Close() })
	benchTable(b, store)
	seedEntries(b, store, b.N)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Delete("bench", keystore.String(fmt.Sprintf("bench-key-%d", i)))
	}
}

func benchmarkSave(b *testing.B, store keystore.IKeystore) {
	b.Cleanup(func() { store.Close() })
	benchTable(b, store)
	seedEntries(b, store, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := store.Save(); err != nil {
			b.Fatalf("save failed: %v", err)
		}
	}
}

func benchmarkPrune(b *testing.B, store keystore.IKeystore) {
	b.Cleanup(func() { store.Close() })
	benchTable(b, store)
	seedEntries(b, store, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := store.Prune(); err != nil {
			b.Fatalf("prune failed: %v", err)
		}
	}
}
