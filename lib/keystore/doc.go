// Package keystore provides an embedded, persistent key-value store with
// schema-typed values, per-table expiration, and single-file persistence.
// It is meant for applications that need structured local state with light
// durability guarantees, without operating an external database.
//
// The package focuses on:
//   - A unified interface (IKeystore) for store operations, implemented by
//     the file-backed Client and by a mock in the testing sub-package
//   - Schema enforcement on every write: typed fields, required/optional
//     declarations, and a typed primary key per table
//   - Sentinel-error reporting so callers can branch with errors.Is
//
// Key Components:
//
//   - Field: A typed scalar value (string, i32, i64, u32, u64 or date).
//     Fields are comparable with variant-aware equality and serve directly
//     as primary-key map keys.
//
//   - Table / TableBuilder: A named collection of entries governed by a
//     declared schema. Schemas and entries are only obtainable through
//     builders whose Build step performs the terminal validation, so no
//     half-valid value ever reaches the store.
//
//   - Database: The registry of tables and the unit of persistence,
//     including the sync interval of the maintenance schedule.
//
//   - Client: The concurrency boundary. It guards the database with a
//     single lock, persists it through the codec package (msgpack + s2
//     compression into one file), and owns the background maintenance
//     worker that periodically prunes expired entries and saves.
//
// Typical usage:
//
//	client, err := keystore.New("app.db", time.Minute, nil)
//	if err != nil { ... }
//	defer client.Close()
//
//	table, err := keystore.NewTable("users").
//		PrimaryField(keystore.FieldTypeString).
//		AddField("age", keystore.FieldTypeU32).
//		AddExpiration(24 * time.Hour).
//		Build()
//	if err != nil { ... }
//	if err := client.CreateTable(table); err != nil { ... }
//
//	entry, err := keystore.NewEntry().
//		PrimaryField(keystore.String("alice")).
//		AddField("age", keystore.U32(30)).
//		Build()
//	if err != nil { ... }
//	if err := client.Insert("users", entry); err != nil { ... }
//
// Close stops the worker but does not save; call Save first when unsaved
// mutations must survive.
package keystore
