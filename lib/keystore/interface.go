package keystore

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IKeystore is the interface for interacting with a keystore. The Client is
// the canonical implementation; the testing sub-package provides a mock so
// that applications can substitute the store in their own test harnesses.
//
// All operations are serialized against each other and against the
// maintenance worker by a single database lock; none of them interleave at
// a finer grain.
type IKeystore interface {
	// Save re-encodes the whole database and rewrites the target file in
	// place, forcing the result to stable storage before returning.
	Save() error

	// CreateTable registers a built table. It fails with ErrTableExists if
	// the name is already taken.
	CreateTable(table *Table) error
	// ListTables returns all registered table names in unspecified order.
	ListTables() ([]string, error)
	// DropTable removes a table and all its entries.
	DropTable(name string) error

	// Insert stores a new entry. It fails with ErrEntryExists if the
	// primary key is already present, and with a schema error if the entry
	// does not conform to the table's schema.
	Insert(table string, entry *Entry) error
	// Update stores the entry, replacing any entry with the same primary
	// key (upsert semantics).
	Update(table string, entry *Entry) error
	// InsertOrUpdate is an alias for Update.
	InsertOrUpdate(table string, entry *Entry) error
	// Get returns a copy of the entry stored under the primary key.
	Get(table string, primaryField Field) (*Entry, error)
	// Delete removes the entry stored under the primary key.
	Delete(table string, primaryField Field) error
	// DeleteMany removes every entry matching the criteria and returns the
	// count removed. Matching is exact equality, AND-ed across criteria
	// keys; an entry lacking a criteria field never matches.
	DeleteMany(table string, criteria map[string]Field) (uint64, error)
	// Scan returns copies of all entries of the table in unspecified order.
	Scan(table string) ([]*Entry, error)
	// Query returns copies of the entries matching the criteria. An empty
	// criteria map matches every entry.
	Query(table string, criteria map[string]Field) ([]*Entry, error)

	// Prune removes stale entries from every table that declares an
	// expiration. Tables without one are not scanned at all.
	Prune() error

	// Info returns statistics about the store. Values derived from sampled
	// sizes are estimates.
	Info() (Info, error)

	// Close stops the maintenance worker (blocking until it has exited)
	// and renders the handle unusable. Close does not save; callers that
	// need durability of unsaved mutations must call Save first.
	Close() error
}
