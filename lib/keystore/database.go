package keystore

import (
	"time"
)

// --------------------------------------------------------------------------
// Database
// --------------------------------------------------------------------------

// Database is the registry of tables and the unit of persistence. The sync
// interval is stored alongside the tables so that a reopened store resumes
// its maintenance schedule.
//
// Thread-safety: a Database is not safe for concurrent use on its own; the
// Client serializes all access behind a single lock.
type Database struct {
	SyncInterval time.Duration     `msgpack:"sync,omitempty"`
	Tables       map[string]*Table `msgpack:"tables"`
}

// NewDatabase creates an empty database with no sync interval.
func NewDatabase() *Database {
	return &Database{
		Tables: make(map[string]*Table),
	}
}

// SetSyncInterval configures the interval at which a Client's maintenance
// worker prunes and saves the database.
func (d *Database) SetSyncInterval(interval time.Duration) {
	d.SyncInterval = interval
}

// RemoveSyncInterval clears the maintenance schedule.
func (d *Database) RemoveSyncInterval() {
	d.SyncInterval = 0
}

// GetTable returns the registered table with the given name.
func (d *Database) GetTable(name string) (*Table, error) {
	t, ok := d.Tables[name]
	if !ok {
		return nil, errTableDoesNotExist(name)
	}
	return t, nil
}

// CreateTable registers the table under its name. Registering a name twice
// is rejected with ErrTableExists; dropping first is the way to replace a
// table wholesale.
func (d *Database) CreateTable(table *Table) error {
	if _, ok := d.Tables[table.Name]; ok {
		return errTableExists(table.Name)
	}
	d.Tables[table.Name] = table
	return nil
}

// DropTable removes the table with the given name and all its entries.
func (d *Database) DropTable(name string) error {
	if _, ok := d.Tables[name]; !ok {
		return errTableDoesNotExist(name)
	}
	delete(d.Tables, name)
	return nil
}

// ListTables returns the names of all registered tables in unspecified
// order.
func (d *Database) ListTables() []string {
	names := make([]string, 0, len(d.Tables))
	for name := range d.Tables {
		names = append(names, name)
	}
	return names
}
