package keystore

import (
	"time"
)

// --------------------------------------------------------------------------
// Table
// --------------------------------------------------------------------------

// Table is a named collection of entries that conform to a declared schema.
// The schema is enforced on every write; stored entries are never
// re-validated on read.
//
// The struct fields are exported for the persistence codec. Obtain tables
// through NewTable(...).Build() only.
//
// Thread-safety: a Table is not safe for concurrent use on its own; the
// Client serializes all access behind the database lock.
type Table struct {
	Name         string                      `msgpack:"name"`
	PrimaryField FieldType                   `msgpack:"primary"`
	Fields       map[string]FieldRequirement `msgpack:"fields"`
	Entries      map[Field]*Entry            `msgpack:"entries"`
	ExpireAfter  time.Duration               `msgpack:"expire,omitempty"`
}

// Get returns the stored entry for the given primary key, or
// ErrEntryDoesNotExist. The returned pointer aliases table state; callers
// outside this package receive clones via the Client.
func (t *Table) Get(key Field) (*Entry, error) {
	e, ok := t.Entries[key]
	if !ok {
		return nil, ErrEntryDoesNotExist
	}
	return e, nil
}

// Insert validates the entry against the schema, stamps its LastTimestamp
// and stores it. If an entry with the same primary key already exists,
// ErrEntryExists is returned and the table is unchanged.
func (t *Table) Insert(entry *Entry) error {
	if err := t.validateFieldTypes(entry); err != nil {
		return err
	}
	if err := t.validateRequiredFields(entry); err != nil {
		return err
	}
	entry.LastTimestamp = time.Now()

	if _, ok := t.Entries[entry.PrimaryField]; ok {
		return ErrEntryExists
	}
	t.Entries[entry.PrimaryField] = entry
	return nil
}

// Update validates the entry, stamps its LastTimestamp and stores it,
// replacing any existing entry with the same primary key. An entry that was
// not present before is created, so Update carries upsert semantics.
func (t *Table) Update(entry *Entry) error {
	if err := t.validateFieldTypes(entry); err != nil {
		return err
	}
	if err := t.validateRequiredFields(entry); err != nil {
		return err
	}
	entry.LastTimestamp = time.Now()

	t.Entries[entry.PrimaryField] = entry
	return nil
}

// InsertOrUpdate inserts the entry if absent and updates it otherwise.
func (t *Table) InsertOrUpdate(entry *Entry) error {
	return t.Update(entry)
}

// Delete removes the entry stored under the given primary key, or returns
// ErrEntryDoesNotExist.
func (t *Table) Delete(key Field) error {
	if _, ok := t.Entries[key]; !ok {
		return ErrEntryDoesNotExist
	}
	delete(t.Entries, key)
	return nil
}

// Scan returns all stored entries. The order is map iteration order and
// therefore unspecified.
func (t *Table) Scan() []*Entry {
	results := make([]*Entry, 0, len(t.Entries))
	for _, e := range t.Entries {
		results = append(results, e)
	}
	return results
}

// --------------------------------------------------------------------------
// Schema Validation
// --------------------------------------------------------------------------

// validateFieldTypes checks the primary key variant first, then every field
// the entry carries against its declared type. Field names unknown to the
// schema are skipped here; validateRequiredFields rejects them. The order
// matters: type mismatches must be observed before presence violations.
func (t *Table) validateFieldTypes(entry *Entry) error {
	if t.PrimaryField != entry.PrimaryField.Type {
		return ErrMismatchedFieldType
	}
	for name, value := range entry.Fields {
		if req, ok := t.Fields[name]; ok {
			if req.Type != value.Type {
				return ErrMismatchedFieldType
			}
		}
	}
	return nil
}

// validateRequiredFields rejects entry fields that the schema does not
// declare, then reports any declared Required field the entry omits.
func (t *Table) validateRequiredFields(entry *Entry) error {
	for name := range entry.Fields {
		if _, ok := t.Fields[name]; !ok {
			return errUnsupportedField(name)
		}
	}
	for name, req := range t.Fields {
		if req.Optional {
			continue
		}
		if _, ok := entry.Fields[name]; !ok {
			return errMissingRequiredField(name)
		}
	}
	return nil
}
