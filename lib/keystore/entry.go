package keystore

import (
	"time"
)

// --------------------------------------------------------------------------
// Entry
// --------------------------------------------------------------------------

// Entry is one record stored under a primary key. LastTimestamp is stamped
// by the owning table on every successful insert or update; it is never set
// at construction time, so a freshly built entry carries the zero time.
type Entry struct {
	PrimaryField  Field            `msgpack:"primary"`
	Fields        map[string]Field `msgpack:"fields"`
	LastTimestamp time.Time        `msgpack:"ts"`
}

// Field returns the value stored under the given field name. The boolean
// reports whether the field is present on this entry at all.
func (e *Entry) Field(name string) (Field, bool) {
	f, ok := e.Fields[name]
	return f, ok
}

// Clone returns a deep copy of the entry. Tables hand out clones so that
// callers can never mutate stored state outside the database lock.
func (e *Entry) Clone() *Entry {
	fields := make(map[string]Field, len(e.Fields))
	for k, v := range e.Fields {
		fields[k] = v
	}
	return &Entry{
		PrimaryField:  e.PrimaryField,
		Fields:        fields,
		LastTimestamp: e.LastTimestamp,
	}
}

func (e *Entry) String() string {
	return e.PrimaryField.String()
}

// --------------------------------------------------------------------------
// Entry Builder
// --------------------------------------------------------------------------

// EntryBuilder accumulates the fields of an entry; Build performs the
// terminal validation (concrete primary key, at least one field).
type EntryBuilder struct {
	entry Entry
	err   error
}

// NewEntry starts the construction of an entry.
func NewEntry() *EntryBuilder {
	return &EntryBuilder{
		entry: Entry{
			Fields: make(map[string]Field),
		},
	}
}

// PrimaryField sets the entry's primary key value.
func (b *EntryBuilder) PrimaryField(f Field) *EntryBuilder {
	if f.IsNone() {
		b.fail(ErrInvalidPrimaryKey)
		return b
	}
	b.entry.PrimaryField = f
	return b
}

// AddField adds a named value. Both required and optional schema fields are
// added the same way; whether the combination is acceptable is decided by
// the table on insert or update.
func (b *EntryBuilder) AddField(name string, f Field) *EntryBuilder {
	if f.IsNone() {
		b.fail(ErrUnsupportedFieldType)
		return b
	}
	if name == "" {
		b.fail(ErrUnsupportedField)
		return b
	}
	b.entry.Fields[name] = f
	return b
}

// Build validates the accumulated entry and returns it.
func (b *EntryBuilder) Build() (*Entry, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.entry.PrimaryField.IsNone() {
		return nil, ErrInvalidPrimaryKey
	}
	if len(b.entry.Fields) == 0 {
		return nil, ErrEntryMustContainFields
	}
	return &b.entry, nil
}

func (b *EntryBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
