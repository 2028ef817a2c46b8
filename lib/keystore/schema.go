package keystore

import "time"

// --------------------------------------------------------------------------
// Field Requirements
// --------------------------------------------------------------------------

// FieldRequirement declares the type of a schema field and whether an entry
// may omit it.
type FieldRequirement struct {
	Type     FieldType `msgpack:"t"`
	Optional bool      `msgpack:"o,omitempty"`
}

// Required declares a field every entry must carry.
func Required(t FieldType) FieldRequirement {
	return FieldRequirement{Type: t}
}

// Optional declares a field an entry may omit.
func Optional(t FieldType) FieldRequirement {
	return FieldRequirement{Type: t, Optional: true}
}

// --------------------------------------------------------------------------
// Table Builder
// --------------------------------------------------------------------------

// TableBuilder accumulates a table definition. Invalid steps are remembered
// and reported by Build, so a table can never be observed in an invalid
// state: the only way to obtain a *Table is through a successful Build.
type TableBuilder struct {
	table Table
	err   error
}

// NewTable starts the definition of a table with the given name.
func NewTable(name string) *TableBuilder {
	return &TableBuilder{
		table: Table{
			Name:    name,
			Fields:  make(map[string]FieldRequirement),
			Entries: make(map[Field]*Entry),
		},
	}
}

// PrimaryField sets the type of the table's primary key.
func (b *TableBuilder) PrimaryField(t FieldType) *TableBuilder {
	if t == FieldTypeNone {
		b.fail(ErrUnsupportedFieldType)
		return b
	}
	b.table.PrimaryField = t
	return b
}

// AddField declares a required field.
func (b *TableBuilder) AddField(name string, t FieldType) *TableBuilder {
	return b.addField(name, Required(t))
}

// AddOptionalField declares a field an entry may omit.
func (b *TableBuilder) AddOptionalField(name string, t FieldType) *TableBuilder {
	return b.addField(name, Optional(t))
}

// AddExpiration configures a time-to-live for the table's entries, measured
// from each entry's last successful write. Expired entries are removed by
// Client.Prune, not by the table itself.
func (b *TableBuilder) AddExpiration(expireAfter time.Duration) *TableBuilder {
	b.table.ExpireAfter = expireAfter
	return b
}

// Build validates the accumulated definition and returns the usable table.
func (b *TableBuilder) Build() (*Table, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.table.PrimaryField == FieldTypeNone {
		return nil, ErrTableMissingPrimaryKey
	}
	if b.table.Name == "" {
		return nil, ErrTableNameNotSet
	}
	if len(b.table.Fields) == 0 {
		return nil, ErrTableMustContainFields
	}
	return &b.table, nil
}

func (b *TableBuilder) addField(name string, req FieldRequirement) *TableBuilder {
	if req.Type == FieldTypeNone {
		b.fail(ErrUnsupportedFieldType)
		return b
	}
	if name == "" {
		b.fail(ErrUnsupportedField)
		return b
	}
	b.table.Fields[name] = req
	return b
}

// fail records the first error only; later steps keep it intact.
func (b *TableBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
