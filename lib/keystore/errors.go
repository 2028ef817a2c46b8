package keystore

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Error Taxonomy
// --------------------------------------------------------------------------

// All failures of the keystore are reported as wrapped sentinel errors so
// that callers can branch with errors.Is. Parameterized errors (table names,
// field names) carry their context in the message via the wrap helpers below.
var (
	// Existence errors
	ErrTableExists       = errors.New("table already exists")
	ErrTableDoesNotExist = errors.New("table does not exist")
	ErrEntryExists       = errors.New("entry exists")
	ErrEntryDoesNotExist = errors.New("entry does not exist")
	ErrStoreExists       = errors.New("keystore file already exists")
	ErrStoreDoesNotExist = errors.New("keystore file does not exist")

	// Schema errors
	ErrTableNameNotSet        = errors.New("table name must not be empty")
	ErrTableMissingPrimaryKey = errors.New("missing primary key from table")
	ErrTableMustContainFields = errors.New("table must contain at least one field")
	ErrEntryMustContainFields = errors.New("entry must contain at least one field")
	ErrInvalidPrimaryKey      = errors.New("invalid primary key")
	ErrUnsupportedFieldType   = errors.New("field type is not supported")
	ErrMismatchedFieldType    = errors.New("field value does not match declared type")
	ErrUnsupportedField       = errors.New("field name is not supported on table")
	ErrMissingRequiredField   = errors.New("missing required field")

	// Concurrency errors. A sync.Mutex cannot be poisoned the way a
	// platform lock can, so this error is only produced when a handle is
	// used after Close has torn the store down.
	ErrUnableToGetLock = errors.New("unable to acquire lock on database")
)

// --------------------------------------------------------------------------
// Wrap Helpers
// --------------------------------------------------------------------------

func errTableExists(name string) error {
	return fmt.Errorf("%w: %s", ErrTableExists, name)
}

func errTableDoesNotExist(name string) error {
	return fmt.Errorf("%w: %s", ErrTableDoesNotExist, name)
}

func errStoreExists(path string) error {
	return fmt.Errorf("%w: %s", ErrStoreExists, path)
}

func errStoreDoesNotExist(path string) error {
	return fmt.Errorf("%w: %s", ErrStoreDoesNotExist, path)
}

func errUnsupportedField(name string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedField, name)
}

func errMissingRequiredField(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingRequiredField, name)
}
