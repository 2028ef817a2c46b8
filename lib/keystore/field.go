package keystore

import (
	"fmt"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Field Types
// --------------------------------------------------------------------------

// FieldType identifies the variant of a Field value.
type FieldType uint8

const (
	FieldTypeNone FieldType = iota // untyped / absent marker
	FieldTypeString
	FieldTypeI32
	FieldTypeI64
	FieldTypeU32
	FieldTypeU64
	FieldTypeDate
)

func (t FieldType) String() string {
	switch t {
	case FieldTypeString:
		return "string"
	case FieldTypeI32:
		return "i32"
	case FieldTypeI64:
		return "i64"
	case FieldTypeU32:
		return "u32"
	case FieldTypeU64:
		return "u64"
	case FieldTypeDate:
		return "date"
	case FieldTypeNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseFieldType converts a textual type name ("string", "i64", ...) into a
// FieldType. The "none" variant is not parseable on purpose: it can never be
// declared in a schema or carried by a stored value.
func ParseFieldType(s string) (FieldType, error) {
	switch strings.ToLower(s) {
	case "string":
		return FieldTypeString, nil
	case "i32":
		return FieldTypeI32, nil
	case "i64":
		return FieldTypeI64, nil
	case "u32":
		return FieldTypeU32, nil
	case "u64":
		return FieldTypeU64, nil
	case "date":
		return FieldTypeDate, nil
	default:
		return FieldTypeNone, fmt.Errorf("%w: %q", ErrUnsupportedFieldType, s)
	}
}

// --------------------------------------------------------------------------
// Field
// --------------------------------------------------------------------------

// Field is a typed scalar value: one of string, i32, i64, u32, u64 or date.
// The zero value is the "none" variant, which is never a valid stored value.
//
// Field is comparable; equality is variant-aware, so values of different
// types are never equal even when their raw payloads coincide. This makes
// Field directly usable as a map key for primary-key lookups.
//
// The payload slots are exported for the persistence codec. Use the
// constructors (String, I32, ...) and the accessors instead of filling the
// struct literally.
type Field struct {
	Type FieldType `msgpack:"t"`
	Str  string    `msgpack:"s,omitempty"`
	Int  int64     `msgpack:"i,omitempty"`
	Uint uint64    `msgpack:"u,omitempty"`
	TS   int64     `msgpack:"d,omitempty"` // unix nanoseconds, date variant only
}

// String creates a string Field.
func String(v string) Field { return Field{Type: FieldTypeString, Str: v} }

// I32 creates a 32-bit signed integer Field.
func I32(v int32) Field { return Field{Type: FieldTypeI32, Int: int64(v)} }

// I64 creates a 64-bit signed integer Field.
func I64(v int64) Field { return Field{Type: FieldTypeI64, Int: v} }

// U32 creates a 32-bit unsigned integer Field.
func U32(v uint32) Field { return Field{Type: FieldTypeU32, Uint: uint64(v)} }

// U64 creates a 64-bit unsigned integer Field.
func U64(v uint64) Field { return Field{Type: FieldTypeU64, Uint: v} }

// Date creates a wall-clock timestamp Field. The value is stored with
// nanosecond precision; monotonic clock readings are discarded so that
// equality stays structural across a save/load round trip.
func Date(t time.Time) Field { return Field{Type: FieldTypeDate, TS: t.UnixNano()} }

// IsNone reports whether the Field is the untyped/absent marker.
func (f Field) IsNone() bool { return f.Type == FieldTypeNone }

// Date returns the timestamp payload of a date Field. The result is only
// meaningful when Type == FieldTypeDate.
func (f Field) Date() time.Time { return time.Unix(0, f.TS) }

// Value returns the payload as its natural Go type, or nil for none.
func (f Field) Value() interface{} {
	switch f.Type {
	case FieldTypeString:
		return f.Str
	case FieldTypeI32:
		return int32(f.Int)
	case FieldTypeI64:
		return f.Int
	case FieldTypeU32:
		return uint32(f.Uint)
	case FieldTypeU64:
		return f.Uint
	case FieldTypeDate:
		return f.Date()
	default:
		return nil
	}
}

func (f Field) String() string {
	switch f.Type {
	case FieldTypeString:
		return f.Str
	case FieldTypeI32, FieldTypeI64:
		return fmt.Sprintf("%d", f.Int)
	case FieldTypeU32, FieldTypeU64:
		return fmt.Sprintf("%d", f.Uint)
	case FieldTypeDate:
		return f.Date().UTC().Format(time.RFC3339Nano)
	default:
		return "none"
	}
}
