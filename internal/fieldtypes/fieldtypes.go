// Package fieldtypes defines the value semantics of persisted field values:
// how to copy them, how to compare them for persistence-relevant equality,
// whether they are mutable, and which SQL type code they are bound to.
//
// Field types are safe for concurrent Copy and Equals. SetSQLType is meant to
// be called once while mappings load, before any concurrent use; calling it
// while other goroutines read the field type is a data race.
package fieldtypes

import (
	"fmt"

	. "github.com/dball/descriptors/internal/types"
)

// Kind is the logical identity of a field type.
type Kind int

const (
	String Kind = iota + 1
	Int
	Int32
	Float
	Bool
	Time
	UUID
	Bytes
	BigInt
	Decimal
	Object
)

func (kind Kind) String() string {
	switch kind {
	case String:
		return "string"
	case Int:
		return "int"
	case Int32:
		return "int32"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Time:
		return "time"
	case UUID:
		return "uuid"
	case Bytes:
		return "bytes"
	case BigInt:
		return "bigint"
	case Decimal:
		return "decimal"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// ParseKind converts a kind name to a Kind.
func ParseKind(s string) (Kind, error) {
	for kind := String; kind <= Object; kind++ {
		if kind.String() == s {
			return kind, nil
		}
	}
	return 0, NewError("fieldtypes.unknownKind", "name", s)
}

// FieldType is the strategy for one category of persisted value.
type FieldType interface {
	// Kind is the logical identity of the field type.
	Kind() Kind
	// Copy returns a value equal to the given value. For mutable field types the
	// result shares no mutable state with the input; immutable field types may
	// return the input itself. Copy(nil) is nil.
	Copy(value any) any
	// Equals returns true if the values are equal for persistence purposes. Nil
	// equals only nil.
	Equals(a, b any) bool
	// SQLType returns the SQL type code bound to the field type.
	SQLType() JdbcType
	// SetSQLType binds the SQL type code.
	SetSQLType(typ JdbcType)
	// IsMutable returns true if values of this type can change in place.
	IsMutable() bool
}

type base struct {
	kind    Kind
	sqlType JdbcType
}

func (b *base) Kind() Kind {
	return b.kind
}

func (b *base) SQLType() JdbcType {
	return b.sqlType
}

func (b *base) SetSQLType(typ JdbcType) {
	b.sqlType = typ
}

func (b *base) String() string {
	return fmt.Sprintf("#fieldtype(%s, %s)", b.kind, b.sqlType)
}

// nilEquality handles the cases where either value is nil, returning
// decided=false if both values are present.
func nilEquality(a, b any) (equal bool, decided bool) {
	aNil := IsNil(a)
	bNil := IsNil(b)
	switch {
	case aNil && bNil:
		return true, true
	case aNil || bNil:
		return false, true
	}
	return false, false
}
