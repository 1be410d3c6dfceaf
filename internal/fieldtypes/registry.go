package fieldtypes

import (
	"math/big"
	"reflect"

	"github.com/dball/descriptors/internal/sys"
	. "github.com/dball/descriptors/internal/types"
	"github.com/google/uuid"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	bigIntGoType = reflect.TypeOf(big.Int{})
	bigRatGoType = reflect.TypeOf(big.Rat{})
	uuidGoType   = reflect.TypeOf(uuid.UUID{})
	defaultTypes = map[Kind]JdbcType{
		String:  sys.Varchar,
		Int:     sys.BigInt,
		Int32:   sys.Integer,
		Float:   sys.Double,
		Bool:    sys.Boolean,
		Time:    sys.Timestamp,
		UUID:    sys.Char,
		Bytes:   sys.VarBinary,
		BigInt:  sys.Numeric,
		Decimal: sys.Decimal,
		Object:  sys.JavaObject,
	}
)

// New returns a new field type of the given kind, bound to the kind's default
// SQL type code.
func New(kind Kind) (typ FieldType, err error) {
	b := base{kind: kind, sqlType: defaultTypes[kind]}
	switch kind {
	case String:
		typ = newScalarType(b, orderedEqual[string])
	case Int:
		typ = newScalarType(b, orderedEqual[int64])
	case Int32:
		typ = newScalarType(b, orderedEqual[int32])
	case Float:
		typ = newScalarType(b, orderedEqual[float64])
	case Bool:
		typ = newScalarType(b, boolEqual)
	case Time:
		typ = newScalarType(b, timeEqual)
	case UUID:
		typ = newScalarType(b, uuidEqual)
	case Bytes:
		typ = &bytesType{base: b}
	case BigInt:
		typ = &bigIntType{base: b}
	case Decimal:
		typ = &decimalType{base: b}
	case Object:
		typ = &objectType{base: b}
	default:
		err = NewError("fieldtypes.unknownKind", "kind", int(kind))
	}
	return
}

// KindForGoType returns the kind of field type for values of the Go type.
// Pointer types have the kind of their element type.
func KindForGoType(typ reflect.Type) Kind {
	if typ == nil {
		return Object
	}
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	switch typ {
	case TimeType:
		return Time
	case BytesType:
		return Bytes
	case bigIntGoType:
		return BigInt
	case bigRatGoType:
		return Decimal
	case uuidGoType:
		return UUID
	}
	switch typ.Kind() {
	case reflect.String:
		return String
	case reflect.Bool:
		return Bool
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint32, reflect.Uint64:
		return Int
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint8, reflect.Uint16:
		return Int32
	case reflect.Float32, reflect.Float64:
		return Float
	}
	return Object
}

// KindForJdbcType returns the kind of field type that holds values of the SQL type.
func KindForJdbcType(typ JdbcType) Kind {
	switch typ {
	case sys.Char, sys.Varchar, sys.LongVarchar, sys.Clob:
		return String
	case sys.TinyInt, sys.SmallInt, sys.Integer:
		return Int32
	case sys.BigInt:
		return Int
	case sys.Real, sys.Float, sys.Double:
		return Float
	case sys.Numeric, sys.Decimal:
		return Decimal
	case sys.Bit, sys.Boolean:
		return Bool
	case sys.Date, sys.Time, sys.Timestamp:
		return Time
	case sys.Binary, sys.VarBinary, sys.LongVarBinary, sys.Blob:
		return Bytes
	}
	return Object
}

// Registry holds one shared field type per kind. A registry is built once at
// startup and is safe for concurrent reads thereafter.
type Registry struct {
	types map[Kind]FieldType
}

// NewRegistry returns a registry with a field type for every kind.
func NewRegistry() *Registry {
	types := make(map[Kind]FieldType, int(Object))
	for kind := String; kind <= Object; kind++ {
		typ, err := New(kind)
		if err != nil {
			panic(err)
		}
		types[kind] = typ
	}
	return &Registry{types: types}
}

// Get returns the shared field type of the kind.
func (registry *Registry) Get(kind Kind) (typ FieldType, ok bool) {
	typ, ok = registry.types[kind]
	return
}

// ForGoType returns the shared field type for values of the Go type.
func (registry *Registry) ForGoType(typ reflect.Type) FieldType {
	return registry.types[KindForGoType(typ)]
}

// ForJdbcType returns a new field type for the SQL type, bound to it.
func (registry *Registry) ForJdbcType(jdbcType JdbcType) FieldType {
	typ, err := registry.Column(KindForJdbcType(jdbcType))
	if err != nil {
		panic(err)
	}
	typ.SetSQLType(jdbcType)
	return typ
}

// Column returns a new field type of the kind for a single column, bound to
// the SQL type of the registry's shared type of the kind. Columns bind their
// own SQL types, so they never share the registry's instances.
func (registry *Registry) Column(kind Kind) (typ FieldType, err error) {
	shared, ok := registry.types[kind]
	if !ok {
		err = NewError("fieldtypes.unknownKind", "kind", int(kind))
		return
	}
	if typ, err = New(kind); err != nil {
		return
	}
	typ.SetSQLType(shared.SQLType())
	return
}

// Kinds returns the registered kinds in order.
func (registry *Registry) Kinds() []Kind {
	kinds := maps.Keys(registry.types)
	slices.Sort(kinds)
	return kinds
}
