// Package sys defines the system vocabulary shared by descriptors: the tag
// registry used for XML rendering and the catalog of SQL type codes.
package sys

import (
	"runtime"
	"strings"

	. "github.com/dball/descriptors/internal/types"
)

// LineSeparator is the host platform's native line separator.
var LineSeparator = lineSeparator(runtime.GOOS)

func lineSeparator(goos string) string {
	if goos == "windows" {
		return "\r\n"
	}
	return "\n"
}

// These are the SQL type codes, numbered as the JDBC type constants.
const (
	Bit           = JdbcType(-7)
	TinyInt       = JdbcType(-6)
	SmallInt      = JdbcType(5)
	Integer       = JdbcType(4)
	BigInt        = JdbcType(-5)
	Float         = JdbcType(6)
	Real          = JdbcType(7)
	Double        = JdbcType(8)
	Numeric       = JdbcType(2)
	Decimal       = JdbcType(3)
	Char          = JdbcType(1)
	Varchar       = JdbcType(12)
	LongVarchar   = JdbcType(-1)
	Date          = JdbcType(91)
	Time          = JdbcType(92)
	Timestamp     = JdbcType(93)
	Binary        = JdbcType(-2)
	VarBinary     = JdbcType(-3)
	LongVarBinary = JdbcType(-4)
	Null          = JdbcType(0)
	Other         = JdbcType(1111)
	JavaObject    = JdbcType(2000)
	Struct        = JdbcType(2002)
	Blob          = JdbcType(2004)
	Clob          = JdbcType(2005)
	Boolean       = JdbcType(16)
)

// JdbcTypes indexes the SQL type codes by their declared names.
var JdbcTypes map[string]JdbcType = map[string]JdbcType{
	"BIT":           Bit,
	"TINYINT":       TinyInt,
	"SMALLINT":      SmallInt,
	"INTEGER":       Integer,
	"BIGINT":        BigInt,
	"FLOAT":         Float,
	"REAL":          Real,
	"DOUBLE":        Double,
	"NUMERIC":       Numeric,
	"DECIMAL":       Decimal,
	"CHAR":          Char,
	"VARCHAR":       Varchar,
	"LONGVARCHAR":   LongVarchar,
	"DATE":          Date,
	"TIME":          Time,
	"TIMESTAMP":     Timestamp,
	"BINARY":        Binary,
	"VARBINARY":     VarBinary,
	"LONGVARBINARY": LongVarBinary,
	"NULL":          Null,
	"OTHER":         Other,
	"JAVA_OBJECT":   JavaObject,
	"STRUCT":        Struct,
	"BLOB":          Blob,
	"CLOB":          Clob,
	"BOOLEAN":       Boolean,
}

// ParseJdbcType resolves a declared SQL type name, ignoring case.
func ParseJdbcType(name string) (typ JdbcType, err error) {
	typ, ok := JdbcTypes[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		err = NewError("sys.unknownJdbcType", "name", name)
	}
	return
}

// JdbcTypeName returns the declared name of the SQL type code, if known.
func JdbcTypeName(typ JdbcType) (name string, ok bool) {
	for n, t := range JdbcTypes {
		if t == typ {
			return n, true
		}
	}
	return
}
