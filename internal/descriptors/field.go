package descriptors

import (
	"strconv"
	"strings"

	"github.com/dball/descriptors/internal/fieldtypes"
	"github.com/dball/descriptors/internal/sys"
)

// FieldDescriptor maps an attribute to a column, with the field type that
// governs the column's values.
type FieldDescriptor struct {
	Attribute
	column     string
	fieldType  fieldtypes.FieldType
	primaryKey bool
}

var _ XMLSerializable = (*FieldDescriptor)(nil)

func NewFieldDescriptor(attr Attribute, column string, fieldType fieldtypes.FieldType) *FieldDescriptor {
	return &FieldDescriptor{Attribute: attr, column: column, fieldType: fieldType}
}

func (field *FieldDescriptor) Column() string {
	return field.column
}

func (field *FieldDescriptor) FieldType() fieldtypes.FieldType {
	return field.fieldType
}

func (field *FieldDescriptor) IsPrimaryKey() bool {
	return field.primaryKey
}

func (field *FieldDescriptor) SetPrimaryKey(primaryKey bool) {
	field.primaryKey = primaryKey
}

// IsAnonymous indicates the bound field has no declared member.
func (field *FieldDescriptor) IsAnonymous() bool {
	pf := field.PersistentField()
	return pf != nil && pf.Type() == nil
}

// Clone returns a copy sharing the field type, with a cloned attribute.
func (field *FieldDescriptor) Clone() *FieldDescriptor {
	clone := *field
	clone.Attribute = field.Attribute.Clone()
	return &clone
}

// ToXML renders the field as a self-closing field-descriptor element.
func (field *FieldDescriptor) ToXML(tags *sys.Tags) string {
	var b strings.Builder
	b.WriteString("      ")
	b.WriteString(tags.OpeningTag(sys.FieldDescriptor))
	b.WriteString(" ")
	b.WriteString(tags.Attribute(sys.Name, field.AttributeName()))
	b.WriteString(" ")
	b.WriteString(tags.Attribute(sys.Column, field.column))
	b.WriteString(" ")
	b.WriteString(tags.Attribute(sys.JdbcTypeTag, jdbcTypeName(field.fieldType)))
	if field.IsAnonymous() {
		b.WriteString(" ")
		b.WriteString(tags.Attribute(sys.Access, "anonymous"))
	}
	b.WriteString(" />")
	b.WriteString(sys.LineSeparator)
	return b.String()
}

func jdbcTypeName(fieldType fieldtypes.FieldType) string {
	name, ok := sys.JdbcTypeName(fieldType.SQLType())
	if !ok {
		return strconv.Itoa(int(fieldType.SQLType()))
	}
	return name
}
