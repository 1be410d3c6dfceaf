// Package models provides models of structs with column bindings.
package models

import (
	"reflect"
	"strings"

	"github.com/dball/descriptors/internal/sys"
	. "github.com/dball/descriptors/internal/types"
)

// Tag is the struct tag key that binds fields to columns.
const Tag = "ojb"

// Tabler is implemented by struct types that name their own table.
type Tabler interface {
	TableName() string
}

// StructModel models a struct whose fields are bound to columns, and whose
// instances correspond to rows.
type StructModel struct {
	// Type is the struct type, whose kind must be a struct.
	Type reflect.Type
	// Table is the name of the table the struct maps to.
	Table string
	// Fields are the fields bound to columns, in field order.
	Fields []FieldModel
	// Indexes are the indexes declared by the fields, in order of first declaration.
	Indexes []IndexModel
}

// Field returns the field model with the given attribute name, if any.
func (model StructModel) Field(name string) (field FieldModel, ok bool) {
	for _, f := range model.Fields {
		if f.Name == name {
			field = f
			ok = true
			break
		}
	}
	return
}

// FieldModel models a field bound to a column.
type FieldModel struct {
	// Name is the attribute name: the Go field name, or the tag's name for
	// anonymous fields.
	Name string
	// Column is the column name.
	Column string
	// Index is the position of the field in the struct.
	Index int
	// FieldType is the field's go type. This is nil for anonymous fields.
	FieldType reflect.Type
	// JdbcType is the declared SQL type, if Typed.
	JdbcType JdbcType
	// Typed indicates the tag declared the SQL type.
	Typed bool
	// PrimaryKey indicates the column is part of the primary key.
	PrimaryKey bool
	// Anonymous indicates the field has no declared member.
	Anonymous bool
}

// IndexModel models an index over one or more columns.
type IndexModel struct {
	Name    string
	Unique  bool
	Columns []string
}

// Analyze builds a struct model for the given type.
func Analyze(typ reflect.Type) (model StructModel, err error) {
	if typ == nil {
		err = NewError("models.notStruct", "type", typ)
		return
	}
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		err = NewError("models.notStruct", "type", typ)
		return
	}
	model.Type = typ
	model.Table = tableName(typ)
	n := typ.NumField()
	fields := make([]FieldModel, 0, n)
	indexes := map[string]int{}
	for i := 0; i < n; i++ {
		structField := typ.Field(i)
		tag, ok := structField.Tag.Lookup(Tag)
		if !ok || tag == "-" {
			continue
		}
		field, fieldIndexes, fieldErr := parseTag(tag)
		if fieldErr != nil {
			err = fieldErr
			return
		}
		field.Index = i
		if structField.Name == "_" {
			if !field.Anonymous {
				err = NewError("models.blankField", "type", typ, "tag", tag)
				return
			}
		} else if field.Anonymous {
			err = NewError("models.anonymousMember", "type", typ, "field", structField.Name)
			return
		} else {
			field.Name = structField.Name
			field.FieldType = structField.Type
		}
		if field.Column == "" {
			field.Column = field.Name
		}
		if field.Name == "" {
			err = NewError("models.unnamedField", "type", typ, "tag", tag)
			return
		}
		for _, idx := range fieldIndexes {
			pos, extant := indexes[idx.Name]
			if !extant {
				indexes[idx.Name] = len(model.Indexes)
				model.Indexes = append(model.Indexes, IndexModel{Name: idx.Name, Unique: idx.Unique, Columns: []string{field.Column}})
				continue
			}
			if model.Indexes[pos].Unique != idx.Unique {
				err = NewError("models.conflictingIndex", "type", typ, "index", idx.Name)
				return
			}
			model.Indexes[pos].Columns = append(model.Indexes[pos].Columns, field.Column)
		}
		fields = append(fields, field)
	}
	model.Fields = fields
	return
}

func tableName(typ reflect.Type) string {
	if tabler, ok := reflect.New(typ).Interface().(Tabler); ok {
		return tabler.TableName()
	}
	return strings.ToLower(typ.Name())
}

// parseTag parses tags of the form column,directive,... where the directives
// are pk, anonymous, type=SQLTYPE, index=name and uniqueindex=name. The column
// of an anonymous field is also its attribute name.
func parseTag(tag string) (field FieldModel, indexes []IndexModel, err error) {
	parts := strings.Split(tag, ",")
	field.Column = parts[0]
	n := len(parts)
	for i := 1; i < n; i++ {
		part := parts[i]
		switch part {
		case "pk":
			field.PrimaryKey = true
		case "anonymous":
			field.Anonymous = true
			field.Name = field.Column
		default:
			switch {
			case strings.HasPrefix(part, "type="):
				if field.Typed {
					err = NewError("models.duplicateTypeDirective", "tag", tag)
					return
				}
				field.JdbcType, err = sys.ParseJdbcType(part[5:])
				if err != nil {
					return
				}
				field.Typed = true
			case strings.HasPrefix(part, "index=") && len(part) > 6:
				indexes = append(indexes, IndexModel{Name: part[6:]})
			case strings.HasPrefix(part, "uniqueindex=") && len(part) > 12:
				indexes = append(indexes, IndexModel{Name: part[12:], Unique: true})
			default:
				err = NewError("models.invalidDirective", "tag", tag)
				return
			}
		}
	}
	return
}
