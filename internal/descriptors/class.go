// Package descriptors provides the metadata describing how struct types map to
// tables: class descriptors and the field, attribute and index descriptors
// they own.
//
// Descriptors are built during a single-threaded load and are read-only
// thereafter. Reassigning owners or SQL types while other goroutines read the
// descriptors is undefined behavior.
package descriptors

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/dball/descriptors/internal/sys"
)

// ClassRef is a handle to a class descriptor in a repository. The zero ref
// refers to no class.
type ClassRef int

func (ref ClassRef) String() string {
	return fmt.Sprintf("#class(%d)", int(ref))
}

// ClassDescriptor describes the mapping of a struct type to a table.
type ClassDescriptor struct {
	ref     ClassRef
	typ     reflect.Type
	table   string
	super   ClassRef
	fields  []*FieldDescriptor
	indexes []*IndexDescriptor
}

var _ XMLSerializable = (*ClassDescriptor)(nil)

func (class *ClassDescriptor) Ref() ClassRef {
	return class.ref
}

func (class *ClassDescriptor) Type() reflect.Type {
	return class.typ
}

func (class *ClassDescriptor) Table() string {
	return class.table
}

// Super returns the class whose fields this class inherited, if any.
func (class *ClassDescriptor) Super() ClassRef {
	return class.super
}

// Fields returns the field descriptors in declaration order.
func (class *ClassDescriptor) Fields() []*FieldDescriptor {
	return class.fields
}

// Field returns the field descriptor with the given attribute name, if any.
func (class *ClassDescriptor) Field(name string) (field *FieldDescriptor, ok bool) {
	for _, f := range class.fields {
		if f.AttributeName() == name {
			field = f
			ok = true
			break
		}
	}
	return
}

// AddField appends the field descriptor, which this class then owns.
func (class *ClassDescriptor) AddField(field *FieldDescriptor) {
	field.SetClassRef(class.ref)
	class.fields = append(class.fields, field)
}

func (class *ClassDescriptor) Indexes() []*IndexDescriptor {
	return class.indexes
}

func (class *ClassDescriptor) AddIndex(idx *IndexDescriptor) {
	class.indexes = append(class.indexes, idx)
}

// ToXML renders the class as a class-descriptor element containing its field
// and index descriptors.
func (class *ClassDescriptor) ToXML(tags *sys.Tags) string {
	eol := sys.LineSeparator
	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(tags.OpeningTag(sys.ClassDescriptor))
	b.WriteString(" ")
	b.WriteString(tags.Attribute(sys.ClassName, class.typ.String()))
	b.WriteString(" ")
	b.WriteString(tags.Attribute(sys.TableName, class.table))
	b.WriteString(">")
	b.WriteString(eol)
	for _, field := range class.fields {
		b.WriteString(field.ToXML(tags))
	}
	for _, idx := range class.indexes {
		b.WriteString(idx.ToXML(tags))
	}
	b.WriteString("  ")
	b.WriteString(tags.ClosingTag(sys.ClassDescriptor))
	b.WriteString(eol)
	return b.String()
}
