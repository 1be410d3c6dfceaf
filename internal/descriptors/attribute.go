package descriptors

import (
	"fmt"
	"reflect"

	"github.com/dball/descriptors/internal/fields"
	. "github.com/dball/descriptors/internal/types"
)

// Attribute is a descriptor bound to a persistent field and owned by a class descriptor.
type Attribute interface {
	// ClassRef returns the handle of the owning class descriptor.
	ClassRef() ClassRef
	// SetClassRef reassigns the owning class descriptor. The field binding is unchanged.
	SetClassRef(ref ClassRef)
	// PersistentField returns the field binding, which is nil until one is set.
	PersistentField() fields.PersistentField
	// SetPersistentField replaces the field binding with the given one.
	SetPersistentField(field fields.PersistentField)
	// SetPersistentFieldByName resolves and replaces the field binding.
	SetPersistentFieldByName(typ reflect.Type, name string) error
	// AttributeName returns the field binding's name. The binding must be set.
	AttributeName() string
	// Clone returns a copy of the attribute with the same owner and binding.
	Clone() Attribute
}

// AttributeDescriptor binds a persistent field to an owning class descriptor.
// Fields resolve reflectively through the factory.
type AttributeDescriptor struct {
	owner   ClassRef
	field   fields.PersistentField
	factory *fields.Factory
}

var _ Attribute = (*AttributeDescriptor)(nil)

// NewAttributeDescriptor returns an unbound attribute descriptor owned by the
// class descriptor, resolving fields with the factory.
func NewAttributeDescriptor(owner ClassRef, factory *fields.Factory) *AttributeDescriptor {
	return &AttributeDescriptor{owner: owner, factory: factory}
}

func (attr *AttributeDescriptor) ClassRef() ClassRef {
	return attr.owner
}

func (attr *AttributeDescriptor) SetClassRef(ref ClassRef) {
	attr.owner = ref
}

func (attr *AttributeDescriptor) PersistentField() fields.PersistentField {
	return attr.field
}

// SetPersistentField panics if the field is nil.
func (attr *AttributeDescriptor) SetPersistentField(field fields.PersistentField) {
	if field == nil {
		panic(NewError("descriptors.nilField", "class", attr.owner))
	}
	attr.field = field
}

// SetPersistentFieldByName binds the declared member of the type with the given
// name, or fails with the factory's error, leaving the extant binding in place.
func (attr *AttributeDescriptor) SetPersistentFieldByName(typ reflect.Type, name string) (err error) {
	field, err := attr.factory.Resolve(typ, name)
	if err != nil {
		return
	}
	attr.field = field
	return
}

// AttributeName returns the name of the bound field. Callers must ensure a
// field was bound first; an unbound descriptor panics.
func (attr *AttributeDescriptor) AttributeName() string {
	if attr.field == nil {
		panic(NewError("descriptors.unboundAttribute", "class", attr.owner))
	}
	return attr.field.Name()
}

func (attr *AttributeDescriptor) Clone() Attribute {
	clone := *attr
	return &clone
}

func (attr *AttributeDescriptor) String() string {
	return fmt.Sprintf("AttributeDescriptor{field: %v, class: %v}", attr.field, attr.owner)
}
