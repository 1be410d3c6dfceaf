package descriptors

import (
	"fmt"
	"reflect"

	"github.com/dball/descriptors/internal/fields"
)

// AnonymousFieldDescriptor is an attribute descriptor whose fields are never
// declared members: binding by name always creates an anonymous field, so the
// binding has no reflective type information.
type AnonymousFieldDescriptor struct {
	*AttributeDescriptor
}

var _ Attribute = (*AnonymousFieldDescriptor)(nil)

func NewAnonymousFieldDescriptor(owner ClassRef, factory *fields.Factory) *AnonymousFieldDescriptor {
	return &AnonymousFieldDescriptor{AttributeDescriptor: NewAttributeDescriptor(owner, factory)}
}

// SetPersistentFieldByName binds an anonymous field with the name verbatim. This never fails.
func (attr *AnonymousFieldDescriptor) SetPersistentFieldByName(typ reflect.Type, name string) error {
	attr.field = attr.factory.Anonymous(typ, name)
	return nil
}

func (attr *AnonymousFieldDescriptor) Clone() Attribute {
	return &AnonymousFieldDescriptor{AttributeDescriptor: attr.AttributeDescriptor.Clone().(*AttributeDescriptor)}
}

func (attr *AnonymousFieldDescriptor) String() string {
	return fmt.Sprintf("AnonymousFieldDescriptor{field: %v, class: %v}", attr.field, attr.owner)
}
