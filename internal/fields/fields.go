// Package fields provides persistent fields: capabilities that read and write
// a named field of a struct instance, whether or not the field is a declared,
// exported member of the struct.
package fields

import (
	"fmt"
	"reflect"

	. "github.com/dball/descriptors/internal/types"
)

// PersistentField binds a logical attribute name of a struct type to a way of
// reading and writing its value on instances.
type PersistentField interface {
	// Name is the attribute name the field was bound with. It is never empty.
	Name() string
	// DeclaringType is the struct type the field was resolved against.
	DeclaringType() reflect.Type
	// Type is the declared Go type of the field. Anonymous fields have no
	// declared type and return nil.
	Type() reflect.Type
	// Get reads the field's value from the target instance.
	Get(target any) (value any, err error)
	// Set writes the value to the field of the target instance, which must be
	// a pointer for reflective fields.
	Set(target any, value any) (err error)
}

// Storage holds the values of anonymous fields outside of the instances' declared members.
type Storage interface {
	Load(target any, name string) (value any, err error)
	Store(target any, name string, value any) (err error)
}

// AnonymousHolder is implemented by types that keep their own anonymous field values.
type AnonymousHolder interface {
	AnonymousValue(name string) any
	SetAnonymousValue(name string, value any)
}

// HolderStorage is the storage that delegates to targets implementing AnonymousHolder.
type HolderStorage struct{}

var _ Storage = HolderStorage{}

func (HolderStorage) Load(target any, name string) (value any, err error) {
	holder, ok := target.(AnonymousHolder)
	if !ok {
		err = NewError("fields.noAnonymousStorage", "name", name, "type", reflect.TypeOf(target))
		return
	}
	value = holder.AnonymousValue(name)
	return
}

func (HolderStorage) Store(target any, name string, value any) (err error) {
	holder, ok := target.(AnonymousHolder)
	if !ok {
		err = NewError("fields.noAnonymousStorage", "name", name, "type", reflect.TypeOf(target))
		return
	}
	holder.SetAnonymousValue(name, value)
	return
}

// anonymousField is bound by name only. Its values live in a storage supplied
// by the caller's class model.
type anonymousField struct {
	declaring reflect.Type
	name      string
	storage   Storage
}

var _ PersistentField = (*anonymousField)(nil)

// NewAnonymousField returns a field bound only by name, whose values are kept
// in the given storage. The name is accepted verbatim.
func NewAnonymousField(declaring reflect.Type, name string, storage Storage) PersistentField {
	if name == "" {
		panic(NewError("fields.emptyName", "type", declaring))
	}
	if storage == nil {
		storage = HolderStorage{}
	}
	return &anonymousField{declaring: declaring, name: name, storage: storage}
}

func (field *anonymousField) Name() string {
	return field.name
}

func (field *anonymousField) DeclaringType() reflect.Type {
	return field.declaring
}

func (field *anonymousField) Type() reflect.Type {
	return nil
}

func (field *anonymousField) Get(target any) (value any, err error) {
	return field.storage.Load(target, field.name)
}

func (field *anonymousField) Set(target any, value any) (err error) {
	return field.storage.Store(target, field.name, value)
}

func (field *anonymousField) String() string {
	return fmt.Sprintf("#anonymous(%v.%s)", field.declaring, field.name)
}

