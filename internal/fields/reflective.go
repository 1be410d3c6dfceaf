package fields

import (
	"fmt"
	"reflect"
	"strings"
	"unsafe"

	. "github.com/dball/descriptors/internal/types"
	"golang.org/x/exp/slices"
)

// reflectiveField is bound to a declared struct member, possibly promoted from
// an embedded struct, or to a dotted path of members through nested structs.
type reflectiveField struct {
	declaring reflect.Type
	name      string
	// path holds the field index sequence of each dotted segment.
	path [][]int
	typ  reflect.Type
}

var _ PersistentField = (*reflectiveField)(nil)

// NewReflectiveField resolves the dotted name against the struct type.
func NewReflectiveField(declaring reflect.Type, name string) (field PersistentField, err error) {
	if declaring == nil || declaring.Kind() != reflect.Struct {
		err = NewError("fields.notStruct", "type", declaring, "name", name)
		return
	}
	if name == "" {
		err = NewError("fields.emptyName", "type", declaring)
		return
	}
	segments := strings.Split(name, ".")
	path := make([][]int, 0, len(segments))
	current := declaring
	for _, segment := range segments {
		if current.Kind() == reflect.Pointer {
			current = current.Elem()
		}
		if current.Kind() != reflect.Struct {
			err = NewError("fields.notStruct", "type", current, "name", name, "segment", segment)
			return
		}
		structField, ok := current.FieldByName(segment)
		if !ok {
			err = NewError("fields.fieldNotFound", "type", declaring, "name", name, "segment", segment)
			return
		}
		path = append(path, structField.Index)
		current = structField.Type
	}
	switch current.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		err = NewError("fields.notPersistent", "type", declaring, "name", name, "kind", current.Kind())
		return
	}
	field = &reflectiveField{declaring: declaring, name: name, path: path, typ: current}
	return
}

func (field *reflectiveField) Name() string {
	return field.name
}

func (field *reflectiveField) DeclaringType() reflect.Type {
	return field.declaring
}

func (field *reflectiveField) Type() reflect.Type {
	return field.typ
}

func (field *reflectiveField) Get(target any) (value any, err error) {
	root, path, err := field.root(target, false)
	if err != nil {
		return
	}
	val, ok := walk(root, path, false)
	if !ok {
		// A nil pointer along the path reads as the zero value.
		value = reflect.Zero(field.typ).Interface()
		return
	}
	value = accessible(val).Interface()
	return
}

// Set converts the value to the field's type before touching the target, so a
// rejected value allocates nothing along the path.
func (field *reflectiveField) Set(target any, value any) (err error) {
	root, path, err := field.root(target, true)
	if err != nil {
		return
	}
	converted := reflect.Zero(field.typ)
	if value != nil {
		given := reflect.ValueOf(value)
		var ok bool
		if given.Type().AssignableTo(field.typ) {
			converted, ok = given, true
		} else {
			converted, ok = ConvertLossless(given, field.typ)
		}
		if !ok {
			err = NewError("fields.wrongValueType", "name", field.name, "expected", field.typ, "given", given.Type(), "value", value)
			return
		}
	}
	val, _ := walk(root, path, true)
	accessible(val).Set(converted)
	return
}

func (field *reflectiveField) String() string {
	return fmt.Sprintf("#field(%v.%s)", field.declaring, field.name)
}

// root returns an addressable struct value for the target and the path to the
// field from it. The target may be the declaring type or embed it. Reads of
// struct values work on a copy; writes require a non-nil pointer.
func (field *reflectiveField) root(target any, write bool) (root reflect.Value, path [][]int, err error) {
	val := reflect.ValueOf(target)
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			err = NewError("fields.nilTarget", "name", field.name, "type", val.Type())
			return
		}
		val = val.Elem()
	} else if write {
		err = NewError("fields.unaddressableTarget", "name", field.name, "type", reflect.TypeOf(target))
		return
	}
	if !val.IsValid() {
		err = NewError("fields.wrongTarget", "name", field.name, "expected", field.declaring, "given", reflect.TypeOf(target))
		return
	}
	path = field.path
	if val.Type() != field.declaring {
		prefix, ok := EmbeddingPath(val.Type(), field.declaring)
		if !ok {
			err = NewError("fields.wrongTarget", "name", field.name, "expected", field.declaring, "given", reflect.TypeOf(target))
			return
		}
		path = slices.Clone(field.path)
		path[0] = append(prefix, field.path[0]...)
	}
	if !val.CanAddr() {
		copied := reflect.New(val.Type()).Elem()
		copied.Set(val)
		val = copied
	}
	root = val
	return
}

// walk follows the path from the root. Nil pointers are allocated if alloc is
// true, otherwise the walk stops and returns ok=false.
func walk(root reflect.Value, path [][]int, alloc bool) (val reflect.Value, ok bool) {
	val = root
	last := len(path) - 1
	for n, indexes := range path {
		for _, i := range indexes {
			if val.Kind() == reflect.Pointer {
				if val.IsNil() {
					if !alloc {
						return
					}
					accessible(val).Set(reflect.New(val.Type().Elem()))
				}
				val = val.Elem()
			}
			val = val.Field(i)
		}
		if val.Kind() == reflect.Pointer && n < last {
			if val.IsNil() {
				if !alloc {
					return
				}
				accessible(val).Set(reflect.New(val.Type().Elem()))
			}
			val = val.Elem()
		}
	}
	ok = true
	return
}

// accessible returns a settable, interfaceable view of an addressable value,
// including values reached through unexported fields.
func accessible(val reflect.Value) reflect.Value {
	if val.CanSet() {
		return val
	}
	return reflect.NewAt(val.Type(), unsafe.Pointer(val.UnsafeAddr())).Elem()
}
