package fieldtypes

import (
	"bytes"
	"math/big"
	"reflect"

	"golang.org/x/exp/slices"
)

// bytesType is the field type of byte slices. Copies never share a buffer.
type bytesType struct {
	base
}

func (typ *bytesType) IsMutable() bool {
	return true
}

func (typ *bytesType) Copy(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case []byte:
		if typed == nil {
			return typed
		}
		return slices.Clone(typed)
	}
	return deepCopy(value)
}

func (typ *bytesType) Equals(a, b any) bool {
	if equal, decided := nilEquality(a, b); decided {
		return equal
	}
	x, xok := a.([]byte)
	y, yok := b.([]byte)
	if xok && yok {
		return bytes.Equal(x, y)
	}
	return structuralEqual(a, b)
}

// bigIntType is the field type of arbitrary precision integers.
type bigIntType struct {
	base
}

func (typ *bigIntType) IsMutable() bool {
	return true
}

func (typ *bigIntType) Copy(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case *big.Int:
		if typed == nil {
			return typed
		}
		return new(big.Int).Set(typed)
	}
	return deepCopy(value)
}

func (typ *bigIntType) Equals(a, b any) bool {
	if equal, decided := nilEquality(a, b); decided {
		return equal
	}
	x, xok := a.(*big.Int)
	y, yok := b.(*big.Int)
	if xok && yok {
		return x.Cmp(y) == 0
	}
	return structuralEqual(a, b)
}

// decimalType is the field type of exact decimal numbers, held as rationals.
type decimalType struct {
	base
}

func (typ *decimalType) IsMutable() bool {
	return true
}

func (typ *decimalType) Copy(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case *big.Rat:
		if typed == nil {
			return typed
		}
		return new(big.Rat).Set(typed)
	}
	return deepCopy(value)
}

func (typ *decimalType) Equals(a, b any) bool {
	if equal, decided := nilEquality(a, b); decided {
		return equal
	}
	x, xok := a.(*big.Rat)
	y, yok := b.(*big.Rat)
	if xok && yok {
		return x.Cmp(y) == 0
	}
	return structuralEqual(a, b)
}

// objectType is the field type of any other value: maps, slices, structs and
// pointers are copied deeply and compared structurally. Unlike reflect.DeepEqual
// the comparison is reflexive: NaNs equal themselves and funcs equal the same
// func.
type objectType struct {
	base
}

func (typ *objectType) IsMutable() bool {
	return true
}

func (typ *objectType) Copy(value any) any {
	return deepCopy(value)
}

func (typ *objectType) Equals(a, b any) bool {
	if equal, decided := nilEquality(a, b); decided {
		return equal
	}
	return structuralEqual(a, b)
}

func structuralEqual(a, b any) bool {
	return deepEqual(reflect.ValueOf(a), reflect.ValueOf(b), map[visit]bool{})
}

type visit struct {
	a, b uintptr
	typ  reflect.Type
}

// deepEqual compares the value graphs structurally. Cycles are assumed equal
// once revisited.
func deepEqual(x, y reflect.Value, visited map[visit]bool) bool {
	if !x.IsValid() || !y.IsValid() {
		return x.IsValid() == y.IsValid()
	}
	if x.Type() != y.Type() {
		return false
	}
	switch x.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if x.IsNil() || y.IsNil() {
			return x.IsNil() == y.IsNil()
		}
		if x.Kind() != reflect.Slice || x.Len() == y.Len() {
			key := visit{a: x.Pointer(), b: y.Pointer(), typ: x.Type()}
			if key.a == key.b {
				return true
			}
			if visited[key] {
				return true
			}
			visited[key] = true
		}
	}
	switch x.Kind() {
	case reflect.Bool:
		return x.Bool() == y.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return x.Int() == y.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return x.Uint() == y.Uint()
	case reflect.Float32, reflect.Float64:
		return orderedEqual(x.Float(), y.Float())
	case reflect.Complex64, reflect.Complex128:
		cx, cy := x.Complex(), y.Complex()
		return orderedEqual(real(cx), real(cy)) && orderedEqual(imag(cx), imag(cy))
	case reflect.String:
		return x.String() == y.String()
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return x.Pointer() == y.Pointer()
	case reflect.Pointer:
		return deepEqual(x.Elem(), y.Elem(), visited)
	case reflect.Interface:
		if x.IsNil() || y.IsNil() {
			return x.IsNil() == y.IsNil()
		}
		return deepEqual(x.Elem(), y.Elem(), visited)
	case reflect.Array, reflect.Slice:
		if x.Len() != y.Len() {
			return false
		}
		for i := 0; i < x.Len(); i++ {
			if !deepEqual(x.Index(i), y.Index(i), visited) {
				return false
			}
		}
		return true
	case reflect.Map:
		if x.Len() != y.Len() {
			return false
		}
		iter := x.MapRange()
		for iter.Next() {
			other := y.MapIndex(iter.Key())
			if !other.IsValid() || !deepEqual(iter.Value(), other, visited) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < x.NumField(); i++ {
			if !deepEqual(x.Field(i), y.Field(i), visited) {
				return false
			}
		}
		return true
	}
	return false
}

func deepCopy(value any) any {
	if value == nil {
		return nil
	}
	return deepCopyValue(reflect.ValueOf(value)).Interface()
}

// deepCopyValue copies the value graph reachable from val. Unexported struct
// fields are copied shallowly and cyclic graphs are not supported.
func deepCopyValue(val reflect.Value) reflect.Value {
	switch val.Kind() {
	case reflect.Pointer:
		if val.IsNil() {
			return val
		}
		copied := reflect.New(val.Type().Elem())
		copied.Elem().Set(deepCopyValue(val.Elem()))
		return copied
	case reflect.Slice:
		if val.IsNil() {
			return val
		}
		copied := reflect.MakeSlice(val.Type(), val.Len(), val.Len())
		for i := 0; i < val.Len(); i++ {
			copied.Index(i).Set(deepCopyValue(val.Index(i)))
		}
		return copied
	case reflect.Map:
		if val.IsNil() {
			return val
		}
		copied := reflect.MakeMapWithSize(val.Type(), val.Len())
		iter := val.MapRange()
		for iter.Next() {
			copied.SetMapIndex(iter.Key(), deepCopyValue(iter.Value()))
		}
		return copied
	case reflect.Array:
		copied := reflect.New(val.Type()).Elem()
		for i := 0; i < val.Len(); i++ {
			copied.Index(i).Set(deepCopyValue(val.Index(i)))
		}
		return copied
	case reflect.Struct:
		copied := reflect.New(val.Type()).Elem()
		copied.Set(val)
		for i := 0; i < val.NumField(); i++ {
			if copied.Field(i).CanSet() {
				copied.Field(i).Set(deepCopyValue(val.Field(i)))
			}
		}
		return copied
	case reflect.Interface:
		if val.IsNil() {
			return val
		}
		copied := reflect.New(val.Type()).Elem()
		copied.Set(deepCopyValue(val.Elem()))
		return copied
	}
	return val
}
