// Package types defines the core metadata types.
package types

import (
	"fmt"
	"reflect"
	"time"
)

// Void is used for values in maps used as sets.
type Void struct{}

// JdbcType is an opaque SQL type code. Field types store and return it
// without interpreting it.
type JdbcType int

func (typ JdbcType) String() string {
	return fmt.Sprintf("#jdbc(%d)", int(typ))
}

// TimeType is the type of golang's Time value.
var TimeType = reflect.TypeOf(time.Time{})

// BytesType is the type of a byte slice.
var BytesType = reflect.TypeOf([]byte(nil))

// IsNil returns true for the nil interface and for typed nil pointers, slices,
// maps, channels, funcs and interfaces.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return val.IsNil()
	}
	return false
}
