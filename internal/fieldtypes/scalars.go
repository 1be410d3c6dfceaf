package fieldtypes

import (
	"reflect"
	"time"

	. "github.com/dball/descriptors/internal/types"
	"github.com/google/uuid"
	"golang.org/x/exp/constraints"
)

// scalarType is an immutable field type whose domain is the Go type X. Values
// of other types that convert without loss within the same kind family (e.g. int
// to int64) are compared in the domain.
type scalarType[X any] struct {
	base
	eq func(x, y X) bool
}

func newScalarType[X any](b base, eq func(x, y X) bool) *scalarType[X] {
	return &scalarType[X]{base: b, eq: eq}
}

func (typ *scalarType[X]) IsMutable() bool {
	return false
}

// Copy returns the value itself, unless it is a pointer, in which case the
// pointee is copied into a new pointer.
func (typ *scalarType[X]) Copy(value any) any {
	if value == nil {
		return nil
	}
	val := reflect.ValueOf(value)
	if val.Kind() != reflect.Pointer {
		return value
	}
	if val.IsNil() {
		return value
	}
	copied := reflect.New(val.Type().Elem())
	copied.Elem().Set(val.Elem())
	return copied.Interface()
}

func (typ *scalarType[X]) Equals(a, b any) bool {
	if equal, decided := nilEquality(a, b); decided {
		return equal
	}
	x, xok := domainValue[X](a)
	y, yok := domainValue[X](b)
	if xok && yok {
		return typ.eq(x, y)
	}
	return structuralEqual(a, b)
}

// domainValue returns the value in the domain type. Values that would lose
// their logical value in conversion, e.g. an int beyond the int32 range, are
// outside the domain.
func domainValue[X any](v any) (x X, ok bool) {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Pointer {
		val = val.Elem()
	}
	target := reflect.TypeOf((*X)(nil)).Elem()
	if val.Type() != target {
		if val, ok = ConvertLossless(val, target); !ok {
			return
		}
	}
	x, ok = val.Interface().(X)
	return
}

// orderedEqual treats NaN as equal to itself so equality stays reflexive.
func orderedEqual[X constraints.Ordered](x, y X) bool {
	return x == y || (x != x && y != y)
}

func boolEqual(x, y bool) bool {
	return x == y
}

func timeEqual(x, y time.Time) bool {
	return x.Equal(y)
}

func uuidEqual(x, y uuid.UUID) bool {
	return x == y
}
