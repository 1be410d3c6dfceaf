package types

import (
	"math"
	"reflect"
)

// Family groups the numeric kinds whose values convert between each other.
// Other kinds are their own family.
func Family(kind reflect.Kind) reflect.Kind {
	switch {
	case isSigned(kind), isUnsigned(kind):
		return reflect.Int
	case kind == reflect.Float32, kind == reflect.Float64:
		return reflect.Float64
	}
	return kind
}

// ConvertLossless converts the value to the target type if both are in the
// same family and the logical value survives the conversion. Integers must
// keep their value and sign; floats must stay in range, but may round.
func ConvertLossless(val reflect.Value, target reflect.Type) (converted reflect.Value, ok bool) {
	if Family(val.Kind()) != Family(target.Kind()) || !val.Type().ConvertibleTo(target) {
		return
	}
	zero := reflect.Zero(target)
	kind := target.Kind()
	switch {
	case isSigned(val.Kind()):
		i := val.Int()
		if isSigned(kind) {
			ok = !zero.OverflowInt(i)
		} else {
			ok = i >= 0 && !zero.OverflowUint(uint64(i))
		}
	case isUnsigned(val.Kind()):
		u := val.Uint()
		if isSigned(kind) {
			ok = u <= math.MaxInt64 && !zero.OverflowInt(int64(u))
		} else {
			ok = !zero.OverflowUint(u)
		}
	case Family(val.Kind()) == reflect.Float64:
		f := val.Float()
		ok = math.IsNaN(f) || math.IsInf(f, 0) || !zero.OverflowFloat(f)
	default:
		ok = true
	}
	if ok {
		converted = val.Convert(target)
	}
	return
}

func isSigned(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(kind reflect.Kind) bool {
	switch kind {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
