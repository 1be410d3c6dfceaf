package fields

import (
	"reflect"

	"golang.org/x/exp/slices"
)

// EmbeddingPath returns the field index path by which the struct type embeds
// the other struct type, directly or through a chain of embedded structs or
// struct pointers. The shallowest embedding wins; two at the same depth are
// ambiguous and yield ok=false, as with promoted fields.
func EmbeddingPath(typ reflect.Type, embedded reflect.Type) (index []int, ok bool) {
	if typ == nil || embedded == nil || typ.Kind() != reflect.Struct {
		return
	}
	type candidate struct {
		typ   reflect.Type
		index []int
	}
	level := []candidate{{typ: typ}}
	visited := map[reflect.Type]bool{typ: true}
	for len(level) > 0 {
		var next []candidate
		var found [][]int
		for _, c := range level {
			for i := 0; i < c.typ.NumField(); i++ {
				structField := c.typ.Field(i)
				if !structField.Anonymous {
					continue
				}
				fieldType := structField.Type
				if fieldType.Kind() == reflect.Pointer {
					fieldType = fieldType.Elem()
				}
				if fieldType.Kind() != reflect.Struct {
					continue
				}
				path := append(slices.Clone(c.index), i)
				if fieldType == embedded {
					found = append(found, path)
					continue
				}
				if visited[fieldType] {
					continue
				}
				visited[fieldType] = true
				next = append(next, candidate{typ: fieldType, index: path})
			}
		}
		if len(found) > 0 {
			if len(found) == 1 {
				index, ok = found[0], true
			}
			return
		}
		level = next
	}
	return
}
