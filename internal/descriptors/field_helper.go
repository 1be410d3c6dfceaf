package descriptors

import "strings"

// FieldHelper is one term of an ORDER BY or GROUP BY clause.
type FieldHelper struct {
	Name      string
	Ascending bool
}

func NewFieldHelper(name string, ascending bool) FieldHelper {
	return FieldHelper{Name: name, Ascending: ascending}
}

func (helper FieldHelper) String() string {
	if helper.Ascending {
		return helper.Name + " ASC"
	}
	return helper.Name + " DESC"
}

// OrderBy is a list of clause terms in construction order.
type OrderBy []FieldHelper

func (order OrderBy) String() string {
	terms := make([]string, len(order))
	for i, helper := range order {
		terms[i] = helper.String()
	}
	return strings.Join(terms, ", ")
}
