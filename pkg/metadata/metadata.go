// Package metadata contains the public metadata types and functions for descriptors.
package metadata

import (
	"reflect"

	"github.com/dball/descriptors/internal/descriptors"
	"github.com/dball/descriptors/internal/sys"
	"github.com/dball/descriptors/internal/tracking"
)

// Metadata is a registry of struct types mapped to tables.
type Metadata interface {
	// Register analyzes the ojb tags of the sample's struct type and adds its
	// class. Registering a type again returns the extant class.
	Register(sample any) (*Class, error)
	// Class returns the class of the sample's struct type, if registered.
	Class(sample any) (*Class, bool)
	// Inherit copies the attributes of super's class that sub's class lacks.
	Inherit(sub any, super any) error
	// Get reads the named attribute of the entity.
	Get(entity any, attribute string) (any, error)
	// Set writes the named attribute of the entity, which must be a pointer.
	Set(entity any, attribute string, value any) error
	// Snapshot copies every attribute value of the entity.
	Snapshot(entity any) (Snapshot, error)
	// Changes returns the attributes of the entity that differ from the snapshot.
	Changes(entity any, snapshot Snapshot) ([]Change, error)
	// XML renders every registered class.
	XML() string

	class(entity any) (*descriptors.ClassDescriptor, error)
}

// Snapshot maps attribute names to copies of their values.
type Snapshot = tracking.Snapshot

// Change is a changed attribute.
type Change = tracking.FieldChange

// Class describes a registered struct type.
type Class struct {
	desc *descriptors.ClassDescriptor
	tags *sys.Tags
}

func (class *Class) Type() reflect.Type {
	return class.desc.Type()
}

func (class *Class) Table() string {
	return class.desc.Table()
}

// Attributes returns the attribute names in field order.
func (class *Class) Attributes() []string {
	fields := class.desc.Fields()
	names := make([]string, len(fields))
	for i, field := range fields {
		names[i] = field.AttributeName()
	}
	return names
}

// Column returns the column of the named attribute.
func (class *Class) Column(attribute string) (column string, ok bool) {
	field, ok := class.desc.Field(attribute)
	if ok {
		column = field.Column()
	}
	return
}

// Index is an index declared by ojb tags.
type Index struct {
	Name    string
	Unique  bool
	Columns []string
}

func (class *Class) Indexes() []Index {
	indexes := make([]Index, len(class.desc.Indexes()))
	for i, idx := range class.desc.Indexes() {
		indexes[i] = Index{Name: idx.Name(), Unique: idx.IsUnique(), Columns: idx.Columns()}
	}
	return indexes
}

func (class *Class) XML() string {
	return class.desc.ToXML(class.tags)
}

// Tracker tracks the changes of one entity.
type Tracker[T any] interface {
	Changed(attribute string) bool
	ChangedAttributes() []string
	// Refresh recomputes the changes.
	Refresh() error
	// Reset takes a new snapshot.
	Reset() error
}

type tracker[T any] struct {
	*tracking.ChangeTracker
}

func (t *tracker[T]) ChangedAttributes() []string {
	return t.ChangedFields()
}

// Track begins tracking the changes of the entity, whose type must be registered.
func Track[T any](md Metadata, entity *T) (t Tracker[T], err error) {
	class, err := md.class(entity)
	if err != nil {
		return
	}
	ct, err := tracking.NewChangeTracker(class, entity)
	if err != nil {
		return
	}
	t = &tracker[T]{ChangeTracker: ct}
	return
}
