// Package tracking detects modified attributes of mapped entities. Snapshots
// hold copies made by each field's type, and comparison uses the same type's
// equality, so mutable values are never shared with the entity.
package tracking

import (
	"sync"

	"github.com/dball/descriptors/internal/descriptors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Snapshot maps attribute names to copies of their values.
type Snapshot map[string]any

// FieldChange represents a change to a single attribute.
type FieldChange struct {
	Field    string
	OldValue any
	NewValue any
}

// Take reads every attribute of the entity and copies its value.
func Take(class *descriptors.ClassDescriptor, entity any) (snapshot Snapshot, err error) {
	snapshot = make(Snapshot, len(class.Fields()))
	for _, field := range class.Fields() {
		var value any
		value, err = field.PersistentField().Get(entity)
		if err != nil {
			snapshot = nil
			return
		}
		snapshot[field.AttributeName()] = field.FieldType().Copy(value)
	}
	return
}

// Compare returns the attributes whose current values differ from the
// snapshot, in field order. Attributes absent from the snapshot count as
// changed.
func Compare(class *descriptors.ClassDescriptor, snapshot Snapshot, entity any) (changes []FieldChange, err error) {
	for _, field := range class.Fields() {
		name := field.AttributeName()
		var current any
		current, err = field.PersistentField().Get(entity)
		if err != nil {
			changes = nil
			return
		}
		previous, ok := snapshot[name]
		if ok && field.FieldType().Equals(previous, current) {
			continue
		}
		changes = append(changes, FieldChange{Field: name, OldValue: previous, NewValue: field.FieldType().Copy(current)})
	}
	return
}

// ChangeTracker tracks the changes of one entity against the snapshot taken
// when tracking began.
type ChangeTracker struct {
	class  *descriptors.ClassDescriptor
	entity any

	mu       sync.RWMutex
	original Snapshot
	changes  map[string]FieldChange
}

// NewChangeTracker snapshots the entity, which must be a pointer for changes
// made through it to be observed.
func NewChangeTracker(class *descriptors.ClassDescriptor, entity any) (tracker *ChangeTracker, err error) {
	original, err := Take(class, entity)
	if err != nil {
		return
	}
	tracker = &ChangeTracker{class: class, entity: entity, original: original, changes: map[string]FieldChange{}}
	return
}

// Refresh recomputes the changes from the entity's current state.
func (ct *ChangeTracker) Refresh() (err error) {
	changes, err := Compare(ct.class, ct.original, ct.entity)
	if err != nil {
		return
	}
	ct.mu.Lock()
	defer ct.mu.Unlock()
	ct.changes = make(map[string]FieldChange, len(changes))
	for _, change := range changes {
		ct.changes[change.Field] = change
	}
	return
}

// Reset takes a new snapshot, clearing the changes.
func (ct *ChangeTracker) Reset() (err error) {
	original, err := Take(ct.class, ct.entity)
	if err != nil {
		return
	}
	ct.mu.Lock()
	defer ct.mu.Unlock()
	ct.original = original
	ct.changes = map[string]FieldChange{}
	return
}

func (ct *ChangeTracker) Changed(field string) bool {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	_, ok := ct.changes[field]
	return ok
}

// ChangedFields returns the names of the changed attributes, sorted.
func (ct *ChangeTracker) ChangedFields() []string {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	fields := maps.Keys(ct.changes)
	slices.Sort(fields)
	return fields
}

// PreviousValue returns the snapshotted value of the attribute.
func (ct *ChangeTracker) PreviousValue(field string) any {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return ct.original[field]
}

func (ct *ChangeTracker) GetChange(field string) (change FieldChange, ok bool) {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	change, ok = ct.changes[field]
	return
}

func (ct *ChangeTracker) HasChanges() bool {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return len(ct.changes) > 0
}
