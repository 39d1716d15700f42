// Package world declares the storage collaborator contract consumed by the
// group package. Implementations own component storage, entity allocation and
// the join primitive; the group package only composes calls against these
// interfaces and never implements storage itself.
package world

import (
	"iter"
	"reflect"

	"github.com/google/uuid"
)

// ReadStorage is read access to one component type's storage.
type ReadStorage interface {
	// Component is the component type this storage holds.
	Component() reflect.Type
	// Get returns the component attached to e, if any.
	Get(e Entity) (any, bool)
}

// WriteStorage is write access to one component type's storage.
type WriteStorage interface {
	// Component is the component type this storage holds.
	Component() reflect.Type
	// Insert attaches (or overwrites) the component for e. It fails when the
	// entity cannot accept components anymore, e.g. it was destroyed or it
	// belongs to another world.
	Insert(e Entity, component any) error
	// Remove detaches the component from e and returns the prior value.
	// Removing an absent component is a no-op reported by ok=false.
	Remove(e Entity) (any, bool)
}

// Builder accumulates components for a new entity.
type Builder interface {
	// Attach adds a component to the entity under construction. The component's
	// dynamic type selects the storage.
	Attach(component any) Builder
	// Finish registers the entity and its components and returns its handle.
	Finish() Entity
}

// Row is one join result: the matched entity plus one value per requested
// storage, required slots first and in the order given, then optional slots.
// An optional slot holds nil when the entity lacks that component.
type Row struct {
	Entity Entity
	Values []any
}

// World is the external entity-component storage collaborator.
//
// Storage handles must be requested in one batch per operation so the
// implementation can detect conflicting access up front instead of
// deadlocking partway through an acquisition sequence.
type World interface {
	// ID identifies this world instance.
	ID() uuid.UUID
	// Entities enumerates live entities in a deterministic order that is
	// stable within a single process run.
	Entities() iter.Seq[Entity]
	// ReadStorages returns read handles for the given component types,
	// positionally aligned with the request.
	ReadStorages(components ...reflect.Type) ([]ReadStorage, error)
	// WriteStorages returns write handles for the given component types,
	// positionally aligned with the request.
	WriteStorages(components ...reflect.Type) ([]WriteStorage, error)
	// Join intersects the required storages over the entity enumeration and
	// yields rows in enumeration order. Optional storages never exclude a
	// candidate; their slots are nil when absent.
	Join(required, optional []ReadStorage) iter.Seq[Row]
	// CreateEntity starts building a fresh entity.
	CreateEntity() Builder
}
