// Package memworld is an in-memory implementation of the world contract.
//
// It is the reference collaborator used by the test suite and the examples:
// one map per component type, entity enumeration in creation order, no
// persistence and no indexing. Join order is creation order, which makes it
// deterministic within a process run.
package memworld

import (
	"errors"
	"iter"
	"reflect"

	"github.com/google/uuid"

	"component-group/world"
)

var (
	ErrDeadEntity    = errors.New("entity has been destroyed")
	ErrForeignEntity = errors.New("entity belongs to a different world")
)

// World is an in-memory entity-component store.
type World struct {
	id       uuid.UUID
	next     uint64
	order    []world.Entity
	alive    map[world.Entity]bool
	storages map[reflect.Type]*storage
}

// New creates an empty world with a fresh identity.
func New() *World {
	return &World{
		id:       uuid.New(),
		alive:    map[world.Entity]bool{},
		storages: map[reflect.Type]*storage{},
	}
}

// ID returns the world's identity.
func (w *World) ID() uuid.UUID { return w.id }

// Entities enumerates live entities in creation order.
func (w *World) Entities() iter.Seq[world.Entity] {
	return func(yield func(world.Entity) bool) {
		for _, e := range w.order {
			if !w.alive[e] {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// CreateEntity starts building a fresh entity. Components accumulate in the
// builder and are inserted when Finish is called.
func (w *World) CreateEntity() world.Builder {
	w.next++
	return &builder{
		world:  w,
		entity: world.NewEntity(w.next, w.id),
	}
}

// Destroy removes the entity and every component attached to it. Handles to
// a destroyed entity stay invalid forever; inserts against it fail with
// ErrDeadEntity.
func (w *World) Destroy(e world.Entity) {
	if !w.alive[e] {
		return
	}
	delete(w.alive, e)
	for _, st := range w.storages {
		delete(st.components, e)
	}
}

// ReadStorages returns read handles for the given component types. Storages
// are created lazily on first use.
func (w *World) ReadStorages(components ...reflect.Type) ([]world.ReadStorage, error) {
	out := make([]world.ReadStorage, len(components))
	for i, c := range components {
		out[i] = w.storageFor(c)
	}
	return out, nil
}

// WriteStorages returns write handles for the given component types.
func (w *World) WriteStorages(components ...reflect.Type) ([]world.WriteStorage, error) {
	out := make([]world.WriteStorage, len(components))
	for i, c := range components {
		out[i] = w.storageFor(c)
	}
	return out, nil
}

// Join yields, in creation order, every live entity carrying all required
// components. Values are aligned required-then-optional; optional slots are
// nil when the component is absent.
func (w *World) Join(required, optional []world.ReadStorage) iter.Seq[world.Row] {
	return func(yield func(world.Row) bool) {
	entities:
		for _, e := range w.order {
			if !w.alive[e] {
				continue
			}
			values := make([]any, 0, len(required)+len(optional))
			for _, st := range required {
				v, ok := st.Get(e)
				if !ok {
					continue entities
				}
				values = append(values, v)
			}
			for _, st := range optional {
				v, ok := st.Get(e)
				if !ok {
					values = append(values, nil)
					continue
				}
				values = append(values, v)
			}
			if !yield(world.Row{Entity: e, Values: values}) {
				return
			}
		}
	}
}

// InsertCount returns how many inserts the storage for the given component
// type has seen. Useful for observing that a component was never attached, as
// opposed to attached and removed again.
func (w *World) InsertCount(component reflect.Type) int {
	st, ok := w.storages[component]
	if !ok {
		return 0
	}
	return st.inserts
}

func (w *World) storageFor(component reflect.Type) *storage {
	st, ok := w.storages[component]
	if !ok {
		st = &storage{
			owner:      w,
			component:  component,
			components: map[world.Entity]any{},
		}
		w.storages[component] = st
	}
	return st
}

type builder struct {
	world    *World
	entity   world.Entity
	pending  []any
	finished bool
}

func (b *builder) Attach(component any) world.Builder {
	b.pending = append(b.pending, component)
	return b
}

func (b *builder) Finish() world.Entity {
	if b.finished {
		return b.entity
	}
	b.finished = true

	w := b.world
	w.order = append(w.order, b.entity)
	w.alive[b.entity] = true
	for _, c := range b.pending {
		st := w.storageFor(reflect.TypeOf(c))
		// The entity is fresh and alive, the insert cannot fail.
		_ = st.Insert(b.entity, c)
	}
	return b.entity
}
