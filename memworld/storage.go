package memworld

import (
	"fmt"
	"reflect"

	"component-group/world"
)

// storage holds one component type's values keyed by entity. The same value
// backs both the read and the write handle; memworld is single-threaded and
// does not track outstanding borrows.
type storage struct {
	owner      *World
	component  reflect.Type
	components map[world.Entity]any
	inserts    int
}

func (s *storage) Component() reflect.Type { return s.component }

func (s *storage) Get(e world.Entity) (any, bool) {
	v, ok := s.components[e]
	return v, ok
}

func (s *storage) Insert(e world.Entity, component any) error {
	if e.WorldID() != s.owner.id {
		return fmt.Errorf("insert %s: %w", s.component, ErrForeignEntity)
	}
	if !s.owner.alive[e] {
		return fmt.Errorf("insert %s: %w", s.component, ErrDeadEntity)
	}
	s.components[e] = component
	s.inserts++
	return nil
}

func (s *storage) Remove(e world.Entity) (any, bool) {
	v, ok := s.components[e]
	if ok {
		delete(s.components, e)
	}
	return v, ok
}
