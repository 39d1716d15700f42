package world

import (
	"fmt"

	"github.com/google/uuid"
)

// Entity identifies one entity inside a specific World instance.
// The zero Entity belongs to no world.
type Entity struct {
	index uint64
	world uuid.UUID
}

// NewEntity builds an entity handle. Intended for World implementations;
// application code receives entities from Create or FirstMatch.
func NewEntity(index uint64, worldID uuid.UUID) Entity {
	return Entity{index: index, world: worldID}
}

// Index returns the allocation index of the entity within its world.
func (e Entity) Index() uint64 { return e.index }

// WorldID returns the identity of the world that allocated this entity.
func (e Entity) WorldID() uuid.UUID { return e.world }

// IsZero reports whether the entity is the zero handle.
func (e Entity) IsZero() bool { return e == Entity{} }

func (e Entity) String() string {
	return fmt.Sprintf("entity %d/%s", e.index, e.world)
}
