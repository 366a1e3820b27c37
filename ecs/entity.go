package ecs

import "fmt"

// Entity is a registry handle: the slot in the low 32 bits and the slot's
// generation at issue time in the high 32 bits. A handle goes stale as soon
// as its slot is destroyed or reset. Slot 0 is never issued.
type Entity uint64

type (
	entityID   uint32
	generation uint32
)

func makeEntity(id entityID, gen generation) Entity {
	return Entity(gen)<<32 | Entity(id)
}

func (e Entity) id() entityID           { return entityID(e) }
func (e Entity) generation() generation { return generation(e >> 32) }

// Slot returns the registry slot the entity occupies.
func (e Entity) Slot() int { return int(e.id()) }

// Generation is how many times the slot had been recycled when the handle
// was issued.
func (e Entity) Generation() int { return int(e.generation()) }

func (e Entity) Valid() bool { return e.id() != 0 }

// String renders the handle as slot#generation.
func (e Entity) String() string {
	return fmt.Sprintf("%d#%d", e.id(), e.generation())
}
