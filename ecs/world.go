package ecs

import "github.com/milk9111/drillboss/ecs/component"

// World owns entities and their component storage. It is the entity
// registry: stage entities live in reserved, fixed slots and everything
// spawned at runtime lives above them.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// ReserveSlots reserves slots 1..n for the stage layout.
func (w *World) ReserveSlots(n int) {
	if w == nil {
		return
	}
	w.entities.reserve(n)
}

// ReservedSlots returns the size of the stage layout region.
func (w *World) ReservedSlots() int {
	if w == nil {
		return 0
	}
	return w.entities.reserved
}

// CreateEntity allocates a runtime entity above the reserved region.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// ResetSlot clears whatever occupies a reserved slot and returns a fresh
// handle in the same place.
func (w *World) ResetSlot(slot int) (Entity, error) {
	if w == nil {
		return 0, ErrSlotOutOfRange
	}
	w.clearSlot(slot)
	return w.entities.reset(slot)
}

// DestroyEntity removes the entity and all of its components.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	w.clearSlot(e.Slot())
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// EntityAt returns the live entity occupying slot.
func (w *World) EntityAt(slot int) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	return w.entities.at(slot)
}

func (w *World) clearSlot(slot int) {
	for _, s := range w.stores {
		s.Remove(slot)
	}
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// Query returns the live entities holding every listed component, in slot
// order.
func (w *World) Query(kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}

	smallest := w.store(kinds[0].ID(), false)
	for _, k := range kinds[1:] {
		s := w.store(k.ID(), false)
		if s.Len() < smallest.Len() {
			smallest = s
		}
	}
	if smallest.Len() == 0 {
		return nil
	}

	out := make([]Entity, 0, smallest.Len())
	for _, slot := range smallest.SortedEntities() {
		matched := true
		for _, k := range kinds {
			if !w.store(k.ID(), false).Has(slot) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		if e, ok := w.entities.at(slot); ok {
			out = append(out, e)
		}
	}
	return out
}

// First returns the lowest-slot entity holding the component.
func (w *World) First(kind component.Kind) (Entity, bool) {
	ents := w.Query(kind)
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}

// Entities returns every live entity in slot order.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, len(w.entities.gen))
	for slot := 1; slot <= len(w.entities.gen); slot++ {
		if e, ok := w.entities.at(slot); ok {
			out = append(out, e)
		}
	}
	return out
}
