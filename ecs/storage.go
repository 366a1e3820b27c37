package ecs

import "errors"

var ErrSlotOutOfRange = errors.New("ecs: slot outside reserved range")

// entityStore tracks per-slot generations. Slots 1..reserved belong to the
// stage layout and are only recycled through reset; slots above that are
// handed out by create and reused once freed.
type entityStore struct {
	reserved int
	gen      []generation
	alive    []bool
	free     []int
}

func (s *entityStore) reserve(n int) {
	if n <= s.reserved {
		return
	}
	s.grow(n)
	s.reserved = n
}

func (s *entityStore) grow(slot int) {
	for len(s.gen) < slot {
		s.gen = append(s.gen, 0)
		s.alive = append(s.alive, false)
	}
}

func (s *entityStore) create() Entity {
	var slot int
	if len(s.free) > 0 {
		slot = s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
	} else {
		slot = len(s.gen) + 1
		if slot <= s.reserved {
			slot = s.reserved + 1
		}
		s.grow(slot)
	}
	s.alive[slot-1] = true
	return makeEntity(entityID(slot), s.gen[slot-1])
}

// reset recycles a reserved slot in place and returns the fresh handle.
func (s *entityStore) reset(slot int) (Entity, error) {
	if slot <= 0 || slot > s.reserved {
		return 0, ErrSlotOutOfRange
	}
	idx := slot - 1
	if s.alive[idx] {
		s.gen[idx]++
	}
	s.alive[idx] = true
	return makeEntity(entityID(slot), s.gen[idx]), nil
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	idx := int(e.id()) - 1
	s.gen[idx]++
	s.alive[idx] = false
	if int(e.id()) > s.reserved {
		s.free = append(s.free, int(e.id()))
	}
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	slot := int(e.id())
	if slot <= 0 || slot > len(s.gen) {
		return false
	}
	return s.alive[slot-1] && s.gen[slot-1] == e.generation()
}

// at returns the live handle occupying slot.
func (s *entityStore) at(slot int) (Entity, bool) {
	if slot <= 0 || slot > len(s.gen) || !s.alive[slot-1] {
		return 0, false
	}
	return makeEntity(entityID(slot), s.gen[slot-1]), true
}
