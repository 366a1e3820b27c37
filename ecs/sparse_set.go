package ecs

import "slices"

type denseEntry struct {
	slot  int
	value any
}

// SparseSet maps registry slots to one component type. Values are packed in
// dense; index[slot] holds position+1 in dense, so zero means absent.
type SparseSet struct {
	dense []denseEntry
	index []int
}

func (s *SparseSet) pos(slot int) (int, bool) {
	if s == nil || slot <= 0 || slot >= len(s.index) {
		return 0, false
	}
	p := s.index[slot] - 1
	return p, p >= 0
}

func (s *SparseSet) Has(slot int) bool {
	_, ok := s.pos(slot)
	return ok
}

// Get returns the component stored for slot, or nil.
func (s *SparseSet) Get(slot int) any {
	if p, ok := s.pos(slot); ok {
		return s.dense[p].value
	}
	return nil
}

// Set stores v for slot, replacing any previous value.
func (s *SparseSet) Set(slot int, v any) {
	if s == nil || slot <= 0 {
		return
	}
	if p, ok := s.pos(slot); ok {
		s.dense[p].value = v
		return
	}
	if slot >= len(s.index) {
		s.index = append(s.index, make([]int, slot+1-len(s.index))...)
	}
	s.dense = append(s.dense, denseEntry{slot: slot, value: v})
	s.index[slot] = len(s.dense)
}

// Remove drops slot's component by moving the last entry into its place.
func (s *SparseSet) Remove(slot int) bool {
	p, ok := s.pos(slot)
	if !ok {
		return false
	}
	last := len(s.dense) - 1
	if p != last {
		moved := s.dense[last]
		s.dense[p] = moved
		s.index[moved.slot] = p + 1
	}
	s.dense[last] = denseEntry{}
	s.dense = s.dense[:last]
	s.index[slot] = 0
	return true
}

func (s *SparseSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.dense)
}

// SortedEntities returns the occupied slots in ascending order.
func (s *SparseSet) SortedEntities() []int {
	if s == nil {
		return nil
	}
	out := make([]int, len(s.dense))
	for i, d := range s.dense {
		out[i] = d.slot
	}
	slices.Sort(out)
	return out
}
