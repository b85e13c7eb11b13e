package ecs

// EntityID is an opaque handle into the world's component containers.
// IDs are allocated monotonically from 0 and restart at 0 after World.Clear.
type EntityID int32

// EntitySet is an insertion-ordered set of entity IDs. Removal swaps the last
// element into the hole, so iteration order is deterministic but not stable
// across removals. Accessed only from the simulation goroutine — no locks.
type EntitySet struct {
	index map[EntityID]int
	items []EntityID
}

func NewEntitySet() *EntitySet {
	return &EntitySet{index: make(map[EntityID]int, 16)}
}

// Add inserts id, reporting whether it was absent.
func (s *EntitySet) Add(id EntityID) bool {
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = len(s.items)
	s.items = append(s.items, id)
	return true
}

// Remove deletes id, reporting whether it was present.
func (s *EntitySet) Remove(id EntityID) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	last := len(s.items) - 1
	if i != last {
		moved := s.items[last]
		s.items[i] = moved
		s.index[moved] = i
	}
	s.items = s.items[:last]
	delete(s.index, id)
	return true
}

func (s *EntitySet) Has(id EntityID) bool {
	_, ok := s.index[id]
	return ok
}

func (s *EntitySet) Len() int { return len(s.items) }

// Slice exposes the backing array. Callers must not mutate it or hold it
// across an Add/Remove.
func (s *EntitySet) Slice() []EntityID { return s.items }

// Each calls fn for every member in set order.
func (s *EntitySet) Each(fn func(EntityID)) {
	for _, id := range s.items {
		fn(id)
	}
}

func (s *EntitySet) Clear() {
	for id := range s.index {
		delete(s.index, id)
	}
	s.items = s.items[:0]
}
