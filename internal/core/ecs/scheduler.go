package ecs

import "sort"

// systemEntry is the world's bookkeeping for one registered system.
type systemEntry struct {
	sys      System
	priority int
	aspects  *AspectMap
	dirty    *EntitySet
}

// bucket groups systems sharing a priority, in registration order.
type bucket struct {
	priority int
	entries  []*systemEntry
}

// schedule keeps buckets sorted by ascending priority.
type schedule struct {
	buckets []*bucket
}

func (s *schedule) insert(e *systemEntry) {
	i := sort.Search(len(s.buckets), func(i int) bool { return s.buckets[i].priority >= e.priority })
	if i < len(s.buckets) && s.buckets[i].priority == e.priority {
		s.buckets[i].entries = append(s.buckets[i].entries, e)
		return
	}
	b := &bucket{priority: e.priority, entries: []*systemEntry{e}}
	s.buckets = append(s.buckets, nil)
	copy(s.buckets[i+1:], s.buckets[i:])
	s.buckets[i] = b
}

// each visits entries in execution order.
func (s *schedule) each(fn func(*systemEntry)) {
	for _, b := range s.buckets {
		for _, e := range b.entries {
			fn(e)
		}
	}
}
