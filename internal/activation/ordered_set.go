package activation

// OrderedSet is a set of slot ordinals that remembers insertion order, so
// the earliest inserted member can be evicted when the set grows past its
// cap. Re-inserting a removed ordinal puts it at the back.
//
// The zero value is ready to use. It is not safe for concurrent use.
type OrderedSet struct {
	order   []int
	members map[int]struct{}
}

func NewOrderedSet() *OrderedSet { return &OrderedSet{} }

// Toggle inserts v if absent and removes it if present. It reports whether v
// is a member afterwards.
func (s *OrderedSet) Toggle(v int) bool {
	if s.Contains(v) {
		s.remove(v)
		return false
	}
	if s.members == nil {
		s.members = make(map[int]struct{})
	}
	s.members[v] = struct{}{}
	s.order = append(s.order, v)
	return true
}

func (s *OrderedSet) Contains(v int) bool {
	_, ok := s.members[v]
	return ok
}

func (s *OrderedSet) Len() int { return len(s.order) }

// Oldest returns the earliest inserted member.
func (s *OrderedSet) Oldest() (int, bool) {
	if len(s.order) == 0 {
		return 0, false
	}
	return s.order[0], true
}

// EvictOldest removes and returns the earliest inserted member.
func (s *OrderedSet) EvictOldest() (int, bool) {
	v, ok := s.Oldest()
	if !ok {
		return 0, false
	}
	s.order = s.order[1:]
	delete(s.members, v)
	return v, true
}

// Values returns the members in insertion order.
func (s *OrderedSet) Values() []int {
	out := make([]int, len(s.order))
	copy(out, s.order)
	return out
}

func (s *OrderedSet) Clear() {
	s.order = s.order[:0]
	clear(s.members)
}

func (s *OrderedSet) remove(v int) {
	delete(s.members, v)
	for i, x := range s.order {
		if x == v {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
