// Package assoc maintains the bidirectional associations between entity
// and taxon instances: unique-membership sets, single-valued references
// whose targets keep consistent back-reference sets, and lazily computed
// aggregate views with explicit invalidation.
package assoc

// Set is an unordered collection of unique references.
type Set[T comparable] struct {
	items map[T]struct{}
}

// NewSet returns a set holding the given items.
func NewSet[T comparable](items ...T) *Set[T] {
	s := &Set[T]{items: make(map[T]struct{}, len(items))}
	for _, item := range items {
		s.items[item] = struct{}{}
	}
	return s
}

// Add inserts an item; adding an existing member is a no-op.
func (s *Set[T]) Add(item T) {
	s.items[item] = struct{}{}
}

// Remove deletes an item; removing a non-member is a no-op.
func (s *Set[T]) Remove(item T) {
	delete(s.items, item)
}

// Has reports membership.
func (s *Set[T]) Has(item T) bool {
	_, ok := s.items[item]
	return ok
}

// Len returns the number of members.
func (s *Set[T]) Len() int {
	return len(s.items)
}

// Items returns the members in unspecified order.
func (s *Set[T]) Items() []T {
	out := make([]T, 0, len(s.items))
	for item := range s.items {
		out = append(out, item)
	}
	return out
}

// Each calls fn for every member.
func (s *Set[T]) Each(fn func(T)) {
	for item := range s.items {
		fn(item)
	}
}

// AddAll inserts every member of other.
func (s *Set[T]) AddAll(other *Set[T]) {
	for item := range other.items {
		s.items[item] = struct{}{}
	}
}

// Filter returns a new set with the members fn accepts.
func (s *Set[T]) Filter(fn func(T) bool) *Set[T] {
	out := NewSet[T]()
	for item := range s.items {
		if fn(item) {
			out.items[item] = struct{}{}
		}
	}
	return out
}
