package constraint

// Set is an ordered collection of constraints unique by name.
// The zero value is ready to use. Set is not safe for
// concurrent use; the owning field guards it.
type Set struct {
	items []Constraint
}

func (s *Set) index(name string) int {
	for i, c := range s.items {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Put adds c, or replaces the constraint of the same name in
// place. It reports whether a constraint was replaced.
func (s *Set) Put(c Constraint) bool {
	if i := s.index(c.Name); i >= 0 {
		s.items[i] = c
		return true
	}
	s.items = append(s.items, c)
	return false
}

// Get returns the constraint named name.
func (s *Set) Get(name string) (Constraint, bool) {
	if i := s.index(name); i >= 0 {
		return s.items[i], true
	}
	return Constraint{}, false
}

// Has reports whether a constraint named name is present.
func (s *Set) Has(name string) bool {
	return s.index(name) >= 0
}

// Remove deletes the constraint named name and reports whether
// it was present.
func (s *Set) Remove(name string) bool {
	i := s.index(name)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

// RemoveFunc deletes every constraint for which fn returns
// true.
func (s *Set) RemoveFunc(fn func(Constraint) bool) {
	kept := s.items[:0]
	for _, c := range s.items {
		if !fn(c) {
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = Constraint{}
	}
	s.items = kept
}

// Len returns the number of constraints.
func (s *Set) Len() int {
	return len(s.items)
}

// All returns a copy of the constraints in declaration order.
func (s *Set) All() []Constraint {
	out := make([]Constraint, len(s.items))
	copy(out, s.items)
	return out
}

// Names returns the constraint names in declaration order.
func (s *Set) Names() []string {
	names := make([]string, len(s.items))
	for i, c := range s.items {
		names[i] = c.Name
	}
	return names
}
