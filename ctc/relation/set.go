package relation

// Set is an unordered collection of relations, keyed by Relation.Key so that
// membership and equality are exactly the structural equality described in
// the package doc, despite most variants holding non-comparable slice
// fields. The zero value is not usable; construct with NewSet.
type Set struct {
	m map[string]Relation
}

// NewSet returns an empty Set, optionally seeded with rs.
func NewSet(rs ...Relation) *Set {
	s := &Set{m: make(map[string]Relation, len(rs))}
	for _, r := range rs {
		s.Add(r)
	}
	return s
}

// Add inserts r, returning false if an equal relation was already present.
func (s *Set) Add(r Relation) bool {
	k := r.Key()
	if _, ok := s.m[k]; ok {
		return false
	}
	s.m[k] = r
	return true
}

// Remove deletes r, returning false if it was not present.
func (s *Set) Remove(r Relation) bool {
	k := r.Key()
	if _, ok := s.m[k]; !ok {
		return false
	}
	delete(s.m, k)
	return true
}

// Contains reports whether an equal relation is present.
func (s *Set) Contains(r Relation) bool {
	_, ok := s.m[r.Key()]
	return ok
}

// Len reports the number of distinct relations in the set.
func (s *Set) Len() int { return len(s.m) }

// Slice returns the set's members in unspecified order.
func (s *Set) Slice() []Relation {
	out := make([]Relation, 0, len(s.m))
	for _, r := range s.m {
		out = append(out, r)
	}
	return out
}

// Equal reports whether s and o contain exactly the same relations.
func (s *Set) Equal(o *Set) bool {
	if s.Len() != o.Len() {
		return false
	}
	for k := range s.m {
		if _, ok := o.m[k]; !ok {
			return false
		}
	}
	return true
}

// Union returns a new set containing every relation in s or o.
func (s *Set) Union(o *Set) *Set {
	out := NewSet()
	for _, r := range s.m {
		out.Add(r)
	}
	for _, r := range o.m {
		out.Add(r)
	}
	return out
}

// Apply returns a new set equal to (s ∪ inserts) \ deletes, matching the
// relation-set update rule used throughout the differ and delta engine
// (spec §4.3, §4.4). inserts and deletes must be disjoint; Apply does not
// validate this.
func (s *Set) Apply(inserts, deletes *Set) *Set {
	out := NewSet()
	for _, r := range s.m {
		if deletes.Contains(r) {
			continue
		}
		out.Add(r)
	}
	for _, r := range inserts.m {
		out.Add(r)
	}
	return out
}

// Disjoint reports whether s and o share no relations.
func (s *Set) Disjoint(o *Set) bool {
	small, big := s, o
	if len(o.m) < len(s.m) {
		small, big = o, s
	}
	for k := range small.m {
		if _, ok := big.m[k]; ok {
			return false
		}
	}
	return true
}
