// Package idset provides an allocation-efficient hash set for relation.Id
// (int32) keys, used by the delta engine to track which node identities
// were touched by an iteration's edits without the overhead of a
// map[relation.Id]struct{}.
//
// The implementation uses open addressing with linear probing and
// generation-counted slots so Clear is O(1): a caller that re-runs a
// tracking pass can reuse one Set instead of reallocating it.
package idset

import "math/bits"

// Set is a hash set for int32 keys (relation.Id, unwrapped to avoid an
// import cycle with ctc/relation).
//
// The zero value is not immediately usable; call Init or New first. All
// methods have pointer receivers so a *Set may be passed around freely.
type Set struct {
	keys        []int32
	generations []uint32
	gen         uint32
	size        int
	maxLoad     float32
}

// New returns a new *Set with capacity slots (rounded up to a power of two).
// If capacity <= 0 it defaults to 8.
func New(capacity int) *Set {
	var s Set
	s.Init(capacity)
	return &s
}

// Init (re)initializes s with at least capacity slots. It is idempotent and
// may be called multiple times to reuse an existing Set across iterations.
func (s *Set) Init(capacity int) {
	if capacity < 8 {
		capacity = 8
	}
	capPow := nextPow2(uint32(capacity))
	if len(s.keys) != int(capPow) {
		s.keys = make([]int32, capPow)
		s.generations = make([]uint32, capPow)
	}
	s.gen = 1
	s.size = 0
	s.maxLoad = 0.75
}

// Clear discards all keys in O(1) without allocating.
func (s *Set) Clear() {
	if len(s.keys) == 0 {
		return
	}
	s.gen++
	s.size = 0
	if s.gen == 0 {
		s.gen = 1
		for i := range s.generations {
			s.generations[i] = 0
		}
	}
}

// Len returns the number of keys currently in the set.
func (s *Set) Len() int { return s.size }

func slot(x int32, mask uint32) uint32 {
	return uint32(x) & mask
}

// Has reports whether x is present in the set.
func (s *Set) Has(x int32) bool {
	if len(s.keys) == 0 {
		return false
	}
	mask := uint32(len(s.keys) - 1)
	i := slot(x, mask)
	for {
		if s.generations[i] != s.gen {
			return false
		}
		if s.keys[i] == x {
			return true
		}
		i = (i + 1) & mask
	}
}

// Add inserts x into the set, returning true if it was newly added.
func (s *Set) Add(x int32) bool {
	if len(s.keys) == 0 {
		s.Init(8)
	}
	if float32(s.size+1) > float32(len(s.keys))*s.maxLoad {
		s.rehash(len(s.keys) * 2)
	}
	mask := uint32(len(s.keys) - 1)
	i := slot(x, mask)
	for {
		if s.generations[i] != s.gen {
			s.keys[i] = x
			s.generations[i] = s.gen
			s.size++
			return true
		}
		if s.keys[i] == x {
			return false
		}
		i = (i + 1) & mask
	}
}

// Slice returns the live keys in unspecified order.
func (s *Set) Slice() []int32 {
	out := make([]int32, 0, s.size)
	for i, g := range s.generations {
		if g == s.gen {
			out = append(out, s.keys[i])
		}
	}
	return out
}

func (s *Set) rehash(newCap int) {
	oldKeys := s.keys
	oldGens := s.generations
	oldGen := s.gen

	s.keys = make([]int32, newCap)
	s.generations = make([]uint32, newCap)
	s.gen = 1
	s.size = 0

	mask := uint32(newCap - 1)
	for idx, g := range oldGens {
		if g != oldGen {
			continue
		}
		k := oldKeys[idx]
		j := slot(k, mask)
		for {
			if s.generations[j] != s.gen {
				s.keys[j] = k
				s.generations[j] = s.gen
				s.size++
				break
			}
			j = (j + 1) & mask
		}
	}
}

func nextPow2(v uint32) uint32 {
	if v == 0 {
		return 1
	}
	if bits.OnesCount32(v) == 1 {
		return v
	}
	return 1 << (32 - bits.LeadingZeros32(v))
}
