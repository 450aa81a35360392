package collect

import "sort"

// IntSet is a set of small integer ids (symbol ids, production ids, state
// ids). It is used pervasively by the automaton and table builders in place
// of the teacher's string-keyed util.StringSet, since scanforest's IR
// addresses everything by stable integer id rather than by name.
type IntSet map[int]struct{}

// NewIntSet builds an IntSet from the given members.
func NewIntSet(members ...int) IntSet {
	s := make(IntSet, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// Add inserts v into the set. Returns true if v was not already present.
func (s IntSet) Add(v int) bool {
	if _, ok := s[v]; ok {
		return false
	}
	s[v] = struct{}{}
	return true
}

// AddAll inserts every member of o into s. Returns true if s changed.
func (s IntSet) AddAll(o IntSet) bool {
	changed := false
	for v := range o {
		if s.Add(v) {
			changed = true
		}
	}
	return changed
}

// Has reports whether v is a member of s.
func (s IntSet) Has(v int) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the set's members in ascending order.
func (s IntSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Copy returns a shallow duplicate of s.
func (s IntSet) Copy() IntSet {
	out := make(IntSet, len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}

// Equal reports whether s and o contain exactly the same members.
func (s IntSet) Equal(o IntSet) bool {
	if len(s) != len(o) {
		return false
	}
	for v := range s {
		if !o.Has(v) {
			return false
		}
	}
	return true
}

// OrderedKeys returns the keys of m sorted ascending, mirroring the
// teacher's util.OrderedKeys helper used throughout grammar_test.go.
func OrderedKeys[V any](m map[int]V) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// StringKeys returns the keys of m sorted alphabetically.
func StringKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
