package automaton

import (
	"sort"

	"github.com/dekarrin/scanforest/grammar"
)

// MergeLALR merges canonical LR(1) states that share an LR(0) core,
// unioning their lookaheads, per spec §4.C. Per spec's "modified LALR": if
// merging a group of canonical states would introduce a reduce/reduce
// conflict absent from every one of those states individually, that group
// is left unmerged (split back into its original canonical states) so
// LR(1) coverage is preserved exactly as spec §4.C requires ("the merged
// state is split back for the affected items").
//
// Grounded on dekarrin/tunaq's ictiobus/parse/lalr.go merge-by-core
// approach, but performed here at the automaton layer (on States) rather
// than the table layer, so package table never needs to special-case it.
func MergeLALR(dfa *DFA, ag *grammar.Grammar) *DFA {
	groups := map[string][]int{}
	var order []string
	for _, s := range dfa.States {
		key := s.Closure.coreKey()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], s.ID)
	}

	// ensure the group containing the start state (id 0) is processed
	// first, so it becomes the new state 0 without needing a later swap.
	startKey := dfa.States[0].Closure.coreKey()
	sort.SliceStable(order, func(i, j int) bool {
		if order[i] == startKey {
			return true
		}
		if order[j] == startKey {
			return false
		}
		return minOf(groups[order[i]]) < minOf(groups[order[j]])
	})

	repOf := make([]int, len(dfa.States))
	var merged []State

	for _, key := range order {
		ids := groups[key]
		if len(ids) > 1 && introducesNewConflict(dfa, ag, ids) {
			for _, oid := range ids {
				nid := len(merged)
				merged = append(merged, State{
					ID:          nid,
					Kernel:      dfa.States[oid].Kernel.copy(),
					Closure:     dfa.States[oid].Closure.copy(),
					Transitions: map[int]int{},
				})
				repOf[oid] = nid
			}
			continue
		}

		unioned := dfa.States[ids[0]].Closure.copy()
		for _, oid := range ids[1:] {
			for c, la := range dfa.States[oid].Closure {
				if existing, ok := unioned[c]; ok {
					existing.AddAll(la)
				} else {
					unioned[c] = la.Copy()
				}
			}
		}
		nid := len(merged)
		merged = append(merged, State{ID: nid, Kernel: unioned, Closure: unioned, Transitions: map[int]int{}})
		for _, oid := range ids {
			repOf[oid] = nid
		}
	}

	for _, s := range dfa.States {
		nid := repOf[s.ID]
		for x, target := range s.Transitions {
			merged[nid].Transitions[x] = repOf[target]
		}
	}

	return &DFA{States: merged, Nullable: dfa.Nullable, First: dfa.First}
}

func minOf(ids []int) int {
	m := ids[0]
	for _, v := range ids[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// introducesNewConflict reports whether unioning the lookaheads of the
// states named by ids would create a reduce/reduce conflict (two distinct
// completed items sharing a lookahead) that is not already present, on the
// same lookahead, within at least one of those states individually. Only
// completed items (dot at the end of their production) are compared: a
// shift item's lookahead never feeds the ACTION table, since Shift is
// keyed solely by the GOTO symbol, so pairing it into this check would
// manufacture conflicts that can never actually occur at reduce time.
func introducesNewConflict(dfa *DFA, ag *grammar.Grammar, ids []int) bool {
	first := dfa.States[ids[0]].Closure
	var reduceCores []Core
	for c := range first {
		if c.Dot == len(ag.Production(c.Prod).RHS) {
			reduceCores = append(reduceCores, c)
		}
	}

	for i := 0; i < len(reduceCores); i++ {
		for j := i + 1; j < len(reduceCores); j++ {
			c1, c2 := reduceCores[i], reduceCores[j]

			mergedLA1 := first[c1].Copy()
			mergedLA2 := first[c2].Copy()
			for _, oid := range ids[1:] {
				mergedLA1.AddAll(dfa.States[oid].Closure[c1])
				mergedLA2.AddAll(dfa.States[oid].Closure[c2])
			}

			if !intersects(mergedLA1, mergedLA2) {
				continue
			}

			existedSomewhere := false
			for _, oid := range ids {
				la1 := dfa.States[oid].Closure[c1]
				la2 := dfa.States[oid].Closure[c2]
				if intersects(la1, la2) {
					existedSomewhere = true
					break
				}
			}
			if !existedSomewhere {
				return true
			}
		}
	}
	return false
}

func intersects(a, b map[int]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for v := range a {
		if _, ok := b[v]; ok {
			return true
		}
	}
	return false
}
