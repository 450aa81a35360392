// Package automaton computes the fixed-point sets (nullable, FIRST, FOLLOW)
// and the LR(1)/LALR item-set construction that together yield the viable-
// prefix automaton consumed by package table.
//
// The worklist/fixed-point style is ported from
// dekarrin/tunaq's internal/ictiobus/automaton (NewLR0ViablePrefixNFA,
// NewLR1ViablePrefixDFA, NewLALR1ViablePrefixDFA), generalized from
// string-keyed item sets to integer symbol/production ids.
package automaton

import (
	"github.com/dekarrin/scanforest/grammar"
	"github.com/dekarrin/scanforest/internal/collect"
)

// epsilon is the internal sentinel used by FIRST-set computation to denote
// "the empty string is a possible first symbol". It is never a real symbol
// ID (those are always >= 0).
const epsilon = -1

// Nullable returns the set of non-terminal IDs that can derive the empty
// string, computed to a fixed point: initially every EMPTY production's LHS
// is nullable, then any non-terminal all of whose RHS symbols are
// themselves nullable is added, repeating until no change occurs.
func Nullable(g *grammar.Grammar) collect.IntSet {
	nullable := collect.NewIntSet()
	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions() {
			if nullable.Has(p.LHS) {
				continue
			}
			if allNullable(g, p.RHS, nullable) {
				nullable.Add(p.LHS)
				changed = true
			}
		}
	}
	return nullable
}

func allNullable(g *grammar.Grammar, rhs []int, nullable collect.IntSet) bool {
	for _, sid := range rhs {
		if g.IsTerminal(sid) {
			return false
		}
		if !nullable.Has(sid) {
			return false
		}
	}
	return true
}

// First computes FIRST(X) for every symbol X in g: for a terminal, {X}
// itself; for a non-terminal, the fixed-point union over its productions'
// RHS prefixes, including epsilon when the non-terminal is nullable.
func First(g *grammar.Grammar, nullable collect.IntSet) map[int]collect.IntSet {
	first := make(map[int]collect.IntSet)
	for _, tid := range g.Terminals() {
		first[tid] = collect.NewIntSet(tid)
	}
	for _, nt := range g.NonTerminals() {
		first[nt] = collect.NewIntSet()
	}

	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions() {
			before := len(first[p.LHS])
			seqFirst := FirstOfSequence(g, first, nullable, p.RHS, nil)
			first[p.LHS].AddAll(seqFirst)
			if len(first[p.LHS]) != before {
				changed = true
			}
		}
	}
	return first
}

// FirstOfSequence computes FIRST(X1 X2 ... Xn trailing) where trailing is
// itself treated as an already-known FIRST set appended as a virtual final
// symbol (used by item closure to compute FIRST(beta a) for a lookahead
// terminal a). If the whole sequence (including trailing, when every prior
// symbol is nullable) can derive epsilon and trailing is nil, epsilon is
// included in the result.
func FirstOfSequence(g *grammar.Grammar, first map[int]collect.IntSet, nullable collect.IntSet, seq []int, trailing collect.IntSet) collect.IntSet {
	result := collect.NewIntSet()
	allNullableSoFar := true
	for _, sid := range seq {
		for v := range first[sid] {
			result.Add(v)
		}
		if g.IsTerminal(sid) || !nullable.Has(sid) {
			allNullableSoFar = false
			break
		}
	}
	if allNullableSoFar {
		if trailing != nil {
			result.AddAll(trailing)
		} else {
			result.Add(epsilon)
		}
	}
	return result
}

// Follow computes FOLLOW(A) for every non-terminal A in g: the set of
// terminals (plus $ for the start symbol, added by the caller via an
// augmented grammar) that can immediately follow A in some derivation.
func Follow(g *grammar.Grammar, first map[int]collect.IntSet, nullable collect.IntSet) map[int]collect.IntSet {
	follow := make(map[int]collect.IntSet)
	for _, nt := range g.NonTerminals() {
		follow[nt] = collect.NewIntSet()
	}

	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions() {
			for i, sid := range p.RHS {
				if g.IsTerminal(sid) {
					continue
				}
				before := len(follow[sid])
				rest := p.RHS[i+1:]
				restFirst := FirstOfSequence(g, first, nullable, rest, nil)
				for v := range restFirst {
					if v != epsilon {
						follow[sid].Add(v)
					}
				}
				if restFirst.Has(epsilon) {
					follow[sid].AddAll(follow[p.LHS])
				}
				if len(follow[sid]) != before {
					changed = true
				}
			}
		}
	}
	return follow
}
