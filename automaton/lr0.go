package automaton

import (
	"github.com/dekarrin/scanforest/grammar"
	"github.com/dekarrin/scanforest/internal/collect"
)

// BuildLR0States constructs the LR(0) viable-prefix automaton: item sets
// keyed only by Core, with no lookahead tracking. It backs SLR table
// construction (table.ModeSLR), where reduce actions use FOLLOW(A) as the
// lookahead instead of a propagated LR(1) lookahead set, per the classical
// SLR(1) construction.
func BuildLR0States(ag *grammar.Grammar) *DFA {
	nullable := Nullable(ag)
	first := First(ag, nullable)

	startKernel := newItemSet()
	startKernel.add(Core{Prod: 0, Dot: 0}, collect.NewIntSet())
	startClosure := closure0(ag, startKernel)

	states := []State{{ID: 0, Kernel: startKernel, Closure: startClosure, Transitions: map[int]int{}}}
	index := map[string]int{startClosure.coreKey(): 0}

	worklist := []int{0}
	for len(worklist) > 0 {
		sid := worklist[0]
		worklist = worklist[1:]

		for _, x := range outgoingSymbols(ag, states[sid].Closure) {
			kernel := newItemSet()
			for c := range states[sid].Closure {
				p := ag.Production(c.Prod)
				if c.Dot < len(p.RHS) && p.RHS[c.Dot] == x {
					kernel.add(Core{Prod: c.Prod, Dot: c.Dot + 1}, collect.NewIntSet())
				}
			}
			if len(kernel) == 0 {
				continue
			}
			target := closure0(ag, kernel)
			key := target.coreKey()
			tid, ok := index[key]
			if !ok {
				tid = len(states)
				states = append(states, State{ID: tid, Kernel: target, Closure: target, Transitions: map[int]int{}})
				index[key] = tid
				worklist = append(worklist, tid)
			}
			states[sid].Transitions[x] = tid
		}
	}

	return &DFA{States: states, Nullable: nullable, First: first}
}

// closure0 computes an LR(0) closure: no lookahead propagation, just "every
// item [B -> ·γ] such that [A -> α · B β] is present" to a fixed point.
func closure0(g *grammar.Grammar, kernel ItemSet) ItemSet {
	result := kernel.copy()
	changed := true
	for changed {
		changed = false
		cores := make([]Core, 0, len(result))
		for c := range result {
			cores = append(cores, c)
		}
		for _, c := range cores {
			p := g.Production(c.Prod)
			if c.Dot >= len(p.RHS) {
				continue
			}
			B := p.RHS[c.Dot]
			if g.IsTerminal(B) {
				continue
			}
			for _, pid := range g.ProductionsOf(B) {
				if result.add(Core{Prod: pid, Dot: 0}, collect.NewIntSet()) {
					changed = true
				}
			}
		}
	}
	return result
}
