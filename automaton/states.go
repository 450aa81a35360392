package automaton

import (
	"github.com/dekarrin/scanforest/grammar"
	"github.com/dekarrin/scanforest/internal/collect"
)

// State is one node of the viable-prefix automaton: its closure (the full
// item set) plus the transitions out of it by symbol ID, matching spec §3's
// "State ... stores closure, transitions (Symbol -> State)". State 0 is
// always the start state, per spec §3.
type State struct {
	ID        int
	Kernel    ItemSet
	Closure   ItemSet
	Transitions map[int]int // symbol id -> target state id
}

// DFA is the canonical (or LALR-merged) collection of States plus the
// shared FIRST/nullable tables used to build them, returned by
// BuildLR1States / MergeLALR.
type DFA struct {
	States   []State
	Nullable collect.IntSet
	First    map[int]collect.IntSet
}

// BuildLR1States constructs the canonical collection of LR(1) item sets for
// the augmented grammar ag (ag must already be the result of
// (*grammar.Grammar).Augmented — production 0 is S' -> S $). This is
// Algorithm 4.56 from the purple dragon book, the same algorithm
// dekarrin/tunaq's ictiobus/parse/clr1.go cites, generalized here to build
// the explicit state graph once rather than re-deriving GOTO per lookup.
func BuildLR1States(ag *grammar.Grammar) *DFA {
	nullable := Nullable(ag)
	first := First(ag, nullable)

	startProd := ag.Production(0)
	_ = startProd
	eoi, _ := ag.SymbolByName(grammar.EndOfInput)

	startKernel := newItemSet()
	startKernel.add(Core{Prod: 0, Dot: 0}, collect.NewIntSet(eoi.ID))
	startClosure := closure(ag, first, nullable, startKernel)

	states := []State{{ID: 0, Kernel: startKernel, Closure: startClosure, Transitions: map[int]int{}}}
	index := map[string]int{startClosure.fullKey(): 0}

	worklist := []int{0}
	for len(worklist) > 0 {
		sid := worklist[0]
		worklist = worklist[1:]

		symbols := outgoingSymbols(ag, states[sid].Closure)
		for _, x := range symbols {
			target := gotoSet(ag, first, nullable, states[sid].Closure, x)
			if target == nil {
				continue
			}
			key := target.fullKey()
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

func outgoingSymbols(g *grammar.Grammar, items ItemSet) []int {
	seen := collect.NewIntSet()
	var out []int
	for c := range items {
		p := g.Production(c.Prod)
		if c.Dot >= len(p.RHS) {
			continue
		}
		x := p.RHS[c.Dot]
		if seen.Add(x) {
			out = append(out, x)
		}
	}
	return out
}
