package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/scanforest/grammar"
	"github.com/dekarrin/scanforest/internal/collect"
)

// Core is the LR(0) part of an item: a production and a dot position,
// matching spec §3's "a kernel item iff dot>0 or it is the initial item of
// S'" — Core is exactly what two LR(1) items must share to be merge
// candidates under LALR.
type Core struct {
	Prod int
	Dot  int
}

func (c Core) String(g *grammar.Grammar) string {
	p := g.Production(c.Prod)
	var sb strings.Builder
	sb.WriteString(g.Symbol(p.LHS).Name)
	sb.WriteString(" -> ")
	for i, sid := range p.RHS {
		if i == c.Dot {
			sb.WriteString(". ")
		}
		sb.WriteString(g.Symbol(sid).Name)
		sb.WriteRune(' ')
	}
	if c.Dot == len(p.RHS) {
		sb.WriteString(".")
	}
	return sb.String()
}

// ItemSet maps each Core present in the set to its lookahead terminals,
// i.e. it is the union of every LR1Item sharing that core, folded together
// the way a single parser State naturally stores them.
type ItemSet map[Core]collect.IntSet

func newItemSet() ItemSet {
	return make(ItemSet)
}

func (is ItemSet) add(c Core, lookaheads collect.IntSet) bool {
	existing, ok := is[c]
	if !ok {
		is[c] = lookaheads.Copy()
		return true
	}
	return existing.AddAll(lookaheads)
}

func (is ItemSet) copy() ItemSet {
	out := make(ItemSet, len(is))
	for c, la := range is {
		out[c] = la.Copy()
	}
	return out
}

// coreKey returns a canonical string signature of the item set's cores only
// (ignoring lookaheads), used to detect states with identical LR(0) cores
// for LALR merging.
func (is ItemSet) coreKey() string {
	cores := make([]Core, 0, len(is))
	for c := range is {
		cores = append(cores, c)
	}
	sort.Slice(cores, func(i, j int) bool {
		if cores[i].Prod != cores[j].Prod {
			return cores[i].Prod < cores[j].Prod
		}
		return cores[i].Dot < cores[j].Dot
	})
	var sb strings.Builder
	for _, c := range cores {
		fmt.Fprintf(&sb, "%d.%d|", c.Prod, c.Dot)
	}
	return sb.String()
}

// fullKey returns a canonical signature including lookaheads, used to
// dedupe canonical LR(1) states exactly (not merely by core).
func (is ItemSet) fullKey() string {
	cores := make([]Core, 0, len(is))
	for c := range is {
		cores = append(cores, c)
	}
	sort.Slice(cores, func(i, j int) bool {
		if cores[i].Prod != cores[j].Prod {
			return cores[i].Prod < cores[j].Prod
		}
		return cores[i].Dot < cores[j].Dot
	})
	var sb strings.Builder
	for _, c := range cores {
		fmt.Fprintf(&sb, "%d.%d:", c.Prod, c.Dot)
		for _, la := range is[c].Sorted() {
			fmt.Fprintf(&sb, "%d,", la)
		}
		sb.WriteRune('|')
	}
	return sb.String()
}

// closure computes the closure of a kernel item set per spec §3: "every
// item [B -> ·γ, b] such that some [A -> α · B β, a] is present and
// b ∈ FIRST(β a)" is added, to a fixed point.
func closure(g *grammar.Grammar, first map[int]collect.IntSet, nullable collect.IntSet, kernel ItemSet) ItemSet {
	result := kernel.copy()

	changed := true
	for changed {
		changed = false
		// snapshot keys since we mutate result's lookahead sets and add
		// new cores while iterating
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
			beta := p.RHS[c.Dot+1:]
			lookaheads := result[c]
			seqFirst := FirstOfSequence(g, first, nullable, beta, lookaheads)
			delete(seqFirst, epsilon)

			for _, pid := range g.ProductionsOf(B) {
				newCore := Core{Prod: pid, Dot: 0}
				if result.add(newCore, seqFirst) {
					changed = true
				}
			}
		}
	}
	return result
}

// gotoSet computes GOTO(items, X): the closure of the kernel formed by
// advancing the dot past X in every item of items whose next symbol is X.
func gotoSet(g *grammar.Grammar, first map[int]collect.IntSet, nullable collect.IntSet, items ItemSet, x int) ItemSet {
	kernel := newItemSet()
	for c, la := range items {
		p := g.Production(c.Prod)
		if c.Dot < len(p.RHS) && p.RHS[c.Dot] == x {
			kernel.add(Core{Prod: c.Prod, Dot: c.Dot + 1}, la)
		}
	}
	if len(kernel) == 0 {
		return nil
	}
	return closure(g, first, nullable, kernel)
}
