package grammar

import "strings"

// Associativity controls how the table builder resolves a shift/reduce
// conflict of equal priority (spec §4.D, step 2).
type Associativity uint8

const (
	// AssocNone leaves an equal-priority shift/reduce conflict unresolved.
	AssocNone Associativity = iota
	// AssocLeft favors reduce.
	AssocLeft
	// AssocRight favors shift.
	AssocRight
)

func (a Associativity) String() string {
	switch a {
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	default:
		return "none"
	}
}

// Production is (lhs, rhs, priority, associativity, preferred, empty) as
// defined in spec §3. LHS and RHS hold symbol IDs, not names, so that the
// automaton and table packages never need a name lookup in their hot loops.
type Production struct {
	ID        int
	LHS       int
	RHS       []int
	Priority  int
	Assoc     Associativity
	Preferred bool
	Dynamic   bool
	Empty     bool

	explicitPriority bool
}

// Len returns len(RHS); provided for readability at call sites that walk a
// production right-to-left the way the LR driver's reduce step does.
func (p Production) Len() int {
	return len(p.RHS)
}

func (p Production) rhsString(g *Grammar) string {
	if len(p.RHS) == 0 {
		return Empty
	}
	parts := make([]string, len(p.RHS))
	for i, sid := range p.RHS {
		parts[i] = g.symbols[sid].Name
	}
	return strings.Join(parts, " ")
}

// EffectivePriority returns p.Priority if it was marked explicit when the
// production was added, else the maximum priority among p's terminal RHS
// symbols, per
// spec §4.D's "production's priority is the maximum priority among its rhs
// terminals unless explicitly set" rule. Terminal priority is carried on
// the Grammar as a side table populated by AddTerm's priority argument.
func (p Production) EffectivePriority(g *Grammar) int {
	if p.explicitPriority {
		return p.Priority
	}
	max := 0
	found := false
	for _, sid := range p.RHS {
		if g.symbols[sid].Kind != SymTerminal {
			continue
		}
		tp := g.termPriority[sid]
		if !found || tp > max {
			max = tp
			found = true
		}
	}
	return max
}
