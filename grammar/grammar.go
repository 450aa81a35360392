package grammar

import (
	"fmt"
	"strings"
)

// Grammar is both the mutable builder and the intermediate representation
// consumed by the automaton and table packages. The zero value is an empty, usable Grammar, matching the
// teacher's Grammar{} construction idiom used throughout
// ictiobus/grammar/grammar_test.go.
type Grammar struct {
	symbols      []Symbol
	byName       map[string]int
	productions  []Production
	rulesOf      map[int][]int // nonterminal id -> production ids, in addition order
	termPriority map[int]int
	start        int
	startSet     bool
	frozen       bool
}

func (g *Grammar) init() {
	if g.byName == nil {
		g.byName = make(map[string]int)
		g.rulesOf = make(map[int][]int)
		g.termPriority = make(map[int]int)
	}
}

// AddTerm declares a terminal named name with the given conflict-resolution
// priority (spec §4.D). Returns the symbol's stable ID.
func (g *Grammar) AddTerm(name string, priority int) int {
	g.init()
	id := g.addSymbol(name, SymTerminal)
	g.termPriority[id] = priority
	return id
}

// AddNonTerm declares a non-terminal named name if it does not already
// exist, and returns its stable ID.
func (g *Grammar) AddNonTerm(name string) int {
	g.init()
	if id, ok := g.byName[name]; ok {
		return id
	}
	return g.addSymbol(name, SymNonTerminal)
}

func (g *Grammar) addSymbol(name string, kind SymbolKind) int {
	if id, ok := g.byName[name]; ok {
		return id
	}
	id := len(g.symbols)
	g.symbols = append(g.symbols, Symbol{ID: id, Name: name, Kind: kind})
	g.byName[name] = id
	return id
}

// AddProduction declares lhs -> rhs (symbol names; empty rhs means an EMPTY
// production) with the given metadata, and returns the stable production
// ID. The LHS is implicitly declared as a non-terminal if it wasn't already
// known.
func (g *Grammar) AddProduction(lhs string, rhs []string, priority int, explicitPriority bool, assoc Associativity, preferred, dynamic bool) int {
	g.init()
	lhsID := g.AddNonTerm(lhs)

	rhsIDs := make([]int, 0, len(rhs))
	for _, symName := range rhs {
		id, ok := g.byName[symName]
		if !ok {
			// forward reference: assume non-terminal until proven otherwise
			// at Validate time.
			id = g.AddNonTerm(symName)
		}
		rhsIDs = append(rhsIDs, id)
	}

	prod := Production{
		ID:               len(g.productions),
		LHS:              lhsID,
		RHS:              rhsIDs,
		Priority:         priority,
		explicitPriority: explicitPriority,
		Assoc:            assoc,
		Preferred:        preferred,
		Dynamic:          dynamic,
		Empty:            len(rhsIDs) == 0,
	}
	g.productions = append(g.productions, prod)
	g.rulesOf[lhsID] = append(g.rulesOf[lhsID], prod.ID)
	return prod.ID
}

// SetStart declares name as the grammar's start symbol.
func (g *Grammar) SetStart(name string) {
	g.init()
	g.start = g.AddNonTerm(name)
	g.startSet = true
}

// StartSymbol returns the ID of the declared start symbol.
func (g *Grammar) StartSymbol() int {
	return g.start
}

// Symbol returns the Symbol for the given ID.
func (g *Grammar) Symbol(id int) Symbol {
	return g.symbols[id]
}

// SymbolByName returns the symbol named name and whether it was found.
func (g *Grammar) SymbolByName(name string) (Symbol, bool) {
	id, ok := g.byName[name]
	if !ok {
		return Symbol{}, false
	}
	return g.symbols[id], true
}

// Production returns the production with the given ID.
func (g *Grammar) Production(id int) Production {
	return g.productions[id]
}

// Productions returns every production, in declaration order. Production 0
// is the augmented start production once Augmented has been called.
func (g *Grammar) Productions() []Production {
	return g.productions
}

// ProductionsOf returns the IDs of every production whose LHS is nt, in the
// order they were declared, per spec §4.A's iterate_productions_of.
func (g *Grammar) ProductionsOf(nt int) []int {
	return g.rulesOf[nt]
}

// Terminals returns the IDs of every terminal symbol, in declaration order.
func (g *Grammar) Terminals() []int {
	var out []int
	for _, s := range g.symbols {
		if s.Kind == SymTerminal {
			out = append(out, s.ID)
		}
	}
	return out
}

// NonTerminals returns the IDs of every non-terminal symbol, in declaration
// order.
func (g *Grammar) NonTerminals() []int {
	var out []int
	for _, s := range g.symbols {
		if s.Kind == SymNonTerminal {
			out = append(out, s.ID)
		}
	}
	return out
}

// IsTerminal reports whether id names a terminal symbol.
func (g *Grammar) IsTerminal(id int) bool {
	return g.symbols[id].Kind == SymTerminal
}

// TerminalPriority returns the conflict-resolution priority declared for
// terminal id via AddTerm (spec §4.D). Non-terminals and unknown ids
// report priority 0.
func (g *Grammar) TerminalPriority(id int) int {
	return g.termPriority[id]
}

// Validate checks the freeze-time invariants of spec §4.A: every RHS symbol
// is defined as the kind it's used as, a start symbol has been set, and
// there is at least one terminal and one production.
func (g *Grammar) Validate() error {
	if !g.startSet {
		return fmt.Errorf("grammar: no start symbol declared")
	}
	if len(g.Terminals()) == 0 {
		return fmt.Errorf("grammar: no terminals declared")
	}
	if len(g.productions) == 0 {
		return fmt.Errorf("grammar: no productions declared")
	}
	if start := g.symbols[g.start]; start.Kind != SymNonTerminal || len(g.rulesOf[g.start]) == 0 {
		return fmt.Errorf("grammar: start symbol %q is not defined", start.Name)
	}
	for _, p := range g.productions {
		if g.symbols[p.LHS].Kind != SymNonTerminal {
			return fmt.Errorf("grammar: production %d has a terminal LHS %q", p.ID, g.symbols[p.LHS].Name)
		}
		for _, sid := range p.RHS {
			if sid < 0 || sid >= len(g.symbols) {
				return fmt.Errorf("grammar: production %d references undefined symbol id %d", p.ID, sid)
			}
			if g.symbols[sid].Kind == SymNonTerminal && len(g.rulesOf[sid]) == 0 {
				return fmt.Errorf("grammar: production %d references undefined symbol %q", p.ID, g.symbols[sid].Name)
			}
		}
	}
	return nil
}

// Augmented returns a copy of g with an added production S' -> S $ as
// production 0, where S is g's declared start symbol, following spec §3's
// "production 0 is the augmented S' -> S $". The copy's start symbol is S'.
func (g *Grammar) Augmented() Grammar {
	cp := g.clone()

	startPrimeID := cp.addSymbol(StartSymbolName, SymNonTerminal)
	eoiID := cp.addSymbol(EndOfInput, SymTerminal)

	augProd := Production{
		LHS: startPrimeID,
		RHS: []int{cp.start, eoiID},
	}

	// production 0 must be the augmented production: shift every existing
	// production's ID up by one and prepend.
	shifted := make([]Production, 0, len(cp.productions)+1)
	augProd.ID = 0
	shifted = append(shifted, augProd)
	for _, p := range cp.productions {
		p.ID++
		shifted = append(shifted, p)
	}
	cp.productions = shifted

	cp.rulesOf = make(map[int][]int, len(cp.rulesOf)+1)
	cp.rulesOf[startPrimeID] = []int{0}
	for lhs, prodIDs := range g.rulesOf {
		bumped := make([]int, len(prodIDs))
		for i, id := range prodIDs {
			bumped[i] = id + 1
		}
		cp.rulesOf[lhs] = bumped
	}

	cp.start = startPrimeID
	return cp
}

func (g *Grammar) clone() Grammar {
	cp := Grammar{
		symbols:      append([]Symbol(nil), g.symbols...),
		byName:       make(map[string]int, len(g.byName)),
		productions:  append([]Production(nil), g.productions...),
		rulesOf:      make(map[int][]int, len(g.rulesOf)),
		termPriority: make(map[int]int, len(g.termPriority)),
		start:        g.start,
		startSet:     g.startSet,
		frozen:       g.frozen,
	}
	for k, v := range g.byName {
		cp.byName[k] = v
	}
	for k, v := range g.rulesOf {
		cp.rulesOf[k] = append([]int(nil), v...)
	}
	for k, v := range g.termPriority {
		cp.termPriority[k] = v
	}
	return cp
}

// String renders the grammar rule-by-rule, grouped by non-terminal, in the
// same "LHS -> alt1 | alt2" convention as the teacher's Grammar.String.
func (g *Grammar) String() string {
	var sb strings.Builder
	for _, nt := range g.NonTerminals() {
		prodIDs := g.rulesOf[nt]
		if len(prodIDs) == 0 {
			continue
		}
		sb.WriteString(g.symbols[nt].Name)
		sb.WriteString(" -> ")
		for i, pid := range prodIDs {
			if i > 0 {
				sb.WriteString(" | ")
			}
			sb.WriteString(g.productions[pid].rhsString(g))
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
