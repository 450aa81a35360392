// Package table builds the ACTION/GOTO parsing tables from a grammar's
// viable-prefix automaton (package automaton) and applies the
// conflict-resolution policy of spec §4.D: priority, then associativity,
// then the prefer flag, falling through to "retain all actions" in GLR
// mode or a build-time TableConflictError in LR mode.
//
// Grounded on dekarrin/tunaq's internal/ictiobus/parse package
// (clr1.go/lalr.go/slr.go populate ACTION/GOTO per state/item exactly this
// way; lraction.go's isShiftReduceConlict/makeLRConflictError is the
// pattern generalized here into resolveAll/resolveCell).
package table

import (
	"fmt"

	"github.com/dekarrin/scanforest/automaton"
	"github.com/dekarrin/scanforest/grammar"
	"github.com/dekarrin/scanforest/internal/collect"
)

// Mode selects which automaton construction backs the table.
type Mode uint8

const (
	ModeLALR Mode = iota
	ModeSLR
	ModeCLR1
)

// ActionKind is the closed variant of spec §3's ACTION entry: Shift,
// Reduce, Accept, or Error.
type ActionKind uint8

const (
	Error ActionKind = iota
	Shift
	Reduce
	Accept
)

func (k ActionKind) String() string {
	switch k {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	default:
		return "error"
	}
}

// Action is one ACTION table cell.
type Action struct {
	Kind  ActionKind
	State int // target state, when Kind == Shift
	Prod  int // production to reduce, when Kind == Reduce
}

func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return fmt.Sprintf("shift %d", a.State)
	case Reduce:
		return fmt.Sprintf("reduce %d", a.Prod)
	case Accept:
		return "accept"
	default:
		return "error"
	}
}

// ConflictKind distinguishes the two ways an ACTION cell can be
// overdetermined.
type ConflictKind uint8

const (
	ShiftReduce ConflictKind = iota
	ReduceReduce
)

// Conflict records a cell that had more than one candidate action, whether
// or not it was ultimately resolved, so --debug builds can inspect the full
// conflict log (spec §7's TableConflictError carries exactly this
// information for the unresolved case).
type Conflict struct {
	Kind       ConflictKind
	State      int
	Terminal   int
	Candidates []Action
	Resolved   bool
	Chosen     Action
}

// Table is the built ACTION/GOTO parsing table for one grammar. ACTION is
// keyed by (state, terminal); in LR mode it holds at most one Action per
// cell, in GLR mode a cell may hold several (spec §3: "Multiple entries per
// (State, Terminal) are permitted only in GLR mode").
type Table struct {
	Grammar    *grammar.Grammar
	DFA        *automaton.DFA
	Action     map[int]map[int][]Action
	Goto       map[int]map[int]int
	Conflicts  []Conflict
	Start      int
	mode       Mode
	dynamic    DynamicResolver
	glrAllowed bool
}

// DynamicResolver is the optional "dynamic rule" hook of spec §9: consulted
// only when steps 1-3 of the conflict-resolution policy leave a cell
// unresolved. A nil resolver means the hook is not in use.
type DynamicResolver func(candidates []Action, state, terminal int) (Action, bool)

// Options configures table construction.
type Options struct {
	Mode         Mode
	GLR          bool // if true, unresolved conflicts are retained rather than erroring
	PreferShifts bool // if true (LR mode only, per spec §9), unresolved shift/reduce default to shift
	Dynamic      DynamicResolver
}

// Build constructs the ACTION/GOTO table for g using the given options. g
// must already be valid (see (*grammar.Grammar).Validate); Build augments
// it internally.
func Build(g *grammar.Grammar, opts Options) (*Table, error) {
	ag := g.Augmented()

	var dfa *automaton.DFA
	switch opts.Mode {
	case ModeSLR, ModeCLR1:
		dfa = automaton.BuildLR1States(&ag)
		if opts.Mode == ModeSLR {
			// SLR still uses the LR(0) automaton's states for shift
			// decisions but replaces reduce lookaheads with FOLLOW; build
			// LR0 states and graft FOLLOW-based lookaheads on afterward.
			dfa = automaton.BuildLR0States(&ag)
		}
	default: // ModeLALR
		canonical := automaton.BuildLR1States(&ag)
		dfa = automaton.MergeLALR(canonical, &ag)
	}

	t := &Table{
		Grammar:    &ag,
		DFA:        dfa,
		Action:     map[int]map[int][]Action{},
		Goto:       map[int]map[int]int{},
		Start:      0,
		mode:       opts.Mode,
		dynamic:    opts.Dynamic,
		glrAllowed: opts.GLR,
	}

	var follow map[int]collect.IntSet
	if opts.Mode == ModeSLR {
		follow = automaton.Follow(&ag, dfa.First, dfa.Nullable)
	}

	startSym, _ := ag.SymbolByName(grammar.StartSymbolName)
	eoi, _ := ag.SymbolByName(grammar.EndOfInput)

	for _, st := range dfa.States {
		for c, lookaheads := range st.Closure {
			p := ag.Production(c.Prod)

			if c.Dot < len(p.RHS) {
				x := p.RHS[c.Dot]
				if ag.IsTerminal(x) {
					target, ok := st.Transitions[x]
					if ok {
						t.addAction(st.ID, x, Action{Kind: Shift, State: target})
					}
				}
				continue
			}

			// completed item: reduce or accept
			if p.LHS == startSym.ID {
				t.addAction(st.ID, eoi.ID, Action{Kind: Accept})
				continue
			}

			var reduceLookaheads []int
			if opts.Mode == ModeSLR {
				reduceLookaheads = follow[p.LHS].Sorted()
			} else {
				reduceLookaheads = lookaheads.Sorted()
			}
			for _, a := range reduceLookaheads {
				t.addAction(st.ID, a, Action{Kind: Reduce, Prod: c.Prod})
			}
		}

		for x, target := range st.Transitions {
			if !ag.IsTerminal(x) {
				if t.Goto[st.ID] == nil {
					t.Goto[st.ID] = map[int]int{}
				}
				t.Goto[st.ID][x] = target
			}
		}
	}

	if err := t.resolveAll(opts); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *Table) addAction(state, terminal int, a Action) {
	if t.Action[state] == nil {
		t.Action[state] = map[int][]Action{}
	}
	t.Action[state][terminal] = append(t.Action[state][terminal], a)
}

// ActionsFor returns every candidate action at (state, terminal). In GLR
// mode this may hold more than one entry.
func (t *Table) ActionsFor(state, terminal int) []Action {
	return t.Action[state][terminal]
}

// GotoFor returns the target state for (state, nonTerminal).
func (t *Table) GotoFor(state, nonTerminal int) (int, bool) {
	target, ok := t.Goto[state][nonTerminal]
	return target, ok
}
