package table

import (
	"fmt"
	"strings"

	"github.com/dekarrin/scanforest/grammar"
	"github.com/dekarrin/scanforest/icerrors"
)

// resolveAll walks every ACTION cell with more than one candidate and
// applies spec §4.D's four-step policy. In GLR mode, unresolved cells keep
// all candidates (spec §3: multiple entries are legal only in GLR mode).
// In LR mode, an unresolved cell is a build-time error.
func (t *Table) resolveAll(opts Options) error {
	var unresolved []icerrors.ConflictItem

	for state, byTerm := range t.Action {
		for term, candidates := range byTerm {
			if len(candidates) <= 1 {
				continue
			}

			kind := ShiftReduce
			if allReduce(candidates) {
				kind = ReduceReduce
			}

			chosen, resolved := t.resolveCell(candidates, state, term, opts)

			t.Conflicts = append(t.Conflicts, Conflict{
				Kind:       kind,
				State:      state,
				Terminal:   term,
				Candidates: candidates,
				Resolved:   resolved,
				Chosen:     chosen,
			})

			if resolved {
				t.Action[state][term] = []Action{chosen}
				continue
			}

			if opts.GLR {
				// all candidates retained, nothing to do
				continue
			}

			unresolved = append(unresolved, icerrors.ConflictItem{
				State:      state,
				Terminal:   t.Grammar.Symbol(term).Name,
				Candidates: describeCandidates(t, candidates),
			})
		}
	}

	if len(unresolved) > 0 {
		return &icerrors.TableConflictError{Items: unresolved}
	}
	return nil
}

func allReduce(candidates []Action) bool {
	for _, a := range candidates {
		if a.Kind != Reduce {
			return false
		}
	}
	return true
}

// resolveCell applies the four-step policy of spec §4.D to one cell's
// candidates. It returns the winning action and whether resolution
// succeeded.
func (t *Table) resolveCell(candidates []Action, state, term int, opts Options) (Action, bool) {
	var shift *Action
	var reduces []Action
	for i := range candidates {
		switch candidates[i].Kind {
		case Shift:
			shift = &candidates[i]
		case Reduce:
			reduces = append(reduces, candidates[i])
		case Accept:
			// accept is given no precedence here; a cell holding it
			// alongside other candidates falls through to the
			// dynamic/unresolved handling below.
		}
	}

	if shift != nil && len(reduces) > 0 {
		if chosen, ok := t.resolveShiftReduce(*shift, reduces, term, opts); ok {
			return chosen, true
		}
	} else if len(reduces) > 1 {
		if chosen, ok := t.resolveReduceReduce(reduces); ok {
			return chosen, true
		}
	}

	if t.dynamic != nil {
		if chosen, ok := t.dynamic(candidates, state, term); ok {
			return chosen, true
		}
	}
	return Action{}, false
}

// resolveShiftReduce implements spec §4.D steps 1-2: priority first, then
// associativity of the reducing production.
func (t *Table) resolveShiftReduce(shift Action, reduces []Action, term int, opts Options) (Action, bool) {
	if len(reduces) != 1 {
		// a shift competing with multiple reduces is already a
		// reduce/reduce problem among the reduces themselves; resolve that
		// first, then re-run shift/reduce resolution against the winner.
		winner, ok := t.resolveReduceReduce(reduces)
		if !ok {
			return Action{}, false
		}
		reduces = []Action{winner}
	}
	reduce := reduces[0]

	reduceProd := t.Grammar.Production(reduce.Prod)
	termPriority := t.termPriority(term)
	reducePriority := reduceProd.EffectivePriority(t.Grammar)

	if termPriority > reducePriority {
		return shift, true
	}
	if reducePriority > termPriority {
		return reduce, true
	}

	// equal priority: associativity of the reducing production
	switch reduceProd.Assoc {
	case grammar.AssocLeft:
		return reduce, true
	case grammar.AssocRight:
		return shift, true
	}

	if opts.PreferShifts && !opts.GLR {
		return shift, true
	}

	return Action{}, false
}

// resolveReduceReduce implements spec §4.D step 3: higher priority wins,
// else the prefer flag, else unresolved.
func (t *Table) resolveReduceReduce(reduces []Action) (Action, bool) {
	best := reduces[0]
	bestPriority := t.Grammar.Production(best.Prod).EffectivePriority(t.Grammar)
	tie := false

	for _, cand := range reduces[1:] {
		p := t.Grammar.Production(cand.Prod).EffectivePriority(t.Grammar)
		if p > bestPriority {
			best, bestPriority, tie = cand, p, false
		} else if p == bestPriority {
			tie = true
		}
	}
	if !tie {
		return best, true
	}

	var preferred []Action
	for _, cand := range reduces {
		if t.Grammar.Production(cand.Prod).Preferred {
			preferred = append(preferred, cand)
		}
	}
	if len(preferred) == 1 {
		return preferred[0], true
	}

	return Action{}, false
}

func (t *Table) termPriority(term int) int {
	// A shift's priority is the incoming terminal's own declared priority,
	// as given to AddTerm.
	return t.Grammar.TerminalPriority(term)
}

func describeCandidates(t *Table, candidates []Action) []string {
	out := make([]string, 0, len(candidates))
	for _, a := range candidates {
		switch a.Kind {
		case Shift:
			out = append(out, fmt.Sprintf("shift to state %d", a.State))
		case Reduce:
			p := t.Grammar.Production(a.Prod)
			out = append(out, fmt.Sprintf("reduce %s -> %s", t.Grammar.Symbol(p.LHS).Name, rhsNames(t, p.RHS)))
		case Accept:
			out = append(out, "accept")
		}
	}
	return out
}

func rhsNames(t *Table, rhs []int) string {
	if len(rhs) == 0 {
		return "EMPTY"
	}
	names := make([]string, len(rhs))
	for i, sid := range rhs {
		names[i] = t.Grammar.Symbol(sid).Name
	}
	return strings.Join(names, " ")
}
