package table

import (
	"fmt"
	"sort"

	"github.com/dekarrin/rosed"
)

// Dump renders the ACTION/GOTO table as a bordered text grid, one row per
// state, terminal columns followed by a "|" separator then non-terminal
// columns, grounded on dekarrin/tunaq's internal/ictiobus/parse/slr.go
// String() method, which builds the same shape of data via rosed's
// InsertTableOpts rather than hand-aligning columns.
func (t *Table) Dump() string {
	terms := t.Grammar.Terminals()
	sort.Ints(terms)
	nts := t.Grammar.NonTerminals()
	sort.Ints(nts)

	header := []string{"state"}
	for _, term := range terms {
		header = append(header, t.Grammar.Symbol(term).Name)
	}
	header = append(header, "|")
	for _, nt := range nts {
		header = append(header, t.Grammar.Symbol(nt).Name)
	}

	data := [][]string{header}

	states := make([]int, 0, len(t.Action))
	for s := range t.Action {
		states = append(states, s)
	}
	for s := range t.Goto {
		if _, ok := t.Action[s]; !ok {
			states = append(states, s)
		}
	}
	sort.Ints(states)

	for _, s := range states {
		row := []string{fmt.Sprintf("%d", s)}
		for _, term := range terms {
			cell := ""
			if actions := t.ActionsFor(s, term); len(actions) > 0 {
				cell = actions[0].String()
				for _, a := range actions[1:] {
					cell += " / " + a.String()
				}
			}
			row = append(row, cell)
		}
		row = append(row, "|")
		for _, nt := range nts {
			cell := ""
			if target, ok := t.GotoFor(s, nt); ok {
				cell = fmt.Sprintf("%d", target)
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
