// Package store caches compiled parse tables keyed by a grammar checksum,
// so repeated runs over the same grammar skip table construction.
//
// Grounded on dekarrin/tunaq's server/dao/sqlite package (sqlite.go's
// store/NewDatastore wiring, gamedata.go's single-table repo shape) and its
// use of github.com/dekarrin/rezi (sqlite.go/sessions.go: rezi.EncBinary /
// rezi.DecBinary round-tripping a plain struct) for the serialization
// format instead of database/sql scan columns per field.
package store

import (
	"github.com/dekarrin/scanforest/grammar"
	"github.com/dekarrin/scanforest/table"
)

// ActionBlob is the serializable form of table.Action.
type ActionBlob struct {
	Kind  uint8
	State int
	Prod  int
}

func blobAction(a table.Action) ActionBlob {
	return ActionBlob{Kind: uint8(a.Kind), State: a.State, Prod: a.Prod}
}

func (b ActionBlob) action() table.Action {
	return table.Action{Kind: table.ActionKind(b.Kind), State: b.State, Prod: b.Prod}
}

// ConflictBlob is the serializable form of table.Conflict.
type ConflictBlob struct {
	Kind       uint8
	State      int
	Terminal   int
	Candidates []ActionBlob
	Resolved   bool
	Chosen     ActionBlob
}

// Blob is the serializable projection of a compiled table.Table: every
// field needed to reconstruct ACTION/GOTO lookups and the conflict log,
// but not the grammar or DFA (the caller already holds the grammar it
// parsed to reach this point, and reattaches it via Attach).
type Blob struct {
	GrammarChecksum string
	Mode            uint8
	Start           int
	Action          map[int]map[int][]ActionBlob
	Goto            map[int]map[int]int
	Conflicts       []ConflictBlob
}

// ToBlob converts a built table into its serializable form. mode is the
// table.Mode it was built with; table.Table keeps that field unexported,
// so the caller (cmd/scanforestd) passes back the same table.Options.Mode
// it built it with.
func ToBlob(checksum string, mode table.Mode, t *table.Table) Blob {
	b := Blob{
		GrammarChecksum: checksum,
		Mode:            uint8(mode),
		Start:           t.Start,
		Action:          make(map[int]map[int][]ActionBlob, len(t.Action)),
		Goto:            t.Goto,
	}
	for state, byTerm := range t.Action {
		row := make(map[int][]ActionBlob, len(byTerm))
		for term, actions := range byTerm {
			blobs := make([]ActionBlob, len(actions))
			for i, a := range actions {
				blobs[i] = blobAction(a)
			}
			row[term] = blobs
		}
		b.Action[state] = row
	}
	for _, c := range t.Conflicts {
		candidates := make([]ActionBlob, len(c.Candidates))
		for i, a := range c.Candidates {
			candidates[i] = blobAction(a)
		}
		b.Conflicts = append(b.Conflicts, ConflictBlob{
			Kind:       uint8(c.Kind),
			State:      c.State,
			Terminal:   c.Terminal,
			Candidates: candidates,
			Resolved:   c.Resolved,
			Chosen:     blobAction(c.Chosen),
		})
	}
	return b
}

// Attach reconstructs a *table.Table view over this Blob, using g as the
// grammar (the caller's own parsed/validated grammar — Blob never stores
// it). g must be the augmented form (Grammar.Augmented) that table.Build
// worked on, since the stored production and symbol ids are that
// grammar's. The DFA field is left nil: neither package lr nor package glr reads
// it, only table.Grammar/Start/ActionsFor/GotoFor, all of which this
// reconstructs faithfully.
func (b Blob) Attach(g *grammar.Grammar) *table.Table {
	t := &table.Table{
		Grammar: g,
		Start:   b.Start,
		Action:  make(map[int]map[int][]table.Action, len(b.Action)),
		Goto:    b.Goto,
	}
	for state, byTerm := range b.Action {
		row := make(map[int][]table.Action, len(byTerm))
		for term, blobs := range byTerm {
			actions := make([]table.Action, len(blobs))
			for i, ab := range blobs {
				actions[i] = ab.action()
			}
			row[term] = actions
		}
		t.Action[state] = row
	}
	for _, cb := range b.Conflicts {
		candidates := make([]table.Action, len(cb.Candidates))
		for i, ab := range cb.Candidates {
			candidates[i] = ab.action()
		}
		t.Conflicts = append(t.Conflicts, table.Conflict{
			Kind:       table.ConflictKind(cb.Kind),
			State:      cb.State,
			Terminal:   cb.Terminal,
			Candidates: candidates,
			Resolved:   cb.Resolved,
			Chosen:     cb.Chosen.action(),
		})
	}
	return t
}
