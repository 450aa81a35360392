// Package grammar is the in-memory intermediate representation of a
// context-free grammar: terminals, non-terminals, productions, and the rule
// metadata (priority, associativity, preference) that the table builder
// consults when resolving conflicts.
//
// The API shape — AddTerm/AddRule/Validate/FIRST/FOLLOW/NonTerminals/Rule —
// is grounded directly on github.com/dekarrin/tunaq's vendored
// internal/ictiobus/grammar package, generalized from a pure string-keyed
// model to one where every symbol additionally carries a stable integer id,
// since the table builder and the GLR driver both need O(1) symbol
// comparisons in the hot path.
package grammar

import "fmt"

// SymbolKind distinguishes the two members of the closed Symbol variant
// described in the design notes: a symbol is either a Terminal or a
// NonTerminal, never both and never anything else.
type SymbolKind uint8

const (
	// SymTerminal marks a symbol recognized directly from input text.
	SymTerminal SymbolKind = iota
	// SymNonTerminal marks a symbol defined by one or more productions.
	SymNonTerminal
)

func (k SymbolKind) String() string {
	if k == SymTerminal {
		return "terminal"
	}
	return "non-terminal"
}

// Reserved terminal and non-terminal names.
const (
	// StartSymbolName is the name of the augmented start non-terminal S',
	// added automatically by Augmented.
	StartSymbolName = "S'"

	// EndOfInput is the end-of-input terminal, $.
	EndOfInput = "$"

	// Empty is the reserved terminal name that matches the empty string,
	// used to mark EMPTY productions.
	Empty = "EMPTY"
)

// Symbol is a single entry in the grammar's alphabet. Two symbols are the
// same iff their IDs match; IDs are stable only within one Grammar value
// (and the copies of it produced by Augmented).
type Symbol struct {
	ID   int
	Name string
	Kind SymbolKind
}

func (s Symbol) String() string {
	return s.Name
}

// IsTerminal reports whether s is a Terminal symbol.
func (s Symbol) IsTerminal() bool {
	return s.Kind == SymTerminal
}

func (s Symbol) validate() error {
	if s.Name == "" {
		return fmt.Errorf("symbol %d has no name", s.ID)
	}
	return nil
}
