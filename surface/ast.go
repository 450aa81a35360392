package surface

import "github.com/dekarrin/scanforest/grammar"

// TerminalDecl is one `NAME = /regex/ {flags};` or `NAME = 'literal' {flags};`
// line.
type TerminalDecl struct {
	Name     string
	Pattern  string
	IsRegex  bool
	Priority int
	Prefer   bool
}

// RHSSymbol is one element of a production's right-hand side: either a
// reference to a declared symbol (Name) or an inline string literal
// (Literal, IsLiteral true), per spec §6's "rhs is a space-separated
// sequence of symbols or inline string literals."
type RHSSymbol struct {
	Name      string
	IsLiteral bool
}

// Alt is one `|`-separated alternative of a production, with the brace
// group of spec §6 parsed into its fields.
type Alt struct {
	RHS          []RHSSymbol
	Priority     int
	HasPriority  bool
	Assoc        grammar.Associativity
	Prefer       bool
	Dynamic      bool
	NoPreLayout  bool // nops
	NoPostLayout bool // nopse
}

// ProductionDecl is one `LHS = alt | alt | ...;` or `LHS : alt;` line.
type ProductionDecl struct {
	LHS  string
	Alts []Alt
}

// File is a fully parsed surface grammar source.
type File struct {
	Terminals   []TerminalDecl
	Productions []ProductionDecl
}
