// Package recognize implements the scannerless token-recognition
// discipline of spec §4.B: a registry mapping each terminal to a pure,
// position-indexed recognizer function, plus the selection policy the
// LR and GLR drivers use to pick a terminal among several simultaneous
// matches.
//
// The byte/rune scanning discipline is grounded on
// dekarrin/tunaq's internal/ictiobus/lex package (regex.go, reader.go), but
// restructured into stateless functions rather than a stateful Lexer
// object, since spec §4.B requires recognizers to be "pure and
// position-indexed" — a scannerless parser consults many recognizers at
// the same position across backtracking GLR forks, which a single mutable
// scan cursor cannot support.
package recognize

// Match is what a Recognizer reports when it accepts input at a position:
// how many runes it consumed and the recognized value (e.g. the matched
// text, normalized by the recognizer if it wishes).
type Match struct {
	Length int
	Value  string
}

// Recognizer is a pure, position-indexed recognizer function per spec
// §4.B's contract: recognize(input, position) -> (match_length, value) |
// none. Recognizers must never consume beyond the returned length, and
// must produce the same result every time they're called with the same
// (input, position).
type Recognizer func(input []rune, pos int) (Match, bool)

// Registry maps terminal IDs to their Recognizer.
type Registry struct {
	byTerm map[int]Recognizer
	prefer map[int]bool
	kind   map[int]Kind
}

// Kind distinguishes recognizer categories for the "string literals win
// over regexes of equal length" step of the selection policy (spec §4.B
// step 3).
type Kind uint8

const (
	KindOther Kind = iota
	KindLiteral
	KindRegex
)

// NewRegistry returns an empty, usable Registry.
func NewRegistry() *Registry {
	return &Registry{
		byTerm: make(map[int]Recognizer),
		prefer: make(map[int]bool),
		kind:   make(map[int]Kind),
	}
}

// Register associates terminal id with r. prefer marks it as the `prefer`
// flag of spec §4.B step 1; kind marks it for the literal-over-regex
// tiebreak of step 3.
func (reg *Registry) Register(id int, r Recognizer, kind Kind, prefer bool) {
	reg.byTerm[id] = r
	reg.kind[id] = kind
	reg.prefer[id] = prefer
}

// RecognizerFor returns the recognizer registered for terminal id, if any.
func (reg *Registry) RecognizerFor(id int) (Recognizer, bool) {
	r, ok := reg.byTerm[id]
	return r, ok
}
