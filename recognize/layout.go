package recognize

import "strings"

// LayoutSkipper consumes inter-token layout before a token attempt, per
// spec §4.B. The skippers provided here are character-class based
// (DefaultLayout) or no-ops (NoLayout); no skipper runs a secondary parser
// for a LAYOUT non-terminal, and a grammar's LAYOUT declaration is not
// consulted by package engine.
type LayoutSkipper func(input []rune, pos int) int

// DefaultLayout returns a LayoutSkipper that greedily consumes any rune in
// class, defaulting to spaces, tabs, and newlines per spec §6's `ws`
// option.
func DefaultLayout(class string) LayoutSkipper {
	if class == "" {
		class = "\t\n "
	}
	return func(input []rune, pos int) int {
		n := 0
		for pos+n < len(input) && strings.ContainsRune(class, input[pos+n]) {
			n++
		}
		return n
	}
}

// NoLayout is a LayoutSkipper that never consumes anything. No `ws` value
// selects it: DefaultLayout treats any class string as a set of runes to
// skip, so it has to be passed in directly (e.g. via engine.WithLayout).
func NoLayout(input []rune, pos int) int {
	return 0
}
