// Package icerrors holds the five error kinds of spec §7: GrammarError,
// TableConflictError, ParseError, DisambiguationError, and CancelledError.
// Each is a concrete struct implementing error; ParseError additionally has
// a FullMessage method that renders a human-readable, source-located
// explanation — the
// generalized form of the (inferred-from-call-site, not directly retrieved)
// icterrors.NewSyntaxErrorFromToken convention used throughout
// dekarrin/tunaq's internal/ictiobus package, including its "expected X, Y,
// or Z" phrasing built with an Oxford comma and an article ("a"/"an")
// before the first item.
package icerrors

import (
	"fmt"
	"strings"
)

// GrammarError reports a problem found while validating or freezing a
// grammar: undefined symbols, malformed productions, duplicate terminals.
type GrammarError struct {
	Message string
}

func (e *GrammarError) Error() string {
	return "grammar error: " + e.Message
}

// ConflictItem describes one unresolved ACTION cell for
// TableConflictError's report.
type ConflictItem struct {
	State      int
	Terminal   string
	Candidates []string
}

// TableConflictError reports one or more unresolved shift/reduce or
// reduce/reduce conflicts found while building an LR table (spec §7,
// kind 2). It is returned only in LR mode; in GLR mode these cells are
// recorded as table.Conflict entries instead and the build succeeds.
type TableConflictError struct {
	Items []ConflictItem
}

func (e *TableConflictError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d unresolved table conflict(s):\n", len(e.Items))
	for _, it := range e.Items {
		fmt.Fprintf(&sb, "  state %d, lookahead %q: %s\n", it.State, it.Terminal, strings.Join(it.Candidates, " vs "))
	}
	return sb.String()
}

// Position locates a point in the original input, for error reporting.
type Position struct {
	Offset int
	Line   int
	Column int
}

// ParseError reports that no viable token could be recognized at a
// position (spec §7, kind 3): it carries the position, the set of
// terminals that would have been accepted there, and a short context
// snippet of the surrounding input.
type ParseError struct {
	Pos      Position
	Expected []string
	Snippet  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.expectedClause())
}

// FullMessage renders the error with its source snippet attached, mirroring
// the teacher's FullMessage() convention inferred from
// icterrors.NewSyntaxErrorFromToken(...).FullMessage() call sites.
func (e *ParseError) FullMessage() string {
	if e.Snippet == "" {
		return e.Error()
	}
	return e.Error() + "\n" + e.Snippet
}

func (e *ParseError) expectedClause() string {
	if len(e.Expected) == 0 {
		return "unexpected input"
	}

	names := make([]string, len(e.Expected))
	copy(names, e.Expected)

	var sb strings.Builder
	sb.WriteString("expected ")
	for i, n := range names {
		if i == 0 {
			sb.WriteString(articleFor(n))
			sb.WriteRune(' ')
		}
		if i > 0 && i+1 < len(names) {
			sb.WriteString(", ")
		}
		if i > 0 && i+1 == len(names) {
			if len(names) > 2 {
				sb.WriteString(", or ")
			} else {
				sb.WriteString(" or ")
			}
		}
		sb.WriteString(n)
	}
	return sb.String()
}

func articleFor(s string) string {
	if s == "" {
		return "a"
	}
	switch strings.ToLower(s)[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return "an"
	default:
		return "a"
	}
}

// DisambiguationError reports that the scannerless recognizer found more
// than one equally-long, equally-preferred token match at a position, in LR
// mode only (spec §7, kind 4; GLR instead forks on each candidate).
type DisambiguationError struct {
	Pos        Position
	Candidates []string
}

func (e *DisambiguationError) Error() string {
	return fmt.Sprintf("lexical ambiguity at line %d, column %d: %s all match with equal preference",
		e.Pos.Line, e.Pos.Column, strings.Join(e.Candidates, ", "))
}

// ErrCancelled is returned by a parse whose cooperative cancellation
// context was done before the parse completed (spec §7, kind 5).
var ErrCancelled = &CancelledError{}

// CancelledError reports cooperative cancellation honored mid-parse.
type CancelledError struct{}

func (e *CancelledError) Error() string {
	return "parse cancelled"
}
