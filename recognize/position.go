package recognize

import (
	"golang.org/x/text/width"

	"github.com/dekarrin/scanforest/icerrors"
)

// LocatePosition converts a rune offset into a line/column/offset triple
// for error reporting (icerrors.Position). Column counts are display
// columns, not rune counts: a full-width rune (as classified by
// golang.org/x/text/width) counts as two columns, so a ParseError's
// reported column stays aligned with the context snippet it carries even
// when the input mixes Latin and CJK text, a case the teacher's
// ASCII-oriented tunascript lexer never had to consider.
func LocatePosition(input []rune, offset int) icerrors.Position {
	line := 1
	col := 1
	for i := 0; i < offset && i < len(input); i++ {
		if input[i] == '\n' {
			line++
			col = 1
			continue
		}
		col += displayWidth(input[i])
	}
	return icerrors.Position{Offset: offset, Line: line, Column: col}
}

func displayWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// Snippet returns a short context window around offset, for use in
// icerrors.ParseError.Snippet, marking the offending position with a caret
// on the line beneath it.
func Snippet(input []rune, offset int) string {
	lineStart := offset
	for lineStart > 0 && input[lineStart-1] != '\n' {
		lineStart--
	}
	lineEnd := offset
	for lineEnd < len(input) && input[lineEnd] != '\n' {
		lineEnd++
	}

	line := string(input[lineStart:lineEnd])
	caretCol := 0
	for i := lineStart; i < offset; i++ {
		caretCol += displayWidth(input[i])
	}

	caret := make([]rune, caretCol)
	for i := range caret {
		caret[i] = ' '
	}
	return line + "\n" + string(caret) + "^"
}
