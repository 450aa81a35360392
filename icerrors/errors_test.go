package icerrors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_GrammarError_Error(t *testing.T) {
	e := &GrammarError{Message: "undefined symbol X"}
	assert.Equal(t, "grammar error: undefined symbol X", e.Error())
}

func Test_TableConflictError_Error(t *testing.T) {
	e := &TableConflictError{Items: []ConflictItem{
		{State: 3, Terminal: "PLUS", Candidates: []string{"shift to state 5", "reduce 2"}},
	}}
	msg := e.Error()
	assert.Contains(t, msg, "1 unresolved table conflict(s)")
	assert.Contains(t, msg, "state 3")
	assert.Contains(t, msg, "PLUS")
	assert.Contains(t, msg, "shift to state 5 vs reduce 2")
}

func Test_ParseError_Error_NoExpected(t *testing.T) {
	e := &ParseError{Pos: Position{Line: 2, Column: 7}}
	assert.Equal(t, "parse error at line 2, column 7: unexpected input", e.Error())
}

func Test_ParseError_ExpectedClause(t *testing.T) {
	testCases := []struct {
		name     string
		expected []string
		want     string
	}{
		{"single", []string{"ID"}, "expected an ID"},
		{"two", []string{"ID", "NUM"}, "expected an ID or NUM"},
		{"three", []string{"ELSE", "ID", "NUM"}, "expected an ELSE, ID, or NUM"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := &ParseError{Expected: tc.expected}
			assert.Equal(t, tc.want, e.expectedClause())
		})
	}
}

func Test_ParseError_FullMessage(t *testing.T) {
	e := &ParseError{Pos: Position{Line: 1, Column: 1}, Snippet: "  ^"}
	assert.Contains(t, e.FullMessage(), "  ^")

	noSnippet := &ParseError{Pos: Position{Line: 1, Column: 1}}
	assert.Equal(t, noSnippet.Error(), noSnippet.FullMessage())
}

func Test_ArticleFor(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"ID", "an"},
		{"NUM", "a"},
		{"ELSE", "an"},
		{"", "a"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, articleFor(tc.in))
		})
	}
}

func Test_DisambiguationError_Error(t *testing.T) {
	e := &DisambiguationError{Pos: Position{Line: 4, Column: 9}, Candidates: []string{"ID", "KEYWORD"}}
	msg := e.Error()
	assert.Contains(t, msg, "line 4, column 9")
	assert.Contains(t, msg, "ID, KEYWORD all match")
}

func Test_CancelledError_Error(t *testing.T) {
	assert.Equal(t, "parse cancelled", ErrCancelled.Error())
}
