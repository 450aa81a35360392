package recognize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_LocatePosition_SingleLine(t *testing.T) {
	input := []rune("abcdef")
	pos := LocatePosition(input, 3)
	assert.Equal(t, 1, pos.Line)
	assert.Equal(t, 4, pos.Column)
	assert.Equal(t, 3, pos.Offset)
}

func Test_LocatePosition_AcrossNewlines(t *testing.T) {
	input := []rune("ab\ncd\nef")
	pos := LocatePosition(input, 7) // the 'f' in "ef"
	assert.Equal(t, 3, pos.Line)
	assert.Equal(t, 2, pos.Column)
}

func Test_LocatePosition_FullWidthRuneCountsTwoColumns(t *testing.T) {
	input := []rune("aあb") // a, full-width hiragana, b
	pos := LocatePosition(input, 2)
	assert.Equal(t, 1, pos.Line)
	assert.Equal(t, 4, pos.Column) // 'a' (1) + full-width (2) + 1
}

func Test_Snippet_MarksOffendingColumn(t *testing.T) {
	input := []rune("foo bar baz")
	snip := Snippet(input, 4) // the 'b' in "bar"
	assert.Contains(t, snip, "foo bar baz")
	assert.Contains(t, snip, "^")
}
