package recognize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Literal_Match(t *testing.T) {
	rec := Literal("if")
	input := []rune("if x then y")

	m, ok := rec(input, 0)
	assert.True(t, ok)
	assert.Equal(t, Match{Length: 2, Value: "if"}, m)

	_, ok = rec(input, 1)
	assert.False(t, ok)
}

func Test_Literal_MatchAtEnd(t *testing.T) {
	rec := Literal("end")
	input := []rune("the end")

	_, ok := rec(input, 4)
	assert.True(t, ok)

	_, ok = rec(input, 5)
	assert.False(t, ok, "not enough runes remain to match")
}

func Test_Regex_LongestMatchAnchored(t *testing.T) {
	rec, err := Regex(`[0-9]+`)
	assert.NoError(t, err)

	input := []rune("123abc")
	m, ok := rec(input, 0)
	assert.True(t, ok)
	assert.Equal(t, 3, m.Length)
	assert.Equal(t, "123", m.Value)

	_, ok = rec(input, 3)
	assert.False(t, ok, "position 3 starts with a letter, not a digit")
}

func Test_Regex_InvalidPattern(t *testing.T) {
	_, err := Regex(`[`)
	assert.Error(t, err)
}

func Test_EndOfInput(t *testing.T) {
	input := []rune("abc")
	_, ok := EndOfInput(input, 3)
	assert.True(t, ok)

	_, ok = EndOfInput(input, 2)
	assert.False(t, ok)
}

func Test_Empty_AlwaysMatches(t *testing.T) {
	input := []rune("abc")
	m, ok := Empty(input, 0)
	assert.True(t, ok)
	assert.Equal(t, 0, m.Length)

	m, ok = Empty(input, 3)
	assert.True(t, ok)
	assert.Equal(t, 0, m.Length)
}
