package recognize

import "regexp"

// Literal returns a Recognizer that exactly matches the given rune
// sequence at the candidate position, per spec §4.B's "String literal:
// exact byte/codepoint match."
func Literal(lit string) Recognizer {
	runes := []rune(lit)
	return func(input []rune, pos int) (Match, bool) {
		if pos+len(runes) > len(input) {
			return Match{}, false
		}
		for i, r := range runes {
			if input[pos+i] != r {
				return Match{}, false
			}
		}
		return Match{Length: len(runes), Value: lit}, true
	}
}

// Regex returns a Recognizer performing a longest-match scan anchored at
// the given position, per spec §4.B's "Regex: longest match anchored at
// position." The pattern is compiled with a leading \A exactly as
// dekarrin/tunaq's internal/ictiobus/lex/regex.go anchors its patterns,
// so a match can never start after pos.
func Regex(pattern string) (Recognizer, error) {
	re, err := regexp.Compile(`\A(?:` + pattern + `)`)
	if err != nil {
		return nil, err
	}
	re.Longest()
	return func(input []rune, pos int) (Match, bool) {
		if pos > len(input) {
			return Match{}, false
		}
		loc := re.FindStringIndex(string(input[pos:]))
		if loc == nil || loc[0] != 0 {
			return Match{}, false
		}
		matched := string(input[pos:])[:loc[1]]
		return Match{Length: len([]rune(matched)), Value: matched}, true
	}, nil
}

// EndOfInput matches length 0 iff pos == len(input), per spec §4.B.
func EndOfInput(input []rune, pos int) (Match, bool) {
	if pos == len(input) {
		return Match{Length: 0, Value: ""}, true
	}
	return Match{}, false
}

// Empty matches length 0 unconditionally, used for EMPTY productions, per
// spec §4.B.
func Empty(input []rune, pos int) (Match, bool) {
	return Match{Length: 0, Value: ""}, true
}
