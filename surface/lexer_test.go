package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lexAll(t *testing.T, src string) []tok {
	t.Helper()
	lx := newLexer(src)
	var toks []tok
	for {
		tk, err := lx.next()
		assert.NoError(t, err)
		toks = append(toks, tk)
		if tk.kind == tokEOF {
			break
		}
	}
	return toks
}

func Test_Lexer_Next_Punctuation(t *testing.T) {
	toks := lexAll(t, "= : | ; , { }")
	kinds := make([]tokKind, len(toks))
	for i, tk := range toks {
		kinds[i] = tk.kind
	}
	assert.Equal(t, []tokKind{tokEquals, tokColon, tokPipe, tokSemi, tokComma, tokBraceL, tokBraceR, tokEOF}, kinds)
}

func Test_Lexer_Next_IdentAndNumber(t *testing.T) {
	toks := lexAll(t, "foo_bar 123")
	assert.Equal(t, tokIdent, toks[0].kind)
	assert.Equal(t, "foo_bar", toks[0].text)
	assert.Equal(t, tokNumber, toks[1].kind)
	assert.Equal(t, "123", toks[1].text)
}

func Test_Lexer_Next_StringLiteral(t *testing.T) {
	toks := lexAll(t, `'hello world'`)
	assert.Equal(t, tokString, toks[0].kind)
	assert.Equal(t, "hello world", toks[0].text)
}

func Test_Lexer_Next_RegexLiteral(t *testing.T) {
	toks := lexAll(t, `/[a-z]+/`)
	assert.Equal(t, tokRegex, toks[0].kind)
	assert.Equal(t, "[a-z]+", toks[0].text)
}

func Test_Lexer_Next_EscapedQuoteInString(t *testing.T) {
	toks := lexAll(t, `'it\'s'`)
	assert.Equal(t, tokString, toks[0].kind)
	assert.Equal(t, "it's", toks[0].text)
}

func Test_Lexer_Next_SkipsCommentsAndLayout(t *testing.T) {
	toks := lexAll(t, "  # a comment\n  foo")
	assert.Equal(t, tokIdent, toks[0].kind)
	assert.Equal(t, "foo", toks[0].text)
}

func Test_Lexer_Next_UnterminatedStringErrors(t *testing.T) {
	lx := newLexer(`'abc`)
	_, err := lx.next()
	assert.Error(t, err)
}

func Test_Lexer_Next_UnexpectedCharacterErrors(t *testing.T) {
	lx := newLexer(`@`)
	_, err := lx.next()
	assert.Error(t, err)
}

func Test_Lexer_Next_TracksLineAndColumn(t *testing.T) {
	toks := lexAll(t, "a\nb")
	assert.Equal(t, 1, toks[0].line)
	assert.Equal(t, 2, toks[1].line)
	assert.Equal(t, 1, toks[1].col)
}
