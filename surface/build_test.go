package surface

import (
	"testing"

	"github.com/dekarrin/scanforest/grammar"
	"github.com/stretchr/testify/assert"
)

func Test_Build_DeclaresTerminalsAndProductions(t *testing.T) {
	f, err := Parse(`
number = /[0-9]+/;
E = E '+' E | number;
`)
	assert.NoError(t, err)

	g, reg, err := Build(f, "E")
	assert.NoError(t, err)

	numTerm, ok := g.SymbolByName("number")
	assert.True(t, ok)
	_, ok = reg.RecognizerFor(numTerm.ID)
	assert.True(t, ok)

	plusTerm, ok := g.SymbolByName(`"+"`)
	assert.True(t, ok, "an inline string literal in the rhs becomes its own quoted terminal name")
	_, ok = reg.RecognizerFor(plusTerm.ID)
	assert.True(t, ok)
}

func Test_Build_DefaultsStartToFirstProductionLHS(t *testing.T) {
	f, err := Parse(`
A : 'a';
B = A;
`)
	assert.NoError(t, err)

	g, _, err := Build(f, "")
	assert.NoError(t, err)

	a, _ := g.SymbolByName("A")
	assert.Equal(t, a.ID, g.StartSymbol())
}

func Test_Build_ExplicitStartOverridesFirstProduction(t *testing.T) {
	f, err := Parse(`
A : 'a';
B = A;
`)
	assert.NoError(t, err)

	g, _, err := Build(f, "B")
	assert.NoError(t, err)

	b, _ := g.SymbolByName("B")
	assert.Equal(t, b.ID, g.StartSymbol())
}

func Test_Build_EmptyAlternativeBecomesEMPTY(t *testing.T) {
	f, err := Parse(`
a = 'a';
L = L a | EMPTY;
`)
	assert.NoError(t, err)

	g, reg, err := Build(f, "L")
	assert.NoError(t, err)

	emptyTerm, ok := g.SymbolByName(grammar.Empty)
	assert.True(t, ok)
	_, ok = reg.RecognizerFor(emptyTerm.ID)
	assert.True(t, ok)
}

func Test_Build_InvalidRegexErrors(t *testing.T) {
	f, err := Parse(`bad = /[/;`)
	assert.NoError(t, err, "a malformed regex pattern is still lexically a valid token")

	_, _, err = Build(f, "bad")
	assert.Error(t, err)
}

func Test_Build_NoProductionsErrors(t *testing.T) {
	f, err := Parse(`number = /[0-9]+/;`)
	assert.NoError(t, err)

	_, _, err = Build(f, "")
	assert.Error(t, err)
}

func Test_Load_ParsesAndBuildsInOneStep(t *testing.T) {
	g, reg, err := Load(`
number = /[0-9]+/;
E = number;
`, "E")
	assert.NoError(t, err)
	assert.NotNil(t, g)
	assert.NotNil(t, reg)
	assert.NoError(t, g.Validate())
}

func Test_Load_SyntaxErrorIsWrapped(t *testing.T) {
	_, _, err := Load(`E = `, "E")
	assert.Error(t, err)
}
