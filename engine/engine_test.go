package engine

import (
	"context"
	"strconv"
	"testing"

	"github.com/dekarrin/scanforest/forest"
	"github.com/dekarrin/scanforest/icerrors"
	"github.com/dekarrin/scanforest/surface"
	"github.com/stretchr/testify/assert"
)

// prodByShape finds the production of the given LHS name and RHS length in
// g's (possibly augmented) production list. Forest node IDs are always
// from the table's augmented grammar, so tests that need a production ID
// to build an ActionTable look it up this way rather than assuming it
// matches the un-augmented surface source order.
func prodByShape(t *testing.T, p *Parser, lhs string, rhsLen int) int {
	t.Helper()
	g := p.Table().Grammar
	for _, prod := range g.Productions() {
		if g.Symbol(prod.LHS).Name == lhs && prod.Len() == rhsLen {
			return prod.ID
		}
	}
	t.Fatalf("no production found for %s with %d symbols", lhs, rhsLen)
	return -1
}

func Test_New_BuildsLALRByDefault(t *testing.T) {
	g, reg, err := surface.Load(`
number = /[0-9]+/;
E = E '+' E | number;
`, "E")
	assert.NoError(t, err)

	p, err := New(g, reg)
	assert.NoError(t, err)
	assert.NotNil(t, p.Table())
}

func Test_New_WithTablesSLR(t *testing.T) {
	g, reg, err := surface.Load(`
number = /[0-9]+/;
E = E '+' E | number;
`, "E")
	assert.NoError(t, err)

	_, err = New(g, reg, WithTables("slr"))
	assert.NoError(t, err)
}

func Test_New_WithStartSymbolOverride(t *testing.T) {
	g, reg, err := surface.Load(`
A : 'a';
B : 'b';
`, "")
	assert.NoError(t, err)

	p, err := New(g, reg, WithStartSymbol("B"))
	assert.NoError(t, err)

	_, _, err = p.Parse(context.Background(), []rune("b"))
	assert.NoError(t, err)

	_, _, err = p.Parse(context.Background(), []rune("a"))
	assert.Error(t, err, "A is no longer reachable once B is the start symbol")
}

// Test_Scenario_ArithmeticWithAssociativity covers the first concrete
// scenario: explicit priority/associativity collapses 1+2*3+4 to a single
// derivation whose computed value is 11.
func Test_Scenario_ArithmeticWithAssociativity(t *testing.T) {
	g, reg, err := surface.Load(`
number = /[0-9]+/;
E = E '+' E {1,left} | E '*' E {2,left} | number;
`, "E")
	assert.NoError(t, err)

	p, err := New(g, reg)
	assert.NoError(t, err)

	f, root, err := p.Parse(context.Background(), []rune("1+2*3+4"))
	assert.NoError(t, err)
	assert.False(t, f.Ambiguous(root))

	// plus and times both reduce E '+'/'*' E, three symbols long, so a
	// single production ID can't distinguish them; look both up by RHS
	// middle symbol instead.
	var addID, mulID int
	for _, prod := range p.Table().Grammar.Productions() {
		if p.Table().Grammar.Symbol(prod.LHS).Name != "E" || prod.Len() != 3 {
			continue
		}
		mid := p.Table().Grammar.Symbol(prod.RHS[1]).Name
		switch mid {
		case `"+"`:
			addID = prod.ID
		case `"*"`:
			mulID = prod.ID
		}
	}
	actions := forest.ActionTable{
		addID: func(children []any) (any, error) {
			return children[0].(int) + children[2].(int), nil
		},
		mulID: func(children []any) (any, error) {
			return children[0].(int) * children[2].(int), nil
		},
	}
	numProd := prodByShape(t, p, "E", 1)
	actions[numProd] = func(children []any) (any, error) {
		return strconv.Atoi(children[0].(string))
	}

	tr := forest.FirstTree(f, root)
	v, err := forest.InvokeActions(tr, actions)
	assert.NoError(t, err)
	assert.Equal(t, 11, v)
}

// Test_Scenario_GLRWithoutAssociativityIsAmbiguous covers the second
// concrete scenario: strip associativity and the same input has Catalan(3)
// = 5 distinct parses under GLR.
func Test_Scenario_GLRWithoutAssociativityIsAmbiguous(t *testing.T) {
	g, reg, err := surface.Load(`
number = /[0-9]+/;
E = E '+' E | E '*' E | number;
`, "E")
	assert.NoError(t, err)

	p, err := New(g, reg, WithGLR(true))
	assert.NoError(t, err)

	f, roots, err := p.ParseGLR(context.Background(), []rune("1+2*3+4"))
	assert.NoError(t, err)
	assert.Len(t, roots, 1)

	count := 0
	forest.EnumerateTrees(f, roots[0], func(tr forest.Tree) bool {
		count++
		return true
	})
	assert.Equal(t, 5, count)
}

// Test_Scenario_KeywordVsIdentifier covers the third concrete scenario:
// IF = 'if'; ID = /[a-z]+/; S = IF ID | ID ID; distinguishes "if x" (IF
// ID) from the keyword-swallowing "ifx" (a ParseError naming ID).
func Test_Scenario_KeywordVsIdentifier(t *testing.T) {
	g, reg, err := surface.Load(`
IF = 'if';
ID = /[a-z]+/;
S = IF ID | ID ID;
`, "S")
	assert.NoError(t, err)

	p, err := New(g, reg)
	assert.NoError(t, err)

	f, root, err := p.Parse(context.Background(), []rune("if x"))
	assert.NoError(t, err)
	tr := forest.FirstTree(f, root)
	assert.Len(t, tr.Children, 2)
	assert.Equal(t, "if", tr.Children[0].Value)
	assert.Equal(t, "x", tr.Children[1].Value)

	g2, reg2, err := surface.Load(`
IF = 'if';
ID = /[a-z]+/;
S = IF ID | ID ID;
`, "S")
	assert.NoError(t, err)
	p2, err := New(g2, reg2)
	assert.NoError(t, err)

	_, _, err = p2.Parse(context.Background(), []rune("ifx"))
	assert.Error(t, err)
	var parseErr *icerrors.ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Expected, "ID")
}

// Test_Scenario_EmptyProduction covers the fourth concrete scenario: left
// recursion through an EMPTY alternative parses "" as a bare EMPTY and
// "aa" as a nested L(L(L(EMPTY),a),a).
func Test_Scenario_EmptyProduction(t *testing.T) {
	g, reg, err := surface.Load(`
a = 'a';
L = L a | EMPTY;
`, "L")
	assert.NoError(t, err)

	p, err := New(g, reg)
	assert.NoError(t, err)

	f, root, err := p.Parse(context.Background(), []rune(""))
	assert.NoError(t, err)
	tr := forest.FirstTree(f, root)
	assert.Len(t, tr.Children, 1)
	assert.True(t, tr.Children[0].Terminal)

	f2, root2, err := p.Parse(context.Background(), []rune("aa"))
	assert.NoError(t, err)
	outer := forest.FirstTree(f2, root2)
	assert.Len(t, outer.Children, 2)
	inner := outer.Children[0]
	assert.Len(t, inner.Children, 2)
	innermost := inner.Children[0]
	assert.Len(t, innermost.Children, 1)
	assert.True(t, innermost.Children[0].Terminal)
}

// Test_Scenario_RhapsodyStyleHeaderObject covers the fifth concrete
// scenario: a header line followed by a brace-delimited object whose
// semicolon-separated properties are collected into a two-element list.
func Test_Scenario_RhapsodyStyleHeaderObject(t *testing.T) {
	g, reg, err := surface.Load(`
HEADERTEXT = /[A-Za-z ]+/;
ID = /[a-zA-Z_][a-zA-Z0-9_]*/;
NUMBER = /[0-9]+/;
STRVAL = /"[^"]*"/;

Model = HEADERTEXT Object;
Object = '{' ID PropList '}';
PropList = PropList ';' Prop | Prop;
Prop = '-' ID '=' Value;
Value = NUMBER | STRVAL;
`, "Model")
	assert.NoError(t, err)

	p, err := New(g, reg)
	assert.NoError(t, err)

	f, root, err := p.Parse(context.Background(), []rune("Header line\n{ id -prop = 1 ; -prop2 = \"x\" }"))
	assert.NoError(t, err)

	type prop struct{ name, value string }
	type object struct {
		id    string
		props []prop
	}

	propProd := prodByShape(t, p, "Prop", 4)
	propListSingle := prodByShape(t, p, "PropList", 1)
	var propListMulti int
	for _, pr := range p.Table().Grammar.Productions() {
		if p.Table().Grammar.Symbol(pr.LHS).Name == "PropList" && pr.Len() == 3 {
			propListMulti = pr.ID
		}
	}
	objectProd := prodByShape(t, p, "Object", 4)
	modelProd := prodByShape(t, p, "Model", 2)
	valueNum := -1
	valueStr := -1
	for _, pr := range p.Table().Grammar.Productions() {
		if p.Table().Grammar.Symbol(pr.LHS).Name != "Value" || pr.Len() != 1 {
			continue
		}
		switch p.Table().Grammar.Symbol(pr.RHS[0]).Name {
		case "NUMBER":
			valueNum = pr.ID
		case "STRVAL":
			valueStr = pr.ID
		}
	}

	actions := forest.ActionTable{
		valueNum: func(children []any) (any, error) { return children[0].(string), nil },
		valueStr: func(children []any) (any, error) { return children[0].(string), nil },
		propProd: func(children []any) (any, error) {
			return prop{name: children[1].(string), value: children[3].(string)}, nil
		},
		propListSingle: func(children []any) (any, error) {
			return []prop{children[0].(prop)}, nil
		},
		propListMulti: func(children []any) (any, error) {
			list := children[0].([]prop)
			return append(list, children[2].(prop)), nil
		},
		objectProd: func(children []any) (any, error) {
			return object{id: children[1].(string), props: children[2].([]prop)}, nil
		},
		modelProd: func(children []any) (any, error) {
			return children[1], nil
		},
	}

	tr := forest.FirstTree(f, root)
	v, err := forest.InvokeActions(tr, actions)
	assert.NoError(t, err)
	obj := v.(object)
	assert.Equal(t, "id", obj.id)
	assert.Len(t, obj.props, 2)
}

// Test_Scenario_DanglingElse covers the sixth concrete scenario: GLR keeps
// both readings of iixex, while LR with prefer_shifts collapses to the
// inner-binding reading.
func Test_Scenario_DanglingElse(t *testing.T) {
	src := `
i = 'i';
e = 'e';
x = 'x';
S = i S e S | i S | x;
`
	gGLR, regGLR, err := surface.Load(src, "S")
	assert.NoError(t, err)
	pGLR, err := New(gGLR, regGLR, WithGLR(true))
	assert.NoError(t, err)

	f, roots, err := pGLR.ParseGLR(context.Background(), []rune("iixex"))
	assert.NoError(t, err)
	assert.Len(t, roots, 1)
	assert.True(t, f.Ambiguous(roots[0]))
	assert.Len(t, f.Alternatives(roots[0]), 2)

	gLR, regLR, err := surface.Load(src, "S")
	assert.NoError(t, err)
	pLR, err := New(gLR, regLR, WithPreferShifts(true))
	assert.NoError(t, err)

	fLR, root, err := pLR.Parse(context.Background(), []rune("iixex"))
	assert.NoError(t, err)
	assert.False(t, fLR.Ambiguous(root))

	// the inner "i" should own the "e": the outer S's second child (after
	// shift-preference collapses the derivation) should itself be an
	// i-S-e-S production, not a bare "i S" with the else dangling further
	// out.
	tr := forest.FirstTree(fLR, root)
	assert.Len(t, tr.Children, 2)
	assert.Equal(t, 4, len(tr.Children[1].Children), "inner stmt should be the full i S e S form")
}
