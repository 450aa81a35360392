package lr

import (
	"context"
	"testing"

	"github.com/dekarrin/scanforest/forest"
	"github.com/dekarrin/scanforest/grammar"
	"github.com/dekarrin/scanforest/icerrors"
	"github.com/dekarrin/scanforest/recognize"
	"github.com/dekarrin/scanforest/table"
	"github.com/stretchr/testify/assert"
)

// buildArithParser assembles a small left-recursive arithmetic grammar
//
//	expr   -> expr PLUS term | term
//	term   -> term STAR factor | factor
//	factor -> LPAREN expr RPAREN | NUM
//
// with NUM a regex of one or more digits and the operators/parens string
// literals, wired through a compiled table and recognizer registry so the
// driver can be exercised end-to-end.
func buildArithParser(t *testing.T, mode table.Mode) (*Driver, *table.Table) {
	t.Helper()

	var g grammar.Grammar
	g.AddTerm("PLUS", 1)
	g.AddTerm("STAR", 2)
	g.AddTerm("LPAREN", 0)
	g.AddTerm("RPAREN", 0)
	g.AddTerm("NUM", 0)

	g.AddProduction("expr", []string{"expr", "PLUS", "term"}, 0, false, grammar.AssocLeft, false, false)
	g.AddProduction("expr", []string{"term"}, 0, false, grammar.AssocNone, false, false)
	g.AddProduction("term", []string{"term", "STAR", "factor"}, 0, false, grammar.AssocLeft, false, false)
	g.AddProduction("term", []string{"factor"}, 0, false, grammar.AssocNone, false, false)
	g.AddProduction("factor", []string{"LPAREN", "expr", "RPAREN"}, 0, false, grammar.AssocNone, false, false)
	g.AddProduction("factor", []string{"NUM"}, 0, false, grammar.AssocNone, false, false)
	g.SetStart("expr")

	reg := recognize.NewRegistry()
	plus, _ := g.SymbolByName("PLUS")
	star, _ := g.SymbolByName("STAR")
	lparen, _ := g.SymbolByName("LPAREN")
	rparen, _ := g.SymbolByName("RPAREN")
	num, _ := g.SymbolByName("NUM")

	reg.Register(plus.ID, recognize.Literal("+"), recognize.KindLiteral, false)
	reg.Register(star.ID, recognize.Literal("*"), recognize.KindLiteral, false)
	reg.Register(lparen.ID, recognize.Literal("("), recognize.KindLiteral, false)
	reg.Register(rparen.ID, recognize.Literal(")"), recognize.KindLiteral, false)
	numRec, err := recognize.Regex(`[0-9]+`)
	assert.NoError(t, err)
	reg.Register(num.ID, numRec, recognize.KindRegex, false)

	tbl, err := table.Build(&g, table.Options{Mode: mode})
	assert.NoError(t, err)

	eoi, _ := tbl.Grammar.SymbolByName(grammar.EndOfInput)
	reg.Register(eoi.ID, recognize.EndOfInput, recognize.KindOther, false)

	return New(tbl, reg, recognize.DefaultLayout("\t\n ")), tbl
}

func Test_Driver_Parse_SimpleAddition(t *testing.T) {
	d, _ := buildArithParser(t, table.ModeLALR)

	fst, root, err := d.Parse(context.Background(), []rune("1 + 2"))
	assert.NoError(t, err)
	assert.NotEqual(t, forest.NoNode, root)
	assert.False(t, fst.Ambiguous(root))
}

func Test_Driver_Parse_PrecedenceGroupsMultiplicationTighter(t *testing.T) {
	d, tbl := buildArithParser(t, table.ModeLALR)

	f, root, err := d.Parse(context.Background(), []rune("1+2*3"))
	assert.NoError(t, err)

	plusProd := -1
	for _, p := range tbl.Grammar.Productions() {
		if tbl.Grammar.Symbol(p.LHS).Name == "expr" && p.Len() == 3 {
			plusProd = p.ID
		}
	}
	alts := f.Alternatives(root)
	assert.Len(t, alts, 1)
	assert.Equal(t, plusProd, alts[0].Production, "top-level node should be the PLUS production, not STAR")
}

func Test_Driver_Parse_Parentheses(t *testing.T) {
	d, _ := buildArithParser(t, table.ModeLALR)

	_, root, err := d.Parse(context.Background(), []rune("(1 + 2) * 3"))
	assert.NoError(t, err)
	assert.NotEqual(t, forest.NoNode, root)
}

func Test_Driver_Parse_UnexpectedToken(t *testing.T) {
	d, _ := buildArithParser(t, table.ModeLALR)

	_, _, err := d.Parse(context.Background(), []rune("1 +"))
	assert.Error(t, err)
	var parseErr *icerrors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func Test_Driver_Parse_NoViableTokenWithoutRecovery(t *testing.T) {
	d, _ := buildArithParser(t, table.ModeLALR)

	_, _, err := d.Parse(context.Background(), []rune("1 @ 2"))
	assert.Error(t, err)
}

func Test_Driver_Parse_SkipCharRecoveryResumes(t *testing.T) {
	d, _ := buildArithParser(t, table.ModeLALR)
	d.SetRecovery(DefaultRecovery)

	// the stray '@' sits where a PLUS is expected next; skip_char recovery
	// should discard it and resume scanning right at the '+'.
	_, root, err := d.Parse(context.Background(), []rune("1@+2"))
	assert.NoError(t, err)
	assert.NotEqual(t, forest.NoNode, root)
}

func Test_Driver_Parse_CancelledContext(t *testing.T) {
	d, _ := buildArithParser(t, table.ModeLALR)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := d.Parse(ctx, []rune("1 + 2"))
	assert.ErrorIs(t, err, icerrors.ErrCancelled)
}

func Test_DefaultRecovery_GivesUpAtEndOfInput(t *testing.T) {
	decision := DefaultRecovery(0, []rune("ab"), 2, nil)
	assert.True(t, decision.GiveUp)
}

func Test_DefaultRecovery_AdvancesOneRune(t *testing.T) {
	decision := DefaultRecovery(0, []rune("ab"), 0, nil)
	assert.False(t, decision.GiveUp)
	assert.Equal(t, 1, decision.NewPos)
}
