package surface

import (
	"fmt"
	"strconv"

	"github.com/dekarrin/scanforest/grammar"
)

// Parse reads a complete surface grammar source and returns its AST, or a
// *icerrors.GrammarError-wrapping error on malformed input (wrapping is
// done by Build/Load, not here, since syntax errors here are not yet
// attributable to a specific grammar symbol).
func Parse(src string) (*File, error) {
	lx := newLexer(src)
	var toks []tok
	for {
		t, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.kind == tokEOF {
			break
		}
	}

	p := &parser{toks: toks}
	f := &File{}
	for p.cur().kind != tokEOF {
		if err := p.declaration(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

type parser struct {
	toks      []tok
	pos       int
	lastFlags []string
}

func (p *parser) cur() tok  { return p.toks[p.pos] }
func (p *parser) advance() tok {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k tokKind, what string) (tok, error) {
	t := p.cur()
	if t.kind != k {
		return tok{}, fmt.Errorf("surface: expected %s at line %d, column %d, found %q", what, t.line, t.col, t.text)
	}
	return p.advance(), nil
}

// declaration parses one top-level `NAME (= | :) ... ;` statement and
// appends it to f as either a TerminalDecl or a ProductionDecl.
func (p *parser) declaration(f *File) error {
	nameTok, err := p.expect(tokIdent, "a declaration name")
	if err != nil {
		return err
	}

	usesColon := false
	switch p.cur().kind {
	case tokEquals:
		p.advance()
	case tokColon:
		usesColon = true
		p.advance()
	default:
		return fmt.Errorf("surface: expected '=' or ':' after %q at line %d, column %d", nameTok.text, p.cur().line, p.cur().col)
	}

	// Lookahead: a single REGEX token, or a single STRING token with '='
	// and no alternation, is a terminal declaration. Everything else
	// (idents in the rhs, multiple alternatives, or ':') is a production.
	if !usesColon && p.cur().kind == tokRegex {
		return p.terminalDecl(f, nameTok.text, true)
	}
	if !usesColon && p.cur().kind == tokString && p.peekIsEndOfSingleAlt() {
		return p.terminalDecl(f, nameTok.text, false)
	}

	return p.productionDecl(f, nameTok.text)
}

// peekIsEndOfSingleAlt reports whether, starting from the current STRING
// token, the declaration ends (optionally after a brace group) without a
// second rhs symbol or a '|' — the terminal-declaration shape.
func (p *parser) peekIsEndOfSingleAlt() bool {
	i := p.pos + 1
	if i < len(p.toks) && p.toks[i].kind == tokBraceL {
		for i < len(p.toks) && p.toks[i].kind != tokBraceR {
			i++
		}
		i++ // consume '}'
	}
	return i < len(p.toks) && p.toks[i].kind == tokSemi
}

func (p *parser) terminalDecl(f *File, name string, isRegex bool) error {
	pat := p.advance()
	decl := TerminalDecl{Name: name, Pattern: pat.text, IsRegex: isRegex}
	if p.cur().kind == tokBraceL {
		flags, priority, _, prefer, _, _, _, err := p.braceGroup()
		if err != nil {
			return err
		}
		_ = flags
		decl.Priority = priority
		decl.Prefer = prefer
	}
	if _, err := p.expect(tokSemi, "';'"); err != nil {
		return err
	}
	f.Terminals = append(f.Terminals, decl)
	return nil
}

func (p *parser) productionDecl(f *File, lhs string) error {
	decl := ProductionDecl{LHS: lhs}
	for {
		alt, err := p.alternative()
		if err != nil {
			return err
		}
		decl.Alts = append(decl.Alts, alt)
		if p.cur().kind == tokPipe {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(tokSemi, "';'"); err != nil {
		return err
	}
	f.Productions = append(f.Productions, decl)
	return nil
}

func (p *parser) alternative() (Alt, error) {
	var alt Alt
	for p.cur().kind == tokIdent || p.cur().kind == tokString {
		t := p.advance()
		if t.kind == tokString {
			alt.RHS = append(alt.RHS, RHSSymbol{Name: t.text, IsLiteral: true})
		} else {
			alt.RHS = append(alt.RHS, RHSSymbol{Name: t.text})
		}
	}
	if p.cur().kind == tokBraceL {
		_, priority, hasPriority, prefer, dynamic, nops, nopse, err := p.braceGroup()
		if err != nil {
			return Alt{}, err
		}
		alt.Priority = priority
		alt.HasPriority = hasPriority
		alt.Prefer = prefer
		alt.Dynamic = dynamic
		alt.NoPreLayout = nops
		alt.NoPostLayout = nopse
		for _, fl := range p.lastFlags {
			switch fl {
			case "left":
				alt.Assoc = grammar.AssocLeft
			case "right":
				alt.Assoc = grammar.AssocRight
			}
		}
	}
	return alt, nil
}

// braceGroup parses a `{...}` flag group and also stashes any bareword
// flags it saw into p.lastFlags, since associativity needs to be read back
// by alternative() without widening this function's already-wide return
// signature further.
func (p *parser) braceGroup() (flags []string, priority int, hasPriority bool, prefer, dynamic, nops, nopse bool, err error) {
	if _, err = p.expect(tokBraceL, "'{'"); err != nil {
		return
	}
	p.lastFlags = p.lastFlags[:0]
	for p.cur().kind != tokBraceR {
		t := p.cur()
		switch t.kind {
		case tokNumber:
			n, convErr := strconv.Atoi(t.text)
			if convErr != nil {
				err = fmt.Errorf("surface: invalid priority %q at line %d, column %d", t.text, t.line, t.col)
				return
			}
			priority = n
			hasPriority = true
			p.advance()
		case tokIdent:
			switch t.text {
			case "prefer":
				prefer = true
			case "dynamic":
				dynamic = true
			case "nops":
				nops = true
			case "nopse":
				nopse = true
			case "finish", "nofinish":
				// accepted and recorded as a flag; no driver currently
				// consults per-production finish/nofinish (spec §6 lists
				// it for the bootstrap parser's own use, not the table
				// builder).
			case "left", "right":
				// associativity, picked up by the caller via lastFlags
			default:
				err = fmt.Errorf("surface: unknown flag %q at line %d, column %d", t.text, t.line, t.col)
				return
			}
			flags = append(flags, t.text)
			p.lastFlags = append(p.lastFlags, t.text)
			p.advance()
		case tokComma:
			p.advance()
		default:
			err = fmt.Errorf("surface: unexpected token %q in brace group at line %d, column %d", t.text, t.line, t.col)
			return
		}
	}
	p.advance() // consume '}'
	return
}
