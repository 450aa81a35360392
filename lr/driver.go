// Package lr implements the deterministic, scannerless LR driver of spec
// §4.E: Algorithm 4.44 from the purple dragon book, generalized so the
// "next token" is recognized on demand from the raw input via package
// recognize instead of being pulled from a pre-built token stream.
//
// Grounded on dekarrin/tunaq's internal/ictiobus/parse/lr.go (lrParser.Parse
// is Algorithm 4.44 verbatim; this keeps its state-stack/shift/reduce/accept
// structure and generalizes token acquisition and tree-building).
package lr

import (
	"context"
	"log"
	"sort"

	"github.com/dekarrin/scanforest/forest"
	"github.com/dekarrin/scanforest/grammar"
	"github.com/dekarrin/scanforest/icerrors"
	"github.com/dekarrin/scanforest/internal/collect"
	"github.com/dekarrin/scanforest/recognize"
	"github.com/dekarrin/scanforest/table"
)

// Driver is a deterministic LR(1)/LALR/SLR parser bound to one compiled
// Table and recognizer Registry. A Driver is reusable across calls to
// Parse; each call is independent and not safe to run concurrently with
// another on the same Driver, matching spec §5's single-threaded parser
// instance.
type Driver struct {
	table    *table.Table
	registry *recognize.Registry
	layout   recognize.LayoutSkipper
	recovery RecoveryFunc
	debug    bool
}

// New builds a Driver from a compiled table and recognizer registry. layout
// defaults to recognize.DefaultLayout("") if nil.
func New(t *table.Table, reg *recognize.Registry, layout recognize.LayoutSkipper) *Driver {
	if layout == nil {
		layout = recognize.DefaultLayout("")
	}
	return &Driver{table: t, registry: reg, layout: layout}
}

// SetRecovery installs the error recovery hook of spec §6: when no viable
// token is found at some position, it is consulted for a later position to
// resume from instead of failing outright. A nil recovery (the default)
// means a ParseError always propagates.
func (d *Driver) SetRecovery(r RecoveryFunc) {
	d.recovery = r
}

// SetDebug enables per-action tracing to the standard logger, per spec §6's
// `debug` option.
func (d *Driver) SetDebug(enabled bool) {
	d.debug = enabled
}

// RecoveryDecision is what a RecoveryFunc returns: either a later position
// to resume scanning from, or GiveUp to let the original ParseError
// propagate.
type RecoveryDecision struct {
	NewPos int
	GiveUp bool
}

// RecoveryFunc implements spec §6's `recover(parser_state, input, position,
// expected_terminals)` hook.
type RecoveryFunc func(state int, input []rune, pos int, expected []string) RecoveryDecision

// DefaultRecovery is the builtin `skip_char` recovery of spec §6: it
// advances one code unit and reattempts, giving up only at end of input.
func DefaultRecovery(state int, input []rune, pos int, expected []string) RecoveryDecision {
	if pos >= len(input) {
		return RecoveryDecision{GiveUp: true}
	}
	return RecoveryDecision{NewPos: pos + 1}
}

type token struct {
	terminal int
	match    recognize.Match
	start    int
}

// Parse runs the deterministic LR algorithm over input, returning the root
// forest node of the single derivation found, or an error: an
// *icerrors.ParseError if no viable next token exists at some position, an
// *icerrors.DisambiguationError if the recognizer can't resolve which
// terminal matched (ambiguous scannerless lexing is only tolerated in GLR
// mode, see package glr), or icerrors.ErrCancelled if ctx is done.
func (d *Driver) Parse(ctx context.Context, input []rune) (*forest.Forest, forest.Node, error) {
	f := forest.New()

	stateStack := collect.Stack[int]{}
	stateStack.Push(d.table.Start)
	nodeStack := collect.Stack[forest.Node]{}

	eoi, _ := d.table.Grammar.SymbolByName(grammar.EndOfInput)

	pos := 0
	pos += d.layout(input, pos)

	tok, err := d.next(input, pos, stateStack.Peek(), false)
	if err != nil {
		return nil, forest.NoNode, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, forest.NoNode, icerrors.ErrCancelled
		}

		s := stateStack.Peek()
		actions := d.table.ActionsFor(s, tok.terminal)
		if len(actions) == 0 {
			return nil, forest.NoNode, d.unexpected(input, tok, s)
		}
		action := actions[0]

		if d.debug {
			log.Printf("lr: state %d, lookahead %q -> %s", s, d.table.Grammar.Symbol(tok.terminal).Name, action.String())
		}

		switch action.Kind {
		case table.Shift:
			n := f.AddTerminal(tok.terminal, forest.Span{Start: tok.start, End: tok.start + tok.match.Length}, tok.match.Value)
			nodeStack.Push(n)
			stateStack.Push(action.State)

			pos = tok.start + tok.match.Length
			pos += d.layout(input, pos)
			tok, err = d.next(input, pos, action.State, false)
			if err != nil {
				return nil, forest.NoNode, err
			}

		case table.Reduce:
			p := d.table.Grammar.Production(action.Prod)
			children := nodeStack.PopN(p.Len())
			var start, end int
			if len(children) == 0 {
				start, end = tok.start, tok.start
			} else {
				start = f.Span(children[0]).Start
				end = f.Span(children[len(children)-1]).End
			}
			stateStack.PopN(p.Len())

			t := stateStack.Peek()
			target, ok := d.table.GotoFor(t, p.LHS)
			if !ok {
				return nil, forest.NoNode, d.unexpected(input, tok, t)
			}

			n := f.AddNonTerminal(p.LHS, forest.Span{Start: start, End: end}, action.Prod, children)
			nodeStack.Push(n)
			stateStack.Push(target)

		case table.Accept:
			_ = eoi
			nodeStack.Pop() // the just-shifted $ sentinel, not the derivation root
			return f, nodeStack.Peek(), nil

		default:
			return nil, forest.NoNode, d.unexpected(input, tok, s)
		}
	}
}

// next recognizes the single winning token at pos given the terminals
// viable from state s. Every call in package lr passes glr=false; package
// glr does its own recognition (session.recognizeAt) with forking enabled.
func (d *Driver) next(input []rune, pos int, s int, glr bool) (token, error) {
	var candidates []recognize.Candidate
	for _, term := range d.table.Grammar.Terminals() {
		if len(d.table.ActionsFor(s, term)) == 0 {
			continue
		}
		rec, ok := d.registry.RecognizerFor(term)
		if !ok {
			continue
		}
		if m, ok := rec(input, pos); ok {
			candidates = append(candidates, recognize.Candidate{Terminal: term, Match: m})
		}
	}

	outcome, winner, tied := recognize.Select(d.registry, candidates, glr)
	switch outcome {
	case recognize.OutcomeSingle:
		return token{terminal: winner.Terminal, match: winner.Match, start: pos}, nil
	case recognize.OutcomeNone:
		if d.recovery != nil {
			expected := d.expectedNames(s)
			decision := d.recovery(s, input, pos, expected)
			if !decision.GiveUp && decision.NewPos > pos {
				newPos := decision.NewPos + d.layout(input, decision.NewPos)
				return d.next(input, newPos, s, glr)
			}
		}
		return token{}, d.noViableToken(input, pos, s)
	case recognize.OutcomeAmbiguous:
		names := make([]string, len(tied))
		for i, c := range tied {
			names[i] = d.table.Grammar.Symbol(c.Terminal).Name
		}
		sort.Strings(names)
		return token{}, &icerrors.DisambiguationError{
			Pos:        recognize.LocatePosition(input, pos),
			Candidates: names,
		}
	default: // OutcomeFork: only package glr should ever see this
		return token{}, d.noViableToken(input, pos, s)
	}
}

func (d *Driver) noViableToken(input []rune, pos int, s int) error {
	return &icerrors.ParseError{
		Pos:      recognize.LocatePosition(input, pos),
		Expected: d.expectedNames(s),
		Snippet:  recognize.Snippet(input, pos),
	}
}

func (d *Driver) unexpected(input []rune, tok token, s int) error {
	return &icerrors.ParseError{
		Pos:      recognize.LocatePosition(input, tok.start),
		Expected: d.expectedNames(s),
		Snippet:  recognize.Snippet(input, tok.start),
	}
}

func (d *Driver) expectedNames(s int) []string {
	var names []string
	for _, term := range d.table.Grammar.Terminals() {
		if len(d.table.ActionsFor(s, term)) > 0 {
			names = append(names, d.table.Grammar.Symbol(term).Name)
		}
	}
	sort.Strings(names)
	return names
}
