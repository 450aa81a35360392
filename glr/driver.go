package glr

import (
	"context"
	"log"
	"sort"

	"github.com/dekarrin/scanforest/forest"
	"github.com/dekarrin/scanforest/icerrors"
	"github.com/dekarrin/scanforest/recognize"
	"github.com/dekarrin/scanforest/table"
)

// Parser is a GLR parser bound to one compiled Table and recognizer
// Registry, built in GLR mode (table.Options.GLR == true) so its ACTION
// cells may carry more than one candidate per (state, terminal).
type Parser struct {
	table    *table.Table
	registry *recognize.Registry
	layout   recognize.LayoutSkipper
	recovery RecoveryFunc
	debug    bool
}

// New builds a Parser from a compiled table and recognizer registry. layout
// defaults to recognize.DefaultLayout("") if nil.
func New(t *table.Table, reg *recognize.Registry, layout recognize.LayoutSkipper) *Parser {
	if layout == nil {
		layout = recognize.DefaultLayout("")
	}
	return &Parser{table: t, registry: reg, layout: layout}
}

// SetRecovery installs the error recovery hook of spec §6. Per spec §6, in
// GLR mode recovery is only consulted once the entire frontier has died out
// with no accept collected, not per-head.
func (p *Parser) SetRecovery(r RecoveryFunc) {
	p.recovery = r
}

// SetDebug enables per-frontier tracing to the standard logger, per spec
// §6's `debug` option.
func (p *Parser) SetDebug(enabled bool) {
	p.debug = enabled
}

// RecoveryDecision mirrors lr.RecoveryDecision for the GLR driver.
type RecoveryDecision struct {
	NewPos int
	GiveUp bool
}

// RecoveryFunc mirrors lr.RecoveryFunc for the GLR driver.
type RecoveryFunc func(state int, input []rune, pos int, expected []string) RecoveryDecision

// DefaultRecovery mirrors lr.DefaultRecovery.
func DefaultRecovery(state int, input []rune, pos int, expected []string) RecoveryDecision {
	if pos >= len(input) {
		return RecoveryDecision{GiveUp: true}
	}
	return RecoveryDecision{NewPos: pos + 1}
}

// session holds all per-parse state: the arena-owned GSS and forest, and
// the frontier bookkeeping that drives the position sweep.
type session struct {
	p       *Parser
	input   []rune
	forest  *forest.Forest
	nodes   []gssNode
	index   map[gssKey]int
	pending []int
	// frontierHeads[pos] holds every GSS node id created at position pos,
	// appended to as reductions and zero-width shifts add more.
	frontierHeads map[int][]int
	roots         []forest.Node
	rootsSeen     map[forest.Node]bool
}

// Parse runs the GLR algorithm of spec §4.F over input, returning the
// shared forest and its set of root nodes (usually one, packed with every
// valid derivation) or an error if no derivation was found or ctx was
// cancelled.
func (p *Parser) Parse(ctx context.Context, input []rune) (*forest.Forest, []forest.Node, error) {
	s := &session{
		p:             p,
		input:         input,
		forest:        forest.New(),
		index:         make(map[gssKey]int),
		frontierHeads: make(map[int][]int),
		rootsSeen:     make(map[forest.Node]bool),
	}

	startPos := 0
	startPos += p.layout(input, startPos)
	s.nodes = append(s.nodes, gssNode{state: p.table.Start, pos: startPos})
	s.index[gssKey{state: p.table.Start, pos: startPos}] = 0
	s.frontierHeads[startPos] = []int{0}
	s.pending = []int{startPos}

	var lastPos int
	for {
		for len(s.pending) > 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, icerrors.ErrCancelled
			}

			sort.Ints(s.pending)
			pos := s.pending[0]
			s.pending = s.pending[1:]
			lastPos = pos

			if p.debug {
				log.Printf("glr: processing frontier at position %d (%d live heads)", pos, len(s.frontierHeads[pos]))
			}
			s.processPosition(ctx, pos)
		}

		if len(s.roots) > 0 {
			return s.forest, s.roots, nil
		}

		if p.recovery == nil {
			break
		}
		decision := p.recovery(-1, input, lastPos, nil)
		if decision.GiveUp || decision.NewPos <= lastPos {
			break
		}

		newPos := decision.NewPos + p.layout(input, decision.NewPos)
		id := len(s.nodes)
		s.nodes = append(s.nodes, gssNode{state: p.table.Start, pos: newPos})
		s.index[gssKey{state: p.table.Start, pos: newPos}] = id
		s.frontierHeads[newPos] = append(s.frontierHeads[newPos], id)
		s.pending = []int{newPos}
	}

	return nil, nil, &icerrors.ParseError{
		Pos:     recognize.LocatePosition(input, lastPos),
		Snippet: recognize.Snippet(input, lastPos),
	}
}

// processPosition runs the reduction-fixed-point / accept / shift cycle of
// spec §4.F at pos, repeating it whenever the shift phase produces a
// zero-width match (an EOI or epsilon terminal) that adds a brand new head
// at the same position.
func (s *session) processPosition(ctx context.Context, pos int) {
	for {
		s.reduceFixedPoint(pos)
		addedSamePos := s.shiftPhase(ctx, pos)
		if !addedSamePos {
			return
		}
	}
}

type reduceKey struct {
	head, prod int
}

// reduceFixedPoint drains the reduction worklist for pos to completion:
// every completed item reachable from any live head at pos is reduced
// exactly once, with newly reached heads enqueued for the same treatment,
// per spec §4.F step 1.
func (s *session) reduceFixedPoint(pos int) {
	matched := s.recognizeAt(pos)
	if len(matched) == 0 {
		return
	}

	queue := append([]int(nil), s.frontierHeads[pos]...)
	queuedHead := make(map[int]bool, len(queue))
	for _, h := range queue {
		queuedHead[h] = true
	}
	processed := make(map[reduceKey]bool)

	for i := 0; i < len(queue); i++ {
		head := queue[i]
		state := s.nodes[head].state
		for _, m := range matched {
			for _, a := range s.p.table.ActionsFor(state, m.Terminal) {
				if a.Kind != table.Reduce {
					continue
				}
				key := reduceKey{head: head, prod: a.Prod}
				if processed[key] {
					continue
				}
				processed[key] = true

				for _, newHead := range s.reduce(pos, head, a.Prod) {
					if !queuedHead[newHead] {
						queuedHead[newHead] = true
						queue = append(queue, newHead)
					}
				}
			}
		}
	}

	for _, h := range queue {
		state := s.nodes[h].state
		for _, m := range matched {
			for _, a := range s.p.table.ActionsFor(state, m.Terminal) {
				if a.Kind == table.Accept {
					s.collectRoot(h)
				}
			}
		}
	}
}

// reduce performs every distinct path-length reduction of production prod
// rooted at head, merging or creating the resulting GSS node(s) at pos and
// packing the resulting forest alternative. It returns the ids of every
// node touched so the caller can fold them into the reduction worklist.
func (s *session) reduce(pos, head, prod int) []int {
	p := s.p.table.Grammar.Production(prod)
	k := p.Len()

	var touched []int
	for _, path := range s.collectPaths(head, k) {
		tailState := s.nodes[path.tail].state
		target, ok := s.p.table.GotoFor(tailState, p.LHS)
		if !ok {
			continue
		}

		var span forest.Span
		if k == 0 {
			span = forest.Span{Start: pos, End: pos}
		} else {
			span = forest.Span{
				Start: s.forest.Span(path.children[0]).Start,
				End:   s.forest.Span(path.children[k-1]).End,
			}
		}

		label := s.forest.AddNonTerminal(p.LHS, span, prod, path.children)
		id, _ := s.mergeNode(target, pos, path.tail, label)
		touched = append(touched, id)
	}
	return touched
}

type shiftTarget struct {
	head   int
	target int
}

type shiftKey struct {
	terminal int
	length   int
	value    string
}

// shiftPhase scans recognizers across every live head at pos, groups the
// resulting shifts by (terminal, length, value) per spec §4.F step 2,
// builds one shared terminal forest node per group, and merges a new GSS
// node per (group, target state). It reports whether any merge landed back
// at pos itself (a zero-width match), which requires another
// reduction/accept/shift round at the same position.
func (s *session) shiftPhase(ctx context.Context, pos int) bool {
	if err := ctx.Err(); err != nil {
		return false
	}

	matched := s.recognizeAt(pos)
	if len(matched) == 0 {
		return false
	}

	groups := make(map[shiftKey][]shiftTarget)
	for _, h := range s.frontierHeads[pos] {
		state := s.nodes[h].state
		for _, m := range matched {
			for _, a := range s.p.table.ActionsFor(state, m.Terminal) {
				if a.Kind != table.Shift {
					continue
				}
				key := shiftKey{terminal: m.Terminal, length: m.Match.Length, value: m.Match.Value}
				groups[key] = append(groups[key], shiftTarget{head: h, target: a.State})
			}
		}
	}

	addedSamePos := false
	for key, targets := range groups {
		end := pos + key.length
		label := s.forest.AddTerminal(key.terminal, forest.Span{Start: pos, End: end}, key.value)
		nextPos := end + s.p.layout(s.input, end)
		for _, t := range targets {
			_, created := s.mergeNode(t.target, nextPos, t.head, label)
			if created && nextPos == pos {
				addedSamePos = true
			}
		}
		if nextPos != pos {
			s.schedule(nextPos)
		}
	}
	return addedSamePos
}

// recognizeAt determines the matched terminal(s) at pos: the set of
// terminals with any non-error action in any live head's state there, run
// through the recognizer registry and spec §4.B's selection policy with
// GLR forking enabled, so a genuine lexical tie yields every tied
// candidate rather than a single winner.
func (s *session) recognizeAt(pos int) []recognize.Candidate {
	seenTerm := make(map[int]bool)
	var candidates []recognize.Candidate
	for _, h := range s.frontierHeads[pos] {
		state := s.nodes[h].state
		for _, term := range s.p.table.Grammar.Terminals() {
			if seenTerm[term] {
				continue
			}
			if len(s.p.table.ActionsFor(state, term)) == 0 {
				continue
			}
			seenTerm[term] = true
			rec, ok := s.p.registry.RecognizerFor(term)
			if !ok {
				continue
			}
			if m, ok := rec(s.input, pos); ok {
				candidates = append(candidates, recognize.Candidate{Terminal: term, Match: m})
			}
		}
	}

	outcome, winner, tied := recognize.Select(s.p.registry, candidates, true)
	switch outcome {
	case recognize.OutcomeSingle:
		return []recognize.Candidate{winner}
	case recognize.OutcomeFork:
		return tied
	default:
		return nil
	}
}

// collectRoot records the parse root(s) reachable through an Accept action
// fired at head. head is the state reached just after shifting the
// end-of-input marker, so its own edges carry that marker's (empty) forest
// node; the actual start-symbol derivation is one step further back, on
// head's predecessor's edges.
func (s *session) collectRoot(head int) {
	for _, e := range s.nodes[head].edges {
		pred := s.nodes[e.pred]
		for _, pe := range pred.edges {
			if !s.rootsSeen[pe.label] {
				s.rootsSeen[pe.label] = true
				s.roots = append(s.roots, pe.label)
			}
		}
	}
}

func (s *session) schedule(pos int) {
	for _, p := range s.pending {
		if p == pos {
			return
		}
	}
	s.pending = append(s.pending, pos)
}
