// Package forest implements the shared-packed parse forest of spec §3/§4.G:
// terminal nodes, non-terminal nodes carrying one or more packed
// alternatives, deduplicated so that sub-derivations of the same symbol
// over the same input span are shared rather than duplicated.
//
// Grounded conceptually on dekarrin/tunaq's internal/ictiobus/types/tree.go
// (the teacher's single-tree ParseTree, the ancestor this generalizes into
// a DAG of packed alternatives) and on spec §9's "arena-allocated nodes
// with integer handles" design note.
package forest

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// Node is an arena handle into a Forest. NoNode (-1) is never a valid
// handle.
type Node int32

// NoNode is the invalid Node handle.
const NoNode Node = -1

// Span is the [Start, End) input range a node covers, in recognizer
// positions (runes, matching package recognize).
type Span struct {
	Start, End int
}

// Alt is one packed alternative of a non-terminal node: the production
// that produced it and its children, in RHS order, per spec §3's forest
// node invariant ("the concatenation of its children's spans equals
// (start, end)").
type Alt struct {
	Production int
	Children   []Node
}

type kind uint8

const (
	kindTerminal kind = iota
	kindNonTerminal
)

type record struct {
	kind   kind
	symbol int // terminal id, or non-terminal symbol id
	span   Span
	value  string // terminal only
	alts   []Alt  // non-terminal only
}

// Forest is the arena owning every node created during one parse. It is
// not safe for concurrent use, matching spec §5's single-threaded,
// non-reentrant parser instance.
type Forest struct {
	nodes    []record
	ntIndex  map[ntKey]Node
	altSeen  map[Node]map[[16]byte]struct{}
}

type ntKey struct {
	symbol     int
	start, end int
}

// New returns an empty Forest.
func New() *Forest {
	return &Forest{
		ntIndex: make(map[ntKey]Node),
		altSeen: make(map[Node]map[[16]byte]struct{}),
	}
}

// AddTerminal creates a new terminal forest node on every call; it does not
// look for an existing node with the same symbol and span.
func (f *Forest) AddTerminal(terminal int, span Span, value string) Node {
	// terminal nodes at a given (symbol, span) are always identical by
	// construction (the recognizer is pure), so no extra dedup bookkeeping
	// is needed beyond what the caller already guarantees by re-using
	// whatever node it built for a shared shift in GLR mode.
	f.nodes = append(f.nodes, record{kind: kindTerminal, symbol: terminal, span: span, value: value})
	return Node(len(f.nodes) - 1)
}

// AddNonTerminal returns the (possibly pre-existing) non-terminal node for
// symbol spanning span, packing (prod, children) into it as a new
// alternative unless that exact (production, child-identity) tuple is
// already present — the shared-packed dedup invariant of spec §3/§9.
func (f *Forest) AddNonTerminal(symbol int, span Span, prod int, children []Node) Node {
	key := ntKey{symbol: symbol, start: span.Start, end: span.End}
	node, ok := f.ntIndex[key]
	if !ok {
		f.nodes = append(f.nodes, record{kind: kindNonTerminal, symbol: symbol, span: span})
		node = Node(len(f.nodes) - 1)
		f.ntIndex[key] = node
	}

	altHash := hashAlt(prod, children)
	seen := f.altSeen[node]
	if seen == nil {
		seen = make(map[[16]byte]struct{})
		f.altSeen[node] = seen
	}
	if _, dup := seen[altHash]; dup {
		return node
	}
	seen[altHash] = struct{}{}

	rec := f.nodes[node]
	rec.alts = append(rec.alts, Alt{Production: prod, Children: append([]Node(nil), children...)})
	f.nodes[node] = rec
	return node
}

func hashAlt(prod int, children []Node) [16]byte {
	h, _ := blake2b.New(16, nil)
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(prod))
	h.Write(buf[:])
	for _, c := range children {
		binary.LittleEndian.PutUint32(buf[:], uint32(c))
		h.Write(buf[:])
	}
	var out [16]byte
	copy(out[:], h.Sum(nil))
	return out
}

// IsTerminal reports whether n is a terminal node.
func (f *Forest) IsTerminal(n Node) bool {
	return f.nodes[n].kind == kindTerminal
}

// Symbol returns the terminal or non-terminal symbol ID of n.
func (f *Forest) Symbol(n Node) int {
	return f.nodes[n].symbol
}

// Span returns the input span n covers.
func (f *Forest) Span(n Node) Span {
	return f.nodes[n].span
}

// Value returns the matched text of a terminal node; it panics if n is not
// a terminal node.
func (f *Forest) Value(n Node) string {
	rec := f.nodes[n]
	if rec.kind != kindTerminal {
		panic("forest: Value called on non-terminal node")
	}
	return rec.value
}

// Alternatives returns the packed alternatives of a non-terminal node; it
// panics if n is a terminal node.
func (f *Forest) Alternatives(n Node) []Alt {
	rec := f.nodes[n]
	if rec.kind != kindNonTerminal {
		panic("forest: Alternatives called on terminal node")
	}
	return rec.alts
}

// Ambiguous reports whether n is a non-terminal node with more than one
// packed alternative — a local ambiguity per spec §4.F.
func (f *Forest) Ambiguous(n Node) bool {
	rec := f.nodes[n]
	return rec.kind == kindNonTerminal && len(rec.alts) > 1
}
