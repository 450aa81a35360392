// Package glr implements the Generalized LR driver of spec §4.F: a
// non-deterministic parser running over a Graph-Structured Stack (GSS),
// performing reductions to a fixed point between shift phases and packing
// local ambiguities into the shared parse forest (package forest).
//
// There is no teacher equivalent (ictiobus has only a deterministic LR
// driver, package lr's direct ancestor); this package is built from spec
// §4.F/§9 directly, reusing dekarrin/tunaq's internal/ictiobus/automaton
// worklist idiom (a pending-work slice drained until empty, each iteration
// possibly enqueueing more work) for the reduction-to-fixed-point phase,
// and its arena-of-integer-handles idiom for the GSS itself.
package glr

import "github.com/dekarrin/scanforest/forest"

// edge is one GSS edge: it points backward from a node to a predecessor,
// carrying the forest node recognized along that step.
type edge struct {
	pred  int
	label forest.Node
}

// gssNode is one node of the graph-structured stack: (state, position),
// per spec §3. No two live nodes in a session ever share (state, position);
// session.mergeNode enforces this.
type gssNode struct {
	state int
	pos   int
	edges []edge
}

type gssKey struct {
	state, pos int
}

// pathResult is one backward walk of exactly k edges from some starting
// node: the node reached after popping k edges (tail), and the k forest
// node labels collected along the way, in left-to-right RHS order.
type pathResult struct {
	tail     int
	children []forest.Node
}

// collectPaths enumerates every distinct backward path of exactly k edges
// starting at nodeID, per spec §4.F's reduction phase ("for every path of
// length |rhs(P)| backwards through the GSS from head"). A production of
// length 0 yields exactly one path: tail == nodeID, no children.
func (s *session) collectPaths(nodeID int, k int) []pathResult {
	if k == 0 {
		return []pathResult{{tail: nodeID}}
	}
	n := s.nodes[nodeID]
	var out []pathResult
	for _, e := range n.edges {
		for _, sub := range s.collectPaths(e.pred, k-1) {
			children := make([]forest.Node, len(sub.children)+1)
			copy(children, sub.children)
			children[len(sub.children)] = e.label
			out = append(out, pathResult{tail: sub.tail, children: children})
		}
	}
	return out
}

// mergeNode returns the GSS node at (state, pos), creating it if it does
// not yet exist, and adds an edge from it back to pred carrying label
// unless an identical (pred, label) edge is already present — the
// "pack the new alternative into the existing forest node rather than
// adding a duplicate" rule of spec §4.F. It reports whether the node was
// newly created.
func (s *session) mergeNode(state, pos, pred int, label forest.Node) (int, bool) {
	key := gssKey{state: state, pos: pos}
	id, exists := s.index[key]
	if !exists {
		s.nodes = append(s.nodes, gssNode{state: state, pos: pos})
		id = len(s.nodes) - 1
		s.index[key] = id
		s.frontierHeads[pos] = append(s.frontierHeads[pos], id)
	}

	for _, e := range s.nodes[id].edges {
		if e.pred == pred && e.label == label {
			return id, !exists
		}
	}
	s.nodes[id].edges = append(s.nodes[id].edges, edge{pred: pred, label: label})
	return id, !exists
}
