package forest

// Tree is one fully-disambiguated derivation pulled out of a Forest: every
// non-terminal has exactly one alternative chosen, recursively.
type Tree struct {
	Node       Node
	Symbol     int
	Terminal   bool
	Value      string
	Production int
	Span       Span
	Children   []Tree
}

// EnumerateTrees lazily walks every distinct disambiguation of root,
// calling yield once per Tree in depth-first, left-to-right alternative
// order. It stops as soon as yield returns false, so callers that only
// want the first tree (the common case once a GLR parse has chosen not to
// error on ambiguity) pay only for the work needed to produce it.
//
// A fully packed ambiguous forest can have an exponential number of trees;
// this is why the walk is push-based (yield) rather than building a slice
// up front, matching the lazy-enumeration idiom Go iterators use.
func EnumerateTrees(f *Forest, root Node, yield func(Tree) bool) bool {
	return f.enumerate(root, yield)
}

func (f *Forest) enumerate(n Node, yield func(Tree) bool) bool {
	rec := f.nodes[n]
	if rec.kind == kindTerminal {
		return yield(Tree{
			Node:     n,
			Symbol:   rec.symbol,
			Terminal: true,
			Value:    rec.value,
			Span:     rec.span,
		})
	}

	for _, alt := range rec.alts {
		if !f.enumerateAlt(n, rec.symbol, rec.span, alt, nil, 0, yield) {
			return false
		}
	}
	return true
}

// enumerateAlt fills in children[built:] by recursively enumerating each
// remaining child position's sub-forest, taking the cartesian product
// across children, and yields one Tree per combination.
func (f *Forest) enumerateAlt(n Node, symbol int, span Span, alt Alt, built []Tree, idx int, yield func(Tree) bool) bool {
	if idx == len(alt.Children) {
		children := make([]Tree, len(built))
		copy(children, built)
		return yield(Tree{
			Node:       n,
			Symbol:     symbol,
			Production: alt.Production,
			Span:       span,
			Children:   children,
		})
	}

	cont := true
	f.enumerate(alt.Children[idx], func(t Tree) bool {
		cont = f.enumerateAlt(n, symbol, span, alt, append(built, t), idx+1, yield)
		return cont
	})
	return cont
}

// FirstTree returns the first tree EnumerateTrees would produce for root,
// i.e. the derivation obtained by always taking each node's first packed
// alternative. Useful once GLR ambiguity has already been resolved by
// priority/associativity and only one alternative survives per node.
func FirstTree(f *Forest, root Node) Tree {
	var result Tree
	EnumerateTrees(f, root, func(t Tree) bool {
		result = t
		return false
	})
	return result
}
