package forest

import "fmt"

// Action is a user-supplied semantic action invoked once per production
// during InvokeActions, in the style of dekarrin/tunaq's
// internal/ictiobus/trans syntax-directed translation hooks: it receives
// the already-reduced values of its children and returns this node's
// value.
type Action func(children []any) (any, error)

// ActionTable maps a production ID to the Action that reduces it.
// Terminals need no action; their value is their matched text.
type ActionTable map[int]Action

// InvokeActions walks a single disambiguated Tree post-order, applying
// table's Action for each non-terminal node's production and returning the
// root's computed value. It is an error for the tree to contain a
// production with no registered action.
//
// Ambiguous forest nodes must be resolved to a single Tree (see
// forest.FirstTree or a caller-supplied disambiguation) before calling
// this: semantic actions have no principled way to run over more than one
// alternative at once.
func InvokeActions(t Tree, table ActionTable) (any, error) {
	if t.Terminal {
		return t.Value, nil
	}

	children := make([]any, len(t.Children))
	for i, c := range t.Children {
		v, err := InvokeActions(c, table)
		if err != nil {
			return nil, err
		}
		children[i] = v
	}

	action, ok := table[t.Production]
	if !ok {
		return nil, fmt.Errorf("forest: no action registered for production %d", t.Production)
	}
	return action(children)
}
