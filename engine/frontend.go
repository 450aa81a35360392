package engine

import (
	"context"
	"fmt"
	"io"
	"reflect"

	"github.com/dekarrin/scanforest/forest"
)

// Frontend is a complete input-to-intermediate-representation pipeline:
// recognize -> parse -> forest.InvokeActions, generalizing
// dekarrin/tunaq's lex -> parse -> SDT-evaluate Frontend[E].
type Frontend[E any] struct {
	Parser  *Parser
	Actions forest.ActionTable
}

// AnalyzeString is Analyze for a string input.
func (fe *Frontend[E]) AnalyzeString(s string) (ir E, err error) {
	return fe.Analyze(context.Background(), []rune(s))
}

// Analyze runs the full pipeline over input and type-asserts the computed
// root value to E.
func (fe *Frontend[E]) Analyze(ctx context.Context, input []rune) (ir E, err error) {
	f, root, err := fe.Parser.Parse(ctx, input)
	if err != nil {
		return ir, err
	}

	tree := forest.FirstTree(f, root)
	val, err := forest.InvokeActions(tree, fe.Actions)
	if err != nil {
		return ir, err
	}

	return castResult[E](val)
}

// AnalyzeReader reads r fully, then runs Analyze.
func (fe *Frontend[E]) AnalyzeReader(ctx context.Context, r io.Reader) (ir E, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ir, err
	}
	return fe.Analyze(ctx, []rune(string(data)))
}

func castResult[E any](v any) (E, error) {
	var zero E
	cast, ok := v.(E)
	if !ok {
		return zero, fmt.Errorf("expected final attribute to be of type %q, but result was of type %q",
			reflect.TypeOf(zero), reflect.TypeOf(v))
	}
	return cast, nil
}
