package forest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_InvokeActions_Terminal(t *testing.T) {
	tr := Tree{Terminal: true, Value: "42"}
	v, err := InvokeActions(tr, nil)
	assert.NoError(t, err)
	assert.Equal(t, "42", v)
}

func Test_InvokeActions_CountsChildren(t *testing.T) {
	tr := Tree{
		Production: 1,
		Children: []Tree{
			{Terminal: true, Value: "2"},
			{Terminal: true, Value: "3"},
		},
	}
	table := ActionTable{
		1: func(children []any) (any, error) {
			return len(children), nil
		},
	}

	v, err := InvokeActions(tr, table)
	assert.NoError(t, err)
	assert.Equal(t, 2, v)
}

func Test_InvokeActions_MissingAction(t *testing.T) {
	tr := Tree{Production: 99}
	_, err := InvokeActions(tr, ActionTable{})
	assert.Error(t, err)
}

func Test_InvokeActions_PropagatesChildError(t *testing.T) {
	inner := Tree{
		Production: 2,
		Children:   []Tree{{Terminal: true, Value: "x"}},
	}
	outer := Tree{
		Production: 1,
		Children:   []Tree{inner},
	}
	outerRan := false
	table := ActionTable{
		2: func(children []any) (any, error) {
			return nil, assert.AnError
		},
		1: func(children []any) (any, error) {
			outerRan = true
			return nil, nil
		},
	}

	_, err := InvokeActions(outer, table)
	assert.Error(t, err)
	assert.False(t, outerRan, "outer action should not run when a child errors")
}
