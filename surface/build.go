package surface

import (
	"fmt"

	"github.com/dekarrin/scanforest/grammar"
	"github.com/dekarrin/scanforest/icerrors"
	"github.com/dekarrin/scanforest/recognize"
)

// Load parses src as a surface grammar and builds the grammar.Grammar and
// recognize.Registry it describes, generalizing dekarrin/tunaq's
// ictiobus.go construction style (a frontend is built from a parsed
// definition, not assembled by hand call-by-call in application code).
// start is the declared start symbol name (spec §6's start_symbol option);
// if empty, the LHS of the first production declaration is used.
func Load(src string, start string) (*grammar.Grammar, *recognize.Registry, error) {
	f, err := Parse(src)
	if err != nil {
		return nil, nil, &icerrors.GrammarError{Message: err.Error()}
	}
	return Build(f, start)
}

// Build converts an already-parsed File into a grammar.Grammar and
// recognize.Registry.
func Build(f *File, start string) (*grammar.Grammar, *recognize.Registry, error) {
	g := &grammar.Grammar{}
	reg := recognize.NewRegistry()

	for _, td := range f.Terminals {
		id := g.AddTerm(td.Name, td.Priority)

		var r recognize.Recognizer
		kind := recognize.KindLiteral
		if td.IsRegex {
			var err error
			r, err = recognize.Regex(td.Pattern)
			if err != nil {
				return nil, nil, &icerrors.GrammarError{Message: fmt.Sprintf("terminal %q: %v", td.Name, err)}
			}
			kind = recognize.KindRegex
		} else {
			r = recognize.Literal(td.Pattern)
		}
		reg.Register(id, r, kind, td.Prefer)
	}

	// EMPTY is a built-in terminal recognized by recognize.Empty, not
	// declared via a terminal decl, per spec §6.
	if _, ok := g.SymbolByName(grammar.Empty); !ok {
		id := g.AddTerm(grammar.Empty, 0)
		reg.Register(id, recognize.Empty, recognize.KindOther, false)
	}

	literalTerms := make(map[string]int) // inline 'literal' rhs text -> terminal id, memoized across productions
	for _, pd := range f.Productions {
		for _, alt := range pd.Alts {
			rhsNames := make([]string, 0, len(alt.RHS))
			for _, sym := range alt.RHS {
				if !sym.IsLiteral {
					rhsNames = append(rhsNames, sym.Name)
					continue
				}
				id, ok := literalTerms[sym.Name]
				if !ok {
					name := fmt.Sprintf("%q", sym.Name)
					id = g.AddTerm(name, 0)
					reg.Register(id, recognize.Literal(sym.Name), recognize.KindLiteral, false)
					literalTerms[sym.Name] = id
				}
				rhsNames = append(rhsNames, g.Symbol(id).Name)
			}
			if len(alt.RHS) == 0 {
				rhsNames = []string{grammar.Empty}
			}
			g.AddProduction(pd.LHS, rhsNames, alt.Priority, alt.HasPriority, alt.Assoc, alt.Prefer, alt.Dynamic)
		}
	}

	startName := start
	if startName == "" {
		if len(f.Productions) == 0 {
			return nil, nil, &icerrors.GrammarError{Message: "no productions declared"}
		}
		startName = f.Productions[0].LHS
	}
	g.SetStart(startName)

	if err := g.Validate(); err != nil {
		return nil, nil, err
	}

	return g, reg, nil
}
