/*
Scanforestc builds a parser from a surface grammar file and runs it over an
input file, printing the resulting parse tree or a diagnosed error.

Usage:

	scanforestc [flags] GRAMMAR_FILE INPUT_FILE

The flags are:

	-t, --tables MODE
		Table construction mode: lalr (default), slr, or clr1.

	-g, --glr
		Use the GLR driver and print every enumerated tree instead of the
		single deterministic LR derivation.

	-p, --prefer-shifts
		Default unresolved shift/reduce conflicts to shift in LR mode.

	-s, --start SYMBOL
		Override the grammar's start symbol.

	-c, --config FILE
		Load a scanforest.toml profile; flags given on the command line
		override the profile's values.

	-d, --debug
		When stdin and stdout are both connected to a terminal, open an
		interactive debugger for inspecting the built ACTION/GOTO table
		instead of parsing; otherwise parse as usual and log each parser
		action to stderr.

Exit codes: 0 success, 1 parse error, 2 grammar error, 3 usage error.
*/
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/dekarrin/scanforest/engine"
	"github.com/dekarrin/scanforest/forest"
	"github.com/dekarrin/scanforest/icerrors"
	"github.com/dekarrin/scanforest/surface"
)

const (
	// ExitSuccess indicates a successful parse.
	ExitSuccess = iota
	// ExitParseError indicates the input did not parse under the grammar.
	ExitParseError
	// ExitGrammarError indicates the grammar file itself was invalid.
	ExitGrammarError
	// ExitUsageError indicates a problem with the command line itself.
	ExitUsageError
)

var (
	returnCode     = ExitSuccess
	flagTables     = pflag.StringP("tables", "t", "lalr", "table construction mode: lalr, slr, or clr1")
	flagGLR        = pflag.BoolP("glr", "g", false, "use the GLR driver and enumerate every tree")
	flagPrefer     = pflag.BoolP("prefer-shifts", "p", false, "default unresolved shift/reduce conflicts to shift")
	flagStart      = pflag.StringP("start", "s", "", "override the grammar's declared start symbol")
	flagConfigFile = pflag.StringP("config", "c", "", "load a scanforest.toml profile")
	flagDebug      = pflag.BoolP("debug", "d", false, "inspect ACTION/GOTO cells interactively (trace parser actions when not on a terminal)")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	cfg, err := loadProfile(*flagConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitUsageError
		return
	}
	cfg.applyFlags()

	if pflag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: scanforestc [flags] GRAMMAR_FILE INPUT_FILE")
		returnCode = ExitUsageError
		return
	}
	grammarPath := pflag.Arg(0)
	inputPath := pflag.Arg(1)

	grammarSrc, err := os.ReadFile(grammarPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}

	g, reg, err := surface.Load(string(grammarSrc), cfg.Start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}

	p, err := engine.New(g, reg,
		engine.WithTables(cfg.Tables),
		engine.WithGLR(cfg.GLR),
		engine.WithPreferShifts(cfg.PreferShifts),
		engine.WithDebug(cfg.Debug),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}

	inputData, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitUsageError
		return
	}
	input := []rune(string(inputData))

	if cfg.Debug && isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()) {
		if err := runDebugREPL(p, input); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitUsageError
		}
		return
	}

	ctx := context.Background()
	if cfg.GLR {
		runGLR(ctx, p, input)
	} else {
		runLR(ctx, p, input)
	}
}

func runLR(ctx context.Context, p *engine.Parser, input []rune) {
	f, root, err := p.Parse(ctx, input)
	if err != nil {
		reportParseError(err)
		return
	}
	tree := forest.FirstTree(f, root)
	printTree(tree, 0)
}

func runGLR(ctx context.Context, p *engine.Parser, input []rune) {
	f, roots, err := p.ParseGLR(ctx, input)
	if err != nil {
		reportParseError(err)
		return
	}
	count := 0
	for _, root := range roots {
		forest.EnumerateTrees(f, root, func(t forest.Tree) bool {
			count++
			fmt.Printf("--- tree %d ---\n", count)
			printTree(t, 0)
			return true
		})
	}
	if count == 0 {
		fmt.Println("no trees enumerated")
	}
}

func reportParseError(err error) {
	if fm, ok := err.(interface{ FullMessage() string }); ok {
		fmt.Fprintln(os.Stderr, fm.FullMessage())
	} else {
		fmt.Fprintln(os.Stderr, err.Error())
	}
	switch err.(type) {
	case *icerrors.GrammarError, *icerrors.TableConflictError:
		returnCode = ExitGrammarError
	default:
		returnCode = ExitParseError
	}
}

func printTree(t forest.Tree, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	if t.Terminal {
		fmt.Printf("%s%q\n", indent, t.Value)
		return
	}
	fmt.Printf("%snode#%d\n", indent, t.Symbol)
	for _, c := range t.Children {
		printTree(c, depth+1)
	}
}
