package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	shellquote "github.com/kballard/go-shellquote"

	"github.com/dekarrin/scanforest/engine"
)

// runDebugREPL opens an interactive session for inspecting a built table's
// ACTION/GOTO cells, grounded on dekarrin/tunaq's
// internal/input.InteractiveCommandReader (a *readline.Instance built once,
// one line read per command) and cmd/tqi's "QUIT to exit" convention.
func runDebugREPL(p *engine.Parser, input []rune) error {
	rl, err := readline.NewEx(&readline.Config{Prompt: "scanforest> "})
	if err != nil {
		return fmt.Errorf("start debugger: %w", err)
	}
	defer rl.Close()

	fmt.Println("scanforest interactive debugger. Commands: action STATE TERM, goto STATE NONTERM, dump, input, quit.")

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args, err := shellquote.Split(line)
		if err != nil {
			fmt.Printf("parse error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch strings.ToLower(args[0]) {
		case "quit", "exit":
			return nil
		case "input":
			fmt.Printf("%q\n", string(input))
		case "dump":
			fmt.Println(p.Table().Dump())
		case "action":
			if len(args) != 3 {
				fmt.Println("usage: action STATE TERM")
				continue
			}
			state, err1 := strconv.Atoi(args[1])
			term, err2 := strconv.Atoi(args[2])
			if err1 != nil || err2 != nil {
				fmt.Println("STATE and TERM must be integers (symbol ids)")
				continue
			}
			actions := p.Table().ActionsFor(state, term)
			if len(actions) == 0 {
				fmt.Println("error (no action)")
				continue
			}
			for _, a := range actions {
				fmt.Println(a.String())
			}
		case "goto":
			if len(args) != 3 {
				fmt.Println("usage: goto STATE NONTERM")
				continue
			}
			state, err1 := strconv.Atoi(args[1])
			nt, err2 := strconv.Atoi(args[2])
			if err1 != nil || err2 != nil {
				fmt.Println("STATE and NONTERM must be integers (symbol ids)")
				continue
			}
			target, ok := p.Table().GotoFor(state, nt)
			if !ok {
				fmt.Println("no goto entry")
				continue
			}
			fmt.Println(target)
		default:
			fmt.Printf("unknown command %q\n", args[0])
		}
	}
}
