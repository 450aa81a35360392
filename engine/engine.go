// Package engine is the top-level Go-native entry point of spec §6: it
// ties together grammar, table, recognize, lr, glr, and forest into a
// single parser construction and invocation surface.
//
// Grounded on dekarrin/tunaq's internal/ictiobus/ictiobus.go: its
// NewParser/NewLALR1Parser/NewSLRParser/NewCLRParser factory-function
// style becomes engine.New plus a Config.Tables mode selector, and its
// generic Frontend[E] (lex -> parse -> SDT-evaluate) becomes
// Frontend[E] (recognize -> parse -> forest.InvokeActions).
package engine

import (
	"context"
	"io"

	"github.com/dekarrin/scanforest/forest"
	"github.com/dekarrin/scanforest/glr"
	"github.com/dekarrin/scanforest/grammar"
	"github.com/dekarrin/scanforest/lr"
	"github.com/dekarrin/scanforest/recognize"
	"github.com/dekarrin/scanforest/table"
)

// Config carries the parser construction options of spec §6.
type Config struct {
	StartSymbol   string
	WS            string
	BuildTree     bool
	Tables        string // "lalr" (default), "slr", or "clr1"
	GLR           bool
	PreferShifts  bool
	ErrorRecovery RecoveryFunc
	Debug         bool
	Layout        recognize.LayoutSkipper
}

// RecoveryFunc is the engine-level form of spec §6's recovery hook,
// sharing its shape with lr.RecoveryFunc and glr.RecoveryFunc.
type RecoveryFunc func(state int, input []rune, pos int, expected []string) (newPos int, giveUp bool)

// Option mutates a Config being built up by New.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Tables: "lalr",
		WS:     "\t\n ",
	}
}

// WithStartSymbol overrides the grammar's own declared start symbol.
func WithStartSymbol(name string) Option { return func(c *Config) { c.StartSymbol = name } }

// WithTables selects the table construction mode: "lalr", "slr", or "clr1".
func WithTables(mode string) Option { return func(c *Config) { c.Tables = mode } }

// WithGLR enables the GLR driver's conflict-retaining table mode.
func WithGLR(enabled bool) Option { return func(c *Config) { c.GLR = enabled } }

// WithPreferShifts sets the LR-mode shift/reduce fallback of spec §9.
func WithPreferShifts(enabled bool) Option { return func(c *Config) { c.PreferShifts = enabled } }

// WithLayout overrides the default whitespace-skipping LayoutSkipper.
func WithLayout(l recognize.LayoutSkipper) Option { return func(c *Config) { c.Layout = l } }

// WithErrorRecovery installs the error-recovery hook of spec §6.
func WithErrorRecovery(r RecoveryFunc) Option { return func(c *Config) { c.ErrorRecovery = r } }

// WithDebug enables structured trace output during parsing.
func WithDebug(enabled bool) Option { return func(c *Config) { c.Debug = enabled } }

// Parser is a fully-built scanforest parser: an immutable grammar, table,
// and recognizer registry shared read-only across every Parse call, per
// spec §5.
type Parser struct {
	cfg     Config
	grammar *grammar.Grammar
	table   *table.Table
	lrDrv   *lr.Driver
	glrDrv  *glr.Parser
}

// New builds a Parser for g using the given recognizer registry and
// options. Table construction happens exactly once here; the result is
// immutable and safe to share across goroutines so long as each goroutine
// calls Parse/ParseGLR independently (spec §5: the Parser itself is
// shareable, a single in-flight Parse/ParseGLR call is not reentrant).
func New(g *grammar.Grammar, reg *recognize.Registry, opts ...Option) (*Parser, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.StartSymbol != "" {
		g.SetStart(cfg.StartSymbol)
	}
	if cfg.Layout == nil {
		cfg.Layout = recognize.DefaultLayout(cfg.WS)
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	mode := table.ModeLALR
	switch cfg.Tables {
	case "slr":
		mode = table.ModeSLR
	case "clr1":
		mode = table.ModeCLR1
	}

	t, err := table.Build(g, table.Options{
		Mode:         mode,
		GLR:          cfg.GLR,
		PreferShifts: cfg.PreferShifts,
	})
	if err != nil {
		return nil, err
	}

	if eoi, ok := t.Grammar.SymbolByName(grammar.EndOfInput); ok {
		reg.Register(eoi.ID, recognize.EndOfInput, recognize.KindOther, false)
	}

	p := &Parser{cfg: cfg, grammar: g, table: t}
	p.lrDrv = lr.New(t, reg, cfg.Layout)
	p.glrDrv = glr.New(t, reg, cfg.Layout)
	p.lrDrv.SetDebug(cfg.Debug)
	p.glrDrv.SetDebug(cfg.Debug)

	if cfg.ErrorRecovery != nil {
		p.lrDrv.SetRecovery(func(state int, input []rune, pos int, expected []string) lr.RecoveryDecision {
			newPos, giveUp := cfg.ErrorRecovery(state, input, pos, expected)
			return lr.RecoveryDecision{NewPos: newPos, GiveUp: giveUp}
		})
		p.glrDrv.SetRecovery(func(state int, input []rune, pos int, expected []string) glr.RecoveryDecision {
			newPos, giveUp := cfg.ErrorRecovery(state, input, pos, expected)
			return glr.RecoveryDecision{NewPos: newPos, GiveUp: giveUp}
		})
	}

	return p, nil
}

// Table returns the compiled ACTION/GOTO table, e.g. for serialization via
// internal/store.
func (p *Parser) Table() *table.Table { return p.table }

// Parse runs the deterministic LR driver over input, returning the single
// derivation's forest and root node.
func (p *Parser) Parse(ctx context.Context, input []rune) (*forest.Forest, forest.Node, error) {
	return p.lrDrv.Parse(ctx, input)
}

// ParseGLR runs the GLR driver over input, returning the shared forest and
// its set of root nodes (usually one; an ambiguous input shows up as more
// than one packed alternative under that root, see Forest.Ambiguous).
func (p *Parser) ParseGLR(ctx context.Context, input []rune) (*forest.Forest, []forest.Node, error) {
	return p.glrDrv.Parse(ctx, input)
}

// ParseFile is the convenience wrapper of spec §6's `parse_file`: it reads
// r fully and calls Parse.
func (p *Parser) ParseFile(ctx context.Context, r io.Reader) (*forest.Forest, forest.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, forest.NoNode, err
	}
	return p.Parse(ctx, []rune(string(data)))
}

// ParseFileGLR is ParseFile's GLR counterpart.
func (p *Parser) ParseFileGLR(ctx context.Context, r io.Reader) (*forest.Forest, []forest.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	return p.ParseGLR(ctx, []rune(string(data)))
}
