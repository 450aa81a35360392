package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// profile is the scanforest.toml shape, grounded on dekarrin/tunaq's
// internal/tqw marshaledtypes.go: a plain struct with `toml:"..."` tags,
// unmarshaled wholesale via toml.Unmarshal rather than field-by-field.
type profile struct {
	Tables       string `toml:"tables"`
	GLR          bool   `toml:"glr"`
	PreferShifts bool   `toml:"prefer_shifts"`
	Start        string `toml:"start"`
	Debug        bool   `toml:"debug"`
}

// loadProfile reads path as a scanforest.toml profile, or returns the
// defaults (lalr tables, every other field zero) if path is empty.
func loadProfile(path string) (profile, error) {
	cfg := profile{Tables: "lalr"}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyFlags overlays any command-line flag explicitly given over the
// profile's own values, per scanforestc's documented precedence.
func (cfg *profile) applyFlags() {
	flags := pflag.CommandLine
	if flags.Changed("tables") {
		cfg.Tables = *flagTables
	} else if cfg.Tables == "" {
		cfg.Tables = "lalr"
	}
	if flags.Changed("glr") {
		cfg.GLR = *flagGLR
	}
	if flags.Changed("prefer-shifts") {
		cfg.PreferShifts = *flagPrefer
	}
	if flags.Changed("start") {
		cfg.Start = *flagStart
	}
	if flags.Changed("debug") {
		cfg.Debug = *flagDebug
	}
}
