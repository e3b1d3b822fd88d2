package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the top-level game configuration.
type Config struct {
	Table TableConfig `hcl:"table,block"`
}

// TableConfig describes the table: seats, blinds, and starting stacks.
type TableConfig struct {
	Players       int `hcl:"players,optional"`
	SmallBlind    int `hcl:"small_blind,optional"`
	BigBlind      int `hcl:"big_blind,optional"`
	StartingChips int `hcl:"starting_chips,optional"`
}

// Default returns the configuration used when no file is present: a
// six-handed 10/20 game with 1000-chip stacks.
func Default() *Config {
	return &Config{
		Table: TableConfig{
			Players:       6,
			SmallBlind:    10,
			BigBlind:      20,
			StartingChips: 1000,
		},
	}
}

// Load reads an HCL configuration file. A missing file is not an error;
// defaults are returned. Zero-valued fields fall back to their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse config: %w", diags)
	}

	var parsed Config
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("decode config: %w", diags)
	}

	if parsed.Table.Players != 0 {
		cfg.Table.Players = parsed.Table.Players
	}
	if parsed.Table.SmallBlind != 0 {
		cfg.Table.SmallBlind = parsed.Table.SmallBlind
	}
	if parsed.Table.BigBlind != 0 {
		cfg.Table.BigBlind = parsed.Table.BigBlind
	}
	if parsed.Table.StartingChips != 0 {
		cfg.Table.StartingChips = parsed.Table.StartingChips
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for playability.
func (c *Config) Validate() error {
	t := c.Table
	if t.Players < 2 || t.Players > 10 {
		return fmt.Errorf("players must be between 2 and 10, got %d", t.Players)
	}
	if t.SmallBlind <= 0 {
		return fmt.Errorf("small_blind must be positive, got %d", t.SmallBlind)
	}
	if t.BigBlind <= t.SmallBlind {
		return fmt.Errorf("big_blind (%d) must be greater than small_blind (%d)", t.BigBlind, t.SmallBlind)
	}
	if t.StartingChips <= 0 {
		return fmt.Errorf("starting_chips must be positive, got %d", t.StartingChips)
	}
	return nil
}
