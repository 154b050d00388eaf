package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/vito/primal/pkg/grammar"
	"github.com/vito/primal/pkg/learner"
)

// ConfigFile is the name searched for by FindConfig.
const ConfigFile = "primal.toml"

// Config holds the application configuration. Flags override values read
// from primal.toml.
type Config struct {
	// K bounds the size of kernels.
	K int `toml:"k"`
	// Rounds is how many sentences each learn run consumes.
	Rounds int `toml:"rounds"`
	// Depth bounds the derivations of the target used as the text.
	Depth int `toml:"depth"`
	// SampleDepth bounds the derivations printed from the hypothesis.
	SampleDepth int `toml:"sample_depth"`
	Workers     int `toml:"workers"`
	CacheSize   int `toml:"cache_size"`
	// Extract selects the novelty gate: "rejected" or "always".
	Extract string `toml:"extract"`
	// State is the directory of the session store. Empty disables it.
	State  string `toml:"state"`
	Target Target `toml:"target"`

	Debug bool `toml:"-"`
}

// Target is the grammar standing in for the membership oracle.
type Target struct {
	Start string   `toml:"start"`
	Rules []string `toml:"rules"`
}

// DefaultConfig learns a+ with k=1.
func DefaultConfig() Config {
	return Config{
		K:           1,
		Rounds:      10,
		Depth:       6,
		SampleDepth: 3,
		Workers:     1,
		Extract:     "rejected",
		State:       os.Getenv("PRIMAL_DB"),
		Target: Target{
			Start: "S",
			Rules: []string{"S -> A", "A -> 'a' | A A"},
		},
	}
}

// LoadConfig decodes path over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	defaults := cfg.Target.Rules
	cfg.Target.Rules = nil
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if !md.IsDefined("target", "rules") {
		cfg.Target.Rules = defaults
	}
	if env := os.Getenv("PRIMAL_DB"); env != "" {
		cfg.State = env
	}
	return cfg, nil
}

// FindConfig searches for primal.toml from dir upwards, stopping at a .git
// boundary. It returns the defaults and an empty path if none is found.
func FindConfig(dir string) (string, Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", Config{}, err
	}
	for {
		path := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(path); err == nil {
			cfg, err := LoadConfig(path)
			if err != nil {
				return "", Config{}, err
			}
			return path, cfg, nil
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", DefaultConfig(), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", DefaultConfig(), nil
		}
		dir = parent
	}
}

// TargetGrammar parses the configured target.
func (cfg Config) TargetGrammar() (*grammar.Grammar, error) {
	g, err := grammar.Parse(cfg.Target.Start, cfg.Target.Rules...)
	if err != nil {
		return nil, fmt.Errorf("target grammar: %w", err)
	}
	return g, nil
}

// Gate resolves the configured novelty gate.
func (cfg Config) Gate() (learner.Gate, error) {
	switch cfg.Extract {
	case "", "rejected":
		return learner.RejectedByOracle, nil
	case "always":
		return learner.AlwaysExtract, nil
	default:
		return nil, fmt.Errorf("unknown extract mode %q (want rejected or always)", cfg.Extract)
	}
}

// Validate rejects negative bounds and unknown extract modes.
func (cfg Config) Validate() error {
	if cfg.K < 0 {
		return fmt.Errorf("k must not be negative, got %d", cfg.K)
	}
	if cfg.Rounds < 0 {
		return fmt.Errorf("rounds must not be negative, got %d", cfg.Rounds)
	}
	if _, err := cfg.Gate(); err != nil {
		return err
	}
	return nil
}
