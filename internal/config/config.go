// Package config loads .matrixlangrc.yaml settings for the CLI and the
// XPBD solver defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Config holds every setting the CLI and interpreter consult. Load starts
// from Default() and decodes the rc file over it, so a setting omitted
// from the file keeps its default and a missing file equals an empty one.
type Config struct {
	Solver SolverConfig `yaml:"solver"`
	REPL   REPLConfig   `yaml:"repl"`
	Async  AsyncConfig  `yaml:"async"`
}

// AsyncConfig governs the spawn/wait/parallel primitives.
type AsyncConfig struct {
	WaitTimeoutSeconds int `yaml:"wait_timeout_seconds"`
}

type SolverConfig struct {
	Iterations int       `yaml:"iterations"`
	Omega      float64   `yaml:"omega"`
	Tolerance  float64   `yaml:"tolerance"`
	Gravity    []float64 `yaml:"gravity"`
}

type REPLConfig struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
}

// Default returns the configuration used when no .matrixlangrc.yaml file
// is present or a setting is omitted from one.
func Default() *Config {
	return &Config{
		Solver: SolverConfig{
			Iterations: 50,
			Omega:      1.8,
			Tolerance:  1e-6,
			Gravity:    []float64{0, -9.81, 0},
		},
		REPL: REPLConfig{
			Prompt: "matrixlang> ",
		},
		Async: AsyncConfig{
			WaitTimeoutSeconds: 30,
		},
	}
}

// Load reads .matrixlangrc.yaml starting at dir and walking up to the
// filesystem root, returning the nearest file found. A missing file is
// not an error; Load returns Default() unchanged.
func Load(dir string) (*Config, error) {
	cfg := Default()
	path, ok := findRC(dir)
	if !ok {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findRC(dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, ".matrixlangrc.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
