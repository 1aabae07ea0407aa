// Package config provides configuration for the icd widget. Values come
// from ~/.icd/config.yaml with environment variable overrides; everything
// is a read-only input to the core at invocation time.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SelectorKind names a selector implementation.
type SelectorKind string

const (
	// SelectorBuiltin is the built-in full-screen picker.
	SelectorBuiltin SelectorKind = "builtin"
	// SelectorExec shells out to an external fzf-compatible process.
	SelectorExec SelectorKind = "exec"
)

// Config holds all widget configuration.
type Config struct {
	// Commands are the command names whose single directory argument the
	// widget completes.
	Commands []string `yaml:"commands"`

	// LocaleTag selects the case-folding rule used for prefix matching.
	LocaleTag string `yaml:"locale"`

	// ToggleKey is the key that flips hidden-entry visibility inside the
	// selector.
	ToggleKey string `yaml:"toggleKey"`

	// AcceptKey is the key that accepts the highlighted candidate.
	AcceptKey string `yaml:"acceptKey"`

	// Selector picks the selector implementation.
	Selector SelectorKind `yaml:"selector"`

	// SelectorCommand is the external selector executable used when
	// Selector is "exec".
	SelectorCommand string `yaml:"selectorCommand"`

	// LogLevel controls logging verbosity.
	LogLevel string `yaml:"logLevel"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Commands:        []string{"cd", "pushd"},
		LocaleTag:       "",
		ToggleKey:       "ctrl+h",
		AcceptKey:       "enter",
		Selector:        SelectorBuiltin,
		SelectorCommand: "fzf",
		LogLevel:        "info",
	}
}

// Load reads the config file at path and applies environment overrides.
// A missing file is not an error; defaults are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No file, defaults apply.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv lets environment variables override the file for settings the
// shell session naturally owns, like the locale.
func (c *Config) applyEnv() {
	if tag, ok := os.LookupEnv("ICD_LOCALE"); ok {
		c.LocaleTag = tag
	} else if lang := os.Getenv("LANG"); len(lang) >= 2 && c.LocaleTag == "" {
		c.LocaleTag = lang[:2]
	}
	if v, ok := os.LookupEnv("ICD_SELECTOR"); ok {
		c.Selector = SelectorKind(v)
	}
	if v, ok := os.LookupEnv("ICD_SELECTOR_COMMAND"); ok {
		c.SelectorCommand = v
	}
	if v, ok := os.LookupEnv("ICD_TOGGLE_KEY"); ok {
		c.ToggleKey = v
	}
}
