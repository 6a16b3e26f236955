// Package config loads emulator configuration from a TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/Urethramancer/emu68/emulator"
	"github.com/Urethramancer/emu68/parser"
)

// Config represents the emulator configuration.
type Config struct {
	Emulator struct {
		StackSize    int32  `toml:"stack_size"`
		RetainStates string `toml:"retain_states"`
		MaxSteps     int    `toml:"max_steps"`
	} `toml:"emulator"`

	Parser struct {
		CaseInsensitiveLabels bool `toml:"case_insensitive_labels"`
	} `toml:"parser"`
}

// Default returns a configuration with default values.
func Default() *Config {
	cfg := &Config{}
	cfg.Emulator.StackSize = emulator.DefaultStackSize
	cfg.Emulator.RetainStates = "always"
	cfg.Emulator.MaxSteps = 1000000
	return cfg
}

// Load reads a TOML file over the defaults. A missing file is not an
// error; the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return cfg, nil
}

// EmulatorSettings converts the configuration into emulator settings.
func (c *Config) EmulatorSettings() (emulator.Settings, error) {
	s := emulator.Settings{
		StackSize: c.Emulator.StackSize,
		Parser: parser.Settings{
			CaseInsensitiveLabels: c.Parser.CaseInsensitiveLabels,
		},
	}

	switch c.Emulator.RetainStates {
	case "", "always":
		s.RetainStates = emulator.RetainAlways
	case "never":
		s.RetainStates = emulator.RetainNever
	default:
		return s, fmt.Errorf("unknown retain_states value %q", c.Emulator.RetainStates)
	}

	if s.StackSize <= 0 {
		s.StackSize = emulator.DefaultStackSize
	}
	return s, nil
}
