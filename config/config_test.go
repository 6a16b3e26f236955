package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Urethramancer/emu68/config"
	"github.com/Urethramancer/emu68/emulator"
)

func TestDefaults(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, int32(emulator.DefaultStackSize), cfg.Emulator.StackSize)
	assert.Equal(t, "always", cfg.Emulator.RetainStates)
	assert.Equal(t, 1000000, cfg.Emulator.MaxSteps)

	s, err := cfg.EmulatorSettings()
	require.NoError(t, err)
	assert.Equal(t, emulator.RetainAlways, s.RetainStates)
}

func TestMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, int32(emulator.DefaultStackSize), cfg.Emulator.StackSize)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emu68.toml")
	body := `
[emulator]
stack_size = 256
retain_states = "never"
max_steps = 42

[parser]
case_insensitive_labels = true
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, int32(256), cfg.Emulator.StackSize)
	assert.Equal(t, 42, cfg.Emulator.MaxSteps)

	s, err := cfg.EmulatorSettings()
	require.NoError(t, err)
	assert.Equal(t, emulator.RetainNever, s.RetainStates)
	assert.True(t, s.Parser.CaseInsensitiveLabels)
	assert.Equal(t, int32(256), s.StackSize)
}

func TestBadRetainValue(t *testing.T) {
	cfg := config.Default()
	cfg.Emulator.RetainStates = "sometimes"
	_, err := cfg.EmulatorSettings()
	assert.Error(t, err)
}

func TestMalformedFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[emulator\nstack_size="), 0644))
	_, err := config.Load(path)
	assert.Error(t, err)
}
