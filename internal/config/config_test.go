package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "sqlite", cfg.Backend.Type)
	assert.Equal(t, 10, cfg.Compose.MaxCandidates)
	assert.True(t, cfg.Compose.TabCommits)
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
version = 1

[backend]
type = "socket"
socket_path = "/run/user/1000/suggestd.sock"

[compose]
max_candidates = 5
tab_commits = false

[logging]
level = "debug"
format = "json"
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "socket", cfg.Backend.Type)
	assert.Equal(t, "/run/user/1000/suggestd.sock", cfg.Backend.SocketPath)
	assert.Equal(t, 5, cfg.Compose.MaxCandidates)
	assert.False(t, cfg.Compose.TabCommits)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	// Unset fields keep their defaults.
	assert.Equal(t, Default().Backend.DictionaryPath, cfg.Backend.DictionaryPath)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[compose]
max_candidate = 5
`), 0600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown key")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"bad backend type", func(c *Config) { c.Backend.Type = "redis" }, "backend.type"},
		{"socket without path", func(c *Config) {
			c.Backend.Type = "socket"
			c.Backend.SocketPath = ""
		}, "socket_path"},
		{"sqlite without path", func(c *Config) { c.Backend.DictionaryPath = "" }, "dictionary_path"},
		{"zero candidates", func(c *Config) { c.Compose.MaxCandidates = 0 }, "max_candidates"},
		{"huge candidates", func(c *Config) { c.Compose.MaxCandidates = 500 }, "max_candidates"},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}
