// Package config handles configuration loading, validation, and live
// reload for the lipika engine.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Version is the current configuration schema version.
const Version = 1

// Config holds the complete engine configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version"`

	// Backend selects and configures the suggestion backend.
	Backend BackendConfig `toml:"backend"`

	// Compose tunes the composition dispatch policy.
	Compose ComposeConfig `toml:"compose"`

	// Logging configures log output.
	Logging LoggingConfig `toml:"logging"`
}

// BackendConfig selects the suggestion backend.
type BackendConfig struct {
	// Type is "socket" (external suggestion daemon) or "sqlite"
	// (local learned dictionary).
	Type string `toml:"type"`

	// SocketPath is the suggestion daemon socket (type "socket").
	SocketPath string `toml:"socket_path"`

	// DictionaryPath is the SQLite dictionary file (type "sqlite").
	DictionaryPath string `toml:"dictionary_path"`
}

// ComposeConfig tunes composition behavior.
type ComposeConfig struct {
	// MaxCandidates caps the candidate lookup table size.
	MaxCandidates int `toml:"max_candidates"`

	// TabCommits includes Tab among the commit trigger keys.
	TabCommits bool `toml:"tab_commits"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Level is "debug", "info", "warn", or "error".
	Level string `toml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format"`

	// Output is "stdout", "stderr", "file", or "both".
	Output string `toml:"output"`

	// FilePath is the log file when Output includes "file".
	FilePath string `toml:"file_path"`
}

// Default returns the default configuration with XDG-aware paths.
func Default() *Config {
	return &Config{
		Version: Version,
		Backend: BackendConfig{
			Type:           "sqlite",
			SocketPath:     filepath.Join(runtimeDir(), "lipika-suggestd.sock"),
			DictionaryPath: filepath.Join(dataDir(), "dictionary.db"),
		},
		Compose: ComposeConfig{
			MaxCandidates: 10,
			TabCommits:    true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "file",
		},
	}
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "lipika", "config.toml")
}

func runtimeDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".lipika")
}

func dataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "lipika")
}

// Load reads the configuration file at path, filling unset fields from
// defaults. A missing file yields the defaults without error.
func Load(path string) (*Config, error) {
	cfg := Default()

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Backend.Type {
	case "socket":
		if c.Backend.SocketPath == "" {
			return errors.New("backend.socket_path is required for the socket backend")
		}
	case "sqlite":
		if c.Backend.DictionaryPath == "" {
			return errors.New("backend.dictionary_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("backend.type must be \"socket\" or \"sqlite\", got %q", c.Backend.Type)
	}

	if c.Compose.MaxCandidates < 1 || c.Compose.MaxCandidates > 100 {
		return fmt.Errorf("compose.max_candidates must be in [1, 100], got %d", c.Compose.MaxCandidates)
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format %q is not recognized", c.Logging.Format)
	}

	return nil
}
