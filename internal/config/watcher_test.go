package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
}

func TestWatcherDeliversReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, "[compose]\nmax_candidates = 10\n")

	reloads := make(chan *Config, 4)
	w, err := Watch(path, nil, func(cfg *Config) { reloads <- cfg })
	require.NoError(t, err)
	defer w.Close()

	writeConfig(t, path, "[compose]\nmax_candidates = 3\n")

	select {
	case cfg := <-reloads:
		assert.Equal(t, 3, cfg.Compose.MaxCandidates)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload delivered")
	}
}

func TestWatcherSkipsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, "[compose]\nmax_candidates = 10\n")

	reloads := make(chan *Config, 4)
	w, err := Watch(path, nil, func(cfg *Config) { reloads <- cfg })
	require.NoError(t, err)
	defer w.Close()

	// A broken edit must not reach the callback.
	writeConfig(t, path, "[compose]\nmax_candidates = 0\n")

	// A following good edit still does.
	time.Sleep(500 * time.Millisecond)
	writeConfig(t, path, "[compose]\nmax_candidates = 7\n")

	select {
	case cfg := <-reloads:
		assert.Equal(t, 7, cfg.Compose.MaxCandidates)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload delivered")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeConfig(t, path, "[compose]\nmax_candidates = 10\n")

	reloads := make(chan *Config, 4)
	w, err := Watch(path, nil, func(cfg *Config) { reloads <- cfg })
	require.NoError(t, err)
	defer w.Close()

	writeConfig(t, filepath.Join(dir, "other.toml"), "whatever = true\n")

	select {
	case <-reloads:
		t.Fatal("sibling file change triggered a reload")
	case <-time.After(time.Second):
	}
}
