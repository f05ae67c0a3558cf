//go:build linux

// lipika-ibus is the Linux IBus engine for romanized Nepali input.
//
// It converts romanized text into Devanagari with backend-ranked
// completions: typed letters build a preedit string, the candidate
// lookup table tracks the current prefix, and Space/Enter commit the
// selected candidate while reporting the confirmed word back to the
// suggestion backend for learning.
//
// Installation:
//  1. Copy binary to /usr/local/bin/lipika-ibus
//  2. lipika-ibus --install
//  3. Restart IBus: ibus restart
//  4. Enable via ibus-setup or GNOME Settings > Keyboard > Input Sources
//
// When spawned by the IBus daemon the --ibus flag claims the component
// bus name; without it the engine self-registers with the daemon, which
// is convenient for development builds.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lipika/internal/compose"
	"lipika/internal/config"
	"lipika/internal/ibus"
	"lipika/internal/logging"
	"lipika/internal/suggest"
)

func main() {
	ibusFlag := flag.Bool("ibus", false, "invoked by the IBus daemon; claim the component bus name")
	installFlag := flag.Bool("install", false, "install the IBus component XML and exit")
	uninstallFlag := flag.Bool("uninstall", false, "remove the IBus component XML and exit")
	configPath := flag.String("config", config.DefaultPath(), "configuration file path")
	flag.Parse()

	if *installFlag {
		if err := ibus.InstallComponent(); err != nil {
			fmt.Fprintf(os.Stderr, "install failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Installed. Run 'ibus restart' to load the engine.")
		return
	}

	if *uninstallFlag {
		if err := ibus.UninstallComponent(); err != nil {
			fmt.Fprintf(os.Stderr, "uninstall failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Uninstalled.")
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lipika-ibus: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lipika-ibus: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	backend := buildBackend(cfg)
	lifecycle := compose.NewLifecycle(backend, logger.Logger)

	svc, err := ibus.Start(ibus.Options{
		RequestName:       *ibusFlag,
		RegisterComponent: !*ibusFlag,
		MaxCandidates:     cfg.Compose.MaxCandidates,
		TabCommits:        cfg.Compose.TabCommits,
		Lifecycle:         lifecycle,
		NewHandler: func(host compose.HostNotifier, maxCandidates int, tabCommits bool) compose.Handler {
			return compose.NewController(backend, host, compose.Options{
				MaxCandidates: maxCandidates,
				TabCommits:    tabCommits,
				Log:           logger.Logger,
			})
		},
		Log: logger.Logger,
	})
	if err != nil {
		// No bus means no host framework; nothing to run.
		logger.Error("startup failed", "error", err)
		fmt.Fprintf(os.Stderr, "lipika-ibus: %v\n", err)
		os.Exit(1)
	}

	watcher, err := config.Watch(*configPath, logger.Logger, func(next *config.Config) {
		svc.SetPolicy(next.Compose.MaxCandidates, next.Compose.TabCommits)
	})
	if err != nil {
		logger.Warn("config reload unavailable", "error", err)
	} else {
		defer watcher.Close()
	}

	logger.Info("lipika engine running",
		"backend", cfg.Backend.Type,
		"max_candidates", cfg.Compose.MaxCandidates)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	if err := svc.Stop(); err != nil {
		logger.Warn("shutdown error", "error", err)
	}
}

func buildLogger(cfg *config.Config) (*logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = level
	logCfg.Format = format
	logCfg.Component = "lipika-ibus"
	if cfg.Logging.Output != "" {
		logCfg.Output = cfg.Logging.Output
	}
	if cfg.Logging.FilePath != "" {
		logCfg.FilePath = cfg.Logging.FilePath
	}
	return logging.New(logCfg)
}

func buildBackend(cfg *config.Config) suggest.Backend {
	if cfg.Backend.Type == "socket" {
		return suggest.NewClient(cfg.Backend.SocketPath)
	}
	return suggest.NewStore(cfg.Backend.DictionaryPath)
}
