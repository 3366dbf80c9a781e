// tutor-tui - A terminal client for a conversational tutoring service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tutor-tui/internal/api"
	"github.com/jeranaias/tutor-tui/internal/cache"
	"github.com/jeranaias/tutor-tui/internal/config"
	"github.com/jeranaias/tutor-tui/internal/engine"
	"github.com/jeranaias/tutor-tui/internal/mode"
	"github.com/jeranaias/tutor-tui/internal/model"
	"github.com/jeranaias/tutor-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to a config file (default ~/.tutortui/config.toml)")
		apiURL      = flag.String("api", "", "backend origin, overrides config")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("tutor-tui %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromPath(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
	}

	setupLogging()

	store := cache.Open(cfg.Cache.Path)
	defer store.Close()

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:       cfg.API.BaseURL,
		Timeout:       cfg.API.Timeout(),
		UploadTimeout: cfg.API.UploadTimeout(),
	})

	modes := mode.NewController()

	surface := chat.NewProgramSurface()
	modes.SetSwitchCallback(func(mo model.Mode) {
		surface.Notify("Switched to " + mo.DisplayName() + " mode")
	})
	eng := engine.New(store, client, modes, surface, engine.Config{
		AnimChars:    cfg.Animation.CharsPerStep,
		AnimInterval: cfg.Animation.Interval(),
	})

	ui := chat.New(eng, modes, client, cfg)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	surface.Attach(program)

	// The watcher drives the autonomous testing-mode kickoff; the edge
	// callback was wired into the engine at construction.
	modes.StartWatch(cfg.UI.PollInterval())
	defer modes.StopWatch()

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging sends the standard logger to a file so diagnostics never
// corrupt the alternate screen.
func setupLogging() {
	dir, err := config.ConfigDir()
	if err != nil {
		log.SetOutput(io.Discard)
		return
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return
	}
	f, err := os.OpenFile(filepath.Join(dir, "tutortui.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(f)
}
