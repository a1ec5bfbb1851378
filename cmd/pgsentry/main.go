package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pgsentry/pgsentry/internal/app"
	"github.com/pgsentry/pgsentry/internal/config"
	"github.com/pgsentry/pgsentry/internal/db/credentials"
	"github.com/pgsentry/pgsentry/internal/presets"
	"github.com/pgsentry/pgsentry/internal/statcache"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load config: %v (using defaults)\n", err)
		cfg = config.GetDefaults()
	}

	cachePath, err := cfg.CachePath()
	if err != nil {
		fmt.Printf("Error resolving cache path: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		fmt.Printf("Error creating cache directory: %v\n", err)
		os.Exit(1)
	}
	cache, err := statcache.NewStore(cachePath)
	if err != nil {
		fmt.Printf("Error opening statement cache: %v\n", err)
		os.Exit(1)
	}
	defer cache.Close()

	// The keyring is optional; without it the password must come from
	// the PGSENTRY_PASSWORD environment variable. Filter presets are
	// also optional.
	var credStore *credentials.Store
	var presetMgr *presets.Manager
	if configPath, err := config.GetConfigPath(); err == nil {
		if store, err := credentials.NewStore(configPath); err == nil {
			credStore = store
		} else {
			log.Printf("Warning: keyring unavailable: %v\n", err)
		}
		if mgr, err := presets.NewManager(configPath); err == nil {
			presetMgr = mgr
		} else {
			log.Printf("Warning: presets unavailable: %v\n", err)
		}
	}

	application := app.New(cfg, cache, credStore, presetMgr)
	defer application.Shutdown()

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(application, opts...)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
