package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"promptvault/config"
	"promptvault/logging"
	"promptvault/settings"
	"promptvault/state"
	"promptvault/store"
	"promptvault/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "promptvault:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		dataDir    = flag.String("data-dir", "", "override the data directory")
		storage    = flag.String("storage", "", "storage backend: file or sqlite")
		dev        = flag.Bool("dev", false, "verbose logging to stderr")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *storage != "" {
		cfg.Storage = *storage
	}
	if *dev {
		cfg.Log.DevMode = true
		cfg.Log.Level = "debug"
	}

	logger, closeLog, err := logging.Init(logging.Config{
		Dir:     cfg.LogDir(),
		Level:   cfg.Log.Level,
		DevMode: cfg.Log.DevMode,
	})
	if err != nil {
		return err
	}
	defer closeLog()

	var kv store.KV
	switch cfg.Storage {
	case config.StorageSQLite:
		db, err := store.OpenSQLite(cfg.StorePath())
		if err != nil {
			return err
		}
		defer db.Close()
		kv = db
	case config.StorageFile:
		file, err := store.NewFileKV(cfg.StorePath(), logger)
		if err != nil {
			return err
		}
		kv = file
	default:
		return fmt.Errorf("unknown storage backend: %q", cfg.Storage)
	}

	ctx := context.Background()
	adapter := store.NewAdapter(kv, logger)

	var loadErr error
	settingsStore := settings.NewStore(adapter, logger)
	if err := settingsStore.Init(ctx); err != nil {
		logger.Warn("continuing with default settings", "error", err)
		loadErr = err
	}

	mgr := state.NewManager(adapter, tui.NewOSC52Clipboard(), logger)
	if err := mgr.Load(ctx); err != nil {
		logger.Warn("continuing with default data", "error", err)
		loadErr = err
	}

	program := tea.NewProgram(tui.NewModel(mgr, settingsStore, loadErr), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
