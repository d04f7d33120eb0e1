package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tilecols/internal/config"
	"github.com/Gaurav-Gosain/tilecols/internal/host"
	"github.com/Gaurav-Gosain/tilecols/internal/store"
	"github.com/Gaurav-Gosain/tilecols/internal/tui"
	"github.com/charmbracelet/log"
)

// env is what every subcommand starts from: the user config with CLI
// overrides applied, a logger and the state store.
type env struct {
	cfg    *config.UserConfig
	logger *log.Logger
	store  store.Store
}

func loadConfig() *config.UserConfig {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		log.Warn("failed to load config, using defaults", "err", err)
		userConfig = config.DefaultConfig()
	}
	for _, w := range userConfig.Warnings() {
		log.Warn("config", "issue", w.String())
	}

	config.ApplyOverrides(config.Overrides{
		ASCIIOnly:    asciiOnly,
		BorderStyle:  borderStyle,
		HideLabels:   hideLabels,
		ThemeName:    themeName,
		Strategy:     strategyName,
		Session:      sessionName,
		StoreBackend: storeBackend,
		LogLevel:     logLevel,
	}, userConfig)
	return userConfig
}

func newLogger(cfg *config.UserConfig) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tilecols",
	})
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	if debugMode {
		level = log.DebugLevel
	}
	logger.SetLevel(level)
	return logger
}

// setup loads the config and opens the store. Callers must close env.store.
func setup() (*env, error) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}
	if debugMode {
		configPath, _ := config.GetConfigPath()
		logger.Debug("configuration", "path", configPath, "store", cfg.Store.Backend, "strategy", cfg.Layout.DefaultStrategy)
	}
	return &env{cfg: cfg, logger: logger, store: st}, nil
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("failed to close store", "err", err)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runLocal(ctx context.Context) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	// The TUI owns the terminal; logs go to a file when debugging.
	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	e.logger.SetOutput(logFile)

	ctx, cancel := signalContext(ctx)
	defer cancel()

	session, err := host.NewSession(ctx, host.Options{
		Name:     e.cfg.Layout.Session,
		Strategy: e.cfg.Layout.DefaultStrategy,
		Screen:   screenFromConfig(e.cfg),
		Store:    e.store,
		Logger:   e.logger,
	})
	if err != nil {
		return err
	}

	model := tui.New(ctx, session, config.NewKeybindRegistry(e.cfg), e.logger)
	p := tea.NewProgram(model,
		tea.WithFPS(config.NormalFPS),
		tea.WithoutSignalHandler(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

// openLogFile returns the debug log in the state directory, or a writer that
// drops everything when --debug is off.
func openLogFile() (io.WriteCloser, error) {
	if !debugMode {
		return nopCloser{io.Discard}, nil
	}
	dir, err := config.StateDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "debug.log")
	// #nosec G304 - path is inside the user's state directory
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Debug log: %s\n", path)
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
