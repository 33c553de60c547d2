package app

import (
	"context"
	"fmt"
	"os"

	"hlfnet/internal/config"
	"hlfnet/internal/mcpserver"
	"hlfnet/internal/telemetry"
	"hlfnet/pkg/logging"
)

// Application is the main application structure that bootstraps and runs hlfnet
type Application struct {
	config   *Config
	settings config.Config
	shutdown telemetry.ShutdownFunc
}

// NewApplication configures logging, loads the layered configuration and
// sets up tracing.
func NewApplication(ctx context.Context, cfg *Config) (*Application, error) {
	logging.InitForCLI(cfg.logLevel(), os.Stderr)

	settings, err := config.LoadConfig(cfg.ConfigPath)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to load hlfnet configuration")
		return nil, fmt.Errorf("failed to load hlfnet configuration: %w", err)
	}
	logging.Debug("Bootstrap", "Workspace %s, compose files in %s", settings.Workspace.Dir, settings.Network.ComposeDir)

	shutdown, err := telemetry.SetupTracing(ctx, settings.Telemetry, cfg.Version)
	if err != nil {
		// Tracing is optional; the commands work without it.
		logging.Warn("Bootstrap", "Tracing disabled: %v", err)
		shutdown = func(context.Context) error { return nil }
	}

	return &Application{
		config:   cfg,
		settings: settings,
		shutdown: shutdown,
	}, nil
}

// Settings returns the loaded configuration.
func (a *Application) Settings() config.Config {
	return a.settings
}

// Run hands fn the wired services while holding the project lock, so that no
// other hlfnet process drives the same network meanwhile.
func (a *Application) Run(ctx context.Context, fn func(ctx context.Context, s *Services) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	releaser, err := acquireLock(a.settings, ctx.Done())
	if err != nil {
		return err
	}
	defer releaser.Release()

	return a.withServices(ctx, newUI(a.config, cancel), fn)
}

// Inspect hands fn the wired services without taking the project lock. It is
// for commands that only read state.
func (a *Application) Inspect(ctx context.Context, fn func(ctx context.Context, s *Services) error) error {
	return a.withServices(ctx, consoleUI(), fn)
}

func (a *Application) withServices(ctx context.Context, ui UI, fn func(ctx context.Context, s *Services) error) error {
	services, err := InitializeServices(ctx, a.settings, ui)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer services.Close(a.settings)
	return fn(ctx, services)
}

// ServeMCP serves the lifecycle over MCP on stdio until the client goes away.
// The project lock is taken per lifecycle call rather than for the session.
func (a *Application) ServeMCP(ctx context.Context) error {
	return a.withServices(ctx, quietUI(), func(ctx context.Context, s *Services) error {
		srv := mcpserver.New(newLockedLifecycle(s.Orchestrator, a.settings), a.config.Version)
		defer srv.Close()
		return srv.ServeStdio()
	})
}

// Shutdown flushes pending traces.
func (a *Application) Shutdown(ctx context.Context) {
	if err := a.shutdown(ctx); err != nil {
		logging.Warn("Bootstrap", "Failed to flush traces: %v", err)
	}
}
