package app

import (
	"context"
	"os"

	"github.com/juju/clock"

	"hlfnet/internal/config"
	"hlfnet/internal/network"
	"hlfnet/internal/prereq"
	"hlfnet/internal/reporting"
	"hlfnet/internal/session"
	"hlfnet/internal/shell"
	"hlfnet/internal/state"
	"hlfnet/internal/telemetry"
	"hlfnet/internal/workspace"
	"hlfnet/pkg/logging"
)

// Services holds the orchestrator and the collaborators wired into it.
type Services struct {
	Orchestrator *network.Orchestrator
	Sessions     *session.PIDFileManager
	Events       *reporting.DefaultEventBus
	Metrics      *telemetry.PrometheusSink
	Runner       *shell.ComposeRunner
}

// UI is how the services talk to the user.
type UI struct {
	Progress reporting.Progress
	Notifier reporting.Notifier
}

// InitializeServices creates the orchestrator for the loaded settings.
func InitializeServices(ctx context.Context, settings config.Config, ui UI) (*Services, error) {
	checker := prereq.NewDockerChecker()

	command := settings.Network.ComposeCommand
	if len(command) == 0 {
		command = checker.ComposeCommand(ctx)
	}
	runner := shell.NewComposeRunner(settings.Network.ComposeDir, command)
	logging.Debug("Bootstrap", "Compose runner: %s", runner)

	sessions := session.NewPIDFileManager(settings.StateDir())
	events := reporting.NewEventBus()
	metrics := telemetry.NewPrometheusSink()

	orch, err := network.New(network.ConfigFrom(settings), network.Dependencies{
		Runner:    runner,
		Prereq:    checker,
		Progress:  ui.Progress,
		Notifier:  ui.Notifier,
		Events:    events,
		Telemetry: telemetry.Multi{telemetry.LogSink{}, metrics},
		Sessions:  sessions,
		Workspace: workspace.Dir{Path: settings.Workspace.Dir, DisplayName: settings.Workspace.Name},
		Store:     state.NewFileStore(settings.StatePath()),
		Clock:     clock.WallClock,
	})
	if err != nil {
		return nil, err
	}

	return &Services{
		Orchestrator: orch,
		Sessions:     sessions,
		Events:       events,
		Metrics:      metrics,
		Runner:       runner,
	}, nil
}

// Close releases subscriptions and writes the metrics textfile when one is
// configured.
func (s *Services) Close(settings config.Config) {
	s.Events.Close()
	if settings.Telemetry.MetricsFile == "" {
		return
	}
	if err := s.Metrics.WriteTextfile(settings.Telemetry.MetricsFile); err != nil {
		logging.Warn("Bootstrap", "%v", err)
	}
}

// consoleUI reports through log lines and styled notifications on stderr.
func consoleUI() UI {
	return UI{
		Progress: reporting.NewConsoleProgress(),
		Notifier: reporting.NewConsoleNotifier(os.Stderr),
	}
}
