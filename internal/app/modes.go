package app

import (
	"context"
	"os"

	"hlfnet/internal/reporting"
	"hlfnet/pkg/logging"
)

// newUI picks the progress renderer for the current mode. In TUI mode
// ctrl+c inside the view calls cancel; the orchestrator treats that as
// advisory and finishes the running sequence.
func newUI(config *Config, cancel context.CancelFunc) UI {
	if !config.TUI {
		return consoleUI()
	}
	logging.Debug("Bootstrap", "Using the progress view")
	return UI{
		Progress: reporting.NewTUIProgress(os.Stderr, config.logLevel(), cancel),
		Notifier: reporting.NewConsoleNotifier(os.Stderr),
	}
}

// quietUI is used when stdout belongs to a protocol, as with the MCP server.
func quietUI() UI {
	return UI{
		Progress: reporting.NewConsoleProgress(),
		Notifier: reporting.NotifierFunc(func(level reporting.Level, message string) {
			switch level {
			case reporting.LevelError:
				logging.Warn("Notify", "%s", message)
			default:
				logging.Info("Notify", "%s", message)
			}
		}),
	}
}
