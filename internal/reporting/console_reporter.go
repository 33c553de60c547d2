package reporting

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"hlfnet/pkg/logging"
)

// ConsoleProgress writes progress through the logging package.
type ConsoleProgress struct {
	mu    sync.Mutex
	title string
}

// NewConsoleProgress creates a new ConsoleProgress
func NewConsoleProgress() *ConsoleProgress {
	return &ConsoleProgress{}
}

func (c *ConsoleProgress) Begin(title string) {
	c.mu.Lock()
	c.title = title
	c.mu.Unlock()
	logging.Info("Progress", "%s", title)
}

func (c *ConsoleProgress) Report(percent int, label string) {
	c.mu.Lock()
	title := c.title
	c.mu.Unlock()

	if label != "" {
		logging.Info("Progress", "%s: %d%% (%s)", title, percent, label)
		return
	}
	logging.Info("Progress", "%s: %d%%", title, percent)
}

func (c *ConsoleProgress) End(err error) {
	c.mu.Lock()
	title := c.title
	c.mu.Unlock()

	if err != nil {
		logging.Debug("Progress", "%s ended with error: %v", title, err)
		return
	}
	logging.Debug("Progress", "%s done", title)
}

// ConsoleNotifier prints notifications as styled lines.
type ConsoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleNotifier writes notifications to out.
func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: out}
}

func (n *ConsoleNotifier) Notify(level Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.out, levelStyle(level).Render(level.String()+":")+" "+message)
}

func levelStyle(level Level) lipgloss.Style {
	switch level {
	case LevelError:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	case LevelWarning:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
	}
}
