package reporting

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"hlfnet/pkg/logging"
)

const (
	barWidth     = 40
	labelWidth   = 48
	maxLogLines  = 6
	cancelNotice = "Cancellation requested; the current step will finish first"
)

// Messages understood by progressModel.
type (
	progressMsg struct {
		percent int
		label   string
	}
	logMsg  logging.LogEntry
	doneMsg struct{ err error }
)

// progressModel renders a single lifecycle operation: title, spinner, bar,
// the current step label and the most recent log lines.
type progressModel struct {
	title     string
	label     string
	percent   int
	logs      []string
	bar       progress.Model
	spinner   spinner.Model
	cancel    context.CancelFunc
	cancelled bool
	done      bool
	err       error
}

func newProgressModel(title string, cancel context.CancelFunc) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = titleStyle
	return progressModel{
		title:   title,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth)),
		spinner: s,
		cancel:  cancel,
	}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			// Advisory: the orchestrator keeps going until the step finishes.
			if !m.cancelled && m.cancel != nil {
				m.cancel()
			}
			m.cancelled = true
		}
		return m, nil
	case progressMsg:
		m.percent = msg.percent
		if msg.label != "" {
			m.label = msg.label
		}
		return m, nil
	case logMsg:
		line := logging.LogEntry(msg).Message
		if msg.Err != nil {
			line += ": " + msg.Err.Error()
		}
		m.logs = append(m.logs, line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		return m, nil
	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	var head string
	switch {
	case m.done && m.err != nil:
		head = errorStyle.Render("✗ ") + titleStyle.Render(m.title)
	case m.done:
		head = doneStyle.Render("✓ ") + titleStyle.Render(m.title)
	default:
		head = m.spinner.View() + " " + titleStyle.Render(m.title)
	}

	view := head + "\n" + m.bar.ViewAs(float64(m.percent)/100) + "\n"
	if m.label != "" {
		view += labelStyle.Render(runewidth.Truncate(m.label, labelWidth, "…")) + "\n"
	}
	if m.cancelled && !m.done {
		view += warnStyle.Render(cancelNotice) + "\n"
	}
	for _, l := range m.logs {
		view += logStyle.Render(runewidth.Truncate(l, labelWidth+barWidth, "…")) + "\n"
	}
	return view
}

// TUIProgress renders progress with a bubbletea program for the duration of
// each Begin/End scope. Log output is routed into the view meanwhile.
type TUIProgress struct {
	mu      sync.Mutex
	out     io.Writer
	level   logging.LogLevel
	cancel  context.CancelFunc
	program *tea.Program
	done    chan struct{}
}

// NewTUIProgress renders to out. cancel is invoked when the user presses
// ctrl+c; it may be nil.
func NewTUIProgress(out io.Writer, level logging.LogLevel, cancel context.CancelFunc) *TUIProgress {
	if out == nil {
		out = os.Stderr
	}
	return &TUIProgress{out: out, level: level, cancel: cancel}
}

// Begin starts the progress view and routes log output into it. A second
// Begin while a view is running is ignored.
func (t *TUIProgress) Begin(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.program != nil {
		return
	}

	p := tea.NewProgram(newProgressModel(title, t.cancel), tea.WithOutput(t.out))
	logs := logging.InitForTUI(t.level)
	done := make(chan struct{})

	go func() {
		for entry := range logs {
			p.Send(logMsg(entry))
		}
	}()
	go func() {
		defer close(done)
		if _, err := p.Run(); err != nil {
			logging.LeaveTUI()
			logging.Error("Progress", err, "Progress view failed")
		}
	}()

	t.program = p
	t.done = done
}

// Report moves the bar to percent. An empty label keeps the previous one.
func (t *TUIProgress) Report(percent int, label string) {
	t.mu.Lock()
	p := t.program
	t.mu.Unlock()
	if p != nil {
		p.Send(progressMsg{percent: percent, label: label})
	}
}

// End shows the result, waits for the view to exit and restores CLI logging.
func (t *TUIProgress) End(err error) {
	t.mu.Lock()
	p, done := t.program, t.done
	t.program, t.done = nil, nil
	t.mu.Unlock()
	if p == nil {
		return
	}

	p.Send(doneMsg{err: err})
	<-done
	logging.LeaveTUI()
}
