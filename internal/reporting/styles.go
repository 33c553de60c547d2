package reporting

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette shared by the console and TUI renderers.
var (
	ColorPrimary = lipgloss.AdaptiveColor{
		Light: "#5A56E0",
		Dark:  "#7571F9",
	}
	ColorSecondary = lipgloss.AdaptiveColor{
		Light: "#6B7280",
		Dark:  "#9CA3AF",
	}
	ColorSuccess = lipgloss.AdaptiveColor{
		Light: "#059669",
		Dark:  "#10B981",
	}
	ColorError = lipgloss.AdaptiveColor{
		Light: "#DC2626",
		Dark:  "#EF4444",
	}
	ColorWarning = lipgloss.AdaptiveColor{
		Light: "#D97706",
		Dark:  "#F59E0B",
	}
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	labelStyle = lipgloss.NewStyle().Foreground(ColorSecondary)
	logStyle   = lipgloss.NewStyle().Foreground(ColorSecondary).Faint(true)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	doneStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
	warnStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
)
