package styles

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha palette
var (
	Base     = lipgloss.Color("#1e1e2e")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Surface2 = lipgloss.Color("#585b70")
	Subtext0 = lipgloss.Color("#a6adc8")
	Subtext1 = lipgloss.Color("#bac2de")
	Text     = lipgloss.Color("#cdd6f4")

	Blue   = lipgloss.Color("#89b4fa")
	Sky    = lipgloss.Color("#89dceb")
	Green  = lipgloss.Color("#a6e3a1")
	Yellow = lipgloss.Color("#f9e2af")
	Peach  = lipgloss.Color("#fab387")
	Red    = lipgloss.Color("#f38ba8")
	Mauve  = lipgloss.Color("#cba6f7")
)

var (
	// Header styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Mauve).
			Background(Surface0).
			Padding(0, 1)

	// Status styles
	StatusOpenStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	StatusClosedStyle = lipgloss.NewStyle().
				Foreground(Red).
				Bold(true)

	StatusPausedStyle = lipgloss.NewStyle().
				Foreground(Yellow).
				Bold(true)

	// Content area styles
	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(Surface1)

	// Error styles
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Red)

	// Info styles
	InfoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Mauve)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Green)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Subtext0)
)

type StatusType int

const (
	StatusOpen StatusType = iota
	StatusPaused
	StatusError
)

func GetStatusStyle(status StatusType) lipgloss.Style {
	switch status {
	case StatusOpen:
		return StatusOpenStyle
	case StatusPaused:
		return StatusPausedStyle
	default:
		return StatusClosedStyle
	}
}
