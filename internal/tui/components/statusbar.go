package components

import (
	"fmt"

	serial "github.com/allbin/go-serialdevice"
	"github.com/allbin/go-serialdevice/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

type StatusBar struct {
	device   string
	settings *serial.Settings
	status   styles.StatusType
	err      error
	width    int
}

func NewStatusBar(device string) *StatusBar {
	return &StatusBar{
		device: device,
		status: styles.StatusOpen,
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetSettings(settings serial.Settings) {
	sb.settings = &settings
}

func (sb *StatusBar) SetPaused(paused bool) {
	if sb.err != nil {
		return
	}
	if paused {
		sb.status = styles.StatusPaused
	} else {
		sb.status = styles.StatusOpen
	}
}

// SetError marks the device as failed; nil clears a previous failure.
func (sb *StatusBar) SetError(err error) {
	sb.err = err
	if err != nil {
		sb.status = styles.StatusError
	} else {
		sb.status = styles.StatusOpen
	}
}

func (sb *StatusBar) Err() error {
	return sb.err
}

func (sb *StatusBar) modeText() string {
	switch sb.status {
	case styles.StatusPaused:
		return "PAUSED"
	case styles.StatusError:
		return "ERROR"
	default:
		return "LIVE"
	}
}

// SettingsText renders the line settings the way the status bar shows them.
func SettingsText(s serial.Settings) string {
	return fmt.Sprintf("⚡ %s %s", s, s.FlowControl)
}

// View renders the bar across the full width with timestamp at the right.
func (sb *StatusBar) View(timestamp string) string {
	terminalWidth := sb.width
	if terminalWidth <= 0 {
		terminalWidth = 80
	}

	modeBackground := styles.Blue
	switch sb.status {
	case styles.StatusPaused:
		modeBackground = styles.Yellow
	case styles.StatusError:
		modeBackground = styles.Red
	}
	mode := lipgloss.NewStyle().
		Foreground(styles.Base).
		Background(modeBackground).
		Bold(true).
		Padding(0, 1).
		Render(sb.modeText())

	port := lipgloss.NewStyle().
		Foreground(styles.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(sb.device)

	indicator := "●"
	if sb.err != nil {
		indicator = "✗"
	}
	connectionIndicator := styles.GetStatusStyle(sb.status).Render(indicator)

	connInfo := "⚡ serial"
	if sb.settings != nil {
		connInfo = SettingsText(*sb.settings)
	}
	connectionDetails := lipgloss.NewStyle().
		Foreground(styles.Subtext0).
		Padding(0, 1).
		Render(connInfo)

	clock := lipgloss.NewStyle().
		Foreground(styles.Subtext1).
		Padding(0, 1).
		Render(timestamp)

	divider := lipgloss.NewStyle().
		Foreground(styles.Surface2).
		Padding(0, 1).
		Render("│")

	leftSide := lipgloss.JoinHorizontal(lipgloss.Left, mode, port, connectionIndicator, divider)
	rightSide := lipgloss.JoinHorizontal(lipgloss.Left, connectionDetails, divider, clock)

	spacerWidth := max(terminalWidth-lipgloss.Width(leftSide)-lipgloss.Width(rightSide), 1)
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	statusBarStyle := lipgloss.NewStyle().
		Foreground(styles.Text).
		Background(styles.Surface0).
		Width(terminalWidth)

	return statusBarStyle.Render(lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, rightSide))
}
