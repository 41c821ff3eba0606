package components

import (
	"github.com/allbin/go-serialdevice/internal/tui/styles"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// PortRow describes one enumerated serial port.
type PortRow struct {
	Name    string
	Type    string
	USBID   string // VID:PID, empty for non-USB ports
	Serial  string
	Product string
}

// PortTable is a static table of enumerated ports.
type PortTable struct {
	table table.Model
}

func NewPortTable(ports []PortRow, width int) *PortTable {
	if width < 80 {
		width = 80
	}

	nameWidth := 16
	typeWidth := 16
	idWidth := 10
	serialWidth := 14
	productWidth := max(width-nameWidth-typeWidth-idWidth-serialWidth-10, 12)

	columns := []table.Column{
		{Title: "Port", Width: nameWidth},
		{Title: "Type", Width: typeWidth},
		{Title: "VID:PID", Width: idWidth},
		{Title: "Serial", Width: serialWidth},
		{Title: "Product", Width: productWidth},
	}

	rows := make([]table.Row, len(ports))
	for i, p := range ports {
		rows[i] = table.Row{p.Name, p.Type, p.USBID, p.Serial, p.Product}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+2), // header plus its bottom border
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Subtext0).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Text)
	// Unfocused, so no row should look selected.
	s.Selected = s.Cell
	t.SetStyles(s)

	return &PortTable{table: t}
}

func (pt *PortTable) Rows() []table.Row {
	return pt.table.Rows()
}

func (pt *PortTable) View() string {
	return pt.table.View()
}
