package components

import (
	"fmt"

	"github.com/allbin/go-serialdevice/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
)

const (
	columnKeyQueue    = "queue"
	columnKeyCapacity = "capacity"
	columnKeyBacklog  = "backlog"
	columnKeyFill     = "fill"
	columnKeyPeak     = "peak"
)

// QueueStats is one poll of a device's driver queues.
type QueueStats struct {
	RxCapacity int
	TxCapacity int
	RxBacklog  int
	TxBacklog  int
}

// QueueTable shows capacity, backlog and peak backlog of both queues.
type QueueTable struct {
	stats  QueueStats
	rxPeak int
	txPeak int
}

func NewQueueTable() *QueueTable {
	return &QueueTable{}
}

// Record stores a poll result and tracks the peak backlogs.
func (qt *QueueTable) Record(stats QueueStats) {
	qt.stats = stats
	qt.rxPeak = max(qt.rxPeak, stats.RxBacklog)
	qt.txPeak = max(qt.txPeak, stats.TxBacklog)
}

func (qt *QueueTable) ResetPeaks() {
	qt.rxPeak = qt.stats.RxBacklog
	qt.txPeak = qt.stats.TxBacklog
}

func (qt *QueueTable) Stats() QueueStats {
	return qt.stats
}

func (qt *QueueTable) Peaks() (rx, tx int) {
	return qt.rxPeak, qt.txPeak
}

// FillPercent returns backlog as a percentage of capacity, or 0 when the
// capacity is unknown.
func FillPercent(backlog, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return float64(backlog) * 100 / float64(capacity)
}

func fillStyle(percent float64) lipgloss.Style {
	switch {
	case percent >= 90:
		return lipgloss.NewStyle().Foreground(styles.Red).Bold(true)
	case percent >= 50:
		return lipgloss.NewStyle().Foreground(styles.Yellow)
	default:
		return lipgloss.NewStyle().Foreground(styles.Green)
	}
}

func (qt *QueueTable) row(name string, capacity, backlog, peak int) table.Row {
	fill := FillPercent(backlog, capacity)
	return table.NewRow(table.RowData{
		columnKeyQueue:    name,
		columnKeyCapacity: capacity,
		columnKeyBacklog:  backlog,
		columnKeyFill:     table.NewStyledCell(fmt.Sprintf("%5.1f%%", fill), fillStyle(fill)),
		columnKeyPeak:     peak,
	})
}

func (qt *QueueTable) Model() table.Model {
	columns := []table.Column{
		table.NewColumn(columnKeyQueue, "Queue", 10),
		table.NewColumn(columnKeyCapacity, "Capacity", 10).WithStyle(lipgloss.NewStyle().Align(lipgloss.Right)),
		table.NewColumn(columnKeyBacklog, "Backlog", 10).WithStyle(lipgloss.NewStyle().Align(lipgloss.Right)),
		table.NewColumn(columnKeyFill, "Fill", 8).WithStyle(lipgloss.NewStyle().Align(lipgloss.Right)),
		table.NewColumn(columnKeyPeak, "Peak", 10).WithStyle(lipgloss.NewStyle().Align(lipgloss.Right)),
	}

	rows := []table.Row{
		qt.row("Receive", qt.stats.RxCapacity, qt.stats.RxBacklog, qt.rxPeak),
		qt.row("Transmit", qt.stats.TxCapacity, qt.stats.TxBacklog, qt.txPeak),
	}

	return table.New(columns).
		WithRows(rows).
		HeaderStyle(lipgloss.NewStyle().Bold(true).Foreground(styles.Text)).
		WithBaseStyle(lipgloss.NewStyle().
			BorderForeground(styles.Surface2).
			Foreground(styles.Subtext1)).
		Focused(false)
}

func (qt *QueueTable) View() string {
	return qt.Model().View()
}
