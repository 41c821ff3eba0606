package models

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	serial "github.com/allbin/go-serialdevice"
	"github.com/allbin/go-serialdevice/internal/tui/components"
	"github.com/allbin/go-serialdevice/internal/tui/keys"
	"github.com/allbin/go-serialdevice/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// QueueSource is the part of a serial device the monitor polls.
type QueueSource interface {
	ReceiveQueueCapacity() (int, error)
	TransmitQueueCapacity() (int, error)
	ReceiveBacklog() (int, error)
	TransmitBacklog() (int, error)
}

// PollMsg carries the result of one poll.
type PollMsg struct {
	Stats components.QueueStats
	Err   error
	At    time.Time

	gen    int
	manual bool
}

type tickMsg struct {
	gen int
}

// Poll queries all four queue figures. Every query is attempted; the errors
// are joined.
func Poll(src QueueSource) (components.QueueStats, error) {
	var stats components.QueueStats
	var errs []error
	collect := func(dst *int, query func() (int, error)) {
		n, err := query()
		if err != nil {
			errs = append(errs, err)
			return
		}
		*dst = n
	}
	collect(&stats.RxCapacity, src.ReceiveQueueCapacity)
	collect(&stats.TxCapacity, src.TransmitQueueCapacity)
	collect(&stats.RxBacklog, src.ReceiveBacklog)
	collect(&stats.TxBacklog, src.TransmitBacklog)
	return stats, errors.Join(errs...)
}

// MonitorModel is a live view of a device's driver queues.
type MonitorModel struct {
	src      QueueSource
	mu       *sync.Mutex // serializes polls
	device   string
	interval time.Duration

	table     *components.QueueTable
	statusBar *components.StatusBar
	help      help.Model
	keys      keys.MonitorKeys

	gen      int
	paused   bool
	polls    int
	lastPoll time.Time
	width    int
}

func NewMonitorModel(src QueueSource, device string, settings serial.Settings, interval time.Duration) *MonitorModel {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	m := &MonitorModel{
		src:       src,
		mu:        &sync.Mutex{},
		device:    device,
		interval:  interval,
		table:     components.NewQueueTable(),
		statusBar: components.NewStatusBar(device),
		help:      help.New(),
		keys:      keys.NewMonitorKeys(),
	}
	m.statusBar.SetSettings(settings)
	return m
}

func (m *MonitorModel) poll(manual bool) tea.Cmd {
	gen := m.gen
	return func() tea.Msg {
		m.mu.Lock()
		defer m.mu.Unlock()
		stats, err := Poll(m.src)
		return PollMsg{Stats: stats, Err: err, At: time.Now(), gen: gen, manual: manual}
	}
}

// Close closes c once no poll is running. Polls started after Close find
// the device closed and report it as an error.
func (m *MonitorModel) Close(c io.Closer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return c.Close()
}

func (m *MonitorModel) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func (m *MonitorModel) Init() tea.Cmd {
	return m.poll(false)
}

func (m *MonitorModel) Paused() bool {
	return m.paused
}

func (m *MonitorModel) Polls() int {
	return m.polls
}

func (m *MonitorModel) Table() *components.QueueTable {
	return m.table
}

func (m *MonitorModel) Err() error {
	return m.statusBar.Err()
}

func (m *MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.statusBar.SetWidth(msg.Width)
		m.help.Width = msg.Width

	case PollMsg:
		m.polls++
		m.lastPoll = msg.At
		m.statusBar.SetError(msg.Err)
		if msg.Err == nil {
			m.table.Record(msg.Stats)
		}
		if msg.manual || msg.gen != m.gen || m.paused {
			return m, nil
		}
		return m, m.tick()

	case tickMsg:
		if msg.gen != m.gen || m.paused {
			return m, nil
		}
		return m, m.poll(false)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll

		case key.Matches(msg, m.keys.Pause):
			// A new generation orphans ticks scheduled before the toggle.
			m.gen++
			m.paused = !m.paused
			m.statusBar.SetPaused(m.paused)
			if !m.paused {
				return m, m.poll(false)
			}

		case key.Matches(msg, m.keys.Refresh):
			return m, m.poll(true)

		case key.Matches(msg, m.keys.Reset):
			m.table.ResetPeaks()
		}
	}
	return m, nil
}

func (m *MonitorModel) View() string {
	title := styles.TitleStyle.Render("Queue monitor")

	var details string
	if m.lastPoll.IsZero() {
		details = styles.MutedStyle.Render("waiting for first poll...")
	} else {
		details = styles.MutedStyle.Render(fmt.Sprintf("every %v, %d polls, last %s",
			m.interval, m.polls, m.lastPoll.Format("15:04:05.000")))
	}

	content := m.table.View()
	if err := m.statusBar.Err(); err != nil {
		content = lipgloss.JoinVertical(lipgloss.Left, content, styles.ErrorStyle.Render(err.Error()))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Left, title, " ", details),
		styles.ContentBorderStyle.Render(content),
		m.help.View(m.keys),
		m.statusBar.View(time.Now().Format("15:04:05")),
	)
}
