package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/allbin/go-serialdevice/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// Transfer is one completed read or write.
type Transfer struct {
	Timestamp time.Time
	Data      []byte
	IsTX      bool
	Requested int // bytes asked for; a read may return fewer
}

type DisplayMode struct {
	ShowHex   bool
	ShowASCII bool
}

type DataFormatter struct {
	mode DisplayMode
}

func NewDataFormatter(showHex, showASCII bool) *DataFormatter {
	return &DataFormatter{
		mode: DisplayMode{
			ShowHex:   showHex,
			ShowASCII: showASCII,
		},
	}
}

// Printable replaces every byte outside printable ASCII with a dot.
func Printable(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		if c >= 32 && c <= 126 {
			b.WriteByte(c)
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// FormatTransfer renders a single timestamped line for t.
func (df *DataFormatter) FormatTransfer(t Transfer) string {
	timestamp := t.Timestamp.Format("15:04:05.000")

	var indicator string
	if t.IsTX {
		indicator = lipgloss.NewStyle().
			Foreground(styles.Peach).
			Bold(true).
			Render("↗ TX")
	} else {
		indicator = lipgloss.NewStyle().
			Foreground(styles.Sky).
			Bold(true).
			Render("↙ RX")
	}

	var parts []string

	if df.mode.ShowHex {
		parts = append(parts, fmt.Sprintf("HEX: % X", t.Data))
	}

	if df.mode.ShowASCII {
		parts = append(parts, fmt.Sprintf("ASCII: %s", Printable(t.Data)))
	}

	if !df.mode.ShowHex && !df.mode.ShowASCII {
		parts = append(parts, fmt.Sprintf("BYTES: %d", len(t.Data)))
	}

	count := fmt.Sprintf("(%d bytes)", len(t.Data))
	if !t.IsTX && t.Requested > 0 && len(t.Data) < t.Requested {
		count = fmt.Sprintf("(%d of %d bytes)", len(t.Data), t.Requested)
	}

	timestampStyled := lipgloss.NewStyle().
		Foreground(styles.Subtext0).
		Render(fmt.Sprintf("[%s]", timestamp))

	return fmt.Sprintf("%s %s: %s %s", timestampStyled, indicator, strings.Join(parts, "  "),
		styles.MutedStyle.Render(count))
}

// Dump renders data as offset, hex and ASCII columns, width bytes per line.
func (df *DataFormatter) Dump(data []byte, width int) []string {
	if width <= 0 {
		width = 16
	}
	lines := make([]string, 0, (len(data)+width-1)/width)
	for off := 0; off < len(data); off += width {
		chunk := data[off:min(off+width, len(data))]

		var line strings.Builder
		fmt.Fprintf(&line, "%08x", off)
		if df.mode.ShowHex || !df.mode.ShowASCII {
			hex := fmt.Sprintf("% x", chunk)
			fmt.Fprintf(&line, "  %-*s", width*3-1, hex)
		}
		if df.mode.ShowASCII {
			fmt.Fprintf(&line, "  |%s|", Printable(chunk))
		}
		lines = append(lines, line.String())
	}
	return lines
}
