package cmd

import (
	"bytes"
	"testing"

	"github.com/allbin/go-serialdevice/internal/tui/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial/enumerator"
)

var enumeratedPorts = []*enumerator.PortDetails{
	{Name: "/dev/ttyS0"},
	{Name: "/dev/ttyUSB0", IsUSB: true, VID: "0403", PID: "6001", SerialNumber: "FT123456", Product: "FT232R USB UART"},
	{Name: "/dev/ttyAMA0"},
	{Name: "COM7", IsUSB: true, VID: "2341", PID: "0043", SerialNumber: "85734"},
}

func TestPortRows(t *testing.T) {
	rows, err := portRows(enumeratedPorts, "")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, components.PortRow{Name: "/dev/ttyS0", Type: "Standard Serial"}, rows[0])
	assert.Equal(t, components.PortRow{
		Name:    "/dev/ttyUSB0",
		Type:    "USB Serial",
		USBID:   "0403:6001",
		Serial:  "FT123456",
		Product: "FT232R USB UART",
	}, rows[1])
	assert.Equal(t, "ARM Serial", rows[2].Type)
	assert.Equal(t, "USB Serial", rows[3].Type)
}

func TestPortRowsFilter(t *testing.T) {
	tests := []struct {
		filter   string
		expected []string
	}{
		{"all", []string{"/dev/ttyS0", "/dev/ttyUSB0", "/dev/ttyAMA0", "COM7"}},
		{"usb", []string{"/dev/ttyUSB0", "COM7"}},
		{"USB", []string{"/dev/ttyUSB0", "COM7"}},
		{"standard", []string{"/dev/ttyS0"}},
		{"arm", []string{"/dev/ttyAMA0"}},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			rows, err := portRows(enumeratedPorts, tt.filter)
			require.NoError(t, err)

			var names []string
			for _, row := range rows {
				names = append(names, row.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}

	_, err := portRows(enumeratedPorts, "bluetooth")
	assert.Error(t, err)
}

func TestRenderSimple(t *testing.T) {
	rows, err := portRows(enumeratedPorts[:2], "")
	require.NoError(t, err)

	var out bytes.Buffer
	renderSimple(&out, rows)
	assert.Equal(t, "/dev/ttyS0\n/dev/ttyUSB0\t0403:6001\n", out.String())
}
