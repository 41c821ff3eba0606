//go:build linux

package serial

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// openLoopback returns a pseudo-terminal whose master side echoes every byte
// back, so the slave behaves like a serial device with a loopback plug.
func openLoopback(t *testing.T) string {
	t.Helper()
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	go func() {
		buf := make([]byte, 256)
		for {
			n, err := master.Read(buf)
			if err != nil {
				return
			}
			if _, err := master.Write(buf[:n]); err != nil {
				return
			}
		}
	}()
	return slave.Name()
}

// openSilent returns a pseudo-terminal whose master never writes.
func openSilent(t *testing.T) string {
	t.Helper()
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })
	return slave.Name()
}

func TestLoopbackRoundTrip(t *testing.T) {
	name := openLoopback(t)

	d, err := Open(name, WithBaudRate(9600), WithDataBits(8), WithParity(ParityNone), WithStopBits(StopBitsOne))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	require.NoError(t, d.SetReceiveTimeout(time.Second))

	n, err := d.SendBytes([]byte{0x41, 0x42, 0x43})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Short reads are possible; collect until the three bytes are back.
	var got []byte
	buf := make([]byte, 0, 3)
	deadline := time.Now().Add(2 * time.Second)
	for len(got) < 3 && time.Now().Before(deadline) {
		chunk, err := d.ReadBytes(buf, 3-len(got))
		require.NoError(t, err)
		got = append(got, chunk...)
	}
	assert.Equal(t, []byte{0x41, 0x42, 0x43}, got)
}

func TestSettingsReadBack(t *testing.T) {
	name := openSilent(t)

	for _, rate := range []uint32{9600, 19200, 115200} {
		d, err := Open(name, WithBaudRate(rate))
		require.NoError(t, err)

		settings, err := d.Settings()
		require.NoError(t, err)
		assert.Equal(t, Settings{
			BaudRate:    rate,
			DataBits:    8,
			Parity:      ParityNone,
			StopBits:    StopBitsOne,
			FlowControl: FlowControlNone,
		}, settings)
		require.NoError(t, d.Close())
	}
}

func TestLineSettingsReadBack(t *testing.T) {
	name := openSilent(t)

	for _, flow := range []FlowControl{FlowControlNone, FlowControlSoftware, FlowControlHardware} {
		for _, stop := range []StopBits{StopBitsOne, StopBitsTwo} {
			t.Run(fmt.Sprintf("8N%s/%s", stop, flow), func(t *testing.T) {
				d, err := Open(name, WithBaudRate(38400), WithDataBits(8), WithParity(ParityNone),
					WithStopBits(stop), WithFlowControl(flow))
				require.NoError(t, err)
				defer d.Close()

				settings, err := d.Settings()
				require.NoError(t, err)
				assert.Equal(t, Settings{
					BaudRate:    38400,
					DataBits:    8,
					Parity:      ParityNone,
					StopBits:    stop,
					FlowControl: flow,
				}, settings)
			})
		}
	}
}

// A pty always forces CS8 and clears PARENB, so 7E1 never sticks.
func TestOpenRejectsSubstitutedSettings(t *testing.T) {
	name := openSilent(t)

	_, err := Open(name, WithDataBits(7), WithParity(ParityEven), WithStopBits(StopBitsOne))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeviceConfig)
	assert.Contains(t, err.Error(), "device applied")

	// The failed open released the device.
	d, err := Open(name)
	require.NoError(t, err)
	require.NoError(t, d.Close())
}

func TestOpenBusyDevice(t *testing.T) {
	dev := useFakeDevice(t)
	dev.openErr = &fs.PathError{Op: "open", Path: "/dev/ttyS3", Err: unix.EBUSY}

	_, err := Open("/dev/ttyS3")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeviceOpen)
	assert.ErrorIs(t, err, ErrDeviceInUse)
	assert.Contains(t, err.Error(), "device or resource busy")
}

func TestOpenIsExclusive(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("TIOCEXCL does not apply to root")
	}
	name := openSilent(t)

	d, err := Open(name)
	require.NoError(t, err)

	_, err = Open(name)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeviceOpen)
	assert.ErrorIs(t, err, ErrDeviceInUse)

	require.NoError(t, d.Close())
	d, err = Open(name)
	require.NoError(t, err)
	require.NoError(t, d.Close())
}

func TestReceiveTimeoutWithNoData(t *testing.T) {
	name := openSilent(t)

	d, err := Open(name)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	timeout := 200 * time.Millisecond
	require.NoError(t, d.SetReceiveTimeout(timeout))

	start := time.Now()
	got, err := d.ReadBytes(make([]byte, 0, 16), 16)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.GreaterOrEqual(t, elapsed, timeout-20*time.Millisecond)
	assert.Less(t, elapsed, timeout+time.Second)
}

func TestQueueIntrospectionOnTTY(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	d, err := Open(slave.Name())
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	rx, err := d.ReceiveQueueCapacity()
	require.NoError(t, err)
	assert.Equal(t, nTTYBufSize, rx)

	tx, err := d.TransmitQueueCapacity()
	require.NoError(t, err)
	assert.Equal(t, os.Getpagesize(), tx)

	_, err = master.Write([]byte("12345"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		n, err := d.ReceiveBacklog()
		return err == nil && n == 5
	}, time.Second, 10*time.Millisecond)

	_, err = d.TransmitBacklog()
	require.NoError(t, err)
}

func TestOpenNonExistentDevice(t *testing.T) {
	_, err := Open("/dev/nonexistent-serial-device")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeviceOpen)
	assert.ErrorIs(t, err, ErrDeviceNotFound)
	assert.Contains(t, err.Error(), "no such file or directory")
}

func TestOpenNonTTY(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-tty")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := Open(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeviceOpen)
}

func TestUnsupportedBaudRate(t *testing.T) {
	name := openSilent(t)

	_, err := Open(name, WithBaudRate(12345))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeviceConfig)
	assert.ErrorIs(t, err, ErrInvalidBaudRate)
}
