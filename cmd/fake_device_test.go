package cmd

import (
	"errors"
	"slices"

	serial "github.com/allbin/go-serialdevice"
)

// echoDevice loops writes back to reads, handing them out at most chunk
// bytes per read.
type echoDevice struct {
	pending   []byte
	chunk     int
	accept    int // bytes accepted per write, 0 for all
	sendErr   error
	readErr   error
	reads     int
	emptyRead int // reads returning nothing before the echo appears
}

func (d *echoDevice) SendBytes(data []byte) (int, error) {
	if d.sendErr != nil {
		return 0, d.sendErr
	}
	n := len(data)
	if d.accept > 0 && d.accept < n {
		n = d.accept
	}
	d.pending = append(d.pending, data[:n]...)
	return n, nil
}

func (d *echoDevice) ReadBytes(buf []byte, count int) ([]byte, error) {
	d.reads++
	if d.readErr != nil {
		return buf[:0], d.readErr
	}
	if d.emptyRead > 0 {
		d.emptyRead--
		return buf[:0], nil
	}
	n := min(count, len(d.pending))
	if d.chunk > 0 {
		n = min(n, d.chunk)
	}
	if n > cap(buf) {
		buf = slices.Grow(buf[:0], n)
	}
	buf = buf[:n]
	copy(buf, d.pending)
	d.pending = d.pending[n:]
	return buf, nil
}

// staticDevice answers the info queries from fixed values.
type staticDevice struct {
	name     string
	config   serial.Config
	settings serial.Settings
	queues   [4]int
	queueErr error
}

func (d *staticDevice) Name() string          { return d.name }
func (d *staticDevice) Config() serial.Config { return d.config }

func (d *staticDevice) Settings() (serial.Settings, error) {
	return d.settings, nil
}

func (d *staticDevice) ReceiveQueueCapacity() (int, error)  { return d.queues[0], d.queueErr }
func (d *staticDevice) TransmitQueueCapacity() (int, error) { return d.queues[1], nil }
func (d *staticDevice) ReceiveBacklog() (int, error)        { return d.queues[2], nil }
func (d *staticDevice) TransmitBacklog() (int, error)       { return d.queues[3], nil }

var errBrokenLine = errors.New("broken line")
