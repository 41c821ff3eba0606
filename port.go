package serial

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"go.uber.org/atomic"
)

// MaxTransferSize is the largest byte count a single read or write may request.
const MaxTransferSize = math.MaxUint32

var maxTransferSize uint64 = MaxTransferSize

// noCopy makes go vet's copylocks check flag copies of a Device.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Device is an open, configured serial device. It owns its OS handle until
// Close and must not be copied.
//
// A Device is not safe for concurrent use. Callers must serialize every
// method call, including Close, on a given Device.
type Device struct {
	noCopy noCopy

	h      handle
	config Config
	log    *slog.Logger
	closed atomic.Bool
}

// Open opens the named device exclusively and applies the line settings.
// An empty name selects DefaultConfig().Name.
//
// Errors carry ErrInvalidParameter for rejected options, ErrDeviceOpen when
// the OS refuses the device and ErrDeviceConfig when the line settings cannot
// be read or applied. The handle is released on every failure path.
func Open(name string, opts ...Option) (*Device, error) {
	config := DefaultConfig()
	if name != "" {
		config.Name = name
	}
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, withDevice(err, config.Name)
		}
	}

	cb, err := buildControlBlock(config)
	if err != nil {
		return nil, withDevice(err, config.Name)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("device", config.Name)

	h, err := openHandle(config.Name)
	if err != nil {
		return nil, opError("open", config.Name, ErrDeviceOpen, classifyOpenError(err))
	}

	d := &Device{h: h, config: config, log: logger}
	if err := d.configure(cb); err != nil {
		d.release()
		return nil, err
	}
	// Zero is applied too, replacing whatever timeouts the previous owner left.
	if err := d.SetReceiveTimeout(config.ReceiveTimeout); err != nil {
		d.release()
		return nil, err
	}

	logger.Debug("serial device opened", "settings", config.Settings().String(),
		"flow_control", config.FlowControl.String(), "receive_timeout", config.ReceiveTimeout)
	return d, nil
}

func withDevice(err error, name string) error {
	var oe *OpError
	if errors.As(err, &oe) && oe.Device == "" {
		oe.Device = name
	}
	return err
}

// configure overwrites the line settings of the current control block and
// reads them back, so a device that silently substitutes values is rejected.
func (d *Device) configure(want controlBlock) error {
	cur, err := d.h.state()
	if err != nil {
		return opError("get state", d.config.Name, ErrDeviceConfig, err)
	}
	d.log.Debug("current control block", "baud", cur.BaudRate, "data_bits", cur.ByteSize,
		"parity", cur.Parity, "stop_bits", cur.StopBits)

	cur.BaudRate = want.BaudRate
	cur.ByteSize = want.ByteSize
	cur.Parity = want.Parity
	cur.StopBits = want.StopBits
	cur.Flow = want.Flow
	if err := d.h.setState(cur); err != nil {
		return opError("set state", d.config.Name, ErrDeviceConfig, err)
	}

	got, err := d.h.state()
	if err != nil {
		return opError("get state", d.config.Name, ErrDeviceConfig, err)
	}
	if got != cur {
		return opError("set state", d.config.Name, ErrDeviceConfig,
			fmt.Errorf("device applied %+v, requested %+v", got, cur))
	}
	return nil
}

// release closes the handle. A close failure is logged and dropped so that
// releasing can never fail.
func (d *Device) release() {
	if err := d.h.close(); err != nil {
		d.log.Debug("ignoring close error", "error", err)
	}
}

// Close releases the device handle. Calling Close on a closed device returns
// ErrDeviceClosed; errors from the OS release itself are never reported.
func (d *Device) Close() error {
	if d.closed.Swap(true) {
		return opError("close", d.config.Name, ErrDeviceClosed, nil)
	}
	d.release()
	d.log.Debug("serial device closed")
	return nil
}

// Name returns the device name the Device was opened with.
func (d *Device) Name() string {
	return d.config.Name
}

// Config returns the configuration the Device was opened with, including the
// most recent receive timeout.
func (d *Device) Config() Config {
	return d.config
}

func (d *Device) checkOpen(op string) error {
	if d.closed.Load() {
		return opError(op, d.config.Name, ErrDeviceClosed, nil)
	}
	return nil
}

func (d *Device) checkTransferSize(op string, size int) error {
	if size < 0 || uint64(size) > maxTransferSize {
		return opError(op, d.config.Name, ErrSizeRange,
			fmt.Errorf("%d bytes exceeds the %d byte transfer limit", size, maxTransferSize))
	}
	return nil
}

// ReadBytes performs one read of up to count bytes into buf and returns
// buf[:n], where n is the number of bytes actually transferred.
//
// If count exceeds cap(buf) the buffer is grown first; it is never shrunk.
// The read blocks until count bytes arrive, the receive timeout elapses or
// the OS returns early, so n may be less than count. A timeout with no data
// is not an error and yields an empty slice.
func (d *Device) ReadBytes(buf []byte, count int) ([]byte, error) {
	if err := d.checkOpen("read"); err != nil {
		return buf, err
	}
	if err := d.checkTransferSize("read", len(buf)); err != nil {
		return buf, err
	}
	if err := d.checkTransferSize("read", count); err != nil {
		return buf, err
	}
	if count > cap(buf) {
		buf = slices.Grow(buf, count-len(buf))
	}

	n, err := d.h.read(buf[:count])
	if err != nil {
		return buf[:0], opError("read", d.config.Name, ErrRuntime, err)
	}
	return buf[:n], nil
}

// SendBytes writes data in one transfer and returns the number of bytes the
// OS accepted, which may be less than len(data). Nothing is retried.
func (d *Device) SendBytes(data []byte) (int, error) {
	if err := d.checkOpen("write"); err != nil {
		return 0, err
	}
	if err := d.checkTransferSize("write", len(data)); err != nil {
		return 0, err
	}

	n, err := d.h.write(data)
	if err != nil {
		return n, opError("write", d.config.Name, ErrRuntime, err)
	}
	return n, nil
}

// SetReceiveTimeout makes every subsequent read wait at most timeout in
// total, independent of the byte count. Zero restores reads that block until
// data arrives.
func (d *Device) SetReceiveTimeout(timeout time.Duration) error {
	if err := d.checkOpen("set timeouts"); err != nil {
		return err
	}
	ms, err := timeoutMillis(timeout)
	if err != nil {
		return withDevice(err, d.config.Name)
	}

	to, err := d.h.timeouts()
	if err != nil {
		return opError("get timeouts", d.config.Name, ErrRuntime, err)
	}
	to.ReadIntervalTimeout = 0
	to.ReadTotalTimeoutMultiplier = 0
	to.ReadTotalTimeoutConstant = ms
	if err := d.h.setTimeouts(to); err != nil {
		return opError("set timeouts", d.config.Name, ErrRuntime, err)
	}

	d.config.ReceiveTimeout = time.Duration(ms) * time.Millisecond
	d.log.Debug("receive timeout set", "timeout_ms", ms)
	return nil
}

// ReceiveQueueCapacity returns the driver's receive buffer size in bytes.
func (d *Device) ReceiveQueueCapacity() (int, error) {
	p, err := d.properties("receive queue capacity")
	return int(p.CurrentRxQueue), err
}

// TransmitQueueCapacity returns the driver's transmit buffer size in bytes.
func (d *Device) TransmitQueueCapacity() (int, error) {
	p, err := d.properties("transmit queue capacity")
	return int(p.CurrentTxQueue), err
}

// ReceiveBacklog returns the number of received bytes waiting to be read.
// The query clears any latched communication error on the device.
func (d *Device) ReceiveBacklog() (int, error) {
	s, err := d.status("receive backlog")
	return int(s.InQueue), err
}

// TransmitBacklog returns the number of bytes still queued for transmission.
// The query clears any latched communication error on the device.
func (d *Device) TransmitBacklog() (int, error) {
	s, err := d.status("transmit backlog")
	return int(s.OutQueue), err
}

func (d *Device) properties(op string) (commProperties, error) {
	if err := d.checkOpen(op); err != nil {
		return commProperties{}, err
	}
	p, err := d.h.properties()
	if err != nil {
		return commProperties{}, opError(op, d.config.Name, ErrRuntime, err)
	}
	return p, nil
}

func (d *Device) status(op string) (commStatus, error) {
	if err := d.checkOpen(op); err != nil {
		return commStatus{}, err
	}
	s, err := d.h.status()
	if err != nil {
		return commStatus{}, opError(op, d.config.Name, ErrRuntime, err)
	}
	if s.Errors != 0 {
		d.log.Debug("cleared communication errors", "errors", fmt.Sprintf("%#x", s.Errors))
	}
	return s, nil
}

// Settings reads the line settings currently applied to the device.
func (d *Device) Settings() (Settings, error) {
	if err := d.checkOpen("get state"); err != nil {
		return Settings{}, err
	}
	cb, err := d.h.state()
	if err != nil {
		return Settings{}, opError("get state", d.config.Name, ErrDeviceConfig, err)
	}
	s, err := cb.settings()
	if err != nil {
		return Settings{}, opError("get state", d.config.Name, ErrDeviceConfig, err)
	}
	return s, nil
}
