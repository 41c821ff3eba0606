package serial

import (
	"log/slog"
	"math"
	"time"
)

// Config holds the configuration for a serial device
type Config struct {
	Name           string
	BaudRate       uint32
	Parity         Parity
	StopBits       StopBits
	FlowControl    FlowControl
	DataBits       uint8
	ReceiveTimeout time.Duration // 0 blocks reads until data arrives
	Logger         *slog.Logger
}

// Option is a functional option for configuring a serial device
type Option func(*Config) error

// DefaultConfig returns 9600 8N1 without flow control on the platform's
// first serial device.
func DefaultConfig() Config {
	return Config{
		Name:        defaultDeviceName,
		BaudRate:    9600,
		Parity:      ParityNone,
		StopBits:    StopBitsOne,
		FlowControl: FlowControlNone,
		DataBits:    8,
	}
}

// Settings returns the line settings requested by the configuration.
func (c Config) Settings() Settings {
	return Settings{
		BaudRate:    c.BaudRate,
		DataBits:    c.DataBits,
		Parity:      c.Parity,
		StopBits:    c.StopBits,
		FlowControl: c.FlowControl,
	}
}

// WithBaudRate sets the baud rate. Whether the hardware supports it is only
// known once the device is configured.
func WithBaudRate(rate uint32) Option {
	return func(c *Config) error {
		if rate == 0 {
			return invalidParameter("baud rate", "baud rate must be positive")
		}
		c.BaudRate = rate
		return nil
	}
}

// WithDataBits sets the number of data bits (5, 6, 7, or 8)
func WithDataBits(bits uint8) Option {
	return func(c *Config) error {
		if bits < 5 || bits > 8 {
			return invalidParameter("data bits", "data bits %d outside 5-8", bits)
		}
		c.DataBits = bits
		return nil
	}
}

// WithParity sets the parity mode
func WithParity(parity Parity) Option {
	return func(c *Config) error {
		if _, err := parityCode(parity); err != nil {
			return err
		}
		c.Parity = parity
		return nil
	}
}

// WithStopBits sets the number of stop bits
func WithStopBits(bits StopBits) Option {
	return func(c *Config) error {
		if _, err := stopBitsCode(bits); err != nil {
			return err
		}
		c.StopBits = bits
		return nil
	}
}

// WithFlowControl sets the handshake mode
func WithFlowControl(fc FlowControl) Option {
	return func(c *Config) error {
		if _, err := flowControlFlags(fc); err != nil {
			return err
		}
		c.FlowControl = fc
		return nil
	}
}

// WithReceiveTimeout bounds every read to the given total duration.
func WithReceiveTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if _, err := timeoutMillis(timeout); err != nil {
			return err
		}
		c.ReceiveTimeout = timeout
		return nil
	}
}

// WithLogger routes debug records about the device lifecycle to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// timeoutMillis converts a receive timeout to whole milliseconds. Positive
// durations below one millisecond round up so they never mean "no timeout".
func timeoutMillis(timeout time.Duration) (uint32, error) {
	if timeout < 0 {
		return 0, invalidParameter("receive timeout", "negative timeout %v", timeout)
	}
	ms := timeout.Milliseconds()
	if ms == 0 && timeout > 0 {
		ms = 1
	}
	if ms >= math.MaxUint32 {
		return 0, invalidParameter("receive timeout", "timeout %v exceeds %d ms", timeout, uint32(math.MaxUint32-1))
	}
	return uint32(ms), nil
}
