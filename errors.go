package serial

import (
	"errors"
	"fmt"
	"io/fs"
)

// Error kinds. Every error returned by a Device carries exactly one of these
// and can be matched with errors.Is.
var (
	ErrDeviceOpen       = errors.New("cannot open serial device")
	ErrDeviceConfig     = errors.New("cannot configure serial device")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrSizeRange        = errors.New("size out of range")
	ErrRuntime          = errors.New("serial device query failed")
)

// Causes reported alongside a kind when the OS diagnostic identifies them.
var (
	ErrDeviceNotFound   = errors.New("serial device not found")
	ErrPermissionDenied = errors.New("permission denied accessing serial device")
	ErrDeviceInUse      = errors.New("serial device already in use")
	ErrInvalidBaudRate  = errors.New("invalid baud rate")
	ErrDeviceClosed     = errors.New("serial device is closed")
	ErrUnsupported      = errors.New("serial devices are not supported on this platform")
	errEnumOutOfRange   = errors.New("enum out of range")
)

// OpError records a failed operation on a serial device.
type OpError struct {
	Op     string // operation that failed, e.g. "open", "set state", "read"
	Device string // device name as passed to Open
	Kind   error  // one of ErrDeviceOpen, ErrDeviceConfig, ErrInvalidParameter, ErrSizeRange, ErrRuntime, ErrDeviceClosed
	Err    error  // underlying cause, usually the OS error
}

func (e *OpError) Error() string {
	msg := e.Op
	if e.Device != "" {
		msg += " " + e.Device
	}
	msg += ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func opError(op, device string, kind, err error) error {
	return &OpError{Op: op, Device: device, Kind: kind, Err: err}
}

// classifyOpenError tags an OS open failure with the cause it indicates.
// The OS error stays in the chain so its diagnostic text is preserved.
func classifyOpenError(err error) error {
	var cause error
	switch {
	case errors.Is(err, ErrUnsupported):
		return err
	case errors.Is(err, fs.ErrNotExist):
		cause = ErrDeviceNotFound
	case errors.Is(err, fs.ErrPermission):
		cause = ErrPermissionDenied
	case isDeviceBusy(err):
		cause = ErrDeviceInUse
	default:
		return err
	}
	return fmt.Errorf("%w: %w", cause, err)
}

// invalidParameter reports a rejected argument. The device name is filled
// in by Open when the error surfaces from an option.
func invalidParameter(op, format string, args ...any) error {
	return &OpError{Op: op, Kind: ErrInvalidParameter, Err: fmt.Errorf(format, args...)}
}
